package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Saver delivers a finished PDF.
type Saver interface {
	Save(ctx context.Context, name string, data []byte) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, name string, data []byte) error

func (f SaverFunc) Save(ctx context.Context, name string, data []byte) error {
	return f(ctx, name, data)
}

// FileSaver writes PDFs into Dir, creating it when needed.
type FileSaver struct {
	Dir string
}

func (s FileSaver) Save(_ context.Context, name string, data []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	target := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// WriterSaver copies PDFs to W, e.g. stdout.
type WriterSaver struct {
	W io.Writer
}

func (s WriterSaver) Save(_ context.Context, _ string, data []byte) error {
	_, err := io.Copy(s.W, bytes.NewReader(data))
	return err
}

// HTTPSaver sends PDFs as a download response.
type HTTPSaver struct {
	W http.ResponseWriter
}

func (s HTTPSaver) Save(_ context.Context, name string, data []byte) error {
	s.W.Header().Set("Content-Type", "application/pdf")
	s.W.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	s.W.Header().Set("Content-Length", strconv.Itoa(len(data)))
	s.W.WriteHeader(http.StatusOK)
	_, err := s.W.Write(data)
	return err
}

// S3PutAPI is the subset of the S3 client S3Saver needs.
type S3PutAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Saver archives PDFs in an S3 bucket under Prefix.
type S3Saver struct {
	Client S3PutAPI
	Bucket string
	Prefix string
}

// NewS3Saver builds an S3Saver from the default AWS credential chain.
func NewS3Saver(ctx context.Context, bucket, prefix string) (*S3Saver, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &S3Saver{Client: s3.NewFromConfig(cfg), Bucket: bucket, Prefix: prefix}, nil
}

// WithPrefix returns a copy of s that stores under prefix below s.Prefix.
func (s S3Saver) WithPrefix(prefix string) S3Saver {
	s.Prefix = path.Join(s.Prefix, prefix)
	return s
}

func (s S3Saver) Save(ctx context.Context, name string, data []byte) error {
	key := path.Join(s.Prefix, name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return fmt.Errorf("failed to put s3://%s/%s: %w", s.Bucket, key, err)
	}
	return nil
}
