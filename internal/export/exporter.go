package export

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/types"
)

// Scale is the device scale factor used for every capture.
const Scale = 2

// DefaultFileName is used when the hint is empty.
const DefaultFileName = "resume.pdf"

// Exporter runs the capture pipeline: rasterize, build the PDF, save.
type Exporter struct {
	Rasterizer Rasterizer
	// Archive, when set, receives a copy of every exported PDF after the
	// primary save succeeded. Archive failures are logged, not returned.
	Archive Saver
}

// NewExporter creates an Exporter.
func NewExporter(r Rasterizer, archive Saver) *Exporter {
	return &Exporter{Rasterizer: r, Archive: archive}
}

// ArchiveUnder returns a copy of e whose S3 archive files PDFs below prefix.
// Other archives are kept as they are.
func (e *Exporter) ArchiveUnder(prefix string) *Exporter {
	out := *e
	switch a := e.Archive.(type) {
	case S3Saver:
		out.Archive = a.WithPrefix(prefix)
	case *S3Saver:
		out.Archive = a.WithPrefix(prefix)
	}
	return &out
}

// Render captures the document behind h and returns the PDF bytes.
func (e *Exporter) Render(ctx context.Context, h rendering.Handle) ([]byte, error) {
	if !h.Attached() {
		return nil, &RenderTargetUnavailableError{HandleID: h.ID(), Reason: "handle is not attached"}
	}

	img, err := e.Rasterizer.Rasterize(ctx, h, Scale)
	if err != nil {
		return nil, err
	}
	if img == nil || img.Bounds().Empty() {
		return nil, &RenderTargetUnavailableError{HandleID: h.ID(), Reason: "rasterization produced no content"}
	}

	return BuildPDF(img)
}

// ExportToPDF captures the document behind h and hands the PDF to saver
// under a name derived from fileNameHint. Nothing is saved unless a complete
// PDF was produced.
func (e *Exporter) ExportToPDF(ctx context.Context, h rendering.Handle, fileNameHint string, saver Saver) error {
	outcome := "error"
	defer func() { exportsTotal.WithLabelValues(string(h.Template()), outcome).Inc() }()

	data, err := e.Render(ctx, h)
	if err != nil {
		if errors.Is(err, ErrRenderTargetUnavailable) {
			outcome = "unavailable"
		}
		return err
	}

	name := FileName(fileNameHint)
	if err := saver.Save(ctx, name, data); err != nil {
		return types.NewCollaboratorError("storage", "could not save the exported PDF", err)
	}
	outcome = "ok"

	if e.Archive != nil {
		if err := e.Archive.Save(ctx, name, data); err != nil {
			log.Printf("[export] Warning: failed to archive %s: %v", name, err)
		}
	}
	return nil
}

var unsafeFileChars = regexp.MustCompile(`[^\p{L}\p{N} ._()-]+`)

// FileName turns a user-supplied hint, usually the resume owner's name, into
// a safe PDF file name.
func FileName(hint string) string {
	name := strings.TrimSpace(hint)
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	name = unsafeFileChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, " ._")
	if name == "" {
		return DefaultFileName
	}
	return name + ".pdf"
}
