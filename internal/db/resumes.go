package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jonathan/oneclickresume/internal/types"
)

// ErrSlugTaken is returned when a publish would reuse another record's slug.
var ErrSlugTaken = errors.New("slug already in use")

// ErrResumeNotFound is returned when an update or delete matches no row.
var ErrResumeNotFound = errors.New("resume not found")

// Resume is a resumes row. Data holds the raw resume_data payload; callers
// decode it through the schemas package so legacy shapes are normalized.
type Resume struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Data      json.RawMessage
	Template  string
	IsPublic  bool
	Slug      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResumePatch lists the columns UpdateResume writes. Nil members are left alone.
type ResumePatch struct {
	Title    *string
	Data     *types.ResumeData
	Template *string
	IsPublic *bool
	Slug     *string
}

// Empty reports whether the patch changes nothing.
func (p ResumePatch) Empty() bool {
	return p.Title == nil && p.Data == nil && p.Template == nil && p.IsPublic == nil && p.Slug == nil
}

const resumeColumns = `id, user_id, title, resume_data, template, is_public, slug, created_at, updated_at`

func scanResume(row pgx.Row) (*Resume, error) {
	var r Resume
	var data []byte
	err := row.Scan(&r.ID, &r.UserID, &r.Title, &data, &r.Template, &r.IsPublic, &r.Slug, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	r.Data = data
	return &r, nil
}

// CreateResume inserts a record and returns its id.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, data types.ResumeData, template string) (uuid.UUID, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal resume data: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, resume_data, template)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		userID, title, payload, template,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, nil
}

// ListResumes returns a user's records, most recently updated first.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]Resume, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = $1 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var out []Resume
	for rows.Next() {
		r, err := scanResume(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return out, nil
}

// GetResume returns the record with id, or nil when absent.
func (db *DB) GetResume(ctx context.Context, id uuid.UUID) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return r, nil
}

// GetPublicResumeBySlug returns the published record with slug, or nil.
func (db *DB) GetPublicResumeBySlug(ctx context.Context, slug string) (*Resume, error) {
	r, err := scanResume(db.pool.QueryRow(ctx,
		`SELECT `+resumeColumns+` FROM resumes WHERE slug = $1 AND is_public`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get public resume: %w", err)
	}
	return r, nil
}

// UpdateResume writes the non-nil members of patch. Concurrent updates of
// the same record are applied in arrival order; the last one wins.
func (db *DB) UpdateResume(ctx context.Context, id uuid.UUID, patch ResumePatch) error {
	if patch.Empty() {
		return nil
	}
	query, args, err := buildResumeUpdate(id, patch)
	if err != nil {
		return err
	}

	tag, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrSlugTaken
		}
		return fmt.Errorf("failed to update resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update resume %s: %w", id, ErrResumeNotFound)
	}
	return nil
}

func buildResumeUpdate(id uuid.UUID, patch ResumePatch) (string, []any, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Data != nil {
		payload, err := json.Marshal(patch.Data)
		if err != nil {
			return "", nil, fmt.Errorf("failed to marshal resume data: %w", err)
		}
		add("resume_data", payload)
	}
	if patch.Template != nil {
		add("template", *patch.Template)
	}
	if patch.IsPublic != nil {
		add("is_public", *patch.IsPublic)
	}
	if patch.Slug != nil {
		add("slug", *patch.Slug)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE resumes SET %s, updated_at = NOW() WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	return query, args, nil
}

// DeleteResume removes a record.
func (db *DB) DeleteResume(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete resume %s: %w", id, ErrResumeNotFound)
	}
	return nil
}
