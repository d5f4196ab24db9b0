package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/types"
)

// UserStore is the subset of *db.DB the auth endpoints use.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// ResumeStore is the subset of *db.DB the resume, session and portfolio
// endpoints use.
type ResumeStore interface {
	CreateResume(ctx context.Context, userID uuid.UUID, title string, data types.ResumeData, template string) (uuid.UUID, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	GetPublicResumeBySlug(ctx context.Context, slug string) (*db.Resume, error)
	UpdateResume(ctx context.Context, id uuid.UUID, patch db.ResumePatch) error
	DeleteResume(ctx context.Context, id uuid.UUID) error
}

var (
	_ UserStore   = (*db.DB)(nil)
	_ ResumeStore = (*db.DB)(nil)
)
