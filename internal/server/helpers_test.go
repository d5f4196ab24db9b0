package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/oneclickresume/internal/builder"
	"github.com/jonathan/oneclickresume/internal/config"
	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/types"
)

// fakeUsers is an in-memory UserStore.
type fakeUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeUsers) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return uuid.Nil, db.ErrEmailTaken
		}
	}
	now := time.Now().UTC()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, PasswordSet: true, CreatedAt: now, UpdatedAt: now}
	f.users[u.ID] = u
	return u.ID, nil
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := f.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil
	}
	u.PasswordHash = passwordHash
	return nil
}

// fakeResumes is an in-memory ResumeStore with the same slug uniqueness
// rule as the resumes table.
type fakeResumes struct {
	mu      sync.Mutex
	resumes map[uuid.UUID]*db.Resume
	err     error

	// beforeWrite runs ahead of UpdateResume, standing in for a concurrent
	// request that changes the table in between.
	beforeWrite func(id uuid.UUID)
}

func newFakeResumes() *fakeResumes {
	return &fakeResumes{resumes: make(map[uuid.UUID]*db.Resume)}
}

func (f *fakeResumes) CreateResume(_ context.Context, userID uuid.UUID, title string, data types.ResumeData, template string) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return uuid.Nil, f.err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return uuid.Nil, err
	}
	now := time.Now().UTC()
	r := &db.Resume{ID: uuid.New(), UserID: userID, Title: title, Data: payload, Template: template, CreatedAt: now, UpdatedAt: now}
	f.resumes[r.ID] = r
	return r.ID, nil
}

func (f *fakeResumes) ListResumes(_ context.Context, userID uuid.UUID) ([]db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []db.Resume
	for _, r := range f.resumes {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeResumes) GetResume(_ context.Context, id uuid.UUID) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.resumes[id]
	if !ok {
		return nil, nil
	}
	out := *r
	return &out, nil
}

func (f *fakeResumes) GetPublicResumeBySlug(_ context.Context, slug string) (*db.Resume, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.resumes {
		if r.Slug != nil && *r.Slug == slug && r.IsPublic {
			out := *r
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeResumes) UpdateResume(_ context.Context, id uuid.UUID, patch db.ResumePatch) error {
	if f.beforeWrite != nil {
		f.beforeWrite(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	r, ok := f.resumes[id]
	if !ok {
		return db.ErrResumeNotFound
	}
	if patch.Slug != nil {
		for other, o := range f.resumes {
			if other != id && o.Slug != nil && *o.Slug == *patch.Slug {
				return db.ErrSlugTaken
			}
		}
		slug := *patch.Slug
		r.Slug = &slug
	}
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Template != nil {
		r.Template = *patch.Template
	}
	if patch.IsPublic != nil {
		r.IsPublic = *patch.IsPublic
	}
	if patch.Data != nil {
		payload, err := json.Marshal(patch.Data)
		if err != nil {
			return err
		}
		r.Data = payload
	}
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeResumes) DeleteResume(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.resumes[id]; !ok {
		return db.ErrResumeNotFound
	}
	delete(f.resumes, id)
	return nil
}

func (f *fakeResumes) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resumes)
}

func (f *fakeResumes) get(id uuid.UUID) *db.Resume {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resumes[id]
}

// fakeRasterizer returns a fixed image instead of driving a browser.
type fakeRasterizer struct {
	err   error
	calls int
}

func (f *fakeRasterizer) Rasterize(_ context.Context, _ rendering.Handle, scale float64) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	img := image.NewRGBA(image.Rect(0, 0, int(200*scale), int(280*scale)))
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.Set(x, y, color.White)
		}
	}
	return img, nil
}

type fakeLLM struct {
	out   string
	err   error
	calls int
}

func (f *fakeLLM) Complete(context.Context, string, string) (string, error) {
	f.calls++
	return f.out, f.err
}

func (f *fakeLLM) Model() string { return "fake" }
func (f *fakeLLM) Close() error  { return nil }

// flakySessions wraps the memory store so Put can be made to fail.
type flakySessions struct {
	*builder.MemoryStore
	putErr error
}

func (f *flakySessions) Put(ctx context.Context, s *builder.Session) error {
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStore.Put(ctx, s)
}

type testEnv struct {
	server     *Server
	handler    http.Handler
	users      *fakeUsers
	resumes    *fakeResumes
	sessions   *builder.MemoryStore
	flaky      *flakySessions
	rasterizer *fakeRasterizer
	llm        *fakeLLM
}

type envOption func(*Deps)

func withoutLLM() envOption {
	return func(d *Deps) { d.LLM = nil }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()
	env := &testEnv{
		users:      newFakeUsers(),
		resumes:    newFakeResumes(),
		sessions:   builder.NewMemoryStore(),
		rasterizer: &fakeRasterizer{},
		llm:        &fakeLLM{out: "Generated text"},
	}
	env.flaky = &flakySessions{MemoryStore: env.sessions}
	deps := Deps{
		Users:      env.users,
		Resumes:    env.resumes,
		Sessions:   env.flaky,
		Passwords:  &config.PasswordConfig{BcryptCost: 10},
		JWT:        &config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpirationHours: 1, Issuer: "oneclickresume"},
		Rasterizer: env.rasterizer,
		LLM:        env.llm,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	if deps.LLM == nil {
		env.llm = nil
	}

	s, err := NewWithDeps(0, deps)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	env.server = s
	env.handler = s.Handler()
	return env
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// signUp registers a fresh account and returns its token and id.
func (e *testEnv) signUp(t *testing.T, email string) (string, uuid.UUID) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email": email, "password": "password123", "name": "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp types.SessionResponse
	decodeBody(t, rec, &resp)
	return resp.Token, resp.User.ID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst), rec.Body.String())
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	msg, _ := body["error"].(string)
	return msg
}
