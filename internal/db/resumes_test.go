package db

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/oneclickresume/internal/types"
)

func TestBuildResumeUpdate(t *testing.T) {
	id := uuid.New()
	title := "New"
	public := true

	query, args, err := buildResumeUpdate(id, ResumePatch{Title: &title, IsPublic: &public})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE resumes SET title = $1, is_public = $2, updated_at = NOW() WHERE id = $3`, query)
	assert.Equal(t, []any{"New", true, id}, args)
}

func TestBuildResumeUpdate_AllColumns(t *testing.T) {
	id := uuid.New()
	title, tmpl, slug := "T", "modern", "alex-morgan-abc"
	public := false
	data := types.SampleResume()

	query, args, err := buildResumeUpdate(id, ResumePatch{Title: &title, Data: &data, Template: &tmpl, IsPublic: &public, Slug: &slug})
	require.NoError(t, err)
	assert.Contains(t, query, "resume_data = $2")
	assert.Contains(t, query, "slug = $5")
	assert.Contains(t, query, "WHERE id = $6")
	require.Len(t, args, 6)

	var decoded types.ResumeData
	require.NoError(t, json.Unmarshal(args[1].([]byte), &decoded))
	assert.Equal(t, data, decoded)
}

func TestResumePatch_Empty(t *testing.T) {
	assert.True(t, ResumePatch{}.Empty())
	title := "x"
	assert.False(t, ResumePatch{Title: &title}.Empty())
}

func TestUser_Public(t *testing.T) {
	u := &User{ID: uuid.New(), Name: "Jo", Email: "jo@example.com", PasswordHash: "secret"}
	pub := u.Public()
	assert.Equal(t, u.ID, pub.ID)
	assert.Equal(t, "jo@example.com", pub.Email)

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
}

func TestSchema_Embedded(t *testing.T) {
	assert.Contains(t, Schema(), "CREATE TABLE IF NOT EXISTS resumes")
	assert.Contains(t, Schema(), "slug        TEXT UNIQUE")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jo@example.com", normalizeEmail("  Jo@Example.COM "))
}
