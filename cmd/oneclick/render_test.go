package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/oneclickresume/internal/types"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "CHROME_PATH", "EXPORT_S3_BUCKET", "EXPORT_S3_PREFIX"} {
		t.Setenv(key, "")
	}
}

func writeResume(t *testing.T, data types.ResumeData) string {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	return path
}

func TestSampleCommand(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, "sample")
	require.NoError(t, err)

	var data types.ResumeData
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	assert.Equal(t, types.SampleResume(), data)
}

func TestRenderCommand_SampleToStdout(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, "render", "--template", "modern")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#resume-modern").Length())
	assert.Contains(t, doc.Find("title").Text(), types.SampleResume().Name)
}

func TestRenderCommand_InputFile(t *testing.T) {
	clearEnv(t)
	data := types.EmptyResume()
	data.Name = "Sam Rivera"
	data.Title = "Data Engineer"
	input := writeResume(t, data)
	outPath := filepath.Join(t.TempDir(), "out", "sam.html")

	out, err := execute(t, "render", "--input", input, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+outPath)

	html, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Sam Rivera")
	assert.Contains(t, string(html), `id="resume-classic"`)
}

func TestRenderCommand_LaTeX(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, "render", "--format", "latex", "--template", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, `\documentclass`)
	assert.Contains(t, out, `\end{document}`)
}

func TestRenderCommand_Errors(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "render", "--template", "fancy")
	assert.Error(t, err)

	_, err = execute(t, "render", "--format", "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = execute(t, "render", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestServeCommand_RequiresDatabase(t *testing.T) {
	clearEnv(t)

	_, err := execute(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
