package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "REDIS_URL", "CHROME_PATH", "EXPORT_S3_BUCKET", "EXPORT_S3_PREFIX"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"template": "modern",
		"out_dir": "out",
		"port": 9000,
		"database_url": "postgres://localhost/oneclick",
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "modern", cfg.Template)
	assert.Equal(t, "out", cfg.OutDir)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://localhost/oneclick", cfg.DatabaseURL)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty config", cfg: Config{}},
		{name: "known template", cfg: Config{Template: "creative", Port: 8080}},
		{name: "unknown template", cfg: Config{Template: "fancy"}, wantErr: "unknown template"},
		{name: "negative port", cfg: Config{Port: -1}, wantErr: "port"},
		{name: "port too large", cfg: Config{Port: 70000}, wantErr: "port"},
		{name: "missing input", cfg: Config{Input: "/nonexistent/resume.json"}, wantErr: "input file not found"},
		{name: "prefix without bucket", cfg: Config{ExportPrefix: "exports/"}, wantErr: "export_bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Template: "minimal"}
	defaults := Config{
		Template:    "classic",
		OutDir:      "dist",
		Port:        8080,
		DatabaseURL: "postgres://default",
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "minimal", merged.Template, "explicit value wins")
	assert.Equal(t, "dist", merged.OutDir)
	assert.Equal(t, 8080, merged.Port)
	assert.Equal(t, "postgres://default", merged.DatabaseURL)
	assert.Equal(t, "minimal", cfg.Template, "receiver unchanged")
	assert.Empty(t, cfg.OutDir, "receiver unchanged")
}

func TestFromEnv(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("EXPORT_S3_BUCKET", "exports")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "exports", cfg.ExportBucket)

	t.Setenv("PORT", "eighty")
	_, err = FromEnv()
	assert.ErrorContains(t, err, "invalid PORT")
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("DATABASE_URL", "postgres://env")
	path := writeConfig(t, `{"database_url": "postgres://file", "template": "modern", "verbose": true}`)

	cfg, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "modern", cfg.Template)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestResolve_NoFile(t *testing.T) {
	clearServerEnv(t)

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestResolve_InvalidFile(t *testing.T) {
	clearServerEnv(t)

	_, err := Resolve(writeConfig(t, `{"template": "fancy"}`))
	assert.Error(t, err)
}
