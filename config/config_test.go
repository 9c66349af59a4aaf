package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Setenv("LR_DEBUG", "")
	t.Setenv("LR_PORT", "")
	t.Setenv("LR_LOG_LEVEL", "")
	t.Setenv("LR_WEB_ORIGIN", "")

	assert.False(t, IsDebug())
	assert.Equal(t, "4000", GetPort())
	assert.Equal(t, Info, GetLogLevel())
	assert.Equal(t, "http://localhost:3000", GetWebOrigin())
	assert.Equal(t, "lireddit", GetName())
	assert.NotEmpty(t, GetVersion())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LR_DEBUG", "true")
	t.Setenv("LR_PORT", "8080")
	t.Setenv("LR_DB_FOLDER", "/tmp/lireddit")
	t.Setenv("LR_WEB_ORIGIN", "https://forum.example.com")

	assert.True(t, IsDebug())
	assert.Equal(t, "8080", GetPort())
	assert.Equal(t, "/tmp/lireddit/lireddit.db", GetDBPath())
	assert.Equal(t, "https://forum.example.com", GetWebOrigin())

	// debug forces the debug log level regardless of LR_LOG_LEVEL
	t.Setenv("LR_LOG_LEVEL", "error")
	assert.Equal(t, Debug, GetLogLevel())
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv("LR_PORT", "")
	os.Unsetenv("LR_PORT")

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("LR_PORT=5555\n"), 0o644)
	assert.NoError(t, err)
	cwd, err := os.Getwd()
	assert.NoError(t, err)
	t.Cleanup(func() { os.Chdir(cwd) })
	assert.NoError(t, os.Chdir(dir))

	assert.NoError(t, LoadEnvFile())
	assert.Equal(t, "5555", GetPort())

	// a missing .env file is not an error
	assert.NoError(t, os.Chdir(t.TempDir()))
	assert.NoError(t, LoadEnvFile())
}
