package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirWithEnvFile moves to a temp dir holding a .env file, since ReadFromEnv
// loads one from the working directory.
func chdirWithEnvFile(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o644))

	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(previous) })
}

func TestReadSQLiteConfig(t *testing.T) {
	chdirWithEnvFile(t, "")
	t.Setenv("PRODUCTION", "false")
	t.Setenv("DATABASE", "sqlite")
	t.Setenv("API_PORT", "8080")
	t.Setenv("SQLITE_PATH", "reports.db")

	conf, err := ReadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DBSQLite, conf.DB)
	assert.Equal(t, "reports.db", conf.SQLite.Path)
	assert.False(t, conf.SQLite.SeedOnStartup)
	assert.Equal(t, "8080", conf.API.Port)

	// Gemini is optional and defaulted.
	assert.Empty(t, conf.Gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", conf.Gemini.Model)
	assert.Equal(t, 10, conf.Gemini.TimeoutSeconds)
}

func TestReadClickHouseConfig(t *testing.T) {
	chdirWithEnvFile(t, "")
	t.Setenv("PRODUCTION", "true")
	t.Setenv("DATABASE", "clickhouse")
	t.Setenv("API_PORT", "8080")
	t.Setenv("CLICKHOUSE_ADDRESS", "localhost:9000")
	t.Setenv("CLICKHOUSE_DB_NAME", "reports")
	t.Setenv("CLICKHOUSE_USERNAME", "default")
	t.Setenv("CLICKHOUSE_PASSWORD", "secret")
	t.Setenv("CLICKHOUSE_DEBUG_ENABLED", "false")

	conf, err := ReadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DBClickHouse, conf.DB)
	assert.Equal(t, "localhost:9000", conf.ClickHouse.Address)
	assert.True(t, conf.IsProduction)
}

func TestUnsupportedDatabaseRejected(t *testing.T) {
	chdirWithEnvFile(t, "")
	t.Setenv("PRODUCTION", "false")
	t.Setenv("DATABASE", "mongodb")
	t.Setenv("API_PORT", "8080")

	_, err := ReadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongodb")
}
