package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: run from an empty directory so no stray ussdcodes.yaml is
// picked up
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// TestLoad_Defaults verifies defaults apply with no file or environment
func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, time.Second, cfg.Scraper.RequestDelay)
	assert.Equal(t, 1, cfg.Scraper.Concurrency)
	assert.True(t, cfg.Scraper.Live)
	assert.False(t, cfg.Scraper.CloudflareBypass)
	assert.Contains(t, cfg.Scraper.UserAgent, "Mozilla/5.0")
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, []string{"json"}, cfg.Output.Formats)
	assert.Equal(t, "2025-10-18T00:00:00Z", cfg.Output.Timestamp)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

// TestLoad_File verifies values are read from an explicit file
func TestLoad_File(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `scraper:
  timeout: 30s
  request_delay: 0s
  concurrency: 4
  live: false
output:
  dir: ./datasets
  formats: [json, xlsx]
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, time.Duration(0), cfg.Scraper.RequestDelay)
	assert.Equal(t, 4, cfg.Scraper.Concurrency)
	assert.False(t, cfg.Scraper.Live)
	assert.Equal(t, "./datasets", cfg.Output.Dir)
	assert.Equal(t, []string{"json", "xlsx"}, cfg.Output.Formats)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep defaults")
}

// TestLoad_DiscoveredFile verifies ussdcodes.yaml in the working directory
// is found
func TestLoad_DiscoveredFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ussdcodes.yaml"), []byte("output:\n  dir: found\n"), 0o600))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "found", cfg.Output.Dir)
}

// TestLoad_MissingExplicitFile verifies a named file must exist
func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := chdirTemp(t)

	_, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	assert.Error(t, err)
}

// TestLoad_Environment verifies USSDCODES_ variables override defaults
func TestLoad_Environment(t *testing.T) {
	chdirTemp(t)
	t.Setenv("USSDCODES_SCRAPER_TIMEOUT", "45s")
	t.Setenv("USSDCODES_OUTPUT_DIR", "/tmp/datasets")
	t.Setenv("USSDCODES_SCRAPER_LIVE", "false")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, "/tmp/datasets", cfg.Output.Dir)
	assert.False(t, cfg.Scraper.Live)
}

// TestLoad_Overrides verifies explicit overrides win over the environment
func TestLoad_Overrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("USSDCODES_OUTPUT_DIR", "from-env")

	cfg, err := Load("", map[string]any{
		"output.dir":     "from-flag",
		"output.formats": []string{"json", "sqlite"},
	})
	require.NoError(t, err)

	assert.Equal(t, "from-flag", cfg.Output.Dir)
	assert.Equal(t, []string{"json", "sqlite"}, cfg.Output.Formats)
}

// TestLoad_InvalidFormat verifies unknown export formats are rejected
func TestLoad_InvalidFormat(t *testing.T) {
	chdirTemp(t)

	_, err := Load("", map[string]any{"output.formats": []string{"csv"}})
	assert.Error(t, err)
}

// TestLoad_InvalidTimeout verifies out-of-range durations are rejected
func TestLoad_InvalidTimeout(t *testing.T) {
	chdirTemp(t)

	_, err := Load("", map[string]any{"scraper.timeout": "10m"})
	assert.Error(t, err)
}

// TestLoad_InvalidConcurrency verifies concurrency bounds
func TestLoad_InvalidConcurrency(t *testing.T) {
	chdirTemp(t)

	_, err := Load("", map[string]any{"scraper.concurrency": 0})
	assert.Error(t, err)
}

// TestLoad_InvalidTimestamp verifies the timestamp must be RFC 3339
func TestLoad_InvalidTimestamp(t *testing.T) {
	chdirTemp(t)

	_, err := Load("", map[string]any{"output.timestamp": "yesterday"})
	assert.Error(t, err)
}

// TestLoad_InvalidServerAddr verifies the API address needs a port
func TestLoad_InvalidServerAddr(t *testing.T) {
	chdirTemp(t)

	_, err := Load("", map[string]any{"server.addr": "localhost"})
	assert.Error(t, err)
}

// TestDefault_MatchesLoad verifies Default agrees with an empty Load
func TestDefault_MatchesLoad(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, cfg, Default())
}

// TestWriteTemplate_CreatesLoadableFile verifies the template round-trips
// through Load
func TestWriteTemplate_CreatesLoadableFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "ussdcodes.yaml")

	require.NoError(t, WriteTemplate(path))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestWriteTemplate_NoOverwrite verifies an existing file is left alone
func TestWriteTemplate_NoOverwrite(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "ussdcodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	err := WriteTemplate(path)
	assert.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "log:\n  level: warn\n", string(data))
}
