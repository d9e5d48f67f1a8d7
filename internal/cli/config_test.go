package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigShow(t *testing.T) {
	t.Parallel()

	cfg := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("target: html\ntimeout: 1m\n"), 0o644))

	got := run(t, "", "config", "show", "--config", cfg)
	require.Equal(t, 0, got.code, got.stderr)
	assert.Contains(t, got.stdout, "# source: "+cfg)
	assert.Contains(t, got.stdout, "target: html\n")
	assert.Contains(t, got.stdout, "timeout: 1m0s\n")
	assert.Contains(t, got.stdout, "allow_preamble: false\n")
}

func TestConfigShow_InvalidFile(t *testing.T) {
	t.Parallel()

	cfg := filepath.Join(t.TempDir(), "custom.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("engine: docutils\n"), 0o644))

	got := run(t, "", "config", "show", "--config", cfg)
	assert.Equal(t, 1, got.code)
	assert.Empty(t, got.stdout)
	assert.Contains(t, got.stderr, "error: loading config: config: field 'engine': must be one of: native, gorst, pandoc")
}

func TestConfigKeys(t *testing.T) {
	t.Parallel()

	got := run(t, "", "config", "keys")
	require.Equal(t, 0, got.code, got.stderr)
	for _, key := range []string{"target", "engine", "wrap", "columns", "allow_preamble", "watch_debounce"} {
		assert.Contains(t, got.stdout, key)
	}
	assert.Contains(t, got.stdout, "markdown|html|plain|ansi")
}

func TestConfigInitAndSet_Project(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, ".changelog-md.yml")

	got := run(t, "", "config", "init", "--project")
	require.Equal(t, 0, got.code, got.stderr)
	assert.Contains(t, got.stdout, "Created "+path)

	got = run(t, "", "config", "init", "--project")
	assert.Equal(t, 1, got.code)
	assert.Contains(t, got.stderr, "error: config file already exists: "+path)

	got = run(t, "", "config", "set", "--project", "target", "plain")
	require.Equal(t, 0, got.code, got.stderr)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "target: plain")
	assert.Contains(t, string(content), "# Output dialect", "comments are kept")

	got = run(t, "", "config", "set", "--project", "columns", "wide")
	assert.Equal(t, 1, got.code)
	assert.Contains(t, got.stderr, "error: invalid integer: \"wide\"")

	for _, kv := range [][2]string{{"columns", "5"}, {"timeout", "0s"}} {
		got = run(t, "", "config", "set", "--project", kv[0], kv[1])
		assert.Equal(t, 1, got.code, kv[0])
		assert.Contains(t, got.stderr, "error: invalid value: \""+kv[1]+"\"")
	}
	got = run(t, "", "config", "show")
	require.Equal(t, 0, got.code, "rejected values are not written: %s", got.stderr)

	got = run(t, "", "config", "init", "--project", "--force")
	require.Equal(t, 0, got.code, got.stderr)
}

func TestConfigPath(t *testing.T) {
	t.Parallel()

	got := run(t, "", "config", "path")
	require.Equal(t, 0, got.code, got.stderr)
	assert.Contains(t, got.stdout, "user:    ")
	assert.Contains(t, got.stdout, ".changelog-md.json")
}
