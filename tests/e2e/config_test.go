//go:build e2e

package e2e

import (
	"path/filepath"
	"testing"

	"github.com/asdf-format/changelog-md/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_ConfigLayers(t *testing.T) {
	tests := map[string]struct {
		userConfig    string
		projectConfig string
		env           map[string]string
		args          []string
		wantContains  string
	}{
		"user config": {
			userConfig:   "target: html\n",
			wantContains: "<h1",
		},
		"project overrides user": {
			userConfig:    "target: html\n",
			projectConfig: "target: markdown\n",
			wantContains:  "# Title",
		},
		"env overrides project": {
			projectConfig: "target: markdown\n",
			env:           map[string]string{"CHANGELOG_MD_TARGET": "html"},
			wantContains:  "<h1",
		},
		"flag overrides env": {
			env:          map[string]string{"CHANGELOG_MD_TARGET": "html"},
			args:         []string{"--to", "markdown"},
			wantContains: "# Title",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			if tt.userConfig != "" {
				env.WriteFile(filepath.Join(env.ConfigHome(), "changelog-md", "config.yml"), tt.userConfig)
			}
			if tt.projectConfig != "" {
				env.WriteFile(".changelog-md.yml", tt.projectConfig)
			}
			for k, v := range tt.env {
				env.Setenv(k, v)
			}
			path := env.WriteFile("CHANGES.rst", scenario)

			result := env.Run(append([]string{path}, tt.args...)...)

			require.Equal(t, 0, result.ExitCode, result.Stderr)
			assert.Contains(t, result.Stdout, tt.wantContains)
		})
	}
}

func TestE2E_ConfigInitAndSet(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("config", "init", "--project")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.Contains(t, result.Stdout, "Created")
	assert.FileExists(t, filepath.Join(env.TempDir(), ".changelog-md.yml"))

	result = env.Run("config", "init", "--project")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "already exists")

	result = env.Run("config", "set", "--project", "target", "plain")
	require.Equal(t, 0, result.ExitCode, result.Stderr)

	result = env.Run("config", "show")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.Contains(t, result.Stdout, "target: plain")
	assert.Contains(t, result.Stdout, "# source: ")

	result = env.Run("config", "set", "--project", "columns", "wide")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "invalid integer")

	result = env.Run("config", "set", "--project", "columns", "5")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Stderr, "must be at least 20")

	result = env.Run("config", "show")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
}
