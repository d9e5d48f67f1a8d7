//go:build e2e

// Package e2e provides end-to-end tests for the changelog-md binary.
//
// To run these tests:
//
//	go test -tags=e2e ./tests/e2e/...
package e2e

import (
	"strings"
	"testing"

	"github.com/asdf-format/changelog-md/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenario = "Title\n=====\n\nBody text.\n\nSecond\n======\n\nMore.\n"

const releases = "1.1.0 (unreleased)\n" +
	"==================\n\n" +
	"Bug Fixes\n" +
	"---------\n\n" +
	"- Handle tabs in ``literal`` blocks.\n\n" +
	"1.0.0 (2024-01-01)\n" +
	"==================\n\n" +
	"- First release.\n"

func TestE2E_Convert(t *testing.T) {
	tests := map[string]struct {
		content    string
		args       []string
		wantStdout string
	}{
		"first section only": {
			content:    scenario,
			wantStdout: "# Title\n\nBody text.\n",
		},
		"single section runs to end of file": {
			content:    "Only\n====\n\nText.\n",
			wantStdout: "# Only\n\nText.\n",
		},
		"subsections stay in the entry": {
			content:    releases,
			wantStdout: "# 1.1.0 (unreleased)\n\n## Bug Fixes\n\n- Handle tabs in `literal` blocks.\n",
		},
		"named section": {
			content:    releases,
			args:       []string{"--section", "1.0.0"},
			wantStdout: "# 1.0.0 (2024-01-01)\n\n- First release.\n",
		},
		"preamble allowed": {
			content:    "Intro.\n\nTitle\n=====\n\nBody text.\n",
			args:       []string{"--allow-preamble"},
			wantStdout: "# Title\n\nBody text.\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			path := env.WriteFile("CHANGES.rst", tt.content)

			result := env.Run(append([]string{path}, tt.args...)...)

			require.Equal(t, 0, result.ExitCode,
				"unexpected exit code\nstdout: %s\nstderr: %s", result.Stdout, result.Stderr)
			assert.Equal(t, tt.wantStdout, result.Stdout)
			assert.Empty(t, result.Stderr)
		})
	}
}

func TestE2E_Errors(t *testing.T) {
	tests := map[string]struct {
		content   string
		args      []string
		wantError string
	}{
		"content before first heading": {
			content:   "Intro paragraph.\n\nTitle\n=====\n",
			wantError: "error: first section \"Title\" starts at line 3",
		},
		"no sections": {
			content:   "Nothing but prose.\n",
			wantError: "error: no top-level section found",
		},
		"missing file": {
			args:      []string{"does-not-exist.rst"},
			wantError: "error: cannot read does-not-exist.rst",
		},
		"no arguments": {
			args:      []string{},
			wantError: "error: a changelog path is required",
		},
		"bad flag value": {
			content:   scenario,
			args:      []string{"--to", "docx"},
			wantError: "field 'target': must be one of",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			args := tt.args
			if tt.content != "" {
				args = append([]string{env.WriteFile("CHANGES.rst", tt.content)}, args...)
			}

			result := env.Run(args...)

			assert.Equal(t, 1, result.ExitCode)
			assert.Empty(t, result.Stdout, "nothing is written to stdout on failure")
			assert.True(t, strings.HasPrefix(result.Stderr, "error: "), result.Stderr)
			assert.Contains(t, result.Stderr, tt.wantError)
		})
	}
}

func TestE2E_Stdin(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.RunWithStdin(scenario, "-")

	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.Equal(t, "# Title\n\nBody text.\n", result.Stdout)
}

func TestE2E_List(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	path := env.WriteFile("CHANGES.rst", releases)

	result := env.Run(path, "--list")

	require.Equal(t, 0, result.ExitCode, result.Stderr)
	lines := strings.Split(strings.TrimSuffix(result.Stdout, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1.1.0\t"))
	assert.True(t, strings.HasPrefix(lines[1], "1.0.0\t2024-01-01\t"))
}

func TestE2E_Debug(t *testing.T) {
	env := testutil.NewE2EEnv(t)
	path := env.WriteFile("CHANGES.rst", "Intro.\n\nTitle\n=====\n")

	result := env.Run("--debug", path)

	assert.Equal(t, 1, result.ExitCode)
	assert.Empty(t, result.Stdout)
	assert.Contains(t, result.Stderr, "[Structure Error]")
	assert.Contains(t, result.Stderr, "--allow-preamble")
}

func TestE2E_Version(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run("version", "--plain")

	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.True(t, strings.HasPrefix(result.Stdout, "changelog-md "))
	assert.Contains(t, result.Stdout, "platform: ")

	result = env.Run("--version")
	require.Equal(t, 0, result.ExitCode, result.Stderr)
	assert.True(t, strings.HasPrefix(result.Stdout, "changelog-md dev (commit "), result.Stdout)
	assert.Equal(t, 1, strings.Count(result.Stdout, "\n"))
}
