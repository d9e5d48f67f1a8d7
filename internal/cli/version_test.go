package cli

import (
	"runtime"
	"testing"

	"github.com/asdf-format/changelog-md/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		args    []string
		want    string
		contain []string
		wantErr string
	}{
		"plain": {
			args: []string{"version", "--plain"},
			want: "changelog-md " + version.Version + "\n" +
				"commit: " + version.Commit + "\n" +
				"built: " + version.BuildDate + "\n" +
				"go: " + runtime.Version() + "\n" +
				"platform: " + runtime.GOOS + "/" + runtime.GOARCH + "\n",
		},
		"pretty": {
			args:    []string{"version"},
			contain: []string{"changelog-md", version.SourceURL},
		},
		"version flag prints one line": {
			args: []string{"--version"},
			want: version.String() + "\n",
		},
		"alias": {
			args:    []string{"v", "--plain"},
			contain: []string{"commit: "},
		},
		"notes": {
			args: []string{"version", "--notes"},
			contain: []string{
				"# 0.3.0 (2026-09-28)",
				"- Add `--watch` to re-render the release notes",
			},
		},
		"target flag belongs to the root command": {
			args:    []string{"version", "--notes", "--to", "html"},
			wantErr: "error: unknown flag: --to",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := run(t, "", tt.args...)

			if tt.wantErr != "" {
				assert.Equal(t, 1, got.code)
				assert.Empty(t, got.stdout)
				assert.Contains(t, got.stderr, tt.wantErr)
				return
			}

			require.Equal(t, 0, got.code, got.stderr)
			if tt.want != "" {
				assert.Equal(t, tt.want, got.stdout)
			}
			for _, c := range tt.contain {
				assert.Contains(t, got.stdout, c)
			}
		})
	}
}
