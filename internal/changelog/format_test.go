package changelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEntries_Plain(t *testing.T) {
	t.Parallel()

	cl := loadFixture(t, "unreleased.rst")

	var buf bytes.Buffer
	require.NoError(t, FormatEntries(cl.Entries, &buf, FormatOptions{Plain: true}))
	assert.Equal(t, "-\t-\tUnreleased\n1.0.0\t2024-01-01\t1.0.0 (2024-01-01)\n", buf.String())
}

func TestFormatEntries_Terminal(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	cl := loadFixture(t, "asdf.rst")

	tests := map[string]struct {
		width       int
		contains    []string
		notContains []string
	}{
		"wide terminal": {
			width:    120,
			contains: []string{"  3.0.2  2023-12-12  3.0.2 (2023-12-12)\n", "  3.0.1  2023-10-30  3.0.1 (2023-10-30)\n"},
		},
		"narrow terminal truncates titles": {
			width:       30,
			contains:    []string{"..."},
			notContains: []string{"3.0.2 (2023-12-12)"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, FormatEntries(cl.Entries, &buf, FormatOptions{MaxWidth: tt.width}))
			out := buf.String()
			assert.Equal(t, 2, strings.Count(out, "\n"))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}

func TestFormatEntries_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, FormatEntries(nil, &buf, FormatOptions{}))
	assert.Empty(t, buf.String())
}

func TestTruncateText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text   string
		maxLen int
		want   string
	}{
		"fits":       {text: "short", maxLen: 10, want: "short"},
		"truncated":  {text: "a long title here", maxLen: 10, want: "a long ..."},
		"tiny width": {text: "a long title", maxLen: 2, want: "a long title"},
		"wide runes": {text: "日本語のタイトル", maxLen: 16, want: "日本語のタイトル"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, truncateText(tt.text, tt.maxLen))
		})
	}
}
