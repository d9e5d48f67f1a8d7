package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapMarkdown(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		md   string
		cols int
		want string
	}{
		"paragraph": {
			md:   "one two three four five",
			cols: 10,
			want: "one two\nthree four\nfive",
		},
		"heading untouched": {
			md:   "# a very long heading line",
			cols: 10,
			want: "# a very long heading line",
		},
		"list item hangs": {
			md:   "- alpha beta gamma delta",
			cols: 12,
			want: "- alpha beta\n  gamma\n  delta",
		},
		"numbered item": {
			md:   "1. alpha beta gamma",
			cols: 12,
			want: "1. alpha\n   beta\n   gamma",
		},
		"block quote": {
			md:   "> alpha beta gamma",
			cols: 10,
			want: "> alpha\n> beta\n> gamma",
		},
		"fenced code untouched": {
			md:   "```\nlong code line that stays\n```",
			cols: 8,
			want: "```\nlong code line that stays\n```",
		},
		"blank lines kept": {
			md:   "a b\n\nc d",
			cols: 80,
			want: "a b\n\nc d",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, wrapMarkdown(tt.md, tt.cols))
		})
	}
}
