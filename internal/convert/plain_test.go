package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		html string
		cols int
		want string
	}{
		"heading and paragraph": {
			html: "<h1>Title</h1>\n<p>Body <em>text</em>.</p>\n",
			want: "Title\n\nBody text.",
		},
		"ordered list with start": {
			html: `<ol start="3"><li>three</li><li>four</li></ol>`,
			want: "3. three\n4. four",
		},
		"nested list": {
			html: "<ul><li>outer\n<ul><li>inner</li></ul></li></ul>",
			want: "- outer\n  - inner",
		},
		"block quote is indented": {
			html: "<blockquote><p>quoted</p></blockquote>",
			want: "    quoted",
		},
		"line breaks kept": {
			html: "<p>first<br>\nsecond</p>",
			want: "first\nsecond",
		},
		"preformatted kept": {
			html: "<pre><code>a  b\n  c\n</code></pre>",
			want: "a  b\n  c",
		},
		"wrapped paragraph": {
			html: "<p>one two three four five six seven eight nine ten eleven twelve thirteen</p>",
			cols: 20,
			want: "one two three four\nfive six seven eight\nnine ten eleven\ntwelve thirteen",
		},
		"transition": {
			html: "<p>a</p><hr><p>b</p>",
			want: "a\n\n----\n\nb",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := plainText(tt.html, tt.cols)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
