package rst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sectionSpan struct {
	Title string
	Level int
	Line  int
	Start int
	End   int
}

func spans(nodes []*Node) []sectionSpan {
	out := make([]sectionSpan, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, sectionSpan{n.Title, n.Level, n.Line, n.Start, n.End})
	}
	return out
}

func TestParse_Sections(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src  string
		want []sectionSpan
	}{
		"underlined titles": {
			src: "Title\n=====\n\nBody text.\n\nSecond\n======\n\nMore.\n",
			want: []sectionSpan{
				{Title: "Title", Level: 1, Line: 2, Start: 0, End: 5},
				{Title: "Second", Level: 1, Line: 7, Start: 5, End: 9},
			},
		},
		"overlined title": {
			src: "=====\nTitle\n=====\n\nText\n",
			want: []sectionSpan{
				{Title: "Title", Level: 1, Line: 3, Start: 0, End: 5},
			},
		},
		"subsections stay nested": {
			src: "A\n=\n\nB\n-\n\nC\n=\n",
			want: []sectionSpan{
				{Title: "A", Level: 1, Line: 2, Start: 0, End: 6},
				{Title: "C", Level: 1, Line: 8, Start: 6, End: 8},
			},
		},
		"short underline is text": {
			src:  "A long title\n--\n",
			want: []sectionSpan{},
		},
		"no sections": {
			src:  "Just a paragraph.\n",
			want: []sectionSpan{},
		},
		"crlf line endings": {
			src: "One\r\n===\r\n\r\nTwo\r\n===\r\n",
			want: []sectionSpan{
				{Title: "One", Level: 1, Line: 2, Start: 0, End: 3},
				{Title: "Two", Level: 1, Line: 5, Start: 3, End: 5},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			doc, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, spans(doc.Sections()))
		})
	}
}

func TestParse_NestedSectionLevels(t *testing.T) {
	t.Parallel()

	doc, err := Parse("A\n=\n\nB\n-\n\ntext\n")
	require.NoError(t, err)

	top := doc.Sections()
	require.Len(t, top, 1)
	require.Len(t, top[0].Children, 1)

	sub := top[0].Children[0]
	assert.Equal(t, KindSection, sub.Kind)
	assert.Equal(t, "B", sub.Title)
	assert.Equal(t, 2, sub.Level)
	assert.Equal(t, 3, sub.Start)
	assert.Equal(t, 7, sub.End)
	assert.True(t, doc.HasSections())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src      string
		wantLine int
		wantMsg  string
	}{
		"inconsistent title level": {
			src:      "A\n=\n\nB\n-\n\nC\n=\n\nD\n~\n",
			wantLine: 10,
			wantMsg:  "title level inconsistent",
		},
		"overline and underline mismatch": {
			src:      "=====\nTitle\n-----\n",
			wantLine: 1,
			wantMsg:  "title overline & underline mismatch",
		},
		"overline without underline": {
			src:      "=====\nTitle\n",
			wantLine: 1,
			wantMsg:  "incomplete section title",
		},
		"title inside list item": {
			src:      "- Item\n  ----\n",
			wantLine: 1,
			wantMsg:  "unexpected section title",
		},
		"transition inside block quote": {
			src:      "Para\n\n    ----------\n",
			wantLine: 3,
			wantMsg:  "unexpected section title or transition",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.src)
			require.Error(t, err)

			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantLine, perr.Line)
			assert.Contains(t, perr.Msg, tt.wantMsg)
		})
	}
}

func TestParse_BlockKinds(t *testing.T) {
	t.Parallel()

	src := `Release
=======

Intro paragraph with a literal::

    code here

- bullet one
- bullet two

1. first
2. second

.. note:: Take care.

.. code-block:: go

   fmt.Println("hi")

term
    definition

----

| line one
| line two
`
	doc, err := Parse(src)
	require.NoError(t, err)

	sections := doc.Sections()
	require.Len(t, sections, 1)

	var kinds []Kind
	for _, c := range sections[0].Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []Kind{
		KindParagraph,
		KindLiteral,
		KindBulletList,
		KindEnumList,
		KindAdmonition,
		KindCode,
		KindDefinitionList,
		KindTransition,
		KindLineBlock,
	}, kinds)

	children := sections[0].Children
	assert.Equal(t, "Intro paragraph with a literal:", children[0].Text)
	assert.Equal(t, "code here", children[1].Text)
	assert.Len(t, children[2].Children, 2)
	assert.Equal(t, "Note", children[4].Title)
	assert.Equal(t, "go", children[5].Lang)
	assert.Equal(t, `fmt.Println("hi")`, children[5].Text)
	assert.Equal(t, "term", children[6].Children[0].Title)
	assert.Equal(t, "line one\nline two", children[8].Text)
}

func TestParse_TargetsAndSubstitutions(t *testing.T) {
	t.Parallel()

	src := "Text.\n\n" +
		".. _docs: https://example.com/docs\n" +
		".. _`Issue Tracker`: https://example.com/\n" +
		"   issues\n" +
		".. |ver| replace:: 1.0\n" +
		".. __: https://example.com/anon\n"

	doc, err := Parse(src)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/docs", doc.Targets["docs"])
	assert.Equal(t, "https://example.com/issues", doc.Targets["issue tracker"])
	assert.Equal(t, Substitution{Text: "1.0"}, doc.Substitutions["ver"])
	assert.Equal(t, []string{"https://example.com/anon"}, doc.anonymous)
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src  string
		want []string
	}{
		"empty":            {src: "", want: nil},
		"no trailing":      {src: "a\nb", want: []string{"a", "b"}},
		"trailing newline": {src: "a\nb\n", want: []string{"a", "b"}},
		"carriage returns": {src: "a\r\nb\r\n", want: []string{"a", "b"}},
		"blank lines kept": {src: "a\n\n\nb\n", want: []string{"a", "", "", "b"}},
		"only newline":     {src: "\n", want: []string{""}},
		"lone carriage":    {src: "a\rb\r\rc\r", want: []string{"a", "b", "", "c"}},
		"mixed endings":    {src: "a\r\nb\rc\n", want: []string{"a", "b", "c"}},
		"no final break":   {src: "a\r\nb", want: []string{"a", "b"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitLines(tt.src))
		})
	}
}

func TestExpandTabs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "        x", expandTabs("\tx"))
	assert.Equal(t, "ab      x", expandTabs("ab\tx"))
	assert.Equal(t, "plain", expandTabs("plain"))
}
