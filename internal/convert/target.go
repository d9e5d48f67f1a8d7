package convert

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// markdown converts an HTML fragment to Markdown and wraps it when asked.
func (p *Pipeline) markdown(html string, expectHeading bool) (string, error) {
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	md = strings.TrimSpace(md)

	if expectHeading && !hasHeading(md) {
		return "", ErrHeadingLost
	}
	if cols := p.wrapColumns(); cols > 0 {
		md = wrapMarkdown(md, cols)
	}
	return md, nil
}

// hasHeading reports whether md contains an ATX or setext heading.
func hasHeading(md string) bool {
	src := []byte(md)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := n.(*ast.Heading); ok {
			found = true
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

func (p *Pipeline) sanitize(html string) string {
	html = strings.TrimSpace(html)
	if !p.opts.SanitizeHTML {
		return html
	}
	return strings.TrimSpace(bluemonday.UGCPolicy().Sanitize(html))
}

// ansi renders Markdown for a terminal.
func (p *Pipeline) ansi(md string) (string, error) {
	width := p.opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	if cols := p.wrapColumns(); cols > 0 {
		width = cols
	}

	style := glamour.WithStandardStyle(p.opts.Style)
	if p.opts.Style == DefaultStyle {
		style = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.TrimRight(out, " \n"), nil
}
