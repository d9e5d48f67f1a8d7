package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
)

// plainText renders an HTML fragment as plain text: one block per heading,
// paragraph or list item, separated by blank lines. Preformatted text is kept
// verbatim. Paragraphs are wrapped at cols when cols > 0.
func plainText(fragment string, cols int) (string, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	w := &plainWriter{cols: cols}
	if body := findBody(root); body != nil {
		w.children(body, 0)
	} else {
		w.children(root, 0)
	}
	return strings.Join(w.blocks, "\n\n"), nil
}

type plainWriter struct {
	blocks []string
	cols   int
}

func (w *plainWriter) add(block string, depth int) {
	if block == "" {
		return
	}
	if depth > 0 {
		block = indent.String(block, uint(depth*4))
	}
	w.blocks = append(w.blocks, block)
}

func (w *plainWriter) wrap(s string, width int) string {
	if w.cols <= 0 {
		return s
	}
	return wordwrap.String(s, max(width, 20))
}

func (w *plainWriter) children(n *html.Node, depth int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c, depth)
	}
}

func (w *plainWriter) node(n *html.Node, depth int) {
	if n.Type == html.TextNode {
		w.add(collapse(n.Data), depth)
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "script", "style":
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.add(textContent(n), depth)
	case "p", "dt", "dd":
		w.add(w.wrap(textContent(n), w.cols-depth*4), depth)
	case "pre":
		w.add(strings.TrimRight(rawText(n), "\n"), depth)
	case "hr":
		w.add("----", depth)
	case "ul", "ol":
		w.list(n, depth)
	case "blockquote":
		w.children(n, depth+1)
	default:
		w.children(n, depth)
	}
}

func (w *plainWriter) list(n *html.Node, depth int) {
	num := 1
	if v := attr(n, "start"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			num = i
		}
	}

	var items []string
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		marker := "- "
		if n.Data == "ol" {
			marker = strconv.Itoa(num) + ". "
			num++
		}
		pad := strings.Repeat(" ", len(marker))

		var inline strings.Builder
		sub := &plainWriter{}
		if w.cols > 0 {
			sub.cols = w.cols - len(marker)
		}
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if isBlock(c) {
				sub.node(c, 0)
				continue
			}
			collectText(&inline, c, false)
		}

		text := w.wrap(collapse(inline.String()), w.cols-depth*4-len(marker))
		item := marker + strings.ReplaceAll(text, "\n", "\n"+pad)
		for _, b := range sub.blocks {
			item += "\n" + indent.String(b, uint(len(marker)))
		}
		items = append(items, item)
	}
	w.add(strings.Join(items, "\n"), depth)
}

func isBlock(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "p", "ul", "ol", "pre", "blockquote", "dl", "hr",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

// textContent returns the collapsed text of n. Only <br> breaks lines.
func textContent(n *html.Node) string {
	var buf strings.Builder
	collectText(&buf, n, false)
	return collapse(buf.String())
}

func collectText(buf *strings.Builder, n *html.Node, verbatim bool) {
	switch {
	case n.Type == html.TextNode && verbatim:
		buf.WriteString(n.Data)
	case n.Type == html.TextNode:
		buf.WriteString(strings.ReplaceAll(n.Data, "\n", " "))
	case n.Type == html.ElementNode && n.Data == "br":
		buf.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(buf, c, verbatim)
	}
}

func rawText(n *html.Node) string {
	var buf strings.Builder
	collectText(&buf, n, true)
	return buf.String()
}

// collapse squeezes runs of spaces within each line.
func collapse(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.Join(strings.Fields(l), " ")
	}
	return strings.Join(lines, "\n")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
