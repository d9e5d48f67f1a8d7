package rst

import (
	"fmt"
	"html"
	"strings"
)

// HTML renders the document as an HTML fragment.
func (d *Document) HTML() string {
	r := &htmlRenderer{in: &inliner{doc: d}}
	for _, c := range d.Root.Children {
		r.node(c)
	}
	return r.sb.String()
}

type htmlRenderer struct {
	sb strings.Builder
	in *inliner
}

func (r *htmlRenderer) children(n *Node) {
	for _, c := range n.Children {
		r.node(c)
	}
}

func (r *htmlRenderer) node(n *Node) {
	switch n.Kind {
	case KindSection:
		level := min(n.Level, 6)
		fmt.Fprintf(&r.sb, "<h%d>%s</h%d>\n", level, r.in.render(n.Title), level)
		r.children(n)

	case KindParagraph:
		r.sb.WriteString("<p>" + r.in.render(n.Text) + "</p>\n")

	case KindBulletList:
		r.sb.WriteString("<ul>\n")
		r.items(n)
		r.sb.WriteString("</ul>\n")

	case KindEnumList:
		r.sb.WriteString("<ol")
		for _, key := range []string{"start", "type"} {
			if v := n.Attrs[key]; v != "" {
				fmt.Fprintf(&r.sb, ` %s="%s"`, key, v)
			}
		}
		r.sb.WriteString(">\n")
		r.items(n)
		r.sb.WriteString("</ol>\n")

	case KindLiteral:
		r.sb.WriteString("<pre><code>" + html.EscapeString(n.Text) + "</code></pre>\n")

	case KindTable:
		r.sb.WriteString("<pre><code>" + html.EscapeString(n.Text) + "</code></pre>\n")

	case KindCode:
		if n.Lang != "" {
			fmt.Fprintf(&r.sb, `<pre><code class="language-%s">`, html.EscapeString(n.Lang))
		} else {
			r.sb.WriteString("<pre><code>")
		}
		r.sb.WriteString(html.EscapeString(n.Text) + "</code></pre>\n")

	case KindAdmonition:
		r.sb.WriteString("<blockquote>\n")
		if n.Title != "" {
			r.sb.WriteString("<p><strong>" + r.in.render(n.Title) + "</strong></p>\n")
		}
		r.children(n)
		r.sb.WriteString("</blockquote>\n")

	case KindVersionNote:
		r.versionNote(n)

	case KindBlockQuote:
		r.sb.WriteString("<blockquote>\n")
		r.children(n)
		r.sb.WriteString("</blockquote>\n")

	case KindDefinitionList:
		for _, item := range n.Children {
			r.sb.WriteString("<p><strong>" + r.in.render(item.Title) + "</strong></p>\n")
			if len(item.Children) > 0 {
				r.sb.WriteString("<blockquote>\n")
				r.children(item)
				r.sb.WriteString("</blockquote>\n")
			}
		}

	case KindImage:
		img := fmt.Sprintf(`<img src="%s" alt="%s">`,
			html.EscapeString(n.Attrs["src"]), html.EscapeString(n.Attrs["alt"]))
		if t := n.Attrs["target"]; t != "" {
			img = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(t), img)
		}
		r.sb.WriteString("<p>" + img + "</p>\n")
		r.children(n)

	case KindRaw:
		r.sb.WriteString(n.Text + "\n")

	case KindLineBlock:
		lines := strings.Split(n.Text, "\n")
		for i, l := range lines {
			lines[i] = r.in.render(l)
		}
		r.sb.WriteString("<p>" + strings.Join(lines, "<br>\n") + "</p>\n")

	case KindTransition:
		r.sb.WriteString("<hr>\n")
	}
}

// items renders list items. A leading paragraph is written inline so that
// single-paragraph items stay compact.
func (r *htmlRenderer) items(list *Node) {
	for _, item := range list.Children {
		r.sb.WriteString("<li>")
		rest := item.Children
		if len(rest) > 0 && rest[0].Kind == KindParagraph {
			r.sb.WriteString(r.in.render(rest[0].Text))
			rest = rest[1:]
		}
		if len(rest) > 0 {
			r.sb.WriteString("\n")
			for _, c := range rest {
				r.node(c)
			}
		}
		r.sb.WriteString("</li>\n")
	}
}

func (r *htmlRenderer) versionNote(n *Node) {
	label := "<em>" + html.EscapeString(n.Title) + "</em>"
	rest := n.Children
	if len(rest) == 0 {
		r.sb.WriteString("<p>" + label + "</p>\n")
		return
	}
	if rest[0].Kind == KindParagraph {
		r.sb.WriteString("<p>" + label + ": " + r.in.render(rest[0].Text) + "</p>\n")
		rest = rest[1:]
	} else {
		r.sb.WriteString("<p>" + label + ":</p>\n")
	}
	for _, c := range rest {
		r.node(c)
	}
}
