package rst

import (
	"regexp"
	"strings"
)

var (
	directiveRe    = regexp.MustCompile(`^([A-Za-z0-9][\w:+.-]*)::(?:\s+(.*))?$`)
	targetRe       = regexp.MustCompile("^_(?:`([^`]+)`|((?:[^:\\\\]|\\\\.)+)):(?:\\s+(.*))?$")
	substitutionRe = regexp.MustCompile(`^\|([^|]+)\|\s+([\w:-]+)::\s*(.*)$`)
	optionRe       = regexp.MustCompile(`^:([^:]+):(?:\s+(.*))?$`)
)

// admonitionLabels maps admonition directives to their rendered label.
var admonitionLabels = map[string]string{
	"attention": "Attention",
	"caution":   "Caution",
	"danger":    "Danger",
	"error":     "Error",
	"hint":      "Hint",
	"important": "Important",
	"note":      "Note",
	"tip":       "Tip",
	"warning":   "Warning",
	"seealso":   "See also",
	"todo":      "Todo",
}

var versionLabels = map[string]string{
	"versionadded":   "New in version %s",
	"versionchanged": "Changed in version %s",
	"versionremoved": "Removed in version %s",
	"deprecated":     "Deprecated since version %s",
}

// directive is an explicit markup block of the form ".. name:: argument".
type directive struct {
	name    string
	arg     string
	options map[string]string
	content []string
	base    int // line of content[0]
}

func (b *blockParser) explicit() error {
	start := b.pos
	rest := strings.TrimSpace(strings.TrimPrefix(b.lines[start], ".."))
	end := indentedEnd(b.lines, start+1)
	if rest == "" && (start+1 >= len(b.lines) || isBlank(b.lines[start+1])) {
		end = start + 1
	}
	block := dedent(b.lines[start+1 : end])
	b.pos = end

	switch {
	case strings.HasPrefix(rest, "__:"):
		b.p.doc.anonymous = append(b.p.doc.anonymous, joinURI(strings.TrimPrefix(rest, "__:"), block))
	case strings.HasPrefix(rest, "_"):
		if m := targetRe.FindStringSubmatch(rest); m != nil {
			name := m[1]
			if name == "" {
				name = strings.ReplaceAll(m[2], `\:`, ":")
			}
			b.p.doc.Targets[normalizeName(name)] = joinURI(m[3], block)
		}
	case strings.HasPrefix(rest, "|"):
		b.substitution(rest, block)
	default:
		m := directiveRe.FindStringSubmatch(rest)
		if m == nil {
			// comment, footnote or citation
			return nil
		}
		return b.directive(m[1], m[2], block, start, end)
	}
	return nil
}

func joinURI(first string, block []string) string {
	uri := strings.TrimSpace(first)
	for _, l := range block {
		uri += strings.TrimSpace(l)
	}
	return uri
}

func (b *blockParser) substitution(rest string, block []string) {
	m := substitutionRe.FindStringSubmatch(rest)
	if m == nil {
		return
	}
	name := normalizeName(m[1])
	switch m[2] {
	case "replace":
		text := m[3]
		for _, l := range block {
			text += " " + strings.TrimSpace(l)
		}
		b.p.doc.Substitutions[name] = Substitution{Text: strings.TrimSpace(text)}
	case "image":
		b.p.doc.Substitutions[name] = Substitution{Image: strings.TrimSpace(m[3])}
	}
}

// splitDirective separates a directive block into argument continuation,
// options and content.
func splitDirective(name, arg string, block []string, blockBase int, takesArg bool) directive {
	d := directive{name: name, arg: arg, options: map[string]string{}}
	i := 0
	if takesArg {
		for i < len(block) && !isBlank(block[i]) && !optionRe.MatchString(block[i]) {
			d.arg = strings.TrimSpace(d.arg + " " + block[i])
			i++
		}
	}
	if takesArg || arg == "" {
		for i < len(block) && optionRe.MatchString(block[i]) {
			m := optionRe.FindStringSubmatch(block[i])
			d.options[strings.TrimSpace(m[1])] = strings.TrimSpace(m[2])
			i++
		}
	}
	i = skipBlank(block, i)
	d.content = dedent(block[i:])
	d.base = blockBase + i
	if !takesArg && arg != "" {
		d.content = append([]string{arg}, block...)
		d.base = blockBase - 1
		d.arg = ""
	}
	return d
}

func (b *blockParser) directive(name, arg string, block []string, start, end int) error {
	span := func(n *Node) *Node {
		n.Start, n.End = b.abs(start), b.abs(end)
		return n
	}
	base := b.abs(start + 1)

	switch name {
	case "code", "code-block", "sourcecode":
		d := splitDirective(name, arg, block, base, true)
		b.emit(span(&Node{Kind: KindCode, Lang: d.arg, Text: strings.Join(d.content, "\n")}))

	case "parsed-literal":
		d := splitDirective(name, arg, block, base, false)
		b.emit(span(&Node{Kind: KindLiteral, Text: strings.Join(d.content, "\n")}))

	case "image", "figure":
		d := splitDirective(name, arg, block, base, true)
		img := span(&Node{Kind: KindImage, Attrs: map[string]string{
			"src":    d.arg,
			"alt":    d.options["alt"],
			"target": d.options["target"],
		}})
		if name == "figure" && len(d.content) > 0 {
			children, err := b.nested(d.content, d.base)
			if err != nil {
				return err
			}
			img.Children = children
		}
		b.emit(img)

	case "raw":
		d := splitDirective(name, arg, block, base, true)
		if strings.Contains(d.arg, "html") {
			b.emit(span(&Node{Kind: KindRaw, Text: strings.Join(d.content, "\n")}))
		}

	case "admonition", "topic", "sidebar":
		d := splitDirective(name, arg, block, base, true)
		return b.admonition(span(&Node{Kind: KindAdmonition, Title: d.arg}), d)

	case "versionadded", "versionchanged", "versionremoved", "deprecated":
		version, text, _ := strings.Cut(strings.TrimSpace(arg), " ")
		d := splitDirective(name, strings.TrimSpace(text), block, base, false)
		label := strings.Replace(versionLabels[name], "%s", version, 1)
		return b.admonition(span(&Node{Kind: KindVersionNote, Title: label}), d)

	case "list-table", "csv-table", "table":
		d := splitDirective(name, arg, block, base, true)
		b.emit(span(&Node{Kind: KindTable, Title: d.arg, Text: strings.Join(d.content, "\n")}))

	default:
		if label, ok := admonitionLabels[name]; ok {
			d := splitDirective(name, arg, block, base, false)
			return b.admonition(span(&Node{Kind: KindAdmonition, Title: label}), d)
		}
	}
	return nil
}

func (b *blockParser) admonition(n *Node, d directive) error {
	children, err := b.nested(d.content, d.base)
	if err != nil {
		return err
	}
	n.Children = children
	b.emit(n)
	return nil
}
