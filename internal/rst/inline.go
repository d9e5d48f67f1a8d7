package rst

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	roleRe      = regexp.MustCompile("^:([A-Za-z0-9][\\w.:+-]*):`")
	suffixRole  = regexp.MustCompile(`^:([A-Za-z0-9][\w.:+-]*):`)
	simpleRefRe = regexp.MustCompile(`^[A-Za-z0-9]+(?:[-._+:][A-Za-z0-9]+)*(__?)`)
	footnoteRe  = regexp.MustCompile(`^\[([0-9]+|#[\w-]*|\*|[A-Za-z][\w.-]*)\]_`)
	embeddedRe  = regexp.MustCompile(`(?s)^(.*?)\s*<([^<>]+)>$`)
	uriSchemes  = []string{"https://", "http://", "ftp://", "mailto:"}
)

// codeRoles render their content as inline code. Domain prefixes such as
// "py:" are stripped before lookup.
var codeRoles = map[string]bool{
	"code": true, "literal": true, "file": true, "command": true, "program": true,
	"option": true, "envvar": true, "kbd": true, "samp": true, "makevar": true,
	"mailheader": true, "regexp": true, "math": true, "func": true, "meth": true,
	"class": true, "mod": true, "attr": true, "exc": true, "obj": true,
	"data": true, "const": true, "type": true, "member": true, "var": true,
}

const (
	startPrecede = " \t\n-:/'\"<([{"
	endFollow    = " \t\n-.,:;!?\\/'\")]}>"
)

func isStart(text string, i int) bool {
	return i == 0 || strings.IndexByte(startPrecede, text[i-1]) >= 0
}

func isEnd(text string, j int) bool {
	return j >= len(text) || strings.IndexByte(endFollow, text[j]) >= 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n'
}

// findEnd locates delim in text at or after from such that it closes inline
// markup: not preceded by whitespace and followed by end-of-text, whitespace
// or closing punctuation.
func findEnd(text, delim string, from int) int {
	for j := from; j+len(delim) <= len(text); j++ {
		if !strings.HasPrefix(text[j:], delim) {
			continue
		}
		if isSpace(text[j-1]) || text[j-1] == '\\' {
			continue
		}
		if isEnd(text, j+len(delim)) {
			return j
		}
	}
	return -1
}

// inliner renders inline markup to HTML for one document. It tracks the
// anonymous reference counter, so one inliner must be used per render.
type inliner struct {
	doc   *Document
	anon  int
	depth int
}

func (in *inliner) render(text string) string {
	var sb strings.Builder
	i := 0
	for i < len(text) {
		n := in.markup(&sb, text, i)
		if n > 0 {
			i += n
			continue
		}
		if text[i] == '\\' {
			i += in.escape(&sb, text, i)
			continue
		}
		writeEscaped(&sb, text[i])
		i++
	}
	return sb.String()
}

// writeEscaped writes one byte of text, escaping HTML specials. Bytes of
// multi-byte UTF-8 sequences pass through unchanged.
func writeEscaped(sb *strings.Builder, c byte) {
	switch c {
	case '&':
		sb.WriteString("&amp;")
	case '<':
		sb.WriteString("&lt;")
	case '>':
		sb.WriteString("&gt;")
	case '"':
		sb.WriteString("&#34;")
	case '\'':
		sb.WriteString("&#39;")
	default:
		sb.WriteByte(c)
	}
}

func (in *inliner) escape(sb *strings.Builder, text string, i int) int {
	if i+1 >= len(text) {
		return 1
	}
	if isSpace(text[i+1]) {
		return 2
	}
	writeEscaped(sb, text[i+1])
	return 2
}

// markup tries every inline construct at position i and returns the number
// of bytes consumed, or 0 when nothing matched.
func (in *inliner) markup(sb *strings.Builder, text string, i int) int {
	if !isStart(text, i) {
		return 0
	}
	rest := text[i:]
	switch {
	case strings.HasPrefix(rest, "``"):
		return in.delimited(sb, text, i, "``", "<code>", "</code>", true)
	case strings.HasPrefix(rest, "**"):
		return in.delimited(sb, text, i, "**", "<strong>", "</strong>", false)
	case strings.HasPrefix(rest, "*"):
		return in.delimited(sb, text, i, "*", "<em>", "</em>", false)
	case strings.HasPrefix(rest, "`"):
		return in.interpreted(sb, text, i, i, "")
	case strings.HasPrefix(rest, ":"):
		if m := roleRe.FindStringSubmatch(rest); m != nil {
			return in.interpreted(sb, text, i, i+len(m[0])-1, m[1])
		}
	case strings.HasPrefix(rest, "|"):
		return in.substitution(sb, text, i)
	case strings.HasPrefix(rest, "["):
		if m := footnoteRe.FindStringSubmatch(rest); m != nil && isEnd(text, i+len(m[0])) {
			sb.WriteString("[" + html.EscapeString(m[1]) + "]")
			return len(m[0])
		}
	}
	if n := in.standaloneURI(sb, text, i); n > 0 {
		return n
	}
	return in.simpleReference(sb, text, i)
}

func (in *inliner) delimited(sb *strings.Builder, text string, i int, delim, open, close string, verbatim bool) int {
	from := i + len(delim)
	if from >= len(text) || isSpace(text[from]) {
		return 0
	}
	j := findEnd(text, delim, from+1)
	if j < 0 {
		return 0
	}
	content := text[from:j]
	sb.WriteString(open)
	if verbatim {
		sb.WriteString(html.EscapeString(content))
	} else {
		sb.WriteString(html.EscapeString(unescape(content)))
	}
	sb.WriteString(close)
	return j + len(delim) - i
}

// unescape removes backslash escapes from plain inline text.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && !isSpace(s[i+1]) {
			sb.WriteByte(s[i+1])
		}
		i++
	}
	return sb.String()
}

// interpreted handles `text`, `text`_, `text`__ and role-prefixed or
// role-suffixed interpreted text. tick is the index of the opening backtick.
func (in *inliner) interpreted(sb *strings.Builder, text string, i, tick int, role string) int {
	from := tick + 1
	if from >= len(text) || isSpace(text[from]) || text[from] == '`' {
		return 0
	}
	j := from + 1
	for ; j < len(text); j++ {
		if text[j] != '`' || isSpace(text[j-1]) || text[j-1] == '\\' {
			continue
		}
		after := j + 1
		for after < len(text) && text[after] == '_' && after-j <= 2 {
			after++
		}
		if isEnd(text, after) || (role == "" && suffixRole.MatchString(text[after:])) {
			break
		}
	}
	if j >= len(text) {
		return 0
	}
	content := text[from:j]
	end := j + 1

	switch {
	case role == "" && strings.HasPrefix(text[end:], "__"):
		in.reference(sb, content, true)
		return end + 2 - i
	case role == "" && strings.HasPrefix(text[end:], "_"):
		in.reference(sb, content, false)
		return end + 1 - i
	case role == "":
		if m := suffixRole.FindStringSubmatch(text[end:]); m != nil {
			role = m[1]
			end += len(m[0])
		}
	}
	in.role(sb, role, content)
	return end - i
}

func (in *inliner) reference(sb *strings.Builder, content string, anonymous bool) {
	label, uri := content, ""
	if m := embeddedRe.FindStringSubmatch(content); m != nil {
		label, uri = m[1], strings.ReplaceAll(m[2], "\n", "")
		if label == "" {
			label = uri
		}
		if strings.HasSuffix(uri, "_") && !strings.Contains(uri, "/") {
			uri = in.resolve(strings.TrimSuffix(uri, "_"))
		}
	} else {
		uri = in.lookup(content, anonymous)
	}
	in.link(sb, unescape(label), uri)
}

func (in *inliner) lookup(name string, anonymous bool) string {
	if anonymous {
		if in.anon >= len(in.doc.anonymous) {
			return ""
		}
		uri := in.doc.anonymous[in.anon]
		in.anon++
		return uri
	}
	return in.resolve(name)
}

// resolve follows indirect targets ("name_") up to a fixed depth.
func (in *inliner) resolve(name string) string {
	key := normalizeName(name)
	for range 8 {
		uri, ok := in.doc.Targets[key]
		if !ok {
			return ""
		}
		if !strings.HasSuffix(uri, "_") || strings.Contains(uri, "/") {
			return uri
		}
		key = normalizeName(strings.Trim(strings.TrimSuffix(uri, "_"), "`"))
	}
	return ""
}

func (in *inliner) link(sb *strings.Builder, label, uri string) {
	if uri == "" {
		sb.WriteString(html.EscapeString(label))
		return
	}
	fmt.Fprintf(sb, `<a href="%s">%s</a>`, html.EscapeString(uri), html.EscapeString(label))
}

// roleTitle extracts the display text of a cross-reference role:
// "title <target>" shows the title and "~a.b.c" shows the last component.
func roleTitle(content string) string {
	if m := embeddedRe.FindStringSubmatch(content); m != nil && m[1] != "" {
		return m[1]
	}
	if strings.HasPrefix(content, "~") {
		content = content[1:]
		if i := strings.LastIndex(content, "."); i >= 0 {
			content = content[i+1:]
		}
	}
	return strings.TrimPrefix(content, "!")
}

func (in *inliner) role(sb *strings.Builder, role, content string) {
	name := role
	if i := strings.LastIndex(name, ":"); i >= 0 {
		name = name[i+1:]
	}
	esc := func(s string) string { return html.EscapeString(unescape(s)) }

	switch {
	case name == "" || name == "emphasis" || name == "title-reference" || name == "title" || name == "t":
		sb.WriteString("<em>" + esc(content) + "</em>")
	case name == "strong":
		sb.WriteString("<strong>" + esc(content) + "</strong>")
	case name == "sub" || name == "subscript":
		sb.WriteString("<sub>" + esc(content) + "</sub>")
	case name == "sup" || name == "superscript":
		sb.WriteString("<sup>" + esc(content) + "</sup>")
	case codeRoles[name]:
		sb.WriteString("<code>" + html.EscapeString(roleTitle(content)) + "</code>")
	case name == "pep" || name == "PEP":
		n, err := strconv.Atoi(strings.TrimSpace(content))
		if err != nil {
			sb.WriteString(esc("PEP " + content))
			return
		}
		in.link(sb, fmt.Sprintf("PEP %d", n), fmt.Sprintf("https://peps.python.org/pep-%04d/", n))
	case name == "rfc" || name == "RFC":
		n, err := strconv.Atoi(strings.TrimSpace(content))
		if err != nil {
			sb.WriteString(esc("RFC " + content))
			return
		}
		in.link(sb, fmt.Sprintf("RFC %d", n), fmt.Sprintf("https://datatracker.ietf.org/doc/html/rfc%d", n))
	case name == "issue" || name == "pr":
		sb.WriteString(esc("#" + strings.TrimPrefix(content, "#")))
	case name == "user":
		sb.WriteString(esc("@" + strings.TrimPrefix(content, "@")))
	case name == "abbr":
		if i := strings.Index(content, " ("); i > 0 {
			content = content[:i]
		}
		sb.WriteString(esc(content))
	default:
		sb.WriteString(esc(roleTitle(content)))
	}
}

func (in *inliner) substitution(sb *strings.Builder, text string, i int) int {
	from := i + 1
	if from >= len(text) || isSpace(text[from]) {
		return 0
	}
	j := strings.IndexByte(text[from:], '|')
	if j <= 0 {
		return 0
	}
	j += from
	end := j + 1
	ref := ""
	for end < len(text) && text[end] == '_' && len(ref) < 2 {
		ref += "_"
		end++
	}
	if isSpace(text[j-1]) || !isEnd(text, end) {
		return 0
	}

	name := text[from:j]
	sub, ok := in.doc.Substitutions[normalizeName(name)]
	var out string
	switch {
	case !ok:
		out = html.EscapeString("|" + name + "|")
	case sub.Image != "":
		out = fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(sub.Image), html.EscapeString(name))
	case in.depth < 4:
		in.depth++
		out = in.render(sub.Text)
		in.depth--
	default:
		out = html.EscapeString(sub.Text)
	}

	if ref != "" {
		if uri := in.lookup(name, ref == "__"); uri != "" {
			out = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(uri), out)
		}
	}
	sb.WriteString(out)
	return end - i
}

func (in *inliner) standaloneURI(sb *strings.Builder, text string, i int) int {
	rest := text[i:]
	matched := false
	for _, s := range uriSchemes {
		if strings.HasPrefix(rest, s) && len(rest) > len(s) {
			matched = true
			break
		}
	}
	if !matched {
		return 0
	}
	end := strings.IndexAny(rest, " \t\n<>\"")
	if end < 0 {
		end = len(rest)
	}
	uri := strings.TrimRight(rest[:end], ".,;:!?'")
	if strings.HasSuffix(uri, ")") && !strings.Contains(uri, "(") {
		uri = strings.TrimSuffix(uri, ")")
	}
	label := strings.TrimPrefix(uri, "mailto:")
	in.link(sb, label, uri)
	return len(uri)
}

func (in *inliner) simpleReference(sb *strings.Builder, text string, i int) int {
	m := simpleRefRe.FindStringSubmatchIndex(text[i:])
	if m == nil || !isEnd(text, i+m[1]) {
		return 0
	}
	name := text[i : i+m[2]]
	in.link(sb, name, in.lookup(name, m[3]-m[2] == 2))
	return m[1]
}
