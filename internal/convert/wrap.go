package convert

import (
	"regexp"
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

var listMarker = regexp.MustCompile(`^(\s*)([-*+]|\d+[.)])\s+`)

// wrapMarkdown wraps prose lines of md at cols. Headings, fenced and
// indented code, tables and HTML are left alone. List items get a hanging
// indent and block quotes keep their marker on every line.
func wrapMarkdown(md string, cols int) string {
	lines := strings.Split(md, "\n")
	out := make([]string, 0, len(lines))
	fenced := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fenced = !fenced
			out = append(out, line)
			continue
		}
		if fenced || keepLine(line, trimmed) {
			out = append(out, line)
			continue
		}

		if m := listMarker.FindString(line); m != "" {
			out = append(out, hanging(m, line[len(m):], cols))
			continue
		}
		if strings.HasPrefix(line, ">") {
			prefix := "> "
			body := strings.TrimSpace(strings.TrimPrefix(line, ">"))
			wrapped := wordwrap.String(body, max(cols-len(prefix), 1))
			out = append(out, prefix+strings.ReplaceAll(wrapped, "\n", "\n"+prefix))
			continue
		}

		lead := line[:len(line)-len(strings.TrimLeft(line, " "))]
		wrapped := wordwrap.String(strings.TrimLeft(line, " "), max(cols-len(lead), 1))
		out = append(out, lead+strings.ReplaceAll(wrapped, "\n", "\n"+lead))
	}
	return strings.Join(out, "\n")
}

func keepLine(line, trimmed string) bool {
	switch {
	case trimmed == "":
		return true
	case strings.HasPrefix(line, "    "), strings.HasPrefix(line, "\t"):
		return !listMarker.MatchString(line)
	case strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, "|"), strings.HasPrefix(trimmed, "<"):
		return true
	}
	return false
}

// hanging wraps a list item so continuation lines align with its text.
func hanging(marker, body string, cols int) string {
	pad := strings.Repeat(" ", len(marker))
	wrapped := wordwrap.String(body, max(cols-len(marker), 1))
	return marker + strings.ReplaceAll(wrapped, "\n", "\n"+pad)
}
