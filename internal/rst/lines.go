package rst

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 8

// SplitLines splits src into lines ending in "\n", "\r\n" or a lone "\r".
// A trailing line break does not produce an empty final line.
func SplitLines(src string) []string {
	var lines []string
	for src != "" {
		i := strings.IndexAny(src, "\r\n")
		if i < 0 {
			lines = append(lines, src)
			break
		}
		lines = append(lines, src[:i])
		if strings.HasPrefix(src[i:], "\r\n") {
			i++
		}
		src = src[i+1:]
	}
	return lines
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var sb strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col++
	}
	return sb.String()
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}

// isPunct reports whether c is one of the 7-bit ASCII punctuation characters
// usable as a section adornment.
func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') ||
		(c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') ||
		(c >= '{' && c <= '~')
}

// adornment returns the repeated character of an adornment line.
func adornment(line string) (byte, bool) {
	s := strings.TrimRight(line, " ")
	if s == "" || !isPunct(s[0]) {
		return 0, false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return 0, false
		}
	}
	return s[0], true
}

// titleWidth is the display width of a title, counting East Asian wide
// characters as two columns.
func titleWidth(title string) int {
	return runewidth.StringWidth(title)
}

// indentedEnd returns the exclusive end of the indented block starting at
// start. Blank lines belong to the block only when indented lines follow.
func indentedEnd(lines []string, start int) int {
	end := start
	for i := start; i < len(lines); i++ {
		if isBlank(lines[i]) {
			continue
		}
		if indentOf(lines[i]) == 0 {
			break
		}
		end = i + 1
	}
	return end
}

// dedent strips the common leading indentation of the non-blank lines.
func dedent(block []string) []string {
	common := -1
	for _, l := range block {
		if isBlank(l) {
			continue
		}
		if ind := indentOf(l); common < 0 || ind < common {
			common = ind
		}
	}
	out := make([]string, len(block))
	for i, l := range block {
		if isBlank(l) {
			continue
		}
		out[i] = l[common:]
	}
	return out
}

func skipBlank(lines []string, i int) int {
	for i < len(lines) && isBlank(lines[i]) {
		i++
	}
	return i
}
