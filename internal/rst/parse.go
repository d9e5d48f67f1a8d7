package rst

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	enumRe        = regexp.MustCompile(`^(\()?([0-9]+|#|[a-zA-Z]|[ivxlcdm]+|[IVXLCDM]+)([.)])(?: +|$)`)
	gridTopRe     = regexp.MustCompile(`^\+-[-+]+-\+ *$`)
	simpleTopRe   = regexp.MustCompile(`^=+( +=+)+ *$`)
	bulletMarkers = []string{"-", "+", "*", "•", "‣", "⁃"}
)

type lineKind int

const (
	lineText lineKind = iota
	lineBlank
	lineIndented
	lineBullet
	lineEnum
	lineDoctest
	lineLineBlock
	lineGridTable
	lineSimpleTable
	lineExplicit
	lineAnonymous
	lineAdornment
)

// style identifies a section adornment: its character and whether the title
// also carries an overline.
type style struct {
	char byte
	over bool
}

type parser struct {
	doc    *Document
	styles []style
	stack  []*Node
}

// Parse parses src into a Document.
func Parse(src string) (*Document, error) {
	raw := SplitLines(src)
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = expandTabs(l)
	}

	doc := &Document{
		Source:        src,
		Lines:         lines,
		Root:          &Node{Kind: KindDocument, End: len(lines)},
		Targets:       make(map[string]string),
		Substitutions: make(map[string]Substitution),
	}
	p := &parser{doc: doc, stack: []*Node{doc.Root}}

	b := &blockParser{p: p, lines: lines, top: true}
	if err := b.run(); err != nil {
		return nil, err
	}
	p.closeSections(0, len(lines))
	return doc, nil
}

func (p *parser) current() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *parser) levelOf(st style) int {
	for i, s := range p.styles {
		if s == st {
			return i + 1
		}
	}
	return 0
}

// openSection starts a section, closing any open sections at the same or a
// deeper level. A new adornment style may only introduce the level directly
// below the current one.
func (p *parser) openSection(title string, st style, start, line int) error {
	depth := len(p.stack) - 1
	level := p.levelOf(st)
	switch {
	case level == 0 && len(p.styles) != depth:
		return parseErrorf(start+1, "title level inconsistent: %q", title)
	case level == 0:
		p.styles = append(p.styles, st)
		level = len(p.styles)
	case level > depth+1:
		return parseErrorf(start+1, "title level inconsistent: %q", title)
	}

	p.closeSections(level-1, start)
	sec := &Node{Kind: KindSection, Title: title, Level: level, Line: line, Start: start}
	p.current().Append(sec)
	p.stack = append(p.stack, sec)
	return nil
}

func (p *parser) closeSections(depth, end int) {
	for len(p.stack)-1 > depth {
		p.current().End = end
		p.stack = p.stack[:len(p.stack)-1]
	}
}

// blockParser parses one run of body lines. The top-level instance may open
// sections; nested instances (list items, quotes, directive bodies) may not.
type blockParser struct {
	p     *parser
	lines []string
	base  int
	top   bool
	pos   int
	out   []*Node
}

func (b *blockParser) emit(n *Node) {
	if b.top {
		b.p.current().Append(n)
		return
	}
	b.out = append(b.out, n)
}

func (b *blockParser) nested(lines []string, base int) ([]*Node, error) {
	nb := &blockParser{p: b.p, lines: lines, base: base}
	if err := nb.run(); err != nil {
		return nil, err
	}
	return nb.out, nil
}

func (b *blockParser) abs(i int) int {
	return b.base + i
}

func (b *blockParser) run() error {
	for b.pos < len(b.lines) {
		var err error
		switch b.classify(b.pos) {
		case lineBlank:
			b.pos++
		case lineIndented:
			err = b.blockQuote()
		case lineBullet:
			err = b.bulletList()
		case lineEnum:
			err = b.enumList()
		case lineDoctest:
			b.doctest()
		case lineLineBlock:
			b.lineBlock()
		case lineGridTable:
			b.gridTable()
		case lineSimpleTable:
			b.simpleTable()
		case lineExplicit:
			err = b.explicit()
		case lineAnonymous:
			b.anonymousTarget()
		case lineAdornment:
			err = b.adornmentLine()
		default:
			err = b.text()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *blockParser) classify(i int) lineKind {
	line := b.lines[i]
	switch {
	case isBlank(line):
		return lineBlank
	case indentOf(line) > 0:
		return lineIndented
	}
	if _, _, ok := bulletMarker(line); ok {
		return lineBullet
	}
	if b.isEnumItem(i) {
		return lineEnum
	}
	switch {
	case line == ">>>" || strings.HasPrefix(line, ">>> "):
		return lineDoctest
	case line == "|" || strings.HasPrefix(line, "| "):
		return lineLineBlock
	case gridTopRe.MatchString(line):
		return lineGridTable
	case simpleTopRe.MatchString(line):
		return lineSimpleTable
	case line == ".." || strings.HasPrefix(line, ".. "):
		return lineExplicit
	case strings.HasPrefix(line, "__ "):
		return lineAnonymous
	}
	if _, ok := adornment(line); ok {
		return lineAdornment
	}
	return lineText
}

func bulletMarker(line string) (marker string, width int, ok bool) {
	for _, m := range bulletMarkers {
		if !strings.HasPrefix(line, m) {
			continue
		}
		rest := line[len(m):]
		if rest == "" {
			return m, len(m), true
		}
		if rest[0] != ' ' {
			return "", 0, false
		}
		return m, len(line) - len(strings.TrimLeft(rest, " ")), true
	}
	return "", 0, false
}

type enumerator struct {
	open, close string
	seq         string
	value       string
	width       int
}

func parseEnumerator(line string) (enumerator, bool) {
	m := enumRe.FindStringSubmatch(line)
	if m == nil {
		return enumerator{}, false
	}
	if m[1] == "(" && m[3] != ")" {
		return enumerator{}, false
	}
	e := enumerator{open: m[1], close: m[3], value: m[2], width: len(m[0])}
	switch {
	case m[2] == "#":
		e.seq = "auto"
	case m[2][0] >= '0' && m[2][0] <= '9':
		e.seq = "arabic"
	case len(m[2]) == 1 && !strings.ContainsAny(m[2], "ivxlcdmIVXLCDM"):
		e.seq = "alpha"
	case len(m[2]) == 1 && m[2] != "i" && m[2] != "I":
		// single letters like "c" or "v" read as alphabetic
		e.seq = "alpha"
	default:
		e.seq = "roman"
	}
	return e, true
}

func (e enumerator) continues(next enumerator) bool {
	if e.open != next.open || e.close != next.close {
		return false
	}
	return e.seq == next.seq || next.seq == "auto" || e.seq == "auto"
}

// isEnumItem applies the docutils check that an enumerator is followed by a
// blank line, an indented line, another item of the same list, or the end.
func (b *blockParser) isEnumItem(i int) bool {
	e, ok := parseEnumerator(b.lines[i])
	if !ok {
		return false
	}
	if i+1 >= len(b.lines) {
		return true
	}
	next := b.lines[i+1]
	if isBlank(next) || indentOf(next) > 0 {
		return true
	}
	n, ok := parseEnumerator(next)
	return ok && e.continues(n)
}

func (b *blockParser) text() error {
	next := b.pos + 1
	if next < len(b.lines) && !isBlank(b.lines[next]) {
		if indentOf(b.lines[next]) > 0 {
			return b.definitionList()
		}
		if c, ok := adornment(b.lines[next]); ok {
			handled, err := b.underlinedTitle(c)
			if handled || err != nil {
				return err
			}
		}
	}
	b.paragraph()
	return nil
}

func (b *blockParser) underlinedTitle(c byte) (bool, error) {
	title := strings.TrimRight(b.lines[b.pos], " ")
	under := strings.TrimRight(b.lines[b.pos+1], " ")
	if titleWidth(title) > len(under) && len(under) < 4 {
		return false, nil
	}
	start := b.abs(b.pos)
	if !b.top {
		return true, parseErrorf(start+1, "unexpected section title: %q", title)
	}
	b.pos += 2
	return true, b.p.openSection(title, style{char: c}, start, start+2)
}

// adornmentLine handles a line of punctuation at the start of a block: an
// overlined title, a transition, or short text.
func (b *blockParser) adornmentLine() error {
	over := strings.TrimRight(b.lines[b.pos], " ")
	short := len(over) < 4
	start := b.abs(b.pos)

	if !b.top {
		if short {
			b.paragraph()
			return nil
		}
		return parseErrorf(start+1, "unexpected section title or transition")
	}

	next := b.pos + 1
	if next >= len(b.lines) || isBlank(b.lines[next]) {
		if short {
			b.paragraph()
			return nil
		}
		b.emit(&Node{Kind: KindTransition, Start: start, End: start + 1})
		b.pos++
		return nil
	}

	fail := func(msg string) error {
		if short {
			b.paragraph()
			return nil
		}
		return parseErrorf(start+1, "%s", msg)
	}
	if next+1 >= len(b.lines) {
		return fail("incomplete section title")
	}
	under := strings.TrimRight(b.lines[next+1], " ")
	if _, ok := adornment(under); !ok {
		return fail("missing matching underline for section title overline")
	}
	if under != over {
		return fail("title overline & underline mismatch")
	}
	title := strings.TrimSpace(b.lines[next])
	if titleWidth(title) > len(over) && short {
		b.paragraph()
		return nil
	}
	b.pos += 3
	return b.p.openSection(title, style{char: over[0], over: true}, start, start+3)
}

func (b *blockParser) paragraph() {
	start := b.pos
	end := start + 1
	for end < len(b.lines) && !isBlank(b.lines[end]) && indentOf(b.lines[end]) == 0 {
		end++
	}
	b.pos = end

	text := strings.TrimRight(strings.Join(b.lines[start:end], "\n"), " ")
	literal := strings.HasSuffix(text, "::")
	if literal {
		body := strings.TrimSuffix(text, "::")
		switch trimmed := strings.TrimRight(body, " \n"); {
		case trimmed == "":
			text = ""
		case trimmed != body:
			text = trimmed
		default:
			text = body + ":"
		}
	}
	if text != "" {
		b.emit(&Node{Kind: KindParagraph, Text: text, Start: b.abs(start), End: b.abs(end)})
	}
	if literal {
		b.literalBlock()
	}
}

func (b *blockParser) literalBlock() {
	i := skipBlank(b.lines, b.pos)
	if i >= len(b.lines) || indentOf(b.lines[i]) == 0 {
		return
	}
	end := indentedEnd(b.lines, i)
	b.emit(&Node{
		Kind:  KindLiteral,
		Text:  strings.Join(dedent(b.lines[i:end]), "\n"),
		Start: b.abs(i),
		End:   b.abs(end),
	})
	b.pos = end
}

func (b *blockParser) blockQuote() error {
	start := b.pos
	end := indentedEnd(b.lines, start)
	children, err := b.nested(dedent(b.lines[start:end]), b.abs(start))
	if err != nil {
		return err
	}
	b.emit(&Node{Kind: KindBlockQuote, Children: children, Start: b.abs(start), End: b.abs(end)})
	b.pos = end
	return nil
}

// listItem parses the item whose marker occupies the first width columns of
// the current line.
func (b *blockParser) listItem(width int) (*Node, error) {
	start := b.pos
	first := ""
	if width < len(b.lines[start]) {
		first = b.lines[start][width:]
	}
	end := indentedEnd(b.lines, start+1)
	body := append([]string{first}, dedent(b.lines[start+1:end])...)
	children, err := b.nested(body, b.abs(start))
	if err != nil {
		return nil, err
	}
	b.pos = end
	return &Node{Kind: KindListItem, Children: children, Start: b.abs(start), End: b.abs(end)}, nil
}

func (b *blockParser) bulletList() error {
	marker, _, _ := bulletMarker(b.lines[b.pos])
	list := &Node{Kind: KindBulletList, Start: b.abs(b.pos), Attrs: map[string]string{"marker": marker}}
	for {
		_, width, _ := bulletMarker(b.lines[b.pos])
		item, err := b.listItem(width)
		if err != nil {
			return err
		}
		list.Append(item)
		list.End = item.End

		j := skipBlank(b.lines, b.pos)
		if j >= len(b.lines) {
			break
		}
		if m, _, ok := bulletMarker(b.lines[j]); !ok || m != marker {
			break
		}
		b.pos = j
	}
	b.emit(list)
	return nil
}

func (b *blockParser) enumList() error {
	first, _ := parseEnumerator(b.lines[b.pos])
	list := &Node{Kind: KindEnumList, Start: b.abs(b.pos), Attrs: map[string]string{}}
	switch first.seq {
	case "arabic":
		if n, err := strconv.Atoi(first.value); err == nil && n != 1 {
			list.Attrs["start"] = strconv.Itoa(n)
		}
	case "alpha":
		if first.value == strings.ToUpper(first.value) {
			list.Attrs["type"] = "A"
		} else {
			list.Attrs["type"] = "a"
		}
	case "roman":
		if first.value == strings.ToUpper(first.value) {
			list.Attrs["type"] = "I"
		} else {
			list.Attrs["type"] = "i"
		}
	}

	for {
		e, _ := parseEnumerator(b.lines[b.pos])
		item, err := b.listItem(e.width)
		if err != nil {
			return err
		}
		list.Append(item)
		list.End = item.End

		j := skipBlank(b.lines, b.pos)
		if j >= len(b.lines) {
			break
		}
		next, ok := parseEnumerator(b.lines[j])
		if !ok || !first.continues(next) {
			break
		}
		b.pos = j
	}
	b.emit(list)
	return nil
}

func (b *blockParser) definitionList() error {
	list := &Node{Kind: KindDefinitionList, Start: b.abs(b.pos)}
	for {
		term := strings.TrimSpace(b.lines[b.pos])
		if i := strings.Index(term, " : "); i > 0 {
			term = term[:i]
		}
		start := b.pos
		end := indentedEnd(b.lines, start+1)
		children, err := b.nested(dedent(b.lines[start+1:end]), b.abs(start+1))
		if err != nil {
			return err
		}
		list.Append(&Node{
			Kind:     KindDefinition,
			Title:    term,
			Children: children,
			Start:    b.abs(start),
			End:      b.abs(end),
		})
		list.End = b.abs(end)
		b.pos = end

		j := skipBlank(b.lines, b.pos)
		if j+1 >= len(b.lines) || b.classify(j) != lineText {
			break
		}
		if isBlank(b.lines[j+1]) || indentOf(b.lines[j+1]) == 0 {
			break
		}
		b.pos = j
	}
	b.emit(list)
	return nil
}

func (b *blockParser) doctest() {
	start := b.pos
	end := start
	for end < len(b.lines) && !isBlank(b.lines[end]) {
		end++
	}
	b.emit(&Node{
		Kind:  KindCode,
		Lang:  "pycon",
		Text:  strings.Join(b.lines[start:end], "\n"),
		Start: b.abs(start),
		End:   b.abs(end),
	})
	b.pos = end
}

func (b *blockParser) lineBlock() {
	start := b.pos
	var out []string
	for b.pos < len(b.lines) {
		line := b.lines[b.pos]
		switch {
		case line == "|" || strings.HasPrefix(line, "| "):
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "|")))
		case !isBlank(line) && indentOf(line) > 0 && len(out) > 0:
			out[len(out)-1] += " " + strings.TrimSpace(line)
		default:
			b.emitLineBlock(out, start)
			return
		}
		b.pos++
	}
	b.emitLineBlock(out, start)
}

func (b *blockParser) emitLineBlock(lines []string, start int) {
	b.emit(&Node{
		Kind:  KindLineBlock,
		Text:  strings.Join(lines, "\n"),
		Start: b.abs(start),
		End:   b.abs(b.pos),
	})
}

func (b *blockParser) gridTable() {
	start := b.pos
	for b.pos < len(b.lines) {
		line := b.lines[b.pos]
		if !strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "|") {
			break
		}
		b.pos++
	}
	b.emitTable(start)
}

func (b *blockParser) simpleTable() {
	start := b.pos
	b.pos++
	for b.pos < len(b.lines) {
		line := b.lines[b.pos]
		b.pos++
		if !simpleTopRe.MatchString(line) && !isBorder(line) {
			continue
		}
		if b.pos >= len(b.lines) || isBlank(b.lines[b.pos]) {
			break
		}
	}
	b.emitTable(start)
}

func isBorder(line string) bool {
	c, ok := adornment(line)
	return ok && c == '='
}

func (b *blockParser) emitTable(start int) {
	b.emit(&Node{
		Kind:  KindTable,
		Text:  strings.Join(b.lines[start:b.pos], "\n"),
		Start: b.abs(start),
		End:   b.abs(b.pos),
	})
}

func (b *blockParser) anonymousTarget() {
	start := b.pos
	end := indentedEnd(b.lines, start+1)
	uri := strings.TrimSpace(strings.TrimPrefix(b.lines[start], "__ "))
	for _, l := range b.lines[start+1 : end] {
		uri += strings.TrimSpace(l)
	}
	b.p.doc.anonymous = append(b.p.doc.anonymous, uri)
	b.pos = end
}
