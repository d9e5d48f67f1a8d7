package rst

import "strings"

// Kind identifies the type of a block-level node.
type Kind int

const (
	KindDocument Kind = iota
	KindSection
	KindParagraph
	KindBulletList
	KindEnumList
	KindListItem
	KindLiteral
	KindCode
	KindAdmonition
	KindVersionNote
	KindBlockQuote
	KindDefinitionList
	KindDefinition
	KindImage
	KindRaw
	KindTable
	KindLineBlock
	KindTransition
)

var kindNames = map[Kind]string{
	KindDocument:       "document",
	KindSection:        "section",
	KindParagraph:      "paragraph",
	KindBulletList:     "bullet_list",
	KindEnumList:       "enumerated_list",
	KindListItem:       "list_item",
	KindLiteral:        "literal_block",
	KindCode:           "code_block",
	KindAdmonition:     "admonition",
	KindVersionNote:    "versionmodified",
	KindBlockQuote:     "block_quote",
	KindDefinitionList: "definition_list",
	KindDefinition:     "definition_list_item",
	KindImage:          "image",
	KindRaw:            "raw",
	KindTable:          "table",
	KindLineBlock:      "line_block",
	KindTransition:     "transition",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Node is a block-level element of a parsed document.
//
// Start and End are 0-indexed line numbers delimiting the half-open range
// [Start, End) of source lines the node was built from. For sections, Line
// is the 1-indexed line of the title's underline, matching the line number
// docutils reports for section nodes.
type Node struct {
	Kind     Kind
	Title    string // section title, admonition label, definition term
	Text     string // raw inline text of paragraphs, verbatim content of literals
	Lang     string
	Level    int
	Line     int
	Start    int
	End      int
	Attrs    map[string]string
	Children []*Node
}

// Append adds child nodes.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Walk visits n and its descendants depth-first, stopping early when fn
// returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Document is the result of parsing reStructuredText source.
type Document struct {
	Source string
	Lines  []string
	Root   *Node

	// Targets maps normalized reference names to URIs.
	Targets map[string]string
	// Substitutions maps substitution names to their inline replacement text.
	Substitutions map[string]Substitution

	anonymous []string
}

// Substitution is the value of a substitution definition. Exactly one of
// Text or Image is set.
type Substitution struct {
	Text  string
	Image string
}

// Sections returns the top-level sections in document order.
func (d *Document) Sections() []*Node {
	var out []*Node
	for _, c := range d.Root.Children {
		if c.Kind == KindSection {
			out = append(out, c)
		}
	}
	return out
}

// HasSections reports whether any section exists anywhere in the document.
func (d *Document) HasSections() bool {
	found := false
	d.Root.Walk(func(n *Node) bool {
		if n.Kind == KindSection {
			found = true
			return false
		}
		return true
	})
	return found
}

// normalizeName folds a reference name the way docutils does: whitespace
// runs collapse to one space and case is ignored.
func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
