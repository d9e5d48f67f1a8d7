package rst

import "fmt"

// ParseError reports a structural problem severe enough that docutils would
// halt, such as an inconsistent title level or mismatched overline.
type ParseError struct {
	Line int // 1-indexed
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func parseErrorf(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
