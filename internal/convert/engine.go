package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/asdf-format/changelog-md/internal/rst"
	gorst "github.com/hhatto/gorst"
)

// htmlEngine renders RST as an HTML fragment.
type htmlEngine interface {
	HTML(src string) (string, error)
}

// gorstEngine renders RST with the PEG parser from hhatto/gorst.
type gorstEngine struct{}

func (gorstEngine) HTML(src string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gorst: %v", r)
		}
	}()

	// gorst only breaks lines at "\n".
	src = strings.Join(rst.SplitLines(src), "\n") + "\n"

	var buf bytes.Buffer
	parser := gorst.NewParser(nil)
	parser.ReStructuredText(strings.NewReader(src), gorst.ToHTML(&buf))
	return buf.String(), nil
}
