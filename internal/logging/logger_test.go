package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewDebug(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		debug     bool
		wantLevel log.Level
		wantOut   bool
	}{
		"debug enabled":  {debug: true, wantLevel: log.DebugLevel, wantOut: true},
		"debug disabled": {debug: false, wantLevel: log.WarnLevel, wantOut: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			l := NewDebug(&buf, tt.debug)
			assert.Equal(t, tt.wantLevel, l.GetLevel())

			l.SectionExtracted("1.0.0", 0, 12)
			if tt.wantOut {
				assert.Contains(t, buf.String(), "section extracted")
				assert.Contains(t, buf.String(), "title=1.0.0")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestWatchError_AlwaysReported(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := New(&buf)
	l.WatchError("CHANGES.rst", errors.New("boom"))
	assert.Contains(t, buf.String(), "render failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	l := OrDiscard(nil)
	assert.NotNil(t, l)
	l.ConversionDone("native", "markdown", 10, time.Millisecond)

	existing := Discard()
	assert.Same(t, existing, OrDiscard(existing))
}
