package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestNonFileWriters(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, DefaultWidth, GetTerminalWidth(&buf))
}

func TestPrintWatchSeparator(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })

	var buf bytes.Buffer
	at := time.Date(2024, 5, 1, 14, 3, 9, 0, time.UTC)
	PrintWatchSeparator(&buf, "CHANGES.rst", at)

	got := buf.String()
	assert.Contains(t, got, " CHANGES.rst 14:03:09 ")
	assert.True(t, strings.HasPrefix(got, "───"))
	assert.True(t, strings.HasSuffix(got, "───\n"))
}

func TestConfigureColor(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })

	color.NoColor = false
	ConfigureColor(&bytes.Buffer{}, false)
	assert.True(t, color.NoColor, "non-terminal writers disable color")
}
