package convert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/asdf-format/changelog-md/internal/logging"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// pandocEngine converts RST by piping it through an external pandoc.
type pandocEngine struct {
	bin  string
	exec executor
	log  *logging.Logger
}

func newPandocEngine(bin string, exec executor, log *logging.Logger) *pandocEngine {
	return &pandocEngine{bin: bin, exec: exec, log: log}
}

// pandocArgs builds the command line for converting RST to format.
func pandocArgs(format string, wrap WrapMode, columns int) []string {
	args := []string{"--from", "rst", "--to", format}
	if wrap == WrapAuto {
		return append(args, "--wrap=auto", "--columns="+strconv.Itoa(columns))
	}
	return append(args, "--wrap=none")
}

// Convert runs pandoc on src and returns its stdout.
func (e *pandocEngine) Convert(ctx context.Context, src, format string, wrap WrapMode, columns int) (string, error) {
	path, err := e.exec.LookPath(e.bin)
	if err != nil {
		return "", fmt.Errorf("%s not found on PATH: %w", e.bin, err)
	}

	args := pandocArgs(format, wrap, columns)
	e.log.CommandRun(path, args)

	var stdout, stderr bytes.Buffer
	if err := e.exec.Run(ctx, path, args, strings.NewReader(src), &stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("running %s: %w: %s", e.bin, err, msg)
		}
		return "", fmt.Errorf("running %s: %w", e.bin, err)
	}
	return stdout.String(), nil
}
