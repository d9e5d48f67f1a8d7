// Package source resolves the changelog argument to text. A location is a
// file path, "-" for standard input, or an http(s) URL. A file path may be
// read as committed at a git revision instead of from the working tree.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/asdf-format/changelog-md/internal/git"
	"github.com/asdf-format/changelog-md/internal/logging"
)

// DefaultTimeout is the default timeout for fetching a changelog URL.
const DefaultTimeout = 5 * time.Second

// Stdin is the location that reads standard input.
const Stdin = "-"

// ReadError is returned when a changelog location cannot be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// Options controls how a location is read.
type Options struct {
	// Revision reads a file path as committed at this git revision.
	Revision string
	// Timeout bounds URL fetches. Zero means DefaultTimeout.
	Timeout time.Duration
	// Client is used for URL fetches. Nil means a client with Timeout.
	Client *http.Client
	// Stdin is read for the "-" location. Nil means os.Stdin.
	Stdin  io.Reader
	Logger *logging.Logger
}

// IsURL reports whether location is an http or https URL.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Read returns the text at location. Failures are returned as *ReadError.
func Read(ctx context.Context, location string, opts Options) (string, error) {
	start := time.Now()

	text, err := read(ctx, location, opts)
	if err != nil {
		return "", &ReadError{Path: location, Err: err}
	}

	logging.OrDiscard(opts.Logger).SourceRead(describe(location, opts.Revision), len(text), time.Since(start))
	return text, nil
}

func read(ctx context.Context, location string, opts Options) (string, error) {
	switch {
	case location == "":
		return "", errors.New("no changelog path given")
	case IsURL(location):
		if opts.Revision != "" {
			return "", errors.New("a git revision cannot be combined with a URL")
		}
		return fetch(ctx, location, opts)
	case location == Stdin:
		if opts.Revision != "" {
			return "", errors.New("a git revision cannot be combined with standard input")
		}
		return readStdin(opts.Stdin)
	case opts.Revision != "":
		return git.ReadFileAtRevision(location, opts.Revision)
	}
	return readFile(location)
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		var pe *fs.PathError
		if errors.As(err, &pe) {
			return "", pe.Err
		}
		return "", err
	}
	return string(data), nil
}

func readStdin(r io.Reader) (string, error) {
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// fetch downloads the changelog at url.
func fetch(ctx context.Context, url string, opts Options) (string, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	return string(body), nil
}

func describe(location, rev string) string {
	if rev != "" {
		return location + "@" + rev
	}
	return location
}
