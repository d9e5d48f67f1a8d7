// Package testutil provides helpers for running the changelog-md binary in
// end-to-end tests.
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"
)

var (
	// binaryPath caches the built changelog-md binary path.
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// E2EEnv provides an isolated environment for E2E testing: a temp working
// directory, a private config home, and an environment with no
// CHANGELOG_MD_* variables.
type E2EEnv struct {
	t       *testing.T
	tempDir string
	homeDir string
	env     []string
}

// CommandResult captures the result of running a changelog-md command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment and builds the binary on
// first use.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	buildOnce.Do(func() {
		binaryPath, buildErr = build()
	})
	if buildErr != nil {
		t.Fatalf("building changelog-md: %v", buildErr)
	}

	e := &E2EEnv{
		t:       t,
		tempDir: t.TempDir(),
		homeDir: t.TempDir(),
	}
	e.env = e.isolatedEnv()
	return e
}

func repoRoot() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	// internal/testutil/ -> repo root
	return filepath.Join(filepath.Dir(currentFile), "..", ".."), nil
}

func build() (string, error) {
	root, err := repoRoot()
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "changelog-md-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	out := filepath.Join(tmpDir, "changelog-md")
	cmd := exec.Command("go", "build", "-o", out, "./cmd/changelog-md")
	cmd.Dir = root
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("go build: %w\nOutput: %s", err, output)
	}
	return out, nil
}

func (e *E2EEnv) isolatedEnv() []string {
	env := []string{
		"HOME=" + e.homeDir,
		"XDG_CONFIG_HOME=" + filepath.Join(e.homeDir, ".config"),
		"NO_COLOR=1",
	}

	safeVars := []string{"PATH", "LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP"}
	for _, key := range safeVars {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return env
}

// Setenv adds an environment variable for subsequent runs.
func (e *E2EEnv) Setenv(key, value string) {
	e.env = append(e.env, key+"="+value)
}

// Run executes changelog-md in the test directory.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()
	return e.RunWithStdin("", args...)
}

// RunWithStdin executes changelog-md with stdin connected to the given text.
func (e *E2EEnv) RunWithStdin(stdin string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = e.tempDir
	cmd.Env = e.env
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
	}
	return result
}

// TempDir returns the working directory of the test environment.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// ConfigHome returns the directory used as XDG_CONFIG_HOME.
func (e *E2EEnv) ConfigHome() string {
	return filepath.Join(e.homeDir, ".config")
}

// WriteFile writes content to name and returns its absolute path. Relative
// names are resolved against the working directory.
func (e *E2EEnv) WriteFile(name, content string) string {
	e.t.Helper()

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.tempDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// InitGitRepo initializes a git repository in the working directory.
func (e *E2EEnv) InitGitRepo() {
	e.t.Helper()

	e.git("init")
	e.git("config", "user.email", "test@test.com")
	e.git("config", "user.name", "Test")
}

// Commit stages everything in the working directory and commits it.
func (e *E2EEnv) Commit(message string) {
	e.t.Helper()

	e.git("add", ".")
	e.git("commit", "-m", message)
}

// Tag creates a lightweight tag at HEAD.
func (e *E2EEnv) Tag(name string) {
	e.t.Helper()
	e.git("tag", name)
}

func (e *E2EEnv) git(args ...string) {
	e.t.Helper()

	cmd := exec.Command("git", args...)
	cmd.Dir = e.tempDir
	cmd.Env = e.env
	if output, err := cmd.CombinedOutput(); err != nil {
		e.t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
}
