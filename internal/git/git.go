// Package git reads changelog files as they were at a given revision. It uses
// the go-git library so that no git binary is needed.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// FileNotFoundError is returned when a path does not exist at a revision.
type FileNotFoundError struct {
	Path     string
	Revision string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s does not exist at revision %s", e.Path, e.Revision)
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// repoRoot returns the absolute, symlink-free worktree root of repo.
func repoRoot(repo *git.Repository) (string, error) {
	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return resolvePath(worktree.Filesystem.Root())
}

func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	return abs, nil
}

func resolveCommit(repo *git.Repository, rev string) (*object.Commit, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("loading commit %s: %w", hash, err)
	}
	logDebug("[git] revision %s resolved to %s", rev, hash)
	return commit, nil
}

// ReadFileAtRevision returns the contents of path as committed at rev. The
// repository is found by walking up from the directory containing path.
func ReadFileAtRevision(path, rev string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	dir, err := resolvePath(filepath.Dir(abs))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	repo, err := openRepo(dir)
	if err != nil {
		return "", err
	}
	root, err := repoRoot(repo)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(root, filepath.Join(dir, filepath.Base(abs)))
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%s is outside the repository at %s", path, root)
	}
	rel = filepath.ToSlash(rel)

	commit, err := resolveCommit(repo, rev)
	if err != nil {
		return "", err
	}

	f, err := commit.File(rel)
	if errors.Is(err, object.ErrFileNotFound) {
		return "", &FileNotFoundError{Path: rel, Revision: rev}
	}
	if err != nil {
		return "", fmt.Errorf("reading %s at %s: %w", rel, rev, err)
	}

	contents, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("reading %s at %s: %w", rel, rev, err)
	}
	logDebug("[git] read %s at %s (%d bytes)", rel, rev, len(contents))
	return contents, nil
}
