package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	firstChanges  = "1.0.0 (2024-01-01)\n==================\n\n- Initial release.\n"
	secondChanges = "1.1.0 (2024-02-01)\n==================\n\n- Add a feature.\n\n" + firstChanges
)

// initRepo creates a repository with two commits to docs/CHANGES.rst and a
// v1.0.0 tag on the first one.
func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	path := filepath.Join(dir, "docs", "CHANGES.rst")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	commit := func(content, msg string) {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := wt.Add("docs/CHANGES.rst")
		require.NoError(t, err)
		_, err = wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
		})
		require.NoError(t, err)
	}

	commit(firstChanges, "release 1.0.0")
	head, err := repo.Head()
	require.NoError(t, err)
	_, err = repo.CreateTag("v1.0.0", head.Hash(), nil)
	require.NoError(t, err)

	commit(secondChanges, "release 1.1.0")
	return dir
}

func TestReadFileAtRevision(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)
	path := filepath.Join(dir, "docs", "CHANGES.rst")

	tests := map[string]struct {
		rev  string
		want string
	}{
		"head":        {rev: "HEAD", want: secondChanges},
		"parent":      {rev: "HEAD~1", want: firstChanges},
		"tag":         {rev: "v1.0.0", want: firstChanges},
		"branch name": {rev: "master", want: secondChanges},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ReadFileAtRevision(path, tt.rev)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFileAtRevision_Errors(t *testing.T) {
	t.Parallel()

	dir := initRepo(t)

	t.Run("unknown revision", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFileAtRevision(filepath.Join(dir, "docs", "CHANGES.rst"), "v9.9.9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `resolving revision "v9.9.9"`)
	})

	t.Run("file missing at revision", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFileAtRevision(filepath.Join(dir, "CHANGES.rst"), "HEAD")
		var nf *FileNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "CHANGES.rst", nf.Path)
		assert.Equal(t, "CHANGES.rst does not exist at revision HEAD", err.Error())
	})

	t.Run("not a repository", func(t *testing.T) {
		t.Parallel()
		_, err := ReadFileAtRevision(filepath.Join(t.TempDir(), "CHANGES.rst"), "HEAD")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening repository")
	})
}

func TestSetDebugLogger(t *testing.T) {
	var messages []string
	SetDebugLogger(func(format string, args ...any) {
		messages = append(messages, format)
	})
	t.Cleanup(func() { SetDebugLogger(nil) })

	logDebug("[git] test %s", "message")
	assert.Equal(t, []string{"[git] test %s"}, messages)
}
