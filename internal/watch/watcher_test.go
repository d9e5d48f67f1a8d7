package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// waitFor waits until a render reports want. A save can be seen half
// written, so intermediate renders are skipped.
func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case v := <-ch:
			if v == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for a render of %q", want)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		create  bool
		wantErr bool
	}{
		"existing file": {create: true},
		"missing file":  {create: false, wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "CHANGES.rst")
			if tt.create {
				writeFile(t, path, "x")
			}

			w, err := New(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer w.Close()
			assert.True(t, filepath.IsAbs(w.path))
		})
	}
}

func TestWatcher_RerendersOnChange(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGES.rst")
	writeFile(t, path, "first")

	w, err := New(path, WithDebounce(10*time.Millisecond), withPollInterval(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	renders := make(chan string, 100)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			renders <- string(data)
			return nil
		})
	}()

	waitFor(t, renders, "first")

	writeFile(t, path, "second, longer")
	waitFor(t, renders, "second, longer")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_KeepsRunningAfterRenderError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGES.rst")
	writeFile(t, path, "broken")

	w, err := New(path, WithDebounce(10*time.Millisecond), withPollInterval(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()

	calls := make(chan string, 100)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		_ = w.Run(ctx, func(context.Context) error {
			data, _ := os.ReadFile(path)
			calls <- string(data)
			if string(data) == "broken" {
				return errors.New("parse failed")
			}
			return nil
		})
	}()

	waitFor(t, calls, "broken")
	writeFile(t, path, "fixed!")
	waitFor(t, calls, "fixed!")
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "CHANGES.rst")
	writeFile(t, path, "x")

	w, err := New(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
