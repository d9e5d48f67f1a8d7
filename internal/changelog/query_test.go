package changelog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *Changelog {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	cl, err := Parse(string(data), ParseOptions{})
	require.NoError(t, err)
	return cl
}

func TestGetEntry(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		fixture   string
		query     string
		wantTitle string
	}{
		"exact version": {
			fixture:   "asdf.rst",
			query:     "3.0.1",
			wantTitle: "3.0.1 (2023-10-30)",
		},
		"with v prefix": {
			fixture:   "asdf.rst",
			query:     "v3.0.2",
			wantTitle: "3.0.2 (2023-12-12)",
		},
		"full title": {
			fixture:   "asdf.rst",
			query:     "3.0.1 (2023-10-30)",
			wantTitle: "3.0.1 (2023-10-30)",
		},
		"latest": {
			fixture:   "asdf.rst",
			query:     "latest",
			wantTitle: "3.0.2 (2023-12-12)",
		},
		"empty query selects latest": {
			fixture:   "asdf.rst",
			query:     "",
			wantTitle: "3.0.2 (2023-12-12)",
		},
		"unreleased": {
			fixture:   "unreleased.rst",
			query:     "unreleased",
			wantTitle: "Unreleased",
		},
		"release skips unreleased": {
			fixture:   "unreleased.rst",
			query:     "release",
			wantTitle: "1.0.0 (2024-01-01)",
		},
		"release when first is released": {
			fixture:   "asdf.rst",
			query:     "Release",
			wantTitle: "3.0.2 (2023-12-12)",
		},
		"title is case-insensitive": {
			fixture:   "unreleased.rst",
			query:     "UNRELEASED",
			wantTitle: "Unreleased",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cl := loadFixture(t, tt.fixture)
			e, err := cl.GetEntry(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, e.Title)
		})
	}
}

func TestGetEntry_NotFound(t *testing.T) {
	t.Parallel()

	cl := loadFixture(t, "asdf.rst")

	_, err := cl.GetEntry("3.0.3")
	require.Error(t, err)

	var nf *EntryNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "3.0.3", nf.Query)
	assert.Equal(t, []string{"3.0.2", "3.0.1"}, nf.Available)
	assert.NotEmpty(t, nf.Suggestions)
	assert.Contains(t, err.Error(), `entry "3.0.3" not found (available: 3.0.2, 3.0.1)`)
	assert.Contains(t, err.Error(), "did you mean")
}

func TestGetEntry_NoSuggestions(t *testing.T) {
	t.Parallel()

	cl := loadFixture(t, "asdf.rst")

	_, err := cl.GetEntry("zzz")
	var nf *EntryNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Empty(t, nf.Suggestions)
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestListLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Unreleased", "1.0.0"}, loadFixture(t, "unreleased.rst").ListLabels())
	assert.Equal(t, []string{"3.0.2 (2023-12-12)", "3.0.1 (2023-10-30)"}, loadFixture(t, "asdf.rst").ListTitles())
}

func TestGetLatestRelease(t *testing.T) {
	t.Parallel()

	cl := loadFixture(t, "unreleased.rst")
	assert.True(t, cl.Latest().IsUnreleased())

	release := cl.GetLatestRelease()
	require.NotNil(t, release)
	assert.Equal(t, "1.0.0", release.Version)

	only, err := Parse("Unreleased\n==========\n", ParseOptions{})
	require.NoError(t, err)
	assert.Nil(t, only.GetLatestRelease())

	_, err = only.GetEntry("release")
	var nf *EntryNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"Unreleased"}, nf.Available)
}
