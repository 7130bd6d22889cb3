package pagestore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tknemuru/kindergarten-collecting/internal/pagestore"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
}

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.html")
	touch(t, file)

	assert.True(t, pagestore.Exists(file))
	assert.False(t, pagestore.Exists(dir), "directories are not pages")
	assert.False(t, pagestore.Exists(filepath.Join(dir, "missing.html")))
}

func TestPurge_NonRecursiveAndScoped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	curr := filepath.Join(root, "curr")
	all := filepath.Join(root, "all")
	nested := filepath.Join(all, "nested")
	require.NoError(t, pagestore.EnsureDirs(curr, all, nested))

	touch(t, filepath.Join(curr, "1.html"))
	touch(t, filepath.Join(all, "1.html"))
	touch(t, filepath.Join(all, "2.html"))
	touch(t, filepath.Join(nested, "deep.html"))

	removed, err := pagestore.Purge(all)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	assert.True(t, pagestore.Exists(filepath.Join(curr, "1.html")))
	assert.True(t, pagestore.Exists(filepath.Join(nested, "deep.html")))
	names, err := pagestore.List(all)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestPurge_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := pagestore.Purge(filepath.Join(t.TempDir(), "nope"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPurge_File(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "f")
	touch(t, file)
	_, err := pagestore.Purge(file)
	require.ErrorIs(t, err, pagestore.ErrNotDirectory)
}

func TestList_SortedRegularFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"c.html", "a.html", "b.html"} {
		touch(t, filepath.Join(dir, name))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	names, err := pagestore.List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.html", "b.html", "c.html"}, names)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")

	require.NoError(t, pagestore.WriteFile(path, []byte("first")))
	require.NoError(t, pagestore.WriteFile(path, []byte("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	t.Parallel()

	err := pagestore.WriteFile(filepath.Join(t.TempDir(), "missing", "page.html"), []byte("x"))
	require.Error(t, err)
}

func TestDetailToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://example.test/spdesc.php?id=123", want: "123"},
		{url: "spdesc.php?code=A-9", want: "A-9"},
		{url: "https://example.test/spdesc.php", wantErr: true},
		{url: "https://example.test/spdesc.php?id=1&x=2", wantErr: true},
		{url: "https://example.test/spdesc.php?id=", wantErr: true},
		{url: "https://example.test/spdesc.php?id=..", wantErr: true},
		{url: "https://example.test/spdesc.php?id=a/b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			got, err := pagestore.DetailToken(tt.url)
			if tt.wantErr {
				require.ErrorIs(t, err, pagestore.ErrInvalidDetailURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNamers(t *testing.T) {
	t.Parallel()

	dir := filepath.Join("resources", "kinders")

	name, err := pagestore.DetailNamer(dir)("https://example.test/spdesc.php?id=42")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "42.html"), name)

	_, err = pagestore.DetailNamer(dir)("https://example.test/none")
	require.Error(t, err)

	first, err := pagestore.ListingNamer(dir)("https://example.test/list")
	require.NoError(t, err)
	second, err := pagestore.ListingNamer(dir)("https://example.test/list")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(first, pagestore.PageExt))
	assert.Equal(t, dir, filepath.Dir(first))
}
