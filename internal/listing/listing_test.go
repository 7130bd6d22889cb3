package listing_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tknemuru/kindergarten-collecting/internal/listing"
)

const base = "https://www.example.test/kinder"

func writePage(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestExtractDetailURLs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "b.html", `<a href="spdesc.php?id=3">c</a>`)
	writePage(t, dir, "a.html", `<ul>
<li><a href="spdesc.php?id=1">one</a></li>
<li><a href="other.php?id=9">other</a></li>
<li><a>no href</a></li>
<li><a href="spdesc.php?id=2">two</a></li>
<li><a href="spdesc.php?id=1">one again</a></li>
</ul>`)

	urls, err := listing.ExtractDetailURLs(dir, base, "spdesc.php")
	require.NoError(t, err)
	assert.Equal(t, []string{
		base + "/spdesc.php?id=1",
		base + "/spdesc.php?id=2",
		base + "/spdesc.php?id=1",
		base + "/spdesc.php?id=3",
	}, urls)
}

func TestExtractDetailURLs_BaseWithTrailingSlash(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "p.html", `<a href="spdesc.php?id=5">x</a>`)

	urls, err := listing.ExtractDetailURLs(dir, base+"/", "spdesc.php")
	require.NoError(t, err)
	assert.Equal(t, []string{base + "/spdesc.php?id=5"}, urls)
}

func TestExtractDetailURLs_AbsoluteHrefKept(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePage(t, dir, "p.html", `<a href="https://mirror.test/spdesc.php?id=8">x</a>`)

	urls, err := listing.ExtractDetailURLs(dir, base, "spdesc.php")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://mirror.test/spdesc.php?id=8"}, urls)
}

func TestExtractDetailURLs_EveryResultMatchesPattern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var b strings.Builder
	for _, href := range []string{"spdesc.php?id=1", "index.php", "spdesc.php", "#top", "SPDESC.PHP?id=2", "x/spdesc.php?id=3"} {
		b.WriteString(`<a href="` + href + `">l</a>`)
	}
	writePage(t, dir, "p.html", b.String())

	urls, err := listing.ExtractDetailURLs(dir, base, "spdesc.php")
	require.NoError(t, err)
	require.Len(t, urls, 3)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, base+"/"))
		assert.Contains(t, strings.TrimPrefix(u, base+"/"), "spdesc.php")
	}
}

func TestExtractDetailURLs_EmptyDirectory(t *testing.T) {
	t.Parallel()

	urls, err := listing.ExtractDetailURLs(t.TempDir(), base, "spdesc.php")
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestExtractDetailURLs_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := listing.ExtractDetailURLs(filepath.Join(t.TempDir(), "nope"), base, "spdesc.php")
	require.ErrorIs(t, err, os.ErrNotExist)
}
