package detail_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	extractorconfig "github.com/tknemuru/kindergarten-collecting/internal/config/extractor"
	"github.com/tknemuru/kindergarten-collecting/internal/detail"
	"github.com/tknemuru/kindergarten-collecting/internal/dom"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
)

type row struct{ label, cell string }

func page(name string, rows ...row) string {
	var b strings.Builder
	b.WriteString(`<html><body><h3 class="subsubtitle">` + name + `</h3><table class="map">`)
	for _, r := range rows {
		b.WriteString(`<tr><th><a>` + r.label + `</a></th><td>` + r.cell + `</td></tr>`)
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

func pre(s string) string { return "<pre>" + s + "</pre>" }

func address(text, mapHref string) string {
	return `<div><pre>` + text + `</pre><a href="` + mapHref + `">地図</a></div>`
}

func link(href string) string { return `<a href="` + href + `">` + href + `</a>` }

func newExtractor() *detail.Extractor {
	return detail.NewExtractor(extractorconfig.New(), logger.NewNoOp())
}

func writePages(t *testing.T, pages map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range pages {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func ids(s *detail.Schema) []string {
	var out []string
	for _, f := range s.Fields() {
		out = append(out, f.ID)
	}
	return out
}

func TestExtract_EndToEnd(t *testing.T) {
	t.Parallel()

	dir := writePages(t, map[string]string{
		"1.html": page("さくら保育園",
			row{"住所", address("千代田区1-1", "https://maps.test/?q=1")},
			row{"定員", pre("60")},
		),
		"2.html": page("ひまわり保育園",
			row{"定員", pre("45")},
			row{"URL", link("https://himawari.test")},
		),
	})

	schema, records, err := newExtractor().Extract([]string{"1.html", "2.html"}, dir)
	require.NoError(t, err)

	assert.Equal(t, []detail.FieldSpec{
		{ID: "kinderName", Title: "保育施設名"},
		{ID: "住所", Title: "住所"},
		{ID: "addressMap", Title: "住所の地図"},
		{ID: "定員", Title: "定員"},
		{ID: "URL", Title: "URL"},
	}, schema.Fields())

	require.Len(t, records, 2)
	assert.Equal(t, detail.Record{
		"kinderName": "さくら保育園",
		"住所":         "千代田区1-1",
		"addressMap": "https://maps.test/?q=1",
		"定員":         "60",
	}, records[0])
	assert.Equal(t, detail.Record{
		"kinderName": "ひまわり保育園",
		"定員":         "45",
		"URL":        "https://himawari.test",
	}, records[1])

	assert.Equal(t,
		[]string{"ひまわり保育園", "", "", "45", "https://himawari.test"},
		schema.Row(records[1]),
	)
}

func TestExtract_AddressSideEffectAddedOnce(t *testing.T) {
	t.Parallel()

	dir := writePages(t, map[string]string{
		"a.html": page("A", row{"住所", address("x", "m1")}),
		"b.html": page("B", row{"住所", address("y", "m2")}),
	})

	schema, records, err := newExtractor().Extract([]string{"a.html", "b.html"}, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"kinderName", "住所", "addressMap"}, ids(schema))
	assert.Equal(t, "m2", records[1]["addressMap"])
}

func TestExtract_SchemaIsMonotonic(t *testing.T) {
	t.Parallel()

	pages := []string{
		page("A", row{"定員", pre("1")}, row{"電話", pre("03")}),
		page("B", row{"開所時間", pre("7:00")}, row{"定員", pre("2")}),
		page("C", row{"住所", address("z", "m")}),
		page("D"),
		page("E", row{"電話", pre("04")}, row{"URL", link("u")}),
	}

	e := newExtractor()
	schema := e.NewSchema()
	prev := ids(schema)
	for _, body := range pages {
		doc, err := dom.Parse(strings.NewReader(body))
		require.NoError(t, err)
		e.ExtractPage(doc, schema)

		curr := ids(schema)
		require.GreaterOrEqual(t, len(curr), len(prev))
		assert.Equal(t, prev, curr[:len(prev)], "existing fields keep their order")
		prev = curr
	}
	assert.Equal(t, []string{"kinderName", "定員", "電話", "開所時間", "住所", "addressMap", "URL"}, prev)
}

func TestExtract_MissingElementsAreEmpty(t *testing.T) {
	t.Parallel()

	dir := writePages(t, map[string]string{
		"x.html": `<table class="map">
<tr><th><a>住所</a></th><td>no div here</td></tr>
<tr><th><a>URL</a></th><td>no link</td></tr>
<tr><th><a>備考</a></th><td>plain text</td></tr>
<tr><th>no anchor</th><td><pre>ignored</pre></td></tr>
</table>`,
	})

	schema, records, err := newExtractor().Extract([]string{"x.html"}, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"kinderName", "住所", "addressMap", "URL", "備考"}, ids(schema))
	assert.Equal(t, detail.Record{
		"kinderName": "",
		"住所":         "",
		"addressMap": "",
		"URL":        "",
		"備考":         "",
	}, records[0])
}

func TestExtract_TrimSpace(t *testing.T) {
	t.Parallel()

	body := page("  名前  ", row{"定員", pre(" 30 \n")})

	cfg := extractorconfig.New()
	raw := detail.NewExtractor(cfg, logger.NewNoOp())
	cfg.TrimSpace = true
	trimmed := detail.NewExtractor(cfg, logger.NewNoOp())

	doc, err := dom.Parse(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, " 30 \n", raw.ExtractPage(doc, raw.NewSchema())["定員"])
	rec := trimmed.ExtractPage(doc, trimmed.NewSchema())
	assert.Equal(t, "30", rec["定員"])
	assert.Equal(t, "名前", rec["kinderName"])
}

func TestExtract_CustomRule(t *testing.T) {
	t.Parallel()

	cfg := extractorconfig.New()
	cfg.Rules = append(cfg.Rules, extractorconfig.Rule{
		Label:        "ホームページ",
		Strategy:     extractorconfig.StrategyLinkHref,
		LinkSelector: "td a",
	})
	e := detail.NewExtractor(cfg, logger.NewNoOp())

	doc, err := dom.Parse(strings.NewReader(page("P", row{"ホームページ", `<span><a href="https://p.test">p</a></span>`})))
	require.NoError(t, err)

	rec := e.ExtractPage(doc, e.NewSchema())
	assert.Equal(t, "https://p.test", rec["ホームページ"])
}

func TestExtract_MissingFile(t *testing.T) {
	t.Parallel()

	_, _, err := newExtractor().Extract([]string{"gone.html"}, t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtract_NoFiles(t *testing.T) {
	t.Parallel()

	schema, records, err := newExtractor().Extract(nil, t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, []string{"保育施設名"}, schema.Titles())
}

func TestExtract_RowsWithoutLabelAreSkipped(t *testing.T) {
	t.Parallel()

	dir := writePages(t, map[string]string{
		"1.html": `<html><body><h3 class="subsubtitle">さくら保育園</h3><table class="map">` +
			`<tr><th><a></a></th><td><pre>empty anchor</pre></td></tr>` +
			`<tr><th>no anchor</th><td><pre>plain header</pre></td></tr>` +
			`<tr><td><pre>no header</pre></td></tr>` +
			`<tr><th><a>定員</a></th><td><pre>60</pre></td></tr>` +
			`</table></body></html>`,
	})

	schema, records, err := newExtractor().Extract([]string{"1.html"}, dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"kinderName", "定員"}, ids(schema))
	require.Len(t, records, 1)
	assert.Equal(t, detail.Record{"kinderName": "さくら保育園", "定員": "60"}, records[0])
	assert.NotContains(t, records[0], "")
}
