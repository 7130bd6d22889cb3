// Package listing discovers detail-page URLs on downloaded listing pages.
package listing

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tknemuru/kindergarten-collecting/internal/dom"
	"github.com/tknemuru/kindergarten-collecting/internal/pagestore"
)

// ExtractDetailURLs scans every regular file in dir, in name order, and returns
// the href of each anchor containing pattern, resolved against baseURL. Relative
// hrefs become strings.TrimRight(baseURL, "/") + "/" + href; absolute http(s)
// hrefs are kept as they are. Duplicates are preserved in document order.
func ExtractDetailURLs(dir, baseURL, pattern string) ([]string, error) {
	names, err := pagestore.List(dir)
	if err != nil {
		return nil, err
	}

	base := strings.TrimRight(baseURL, "/")
	var urls []string
	for _, name := range names {
		doc, err := dom.ParseFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("listing page %s: %w", name, err)
		}
		urls = append(urls, detailURLs(doc, base, pattern)...)
	}
	return urls, nil
}

func detailURLs(doc *dom.Document, base, pattern string) []string {
	var urls []string
	for _, a := range doc.SelectAll("a") {
		href, ok := a.Attr("href")
		if !ok || !strings.Contains(href, pattern) {
			continue
		}
		urls = append(urls, resolve(base, href))
	}
	return urls
}

func resolve(base, href string) string {
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return href
	}
	return base + "/" + href
}
