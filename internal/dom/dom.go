// Package dom is the small HTML query surface the extraction stages depend on:
// CSS selection, attribute lookup and text content, backed by goquery.
package dom

import (
	"fmt"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Element is a single matched node.
type Element struct {
	sel *goquery.Selection
}

// Parse reads an HTML document. Parsing is lenient; malformed markup is repaired
// by the HTML5 tree builder rather than rejected.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseFile opens and parses the HTML file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f)
}

// SelectAll returns every element matching selector in document order.
func (d *Document) SelectAll(selector string) []Element {
	return elements(d.doc.Find(selector))
}

// First returns the first element matching selector. The returned element is
// empty when nothing matches.
func (d *Document) First(selector string) Element {
	return Element{sel: d.doc.Find(selector).First()}
}

// Find returns the descendants of e matching selector.
func (e Element) Find(selector string) []Element {
	if e.sel == nil {
		return nil
	}
	return elements(e.sel.Find(selector))
}

// FindFirst returns the first descendant of e matching selector.
func (e Element) FindFirst(selector string) Element {
	if e.sel == nil {
		return Element{}
	}
	return Element{sel: e.sel.Find(selector).First()}
}

// Exists reports whether e refers to a node.
func (e Element) Exists() bool {
	return e.sel != nil && e.sel.Length() > 0
}

// Attr returns the value of the named attribute and whether it is present.
func (e Element) Attr(name string) (string, bool) {
	if !e.Exists() {
		return "", false
	}
	return e.sel.Attr(name)
}

// Text returns the combined text content of e and its descendants.
// An empty element yields "".
func (e Element) Text() string {
	if !e.Exists() {
		return ""
	}
	return e.sel.Text()
}

func elements(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, Element{sel: s})
	})
	return out
}
