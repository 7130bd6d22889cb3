// Package table writes extracted records as a CSV file and renders run summaries.
package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/tknemuru/kindergarten-collecting/internal/detail"
	"github.com/tknemuru/kindergarten-collecting/internal/pagestore"
)

type options struct {
	bom bool
}

// Option configures Write.
type Option func(*options)

// WithBOM prefixes the output with a UTF-8 byte order mark.
func WithBOM(enabled bool) Option {
	return func(o *options) {
		o.bom = enabled
	}
}

// Write renders the header from schema titles and one row per record, then
// replaces the file at path. Missing fields become empty cells.
func Write(schema *detail.Schema, records []detail.Record, path string, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, schema, records, o.bom); err != nil {
		return err
	}
	if err := pagestore.WriteFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Encode writes the CSV rendering of records to w.
func Encode(w io.Writer, schema *detail.Schema, records []detail.Record, bom bool) error {
	if bom {
		tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		defer tw.Close()
		w = tw
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(schema.Titles()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, r := range records {
		if err := cw.Write(schema.Row(r)); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
