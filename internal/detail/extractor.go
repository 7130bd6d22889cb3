// Package detail turns detail pages into records and grows a shared column
// schema as new row labels appear.
package detail

import (
	"fmt"
	"path/filepath"
	"strings"

	extractorconfig "github.com/tknemuru/kindergarten-collecting/internal/config/extractor"
	"github.com/tknemuru/kindergarten-collecting/internal/dom"
	"github.com/tknemuru/kindergarten-collecting/internal/logger"
)

// Extractor reads detail pages using the configured selectors and rules.
type Extractor struct {
	cfg   extractorconfig.Config
	rules map[string]extractorconfig.Rule
	log   logger.Interface
}

// NewExtractor creates an Extractor. When several rules share a label the
// first one wins.
func NewExtractor(cfg extractorconfig.Config, log logger.Interface) *Extractor {
	rules := make(map[string]extractorconfig.Rule, len(cfg.Rules))
	for _, r := range cfg.Rules {
		if _, ok := rules[r.Label]; !ok {
			rules[r.Label] = r
		}
	}
	return &Extractor{cfg: cfg, rules: rules, log: log}
}

// NewSchema returns a schema holding only the facility-name field.
func (e *Extractor) NewSchema() *Schema {
	return NewSchema(FieldSpec{ID: e.cfg.NameField, Title: e.cfg.NameTitle})
}

// Extract parses each file in dir, in the given order, and returns the schema
// discovered across them together with one record per file.
func (e *Extractor) Extract(files []string, dir string) (*Schema, []Record, error) {
	schema := e.NewSchema()
	records := make([]Record, 0, len(files))

	for _, name := range files {
		doc, err := dom.ParseFile(filepath.Join(dir, name))
		if err != nil {
			return nil, nil, fmt.Errorf("detail page %s: %w", name, err)
		}
		records = append(records, e.ExtractPage(doc, schema))
	}

	e.log.Info("extract end", "files", len(files), "fields", schema.Len())
	return schema, records, nil
}

// ExtractPage reads one page into a record, registering new labels in schema.
func (e *Extractor) ExtractPage(doc *dom.Document, schema *Schema) Record {
	record := Record{
		e.cfg.NameField: e.clean(doc.First(e.cfg.NameSelector).Text()),
	}

	for _, row := range doc.SelectAll(e.cfg.RowSelector) {
		label := text(row, e.cfg.LabelSelector)
		if label == "" {
			e.log.Debug("row without label skipped")
			continue
		}
		schema.Add(FieldSpec{ID: label, Title: label})

		rule, ok := e.rules[label]
		if !ok {
			record[label] = e.clean(text(row, e.cfg.ValueSelector))
			continue
		}
		e.apply(rule, row, schema, record)
	}
	return record
}

func (e *Extractor) apply(rule extractorconfig.Rule, row dom.Element, schema *Schema, record Record) {
	switch rule.Strategy {
	case extractorconfig.StrategyLinkHref:
		record[rule.Label] = e.clean(href(row, rule.LinkSelector))

	case extractorconfig.StrategyPreTextWithLink:
		record[rule.Label] = e.clean(text(row, e.valueSelector(rule)))
		schema.Add(FieldSpec{ID: rule.LinkField, Title: rule.LinkTitle})
		record[rule.LinkField] = e.clean(href(row, rule.LinkSelector))

	default:
		record[rule.Label] = e.clean(text(row, e.valueSelector(rule)))
	}
}

func (e *Extractor) valueSelector(rule extractorconfig.Rule) string {
	if rule.ValueSelector != "" {
		return rule.ValueSelector
	}
	return e.cfg.ValueSelector
}

func (e *Extractor) clean(s string) string {
	if e.cfg.TrimSpace {
		return strings.TrimSpace(s)
	}
	return s
}

// text concatenates the text of every match.
func text(row dom.Element, selector string) string {
	var b strings.Builder
	for _, el := range row.Find(selector) {
		b.WriteString(el.Text())
	}
	return b.String()
}

// href returns the href of the first match, or "".
func href(row dom.Element, selector string) string {
	v, _ := row.FindFirst(selector).Attr("href")
	return v
}
