// Package sink publishes extracted records to secondary stores.
package sink

import (
	"context"
	"time"

	"github.com/tknemuru/kindergarten-collecting/internal/detail"
)

// Batch is the output of one collection run.
type Batch struct {
	RunID       string
	CollectedAt time.Time
	NameField   string
	Schema      *detail.Schema
	Records     []detail.Record
}

// Sink stores a batch.
type Sink interface {
	Name() string
	Write(ctx context.Context, batch Batch) error
}

// Document is the stored shape of one record.
type Document struct {
	RunID       string            `json:"run_id"`
	Position    int               `json:"position"`
	Name        string            `json:"name"`
	Fields      map[string]string `json:"fields"`
	CollectedAt time.Time         `json:"collected_at"`
}

// Documents converts the batch records, in order, keeping only fields present
// in the schema.
func (b Batch) Documents() []Document {
	docs := make([]Document, len(b.Records))
	fields := b.Schema.Fields()
	for i, r := range b.Records {
		values := make(map[string]string, len(r))
		for _, f := range fields {
			if v, ok := r[f.ID]; ok {
				values[f.ID] = v
			}
		}
		docs[i] = Document{
			RunID:       b.RunID,
			Position:    i,
			Name:        r[b.NameField],
			Fields:      values,
			CollectedAt: b.CollectedAt,
		}
	}
	return docs
}
