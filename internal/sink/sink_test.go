package sink_test

import (
	"time"

	"github.com/tknemuru/kindergarten-collecting/internal/detail"
	"github.com/tknemuru/kindergarten-collecting/internal/sink"
)

var collectedAt = time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC)

func testBatch() sink.Batch {
	schema := detail.NewSchema(
		detail.FieldSpec{ID: "kinderName", Title: "保育施設名"},
		detail.FieldSpec{ID: "定員", Title: "定員"},
	)
	return sink.Batch{
		RunID:       "run-1",
		CollectedAt: collectedAt,
		NameField:   "kinderName",
		Schema:      schema,
		Records: []detail.Record{
			{"kinderName": "さくら", "定員": "60"},
			{"kinderName": "ひまわり"},
		},
	}
}
