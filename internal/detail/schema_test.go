package detail_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tknemuru/kindergarten-collecting/internal/detail"
)

func TestSchema_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	s := detail.NewSchema(detail.FieldSpec{ID: "a", Title: "A"})
	assert.True(t, s.Add(detail.FieldSpec{ID: "b", Title: "B"}))
	assert.False(t, s.Add(detail.FieldSpec{ID: "a", Title: "changed"}))
	assert.False(t, s.Add(detail.FieldSpec{ID: "b", Title: "B"}))

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"A", "B"}, s.Titles())
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("c"))
}

func TestSchema_FieldsReturnsCopy(t *testing.T) {
	t.Parallel()

	s := detail.NewSchema(detail.FieldSpec{ID: "a", Title: "A"})
	fields := s.Fields()
	fields[0].Title = "mutated"

	assert.Equal(t, []string{"A"}, s.Titles())
}

func TestSchema_Row(t *testing.T) {
	t.Parallel()

	s := detail.NewSchema(
		detail.FieldSpec{ID: "a", Title: "A"},
		detail.FieldSpec{ID: "b", Title: "B"},
		detail.FieldSpec{ID: "c", Title: "C"},
	)
	assert.Equal(t, []string{"1", "", "3"}, s.Row(detail.Record{"a": "1", "c": "3", "extra": "x"}))
}
