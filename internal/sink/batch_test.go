package sink_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_Documents(t *testing.T) {
	t.Parallel()

	docs := testBatch().Documents()
	require.Len(t, docs, 2)

	assert.Equal(t, "run-1", docs[0].RunID)
	assert.Equal(t, 0, docs[0].Position)
	assert.Equal(t, "さくら", docs[0].Name)
	assert.Equal(t, map[string]string{"kinderName": "さくら", "定員": "60"}, docs[0].Fields)

	assert.Equal(t, 1, docs[1].Position)
	assert.Equal(t, map[string]string{"kinderName": "ひまわり"}, docs[1].Fields)
	assert.Equal(t, collectedAt, docs[1].CollectedAt)
}
