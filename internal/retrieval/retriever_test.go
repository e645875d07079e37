package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StyNW7/Zenium/internal/index"
	"github.com/StyNW7/Zenium/pkg/models"
)

func buildIndex() *index.Index {
	return index.Build([]models.CorpusEntry{
		{Query: "i feel anxious about everything", Response: "Let's breathe together."},
		{Query: "i feel anxious at work", Response: "Work stress is heavy."},
		{Query: "i cannot sleep at night", Response: "That sounds exhausting."},
		{Query: "my day was great today", Response: "I'm glad to hear that."},
	})
}

func TestRetrieveRanksRelevantFirst(t *testing.T) {
	results := Retrieve(buildIndex(), "I feel anxious", 4)
	require.NotEmpty(t, results)

	// All anxiety entries score, the unrelated ones do not.
	for _, r := range results {
		assert.Greater(t, r.Score, 0.0)
		assert.Contains(t, r.Entry.Query, "anxious")
	}
	// Descending order.
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestRetrieveRespectsTopK(t *testing.T) {
	results := Retrieve(buildIndex(), "i feel anxious about everything at work", 1)
	assert.Len(t, results, 1)
}

func TestRetrieveNoOverlap(t *testing.T) {
	assert.Empty(t, Retrieve(buildIndex(), "zebra xylophone quartz", 4))
}

func TestRetrieveEmptyIndex(t *testing.T) {
	assert.Nil(t, Retrieve(index.Build(nil), "i feel anxious", 4))

	var nilIndex *index.Index
	assert.Nil(t, Retrieve(nilIndex, "i feel anxious", 4))
}

func TestRetrieveNonPositiveTopK(t *testing.T) {
	assert.Nil(t, Retrieve(buildIndex(), "i feel anxious", 0))
	assert.Nil(t, Retrieve(buildIndex(), "i feel anxious", -1))
}

func TestRetrieveEmptyMessage(t *testing.T) {
	assert.Empty(t, Retrieve(buildIndex(), "", 4))
}
