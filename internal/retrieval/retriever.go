// Package retrieval ranks corpus entries against an incoming message.
package retrieval

import (
	"sort"

	"github.com/StyNW7/Zenium/internal/corpus"
	"github.com/StyNW7/Zenium/internal/index"
	"github.com/StyNW7/Zenium/pkg/models"
)

// Retrieve returns the topK highest-scoring corpus entries for the
// message, all with strictly positive cosine similarity, sorted
// descending with ties kept in corpus order. A nil or empty index yields
// an empty result: no grounding available, not an error.
func Retrieve(ix *index.Index, message string, topK int) []models.RetrievedExample {
	if ix.Size() == 0 || topK <= 0 {
		return nil
	}

	query := ix.Vectorize(corpus.Normalize(message))
	if len(query) == 0 {
		return nil
	}

	var results []models.RetrievedExample
	for i, row := range ix.Rows {
		score := index.Cosine(query, row)
		if score > 0 {
			results = append(results, models.RetrievedExample{
				Entry: ix.Entries[i],
				Score: score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
