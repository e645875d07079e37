// Package index builds the term-frequency weighted vector space over the
// corpus queries.
package index

import (
	"math"
	"regexp"

	"github.com/StyNW7/Zenium/internal/corpus"
	"github.com/StyNW7/Zenium/pkg/models"
)

// SparseVector maps vocabulary column to weight.
type SparseVector map[int]float64

// Index is an immutable (per build) sparse TF-IDF matrix over 1-2 word
// spans of the normalized corpus queries, positionally aligned with its
// entries. Rebuilds are always a full re-fit; there is no incremental
// update path.
type Index struct {
	Vocab   map[string]int
	IDF     []float64
	Rows    []SparseVector
	Entries []models.CorpusEntry
}

var tokenRe = regexp.MustCompile(`[a-z0-9_']{2,}`)

// terms produces the unigram and bigram features of normalized text.
func terms(text string) []string {
	tokens := tokenRe.FindAllString(text, -1)
	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// Build fits a new index over the entries. The minimum document frequency
// is 1: the corpus is small and curated, so rare terms are kept. Queries
// are re-normalized here so the fitted space can never diverge from the
// query-side normalization.
func Build(entries []models.CorpusEntry) *Index {
	ix := &Index{
		Vocab:   make(map[string]int),
		Entries: entries,
	}

	docTerms := make([][]string, len(entries))
	df := make(map[string]int)
	for i, e := range entries {
		docTerms[i] = terms(corpus.Normalize(e.Query))
		seen := make(map[string]bool, len(docTerms[i]))
		for _, t := range docTerms[i] {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	for i := range entries {
		for _, t := range docTerms[i] {
			if _, ok := ix.Vocab[t]; !ok {
				ix.Vocab[t] = len(ix.Vocab)
			}
		}
	}

	n := float64(len(entries))
	ix.IDF = make([]float64, len(ix.Vocab))
	for t, col := range ix.Vocab {
		// Smoothed idf, matching the fitted vectorizer the corpus was
		// originally indexed with.
		ix.IDF[col] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	ix.Rows = make([]SparseVector, len(entries))
	for i := range entries {
		ix.Rows[i] = ix.weigh(docTerms[i])
	}
	return ix
}

// Vectorize converts a normalized message into the fitted space. Terms
// outside the vocabulary are ignored. Callers must pass text normalized
// with corpus.Normalize.
func (ix *Index) Vectorize(normalized string) SparseVector {
	return ix.weigh(terms(normalized))
}

// weigh computes the L2-normalized tf-idf vector of a term list.
func (ix *Index) weigh(termList []string) SparseVector {
	v := make(SparseVector)
	for _, t := range termList {
		if col, ok := ix.Vocab[t]; ok {
			v[col] += ix.IDF[col]
		}
	}
	var norm float64
	for _, w := range v {
		norm += w * w
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for col, w := range v {
		v[col] = w / norm
	}
	return v
}

// Cosine computes cosine similarity between two vectors from the same
// space. Both sides are L2-normalized, so this is a dot product.
func Cosine(a, b SparseVector) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for col, w := range a {
		if bw, ok := b[col]; ok {
			dot += w * bw
		}
	}
	return dot
}

// Size returns the number of indexed entries.
func (ix *Index) Size() int {
	if ix == nil {
		return 0
	}
	return len(ix.Entries)
}
