package faq

import (
	"context"
	"fmt"
	"sort"
)

// Retriever turns a question into ranked chunk records by delegating
// embedding and nearest-neighbor search to its collaborators.
type Retriever struct {
	embedder EmbeddingModel
	index    VectorIndex
}

func NewRetriever(embedder EmbeddingModel, index VectorIndex) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
	}
}

// Retrieve returns the top-k chunks for the question, ordered by
// descending relevance. Ties are broken by ascending chunk index so the
// ordering is reproducible. The index distance is normalized into a
// similarity where higher is always better.
func (r *Retriever) Retrieve(ctx context.Context, question string, k int) ([]RetrievedChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be at least 1 (got %d)", ErrInvalidConfig, k)
	}

	count, err := r.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: collection is empty, build the index first", ErrIndexUnavailable)
	}

	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding question: %w", ErrRetrieval, err)
	}

	records, err := r.index.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	retrieved := make([]RetrievedChunk, 0, len(records))
	for _, rec := range records {
		retrieved = append(retrieved, RetrievedChunk{
			Chunk:          rec.Chunk,
			RelevanceScore: relevanceFromDistance(rec.Distance),
		})
	}

	sort.SliceStable(retrieved, func(i, j int) bool {
		if retrieved[i].RelevanceScore != retrieved[j].RelevanceScore {
			return retrieved[i].RelevanceScore > retrieved[j].RelevanceScore
		}
		return retrieved[i].Chunk.Index < retrieved[j].Chunk.Index
	})

	return retrieved, nil
}

// relevanceFromDistance inverts an index distance into a similarity in
// (0, 1]. Distance 0 maps to 1 and grows toward 0 as distance increases.
func relevanceFromDistance(distance float64) float64 {
	if distance < 0 {
		distance = 0
	}
	return 1 / (1 + distance)
}
