package faq

import (
	"context"
	"time"
)

// Chunk is the retrieval unit: a bounded, overlap-stitched slice of the
// source document. ChunkID is derived from Index and is stable across
// rebuilds of the same input.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Source  string `json:"source"`
}

// RetrievedChunk pairs a chunk with its relevance score for one query.
// Higher scores mean closer matches.
type RetrievedChunk struct {
	Chunk          Chunk   `json:"chunk"`
	RelevanceScore float64 `json:"relevance_score"`
}

// AnswerResponse is the externally visible result of one question.
// ChunksRelated is ordered by descending relevance score.
type AnswerResponse struct {
	UserQuestion  string           `json:"user_question"`
	SystemAnswer  string           `json:"system_answer"`
	ChunksRelated []RetrievedChunk `json:"chunks_related"`
}

// IndexRecord is a raw nearest-neighbor hit as returned by the vector
// index. Distance is the index's own metric, lower is closer; the
// retriever normalizes it into a relevance score.
type IndexRecord struct {
	Chunk    Chunk
	Distance float64
}

// EmbeddingModel turns text into a fixed-length vector. Implementations
// must be deterministic for the same text and model version.
type EmbeddingModel interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores chunk vectors and answers nearest-neighbor queries.
type VectorIndex interface {
	Upsert(ctx context.Context, chunks []Chunk, vectors [][]float32) error
	Query(ctx context.Context, vector []float32, k int) ([]IndexRecord, error)
	Count(ctx context.Context) (int64, error)
}

// Generation is the raw output of the answer generator for one request.
type Generation struct {
	Text             string
	TokensPrompt     int
	TokensCompletion int
}

// AnswerGenerator produces the final answer text from a question and the
// chunk-id-tagged context. It may fail with network, auth or rate-limit
// errors; callers treat any failure as the generator being unavailable.
type AnswerGenerator interface {
	Generate(ctx context.Context, question, contextText string) (Generation, error)
}

// RequestMetrics is one append-only observability record per query.
type RequestMetrics struct {
	Timestamp        time.Time
	LatencyMS        float64
	TokensPrompt     int
	TokensCompletion int
	TokensTotal      int
	EstimatedCostUSD float64
}

// MetricsRecorder appends one row to a durable store. Recording is
// best-effort: failures must never discard an already produced answer.
type MetricsRecorder interface {
	Record(ctx context.Context, m RequestMetrics) error
}
