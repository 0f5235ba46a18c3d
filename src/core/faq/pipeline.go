package faq

import (
	"context"
	"fmt"
	"strings"
	"time"

	"faqrag/src/log"
)

// Pipeline orchestrates one question end to end: retrieve the top-k
// chunks, ask the generator for a grounded answer, package the response
// and record request metrics. Stages run sequentially; each needs the
// previous stage's output. Independent questions can run on the same
// Pipeline concurrently, it holds no mutable state of its own.
type Pipeline struct {
	retriever *Retriever
	generator AnswerGenerator
	recorder  MetricsRecorder
	costs     CostTable
}

func NewPipeline(retriever *Retriever, generator AnswerGenerator, recorder MetricsRecorder, costs CostTable) *Pipeline {
	return &Pipeline{
		retriever: retriever,
		generator: generator,
		recorder:  recorder,
		costs:     costs,
	}
}

// Answer runs the full pipeline for one question. Retrieval and
// generator failures abort the request, an answer with silently missing
// grounding is worse than no answer. Generator calls are not retried
// here; retry policy, if any, belongs to the provider wrapper. A failed
// metrics write is logged and swallowed.
func (p *Pipeline) Answer(ctx context.Context, question string, k int) (*AnswerResponse, error) {
	start := time.Now()

	retrieved, err := p.retriever.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}

	contextText := BuildContext(retrieved)

	gen, err := p.generator.Generate(ctx, question, contextText)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneratorUnavailable, err)
	}

	if p.recorder != nil {
		metrics := RequestMetrics{
			Timestamp:        time.Now().UTC(),
			LatencyMS:        float64(time.Since(start).Microseconds()) / 1000,
			TokensPrompt:     gen.TokensPrompt,
			TokensCompletion: gen.TokensCompletion,
			TokensTotal:      gen.TokensPrompt + gen.TokensCompletion,
			EstimatedCostUSD: p.costs.Estimate(gen.TokensPrompt, gen.TokensCompletion),
		}
		if recErr := p.recorder.Record(ctx, metrics); recErr != nil {
			log.Error(recErr, "failed to record request metrics")
		}
	}

	return &AnswerResponse{
		UserQuestion:  question,
		SystemAnswer:  gen.Text,
		ChunksRelated: retrieved,
	}, nil
}

// BuildContext renders retrieved chunks into the prompt context, each
// one tagged with its chunk id so the generator can cite it inline.
func BuildContext(retrieved []RetrievedChunk) string {
	var b strings.Builder
	for _, rc := range retrieved {
		fmt.Fprintf(&b, "--- %s ---\n%s\n\n", rc.Chunk.ChunkID, rc.Chunk.Text)
	}
	return strings.TrimRight(b.String(), "\n")
}
