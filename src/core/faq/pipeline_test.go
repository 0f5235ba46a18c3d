package faq_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"faqrag/src/core/faq"
)

type fakeGenerator struct {
	gen         faq.Generation
	err         error
	lastContext string
}

func (f *fakeGenerator) Generate(ctx context.Context, question, contextText string) (faq.Generation, error) {
	f.lastContext = contextText
	if f.err != nil {
		return faq.Generation{}, f.err
	}
	return f.gen, nil
}

type fakeRecorder struct {
	records []faq.RequestMetrics
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, m faq.RequestMetrics) error {
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, m)
	return nil
}

func testIndex() *fakeIndex {
	return &fakeIndex{
		count: 2,
		records: []faq.IndexRecord{
			record("chunk_0000", 0, 0.2),
			record("chunk_0001", 1, 0.4),
		},
	}
}

func TestPipelineAnswer(t *testing.T) {
	gen := &fakeGenerator{
		gen: faq.Generation{
			Text:             "Use the portal [chunk_0000].",
			TokensPrompt:     100,
			TokensCompletion: 50,
		},
	}
	rec := &fakeRecorder{}
	costs := faq.CostTable{PromptUSDPerMillion: 0.15, CompletionUSDPerMillion: 0.60}
	p := faq.NewPipeline(faq.NewRetriever(&fakeEmbedder{}, testIndex()), gen, rec, costs)

	answer, err := p.Answer(context.Background(), "how do I reset my password?", 2)
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	if answer.UserQuestion != "how do I reset my password?" {
		t.Errorf("UserQuestion = %q", answer.UserQuestion)
	}
	if answer.SystemAnswer != "Use the portal [chunk_0000]." {
		t.Errorf("SystemAnswer = %q", answer.SystemAnswer)
	}
	if len(answer.ChunksRelated) != 2 {
		t.Fatalf("ChunksRelated has %d entries, want 2", len(answer.ChunksRelated))
	}
	if answer.ChunksRelated[0].Chunk.ChunkID != "chunk_0000" {
		t.Errorf("most relevant chunk = %s", answer.ChunksRelated[0].Chunk.ChunkID)
	}

	// The generator received every chunk id in its context.
	for _, id := range []string{"chunk_0000", "chunk_0001"} {
		if !strings.Contains(gen.lastContext, id) {
			t.Errorf("generator context is missing %s", id)
		}
	}

	if len(rec.records) != 1 {
		t.Fatalf("recorded %d metrics rows, want 1", len(rec.records))
	}
	m := rec.records[0]
	if m.TokensPrompt != 100 || m.TokensCompletion != 50 || m.TokensTotal != 150 {
		t.Errorf("token counts = %d/%d/%d", m.TokensPrompt, m.TokensCompletion, m.TokensTotal)
	}
	wantCost := 100.0/1_000_000*0.15 + 50.0/1_000_000*0.60
	if math.Abs(m.EstimatedCostUSD-wantCost) > 1e-12 {
		t.Errorf("EstimatedCostUSD = %v, want %v", m.EstimatedCostUSD, wantCost)
	}
}

func TestPipelineGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("401 unauthorized")}
	rec := &fakeRecorder{}
	p := faq.NewPipeline(faq.NewRetriever(&fakeEmbedder{}, testIndex()), gen, rec, faq.CostTable{})

	answer, err := p.Answer(context.Background(), "question", 2)
	if !errors.Is(err, faq.ErrGeneratorUnavailable) {
		t.Errorf("Answer() error = %v, want ErrGeneratorUnavailable", err)
	}
	if answer != nil {
		t.Error("no partial answer may be returned when the generator fails")
	}
	if len(rec.records) != 0 {
		t.Error("failed requests must not record metrics")
	}
}

func TestPipelineRecorderFailureIsSwallowed(t *testing.T) {
	gen := &fakeGenerator{gen: faq.Generation{Text: "answer [chunk_0000]."}}
	rec := &fakeRecorder{err: errors.New("disk full")}
	p := faq.NewPipeline(faq.NewRetriever(&fakeEmbedder{}, testIndex()), gen, rec, faq.CostTable{})

	answer, err := p.Answer(context.Background(), "question", 2)
	if err != nil {
		t.Fatalf("Answer() error = %v, metrics failures must not abort the answer", err)
	}
	if answer == nil || answer.SystemAnswer == "" {
		t.Error("answer was discarded because of a metrics failure")
	}
}

func TestPipelineRetrievalFailurePropagates(t *testing.T) {
	gen := &fakeGenerator{gen: faq.Generation{Text: "unused"}}
	p := faq.NewPipeline(faq.NewRetriever(&fakeEmbedder{}, &fakeIndex{count: 0}), gen, nil, faq.CostTable{})

	_, err := p.Answer(context.Background(), "question", 2)
	if !errors.Is(err, faq.ErrIndexUnavailable) {
		t.Errorf("Answer() error = %v, want ErrIndexUnavailable", err)
	}
	if gen.lastContext != "" {
		t.Error("generator must not be called when retrieval fails")
	}
}

func TestBuildContext(t *testing.T) {
	retrieved := []faq.RetrievedChunk{
		{Chunk: faq.Chunk{ChunkID: "chunk_0000", Text: "Reset via the portal."}, RelevanceScore: 0.9},
		{Chunk: faq.Chunk{ChunkID: "chunk_0001", Text: "Contact IT support."}, RelevanceScore: 0.5},
	}

	got := faq.BuildContext(retrieved)
	want := "--- chunk_0000 ---\nReset via the portal.\n\n--- chunk_0001 ---\nContact IT support."
	if got != want {
		t.Errorf("BuildContext() = %q, want %q", got, want)
	}
}
