package faq_test

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"faqrag/src/core/faq"
)

func buildCorpus(sentences int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		fmt.Fprintf(&b, "Sentence number %d explains one part of the employee onboarding process in detail. ", i)
	}
	return b.String()
}

func TestBuildChunksValidation(t *testing.T) {
	tests := []struct {
		name         string
		approxChars  int
		overlapChars int
	}{
		{name: "zero approx", approxChars: 0, overlapChars: 10},
		{name: "zero overlap", approxChars: 100, overlapChars: 0},
		{name: "negative approx", approxChars: -1, overlapChars: 10},
		{name: "negative overlap", approxChars: 100, overlapChars: -5},
		{name: "overlap equals approx", approxChars: 100, overlapChars: 100},
		{name: "overlap exceeds approx", approxChars: 100, overlapChars: 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := faq.BuildChunks("some text", "faq.txt", tt.approxChars, tt.overlapChars)
			if !errors.Is(err, faq.ErrInvalidConfig) {
				t.Errorf("BuildChunks(%d, %d) error = %v, want ErrInvalidConfig",
					tt.approxChars, tt.overlapChars, err)
			}
		})
	}
}

func TestBuildChunksDeterministic(t *testing.T) {
	text := buildCorpus(250)

	first, err := faq.BuildChunks(text, "faq.txt", 800, 200)
	if err != nil {
		t.Fatalf("BuildChunks() error = %v", err)
	}
	second, err := faq.BuildChunks(text, "faq.txt", 800, 200)
	if err != nil {
		t.Fatalf("BuildChunks() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("BuildChunks() is not deterministic for identical input")
	}
}

func TestBuildChunksIDsAndOrder(t *testing.T) {
	chunks, err := faq.BuildChunks(buildCorpus(100), "hr_faq.txt", 500, 100)
	if err != nil {
		t.Fatalf("BuildChunks() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
		wantID := fmt.Sprintf("chunk_%04d", i)
		if chunk.ChunkID != wantID {
			t.Errorf("chunk %d has id %q, want %q", i, chunk.ChunkID, wantID)
		}
		if chunk.Source != "hr_faq.txt" {
			t.Errorf("chunk %d has source %q", i, chunk.Source)
		}
	}
}

func TestBuildChunksOverlap(t *testing.T) {
	const approxChars = 800
	const overlapChars = 200

	text := buildCorpus(260) // roughly 20k characters
	chunks, err := faq.BuildChunks(text, "faq.txt", approxChars, overlapChars)
	if err != nil {
		t.Fatalf("BuildChunks() error = %v", err)
	}
	if len(chunks) < 10 {
		t.Fatalf("expected a sizeable chunk sequence, got %d", len(chunks))
	}

	// No chunk grossly exceeds the target size: one sentence unit of slack.
	const unitSlack = 120
	for _, chunk := range chunks {
		if len(chunk.Text) > approxChars+unitSlack {
			t.Errorf("chunk %s has %d chars, want <= %d", chunk.ChunkID, len(chunk.Text), approxChars+unitSlack)
		}
	}

	// Consecutive chunks share a verbatim suffix/prefix overlap.
	for i := 0; i < len(chunks)-1; i++ {
		shared := commonSuffixPrefix(chunks[i].Text, chunks[i+1].Text)
		if shared < overlapChars {
			t.Errorf("chunks %d/%d share %d chars, want >= %d", i, i+1, shared, overlapChars)
		}
	}
}

func commonSuffixPrefix(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	for n := max; n > 0; n-- {
		if strings.HasSuffix(a, b[:n]) {
			return n
		}
	}
	return 0
}

func TestBuildChunksOversizedUnit(t *testing.T) {
	// One unit without sentence boundaries, far beyond the target size.
	giant := strings.TrimSpace(strings.Repeat("onboarding ", 60))

	chunks, err := faq.BuildChunks(giant, "faq.txt", 100, 20)
	if err != nil {
		t.Fatalf("BuildChunks() error = %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected the oversized unit as one chunk, got %d chunks", len(chunks))
	}
	if chunks[0].Text != giant {
		t.Error("oversized unit was split mid-sentence")
	}
}

func TestBuildChunksTrailingRemainder(t *testing.T) {
	text := "First sentence about payroll. Second sentence about leave policy. Tail."
	chunks, err := faq.BuildChunks(text, "faq.txt", 60, 20)
	if err != nil {
		t.Fatalf("BuildChunks() error = %v", err)
	}
	last := chunks[len(chunks)-1]
	if !strings.Contains(last.Text, "Tail.") {
		t.Errorf("trailing content missing from final chunk %q", last.Text)
	}
}

func TestBuildChunksEmptyInput(t *testing.T) {
	chunks, err := faq.BuildChunks("   \n\n  ", "faq.txt", 100, 20)
	if err != nil {
		t.Fatalf("BuildChunks() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected no chunks for blank input, got %d", len(chunks))
	}
}

func TestSplitUnits(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "sentences and paragraphs",
			text: "How do I reset my password? Use the portal.\n\nContact HR for anything else.",
			want: []string{"How do I reset my password?", "Use the portal.", "Contact HR for anything else."},
		},
		{
			name: "exclamations",
			text: "Welcome aboard! Read the handbook first.",
			want: []string{"Welcome aboard!", "Read the handbook first."},
		},
		{
			name: "blank input",
			text: "  \n\n ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := faq.SplitUnits(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitUnits() = %v, want %v", got, tt.want)
			}
		})
	}
}
