package evaluation_test

import (
	"reflect"
	"testing"

	"faqrag/src/core/evaluation"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and splits on punctuation",
			text: "Payroll runs Monthly, on the LAST day.",
			want: []string{"payroll", "runs", "monthly", "on", "the", "last", "day"},
		},
		{
			name: "drops single character tokens",
			text: "a b cd",
			want: []string{"cd"},
		},
		{
			name: "keeps digits and underscores",
			text: "see chunk_0003 for 401k details",
			want: []string{"see", "chunk_0003", "for", "401k", "details"},
		},
		{
			name: "empty",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluation.Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "period question exclamation",
			text: "First part. Second part? Third part!",
			want: []string{"First part.", "Second part?", "Third part!"},
		},
		{
			name: "trailing text without terminator",
			text: "Complete sentence. Dangling tail",
			want: []string{"Complete sentence.", "Dangling tail"},
		},
		{
			name: "period inside token does not split",
			text: "Version 1.2 shipped last week.",
			want: []string{"Version 1.2 shipped last week."},
		},
		{
			name: "newline counts as boundary whitespace",
			text: "Line one.\nLine two.",
			want: []string{"Line one.", "Line two."},
		},
		{
			name: "blank input",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluation.SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTopKeywords(t *testing.T) {
	texts := []string{
		"Vacation policy grants vacation days. Vacation carryover expires yearly.",
		"Policy updates reach employees by email.",
	}

	got := evaluation.TopKeywords(texts, 3, 3)
	// vacation appears three times, policy twice, everything else once
	// with ties broken alphabetically.
	want := []string{"vacation", "policy", "carryover"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopKeywords = %v, want %v", got, want)
	}

	again := evaluation.TopKeywords(texts, 3, 3)
	if !reflect.DeepEqual(got, again) {
		t.Errorf("TopKeywords is not deterministic: %v vs %v", got, again)
	}
}

func TestTopKeywordsFiltersStopwordsAndCitations(t *testing.T) {
	texts := []string{"the answer references chunk_0001 and the holiday schedule"}

	got := evaluation.TopKeywords(texts, 10, 3)
	for _, kw := range got {
		if kw == "the" || kw == "and" || kw == "chunk_0001" {
			t.Errorf("keyword list contains filtered token %q", kw)
		}
	}
	if len(got) == 0 {
		t.Fatal("expected at least one keyword")
	}
}

func TestTopKeywordsLimit(t *testing.T) {
	texts := []string{"alpha bravo charlie delta echo foxtrot"}
	if got := evaluation.TopKeywords(texts, 2, 3); len(got) != 2 {
		t.Errorf("len(TopKeywords) = %d, want 2", len(got))
	}
}
