package evaluation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"faqrag/src/core/faq"
)

// ErrMalformedAnswer marks an answer structure that cannot be scored,
// e.g. an undecodable saved response file.
var ErrMalformedAnswer = errors.New("malformed answer response")

// Score bounds of the four components.
const (
	MaxSupportScore      = 4.0
	MaxCitationScore     = 2.0
	MaxCompletenessScore = 3.0
	MaxClarityScore      = 1.0
)

// Config holds the tunable heuristics of the evaluator. Every threshold
// is explicit so it can be tuned and unit-tested in isolation.
type Config struct {
	// SupportOverlap is the minimum number of content tokens a sentence
	// must share with its cited chunks to count as supported.
	SupportOverlap int
	// TopKeywords is how many corpus keywords completeness checks for.
	TopKeywords int
	// MinKeywordLength: tokens must be strictly longer to count as
	// content words.
	MinKeywordLength int
	// ClarityMinTokens and ClarityMaxTokens bound the acceptable average
	// sentence length. Inside the band clarity is 1, outside it degrades
	// linearly toward 0.
	ClarityMinTokens float64
	ClarityMaxTokens float64
}

func DefaultConfig() Config {
	return Config{
		SupportOverlap:   2,
		TopKeywords:      20,
		MinKeywordLength: 3,
		ClarityMinTokens: 8,
		ClarityMaxTokens: 35,
	}
}

// Components are the four independent sub-scores. FinalScore is always
// their exact sum.
type Components struct {
	SupportScore      float64 `json:"support_score"`
	CitationScore     float64 `json:"citation_score"`
	CompletenessScore float64 `json:"completeness_score"`
	ClarityScore      float64 `json:"clarity_score"`
}

// Metadata exposes every intermediate quantity used by the sub-scorers
// so callers can audit the score without recomputation.
type Metadata struct {
	Sentences          int      `json:"sentences"`
	SupportedSentences int      `json:"supported_sentences"`
	CitedIDs           []string `json:"cited_ids"`
	ValidCitedIDs      int      `json:"valid_cited_ids"`
	AvailableChunkIDs  []string `json:"available_chunk_ids"`
	TopKeywords        []string `json:"top_keywords"`
}

type Report struct {
	FinalScore  float64    `json:"final_score"`
	Components  Components `json:"components"`
	Metadata    Metadata   `json:"metadata"`
	Explanation string     `json:"explanation"`
}

// Evaluator scores a generated answer against its retrieved chunks. All
// sub-scorers are pure functions of (system_answer, chunks_related), no
// network calls, fully deterministic.
type Evaluator struct {
	cfg Config
}

func New(cfg Config) *Evaluator {
	if cfg.SupportOverlap <= 0 {
		cfg.SupportOverlap = DefaultConfig().SupportOverlap
	}
	if cfg.TopKeywords <= 0 {
		cfg.TopKeywords = DefaultConfig().TopKeywords
	}
	if cfg.MinKeywordLength <= 0 {
		cfg.MinKeywordLength = DefaultConfig().MinKeywordLength
	}
	if cfg.ClarityMinTokens <= 0 || cfg.ClarityMaxTokens <= cfg.ClarityMinTokens {
		cfg.ClarityMinTokens = DefaultConfig().ClarityMinTokens
		cfg.ClarityMaxTokens = DefaultConfig().ClarityMaxTokens
	}
	return &Evaluator{cfg: cfg}
}

// Evaluate produces the full quality report for an answer. Sub-scorer
// failure modes (empty answer, no chunks) degrade the affected score to
// zero instead of aborting: scoring is advisory, not load-bearing.
func (e *Evaluator) Evaluate(answer faq.AnswerResponse) Report {
	sentences := SplitSentences(answer.SystemAnswer)

	availableIDs := make([]string, 0, len(answer.ChunksRelated))
	chunkByID := make(map[string]string, len(answer.ChunksRelated))
	chunkTexts := make([]string, 0, len(answer.ChunksRelated))
	for _, rc := range answer.ChunksRelated {
		id := strings.ToLower(rc.Chunk.ChunkID)
		availableIDs = append(availableIDs, id)
		chunkByID[id] = rc.Chunk.Text
		chunkTexts = append(chunkTexts, rc.Chunk.Text)
	}

	supportScore, supported := e.supportScore(sentences, chunkByID)
	citationScore, citedIDs, validCited := e.citationScore(answer.SystemAnswer, chunkByID)
	completenessScore, topKeywords, coveredRatio := e.completenessScore(answer.SystemAnswer, chunkTexts)
	clarityScore, avgSentLen := e.clarityScore(sentences)

	components := Components{
		SupportScore:      supportScore,
		CitationScore:     citationScore,
		CompletenessScore: completenessScore,
		ClarityScore:      clarityScore,
	}
	final := supportScore + citationScore + completenessScore + clarityScore
	final = math.Max(0, math.Min(10, round2(final)))

	supportedRatio := 0.0
	if len(sentences) > 0 {
		supportedRatio = float64(supported) / float64(len(sentences))
	}
	explanation := strings.Join([]string{
		fmt.Sprintf("Support: %.2f/4, %.1f%% of sentences supported.", supportScore, supportedRatio*100),
		fmt.Sprintf("Citations: %.2f/2, found %v, valid: %d.", citationScore, citedIDs, validCited),
		fmt.Sprintf("Completeness: %.2f/3, keyword coverage: %.1f%%.", completenessScore, coveredRatio*100),
		fmt.Sprintf("Clarity: %.2f/1, avg sentence length: %.1f tokens.", clarityScore, avgSentLen),
	}, " ")

	return Report{
		FinalScore: final,
		Components: components,
		Metadata: Metadata{
			Sentences:          len(sentences),
			SupportedSentences: supported,
			CitedIDs:           citedIDs,
			ValidCitedIDs:      validCited,
			AvailableChunkIDs:  availableIDs,
			TopKeywords:        topKeywords,
		},
		Explanation: explanation,
	}
}

// supportScore checks each sentence for an inline citation whose chunk
// content lexically overlaps the sentence above the configured
// threshold. Sentences without citations are unsupported by definition.
func (e *Evaluator) supportScore(sentences []string, chunkByID map[string]string) (float64, int) {
	if len(sentences) == 0 {
		return 0, 0
	}

	supported := 0
	for _, sentence := range sentences {
		if e.sentenceSupported(sentence, chunkByID) {
			supported++
		}
	}
	score := round2(MaxSupportScore * float64(supported) / float64(len(sentences)))
	return score, supported
}

func (e *Evaluator) sentenceSupported(sentence string, chunkByID map[string]string) bool {
	cited := ExtractCitations(sentence)
	if len(cited) == 0 {
		return false
	}

	citedWords := map[string]bool{}
	for _, id := range cited {
		text, ok := chunkByID[id]
		if !ok {
			continue
		}
		for _, t := range contentTokens(Tokenize(text), e.cfg.MinKeywordLength) {
			citedWords[t] = true
		}
	}
	if len(citedWords) == 0 {
		return false
	}

	matches := 0
	for t := range tokenSet(contentTokens(Tokenize(sentence), e.cfg.MinKeywordLength)) {
		if citedWords[t] {
			matches++
		}
	}
	return matches >= e.cfg.SupportOverlap
}

// citationScore rewards answers whose cited ids actually belong to the
// retrieved set. Zero citations score zero regardless of support.
func (e *Evaluator) citationScore(answerText string, chunkByID map[string]string) (float64, []string, int) {
	cited := ExtractCitations(answerText)
	if cited == nil {
		cited = []string{}
	}
	if len(cited) == 0 {
		return 0, cited, 0
	}

	valid := 0
	for _, id := range cited {
		if _, ok := chunkByID[id]; ok {
			valid++
		}
	}
	score := MaxCitationScore * float64(valid) / float64(len(cited))
	return round2(math.Min(MaxCitationScore, score)), cited, valid
}

// completenessScore measures how many of the corpus top keywords the
// answer mentions.
func (e *Evaluator) completenessScore(answerText string, chunkTexts []string) (float64, []string, float64) {
	top := TopKeywords(chunkTexts, e.cfg.TopKeywords, e.cfg.MinKeywordLength)
	if top == nil {
		top = []string{}
	}
	if len(top) == 0 {
		return 0, top, 0
	}

	answerWords := tokenSet(Tokenize(answerText))
	covered := 0
	for _, kw := range top {
		if answerWords[kw] {
			covered++
		}
	}
	ratio := float64(covered) / float64(len(top))
	return round2(MaxCompletenessScore * ratio), top, ratio
}

// clarityScore is 1 when the average sentence length sits inside the
// configured band and degrades linearly toward 0 outside it. Very short
// reads as terse or incomplete, very long as run-on.
func (e *Evaluator) clarityScore(sentences []string) (float64, float64) {
	if len(sentences) == 0 {
		return 0, 0
	}

	total := 0
	for _, s := range sentences {
		total += len(Tokenize(s))
	}
	avg := float64(total) / float64(len(sentences))
	if avg == 0 {
		return 0, 0
	}

	var score float64
	switch {
	case avg < e.cfg.ClarityMinTokens:
		score = avg / e.cfg.ClarityMinTokens
	case avg > e.cfg.ClarityMaxTokens:
		score = math.Max(0, 1-(avg-e.cfg.ClarityMaxTokens)/e.cfg.ClarityMaxTokens)
	default:
		score = MaxClarityScore
	}
	return round2(score), avg
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
