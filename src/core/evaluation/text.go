package evaluation

import (
	"regexp"
	"sort"
	"strings"
)

var wordRe = regexp.MustCompile(`[a-z0-9_]+`)

// stopwords excluded from keyword extraction and support matching.
var stopwords = map[string]bool{
	"the": true, "and": true, "is": true, "in": true, "to": true,
	"of": true, "a": true, "for": true, "with": true, "that": true,
	"on": true, "as": true, "by": true, "an": true, "be": true,
	"are": true, "this": true, "it": true, "or": true, "from": true,
	"at": true, "which": true, "have": true, "has": true, "was": true,
	"were": true, "but": true, "not": true, "their": true, "they": true,
	"we": true, "our": true, "you": true, "your": true, "will": true,
	"can": true, "may": true, "such": true,
}

// Tokenize lowercases text and returns its word tokens of two or more
// characters.
func Tokenize(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) >= 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// SplitSentences splits answer text on sentence-ending punctuation
// followed by whitespace.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	var b strings.Builder
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		b.WriteRune(runes[i])
		if isSentenceEnd(runes[i]) && (i+1 == len(runes) || isSpace(runes[i+1])) {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// contentTokens filters tokens down to the ones that carry meaning:
// longer than minLen, not a stopword and not a citation marker.
func contentTokens(tokens []string, minLen int) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if len(t) <= minLen || stopwords[t] || citationRe.MatchString(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// TopKeywords returns the topK most frequent content words across the
// given texts. Ties are broken alphabetically so the result is
// deterministic.
func TopKeywords(texts []string, topK, minLen int) []string {
	counts := map[string]int{}
	for _, text := range texts {
		for _, t := range contentTokens(Tokenize(text), minLen) {
			counts[t]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > topK {
		words = words[:topK]
	}
	return words
}

func tokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
