package evaluation

import (
	"regexp"
	"strings"
)

// Citation markers follow the grammar chunk[_-]NNNN with a 3 to 6 digit
// ordinal, usually written in brackets like [chunk_0003]. Hyphenated
// variants are normalized to the canonical underscore form.
var citationRe = regexp.MustCompile(`(?i)chunk[_-]?[0-9]{3,6}`)

// ExtractCitations returns the unique chunk ids cited in the text, in
// first-occurrence order, normalized to lowercase underscore form.
func ExtractCitations(text string) []string {
	matches := citationRe.FindAllString(text, -1)
	seen := map[string]bool{}
	var ids []string
	for _, m := range matches {
		id := normalizeCitation(m)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

func normalizeCitation(id string) string {
	id = strings.ToLower(id)
	id = strings.ReplaceAll(id, "-", "_")
	if !strings.Contains(id, "_") {
		id = "chunk_" + strings.TrimPrefix(id, "chunk")
	}
	return id
}
