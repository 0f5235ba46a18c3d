package faq

import (
	"fmt"
	"strings"
)

// SplitUnits splits raw text into sentence/paragraph units. Paragraphs
// are split on blank lines first, then on sentence punctuation, so a
// unit never ends mid-sentence.
func SplitUnits(text string) []string {
	var units []string
	for _, p := range strings.Split(text, "\n\n") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		marked := strings.NewReplacer(
			"? ", "?\n",
			"! ", "!\n",
			". ", ".\n",
		).Replace(p)
		for _, s := range strings.Split(marked, "\n") {
			s = strings.TrimSpace(s)
			if s != "" {
				units = append(units, s)
			}
		}
	}
	return units
}

// BuildChunks splits text into overlapping chunks of roughly approxChars
// characters. Units are accumulated greedily; when a chunk is emitted the
// next one is seeded with the trailing units covering at least
// overlapChars, so consecutive chunks share a verbatim overlap. A single
// unit longer than approxChars is emitted whole rather than split
// mid-sentence. Output is deterministic: the same text and parameters
// always yield byte-identical chunks and ids.
func BuildChunks(text, source string, approxChars, overlapChars int) ([]Chunk, error) {
	if approxChars <= 0 || overlapChars <= 0 {
		return nil, fmt.Errorf("%w: approx_chars and overlap_chars must be positive (got %d, %d)",
			ErrInvalidConfig, approxChars, overlapChars)
	}
	if overlapChars >= approxChars {
		return nil, fmt.Errorf("%w: overlap_chars (%d) must be smaller than approx_chars (%d)",
			ErrInvalidConfig, overlapChars, approxChars)
	}

	units := SplitUnits(text)

	var chunks []Chunk
	var current []string
	curLen := 0
	// fresh is true until the current chunk contains at least one unit
	// beyond the carried overlap; that unit is always accepted so an
	// oversized overlap can never stall the scan.
	fresh := true

	emit := func() {
		joined := strings.TrimSpace(strings.Join(current, " "))
		if joined == "" {
			return
		}
		i := len(chunks)
		chunks = append(chunks, Chunk{
			ChunkID: ChunkID(i),
			Index:   i,
			Text:    joined,
			Source:  source,
		})
	}

	for i := 0; i < len(units); {
		u := units[i]
		if curLen+len(u) <= approxChars || len(current) == 0 || fresh {
			current = append(current, u)
			curLen += len(u)
			fresh = false
			i++
			continue
		}

		emit()

		// Seed the next chunk with the trailing units of the one just
		// emitted until at least overlapChars are covered.
		var overlap []string
		overlapLen := 0
		for j := len(current) - 1; j >= 0 && overlapLen < overlapChars; j-- {
			overlap = append([]string{current[j]}, overlap...)
			overlapLen += len(current[j])
		}
		current = overlap
		curLen = overlapLen
		fresh = true
	}

	// Trailing partial content still becomes a final chunk.
	if len(current) > 0 && !fresh {
		emit()
	}

	return chunks, nil
}

// ChunkID returns the stable zero-padded id for a chunk ordinal,
// e.g. ChunkID(6) == "chunk_0006".
func ChunkID(index int) string {
	return fmt.Sprintf("chunk_%04d", index)
}
