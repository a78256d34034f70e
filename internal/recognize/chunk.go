package recognize

import "strings"

// DefaultMaxChunkWords caps recognizer input windows. Statistical
// recognizers degrade on long inputs, so documents are windowed at sentence
// boundaries before recognition.
const DefaultMaxChunkWords = 200

// Chunk is a sentence-bounded window of the document. Offset is the chunk's
// starting character position in the normalized document, used to lift
// chunk-local entity offsets back to document-global coordinates.
type Chunk struct {
	Text   string
	Offset int
}

// SplitChunks splits normalized text into sentence-bounded chunks of at
// most maxWords words. A chunk accumulates whole sentences until adding the
// next sentence would exceed the cap, then flushes. A single sentence
// longer than the cap becomes its own chunk rather than being split.
func SplitChunks(text string, maxWords int) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []Chunk
	start := -1 // start offset of the accumulating chunk; -1 = none
	end := 0
	words := 0

	flush := func() {
		if start >= 0 {
			chunks = append(chunks, Chunk{Text: text[start:end], Offset: start})
			start = -1
			words = 0
		}
	}

	for _, s := range splitSentences(text) {
		n := len(strings.Fields(text[s.start:s.end]))
		if start >= 0 && words+n > maxWords {
			flush()
		}
		if start < 0 {
			start = s.start
		}
		end = s.end
		words += n
	}
	flush()

	return chunks
}

// sentence is a half-open offset range covering one sentence, excluding the
// whitespace that separates it from the next.
type sentence struct {
	start, end int
}

// splitSentences finds sentence boundaries at '.', '!' or '?' followed by
// whitespace. Trailing text without terminal punctuation forms the last
// sentence.
func splitSentences(text string) []sentence {
	var out []sentence
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && i+1 < len(text) && isSpace(text[i+1]) {
			out = append(out, sentence{start: start, end: i + 1})
			j := i + 1
			for j < len(text) && isSpace(text[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(text) {
		out = append(out, sentence{start: start, end: len(text)})
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
