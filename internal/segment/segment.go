// Package segment splits document text into overlapping fixed-size windows
// for embedding and retrieval. Segmentation is a pure function: no I/O,
// deterministic, re-runnable on the same input.
package segment

import (
	"fmt"
	"strings"
)

// Default window parameters.
const (
	DefaultSize    = 1500
	DefaultOverlap = 200
)

// Chunk is one emitted text window. Index derives from the pre-filter window
// count, so indices may be non-contiguous when windows that trim to empty are
// dropped. Downstream code must not assume contiguity.
type Chunk struct {
	Index int
	Text  string
}

// Segment slides a window of size characters across text in steps of
// size-overlap and returns the trimmed, non-empty windows in order.
// The final partial window is emitted exactly once: the loop stops as soon as
// the next start position reaches the last overlap's worth of text.
//
// Window positions are measured in runes, not bytes. Byte offsets would land
// mid-rune on multi-byte text and emit invalid UTF-8, which the text columns
// downstream reject.
//
// overlap >= size would never advance the window; that is a configuration
// error and returns an error instead of looping forever.
func Segment(text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("segment: size must be positive, got %d", size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("segment: overlap must be non-negative, got %d", overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("segment: overlap %d must be smaller than size %d", overlap, size)
	}

	runes := []rune(text)

	var chunks []Chunk

	start := 0
	index := 0

	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		if trimmed := strings.TrimSpace(string(runes[start:end])); trimmed != "" {
			chunks = append(chunks, Chunk{Index: index, Text: trimmed})
		}

		start = end - overlap
		if start >= len(runes)-overlap {
			break
		}
		index++
	}

	return chunks, nil
}
