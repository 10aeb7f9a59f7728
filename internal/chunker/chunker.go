// Package chunker splits long documents into pieces short enough for a single
// translator call and reassembles the translated pieces.
package chunker

import (
	"strings"
	"unicode"
)

// Chunk is one piece of a document and the separator that followed it.
type Chunk struct {
	Text string
	Sep  string
}

// Split cuts text into chunks of at most maxRunes code points. Cut points are
// preferred in this order: a paragraph break, the end of a sentence, any
// whitespace, and finally a hard cut. A maxRunes <= 0 disables splitting.
// Blank text yields no chunks.
func Split(text string, maxRunes int) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return []Chunk{{Text: text}}
	}

	var chunks []Chunk
	for len(runes) > maxRunes {
		cut := cutPoint(runes[:maxRunes+1])
		head := string(runes[:cut])
		piece := strings.TrimRightFunc(head, unicode.IsSpace)
		rest := trimLeftSpace(runes[cut:])
		gap := head[len(piece):] + string(runes[cut:len(runes)-len(rest)])
		runes = rest
		chunks = append(chunks, Chunk{Text: piece, Sep: separator(gap)})
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		chunks = append(chunks, Chunk{Text: rest})
	}
	if n := len(chunks); n > 0 {
		chunks[n-1].Sep = ""
	}
	return chunks
}

// cutPoint returns where to end the next chunk within window. window holds
// one rune beyond the limit so a boundary exactly at the limit is still seen.
func cutPoint(window []rune) int {
	limit := len(window) - 1

	for i := limit; i > 1; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i - 1
		}
	}
	for i := limit - 1; i > 0; i-- {
		if isSentenceEnd(window[i]) && unicode.IsSpace(window[i+1]) {
			return i + 1
		}
	}
	for i := limit; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return limit
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？', '…':
		return true
	}
	return false
}

// separator collapses the whitespace between two chunks.
func separator(gap string) string {
	switch {
	case gap == "":
		return ""
	case strings.Contains(gap, "\n\n"):
		return "\n\n"
	case strings.Contains(gap, "\n"):
		return "\n"
	default:
		return " "
	}
}

func trimLeftSpace(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[0]) {
		r = r[1:]
	}
	return r
}

// Texts returns the chunk texts in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

// Join reassembles translated texts using the separators recorded in chunks.
func Join(chunks []Chunk, translated []string) string {
	var b strings.Builder
	for i, t := range translated {
		b.WriteString(t)
		if i < len(chunks) {
			b.WriteString(chunks[i].Sep)
		}
	}
	return b.String()
}
