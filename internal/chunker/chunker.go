package chunker

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"textrag/internal/domain"
)

// DefaultMaxCharLength bounds a chunk well under the token limit of common
// embedding models (8192 tokens is roughly 32k characters of English text).
const DefaultMaxCharLength = 4000

// ChunkText splits text into chunks of at most maxCharLength characters,
// in reading order. Line-separated paragraphs are merged while they fit;
// an over-long paragraph is packed word by word; a single word longer than
// the limit is force-split into limit-sized pieces, so only the trailing
// piece of such a word may be shorter than the limit. Blank lines survive
// as at most one embedded newline inside the surrounding chunk and never
// become chunks of their own. Empty text or a non-positive limit yields nil.
func ChunkText(text string, maxCharLength int) []string {
	if text == "" || maxCharLength <= 0 {
		return nil
	}
	var chunks []string
	var current string
	for _, paragraph := range strings.Split(text, "\n") {
		switch {
		case strings.TrimSpace(paragraph) == "":
			if current == "" || strings.HasSuffix(current, "\n") {
				// nothing to separate, or a blank separator is already pending
				continue
			}
			if runeLen(current)+1 <= maxCharLength {
				current += "\n"
			} else {
				chunks = append(chunks, current)
				current = ""
			}
		case current == "":
			if runeLen(paragraph) <= maxCharLength {
				current = paragraph
			} else {
				chunks = append(chunks, splitParagraphByWords(paragraph, maxCharLength)...)
			}
		default:
			if runeLen(current)+1+runeLen(paragraph) <= maxCharLength {
				current += "\n" + paragraph
			} else {
				chunks = append(chunks, current)
				if runeLen(paragraph) <= maxCharLength {
					current = paragraph
				} else {
					current = ""
					chunks = append(chunks, splitParagraphByWords(paragraph, maxCharLength)...)
				}
			}
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	filtered := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c) != "" {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

// splitParagraphByWords greedily packs space-separated words into chunks of
// at most maxCharLength characters, keeping single spaces as separators.
// The boundary is inclusive: a word that makes the group exactly the limit
// still joins it.
func splitParagraphByWords(paragraph string, maxCharLength int) []string {
	var chunks []string
	var group string
	groupLen := 0
	for _, word := range strings.Split(paragraph, " ") {
		if word == "" {
			continue
		}
		wordLen := runeLen(word)
		switch {
		case wordLen > maxCharLength:
			if group != "" {
				chunks = append(chunks, group)
				group, groupLen = "", 0
			}
			chunks = append(chunks, splitLongWord(word, maxCharLength)...)
		case group == "":
			group, groupLen = word, wordLen
		case groupLen+1+wordLen <= maxCharLength:
			group += " " + word
			groupLen += 1 + wordLen
		default:
			chunks = append(chunks, group)
			group, groupLen = word, wordLen
		}
	}
	if group != "" {
		chunks = append(chunks, group)
	}
	return chunks
}

// splitLongWord slices a single word into pieces of exactly maxCharLength
// characters; the final piece holds the remainder.
func splitLongWord(word string, maxCharLength int) []string {
	if maxCharLength <= 0 {
		return nil
	}
	runes := []rune(word)
	var pieces []string
	for len(runes) > maxCharLength {
		pieces = append(pieces, string(runes[:maxCharLength]))
		runes = runes[maxCharLength:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

// TextChunker adapts ChunkText to the domain.Chunker interface, assigning
// per-document chunk identifiers and positions.
type TextChunker struct {
	maxCharLength int
}

func NewTextChunker(maxCharLength int) *TextChunker {
	if maxCharLength <= 0 {
		maxCharLength = DefaultMaxCharLength
	}
	return &TextChunker{maxCharLength: maxCharLength}
}

func (c *TextChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	parts := ChunkText(document.Content, c.maxCharLength)
	chunks := make([]domain.Chunk, 0, len(parts))
	for i, text := range parts {
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(i),
			Text:       text,
			Index:      i,
		})
	}
	return chunks, nil
}

var _ domain.Chunker = (*TextChunker)(nil)
