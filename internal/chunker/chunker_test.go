package chunker

import (
	"strconv"
	"strings"
	"testing"

	"textrag/internal/domain"
)

func TestChunkTextShortInput(t *testing.T) {
	got := ChunkText("hello world", 20)
	if len(got) != 1 || got[0] != "hello world" {
		t.Fatalf("expected [\"hello world\"], got %q", got)
	}
}

func TestChunkTextDegenerateInputs(t *testing.T) {
	if got := ChunkText("", 100); got != nil {
		t.Fatalf("empty text: expected nil, got %q", got)
	}
	if got := ChunkText("some text", 0); got != nil {
		t.Fatalf("zero limit: expected nil, got %q", got)
	}
	if got := ChunkText("some text", -3); got != nil {
		t.Fatalf("negative limit: expected nil, got %q", got)
	}
	if got := ChunkText("   \n\n \t \n", 100); got != nil {
		t.Fatalf("whitespace-only text: expected nil, got %q", got)
	}
}

func TestChunkTextParagraphMerging(t *testing.T) {
	got := ChunkText("para1\n\npara2", 100)
	if len(got) != 1 || got[0] != "para1\n\npara2" {
		t.Fatalf("expected single merged chunk, got %q", got)
	}
}

func TestChunkTextBlankLineCollapse(t *testing.T) {
	got := ChunkText("a\n\n\n\nb", 100)
	if len(got) != 1 || got[0] != "a\n\nb" {
		t.Fatalf("expected consecutive blanks collapsed to one, got %q", got)
	}
}

func TestChunkTextBlankLineFlushesFullChunk(t *testing.T) {
	got := ChunkText("aaaaa\n\nbb", 5)
	want := []string{"aaaaa", "bb"}
	assertChunks(t, got, want)
}

func TestChunkTextExactLimitFits(t *testing.T) {
	text := strings.Repeat("y", 10)
	got := ChunkText(text, 10)
	if len(got) != 1 || got[0] != text {
		t.Fatalf("paragraph of exactly the limit should fit whole, got %q", got)
	}
}

func TestChunkTextParagraphSplitOnBoundary(t *testing.T) {
	// Two paragraphs that do not fit together but fit alone.
	got := ChunkText("aaaa\nbbbb", 5)
	assertChunks(t, got, []string{"aaaa", "bbbb"})
}

func TestChunkTextWordPacking(t *testing.T) {
	got := ChunkText("aa bb cc", 5)
	assertChunks(t, got, []string{"aa bb", "cc"})
}

func TestChunkTextRepeatedSpaces(t *testing.T) {
	got := ChunkText("aa   bb    cc", 5)
	assertChunks(t, got, []string{"aa bb", "cc"})
}

func TestChunkTextLongWordAfterShortWords(t *testing.T) {
	text := strings.Repeat("a ", 3) + strings.Repeat("b", 25)
	got := ChunkText(text, 10)
	want := []string{"a a a", strings.Repeat("b", 10), strings.Repeat("b", 10), strings.Repeat("b", 5)}
	assertChunks(t, got, want)
}

func TestChunkTextSingleLongWord(t *testing.T) {
	got := ChunkText(strings.Repeat("x", 50), 10)
	if len(got) != 5 {
		t.Fatalf("expected 5 chunks, got %d: %q", len(got), got)
	}
	for i, c := range got {
		if len(c) != 10 {
			t.Errorf("chunk %d length = %d, want 10", i, len(c))
		}
	}
}

func TestChunkTextFirstParagraphOverLong(t *testing.T) {
	text := strings.Repeat("word ", 10) + "\nshort"
	got := ChunkText(text, 12)
	if len(got) == 0 {
		t.Fatalf("expected chunks")
	}
	for _, c := range got {
		if len(c) > 12 {
			t.Errorf("chunk exceeds limit: %q", c)
		}
		if strings.TrimSpace(c) == "" {
			t.Errorf("whitespace-only chunk produced")
		}
	}
	if got[len(got)-1] != "short" {
		t.Errorf("expected trailing paragraph as final chunk, got %q", got[len(got)-1])
	}
}

func TestChunkTextLengthInvariant(t *testing.T) {
	inputs := []string{
		"one two three four five six seven eight nine ten",
		"first paragraph\nsecond paragraph\n\nthird one after a blank",
		strings.Repeat("alpha beta gamma ", 40),
		strings.Repeat("z", 95) + " tail words here",
		"line\n\n\n\nline\n" + strings.Repeat("q", 33),
	}
	for _, limit := range []int{1, 2, 7, 16, 64} {
		for _, text := range inputs {
			for _, c := range ChunkText(text, limit) {
				if n := len([]rune(c)); n > limit {
					t.Errorf("limit %d: chunk of %d chars: %q", limit, n, c)
				}
				if strings.TrimSpace(c) == "" {
					t.Errorf("limit %d: blank chunk produced", limit)
				}
			}
		}
	}
}

func TestSplitLongWordTotality(t *testing.T) {
	words := []string{
		strings.Repeat("k", 11),
		strings.Repeat("k", 30),
		strings.Repeat("k", 31),
		"abcdefghijklmnopqrstuvwxyz",
	}
	for _, w := range words {
		pieces := splitLongWord(w, 10)
		if joined := strings.Join(pieces, ""); joined != w {
			t.Fatalf("concatenated pieces differ from input: %q vs %q", joined, w)
		}
		for i, p := range pieces {
			n := len([]rune(p))
			if i < len(pieces)-1 && n != 10 {
				t.Errorf("piece %d of %q has length %d, want exactly 10", i, w, n)
			}
			if i == len(pieces)-1 && (n < 1 || n > 10) {
				t.Errorf("final piece of %q has length %d, want 1..10", w, n)
			}
		}
	}
}

func TestSplitLongWordMultibyte(t *testing.T) {
	word := strings.Repeat("é", 5)
	pieces := splitLongWord(word, 2)
	want := []string{"éé", "éé", "é"}
	assertChunks(t, pieces, want)
}

func TestTextChunkerAdapter(t *testing.T) {
	c := NewTextChunker(10)
	doc := domain.Document{ID: "doc1", Name: "notes.txt", Content: "aa bb cc dd ee ff"}
	chunks, err := c.Chunk(doc)
	if err != nil {
		t.Fatalf("chunking failed: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.DocumentID != "doc1" {
			t.Errorf("chunk %d document id = %q", i, ch.DocumentID)
		}
		if ch.Index != i {
			t.Errorf("chunk %d index = %d", i, ch.Index)
		}
		if ch.ChunkID != "doc1:"+strconv.Itoa(i) {
			t.Errorf("chunk %d id = %q", i, ch.ChunkID)
		}
	}
}

func TestTextChunkerDefaultLimit(t *testing.T) {
	c := NewTextChunker(0)
	text := strings.Repeat("w", DefaultMaxCharLength+1)
	chunks, err := c.Chunk(domain.Document{ID: "d", Content: text})
	if err != nil {
		t.Fatalf("chunking failed: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected the default limit to split into 2 chunks, got %d", len(chunks))
	}
	if len(chunks[0].Text) != DefaultMaxCharLength {
		t.Errorf("first chunk length = %d, want %d", len(chunks[0].Text), DefaultMaxCharLength)
	}
}

func assertChunks(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %q, want %d %q", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}
