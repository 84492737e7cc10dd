package fixed

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		if s.chunkSize != domain.DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", domain.DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != domain.DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", domain.DefaultChunkOverlap, s.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		if s.overlap >= s.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		if s.chunkSize != domain.DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", s.chunkSize)
		}
		if s.overlap != domain.DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", s.overlap)
		}
	})
}

func TestSplitter_Name(t *testing.T) {
	if New().Name() != "fixed" {
		t.Errorf("expected name 'fixed', got '%s'", New().Name())
	}
}

func TestSplitter_Split_Empty(t *testing.T) {
	chunks, err := New().Split(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestSplitter_Split_SmallContent(t *testing.T) {
	text := "This is a small piece of content."
	chunks, err := New(WithChunkSize(100), WithOverlap(20)).Split(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != text {
		t.Errorf("expected the whole text as one chunk, got %q", chunks)
	}
}

func TestSplitter_Split_Overlap(t *testing.T) {
	chunks, err := New(WithChunkSize(4), WithOverlap(2)).Split(context.Background(), "abcdefgh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"abcd", "cdef", "efgh"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %q", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Errorf("chunk %d: expected %q, got %q", i, want[i], chunks[i])
		}
	}
}

func TestSplitter_Split_CoversWholeText(t *testing.T) {
	text := strings.Repeat("x", 250)
	chunks, err := New(WithChunkSize(100), WithOverlap(20)).Split(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 90 {
		t.Errorf("expected last chunk of 90 runes, got %d", len(chunks[2]))
	}
}

func TestSplitter_Split_MultiByteRunes(t *testing.T) {
	text := strings.Repeat("日本語テキスト", 30)
	chunks, err := New(WithChunkSize(16), WithOverlap(4)).Split(context.Background(), text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, c := range chunks {
		if !utf8.ValidString(c) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
		if n := utf8.RuneCountInString(c); n > 16 {
			t.Errorf("chunk %d has %d runes", i, n)
		}
	}
}

func TestSplitter_Split_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Split(ctx, "some text")
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
