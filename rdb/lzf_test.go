package rdb

import (
	"bytes"
	"strings"
	"testing"
)

func TestLZFRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"a",
		"abc",
		strings.Repeat("x", 200),
		strings.Repeat("abcabcabc", 50),
		"the quick brown fox jumps over the lazy dog, the quick brown fox jumps again",
	}

	for _, c := range cases {
		src := []byte(c)
		compressed := lzfCompress(src)
		got, err := lzfDecompress(compressed, len(src))
		if err != nil {
			t.Fatalf("decompress(%q): %v", c, err)
		}
		if !bytes.Equal(got, src) {
			t.Fatalf("round trip mismatch for %q: got %q", c, got)
		}
	}
}

func TestLZFDecompressRejectsLengthMismatch(t *testing.T) {
	t.Parallel()
	src := []byte(strings.Repeat("hello world ", 10))
	compressed := lzfCompress(src)
	if _, err := lzfDecompress(compressed, len(src)+1); err == nil {
		t.Fatal("expected error on length mismatch")
	}
}

func TestLZFDecompressRejectsBadBackReference(t *testing.T) {
	t.Parallel()
	// A back-reference control byte with no preceding output to copy from.
	bad := []byte{0x20, 0x00}
	if _, err := lzfDecompress(bad, 2); err == nil {
		t.Fatal("expected error on out-of-range back-reference")
	}
}

func TestLZFCompressesRepetitiveData(t *testing.T) {
	t.Parallel()
	src := []byte(strings.Repeat("a", 100))
	compressed := lzfCompress(src)
	if len(compressed) >= len(src) {
		t.Fatalf("expected compression to shrink repetitive input, got %d >= %d", len(compressed), len(src))
	}
}
