package store

import (
	"strings"
	"testing"
)

func TestNormalizeStripsMetadata(t *testing.T) {
	content := "# Source: portal-co/demo\n# Section: [dependencies]\n# Auto-generated - do not edit\n\nserde = \"1.0\"\n"
	got := Normalize(content)
	if got != "serde = \"1.0\"" {
		t.Errorf("Normalize = %q, want %q", got, "serde = \"1.0\"")
	}
}

func TestNormalizeKeepsOrdinaryComments(t *testing.T) {
	content := "# async runtime\ntokio = \"1\"\n"
	got := Normalize(content)
	if !strings.HasPrefix(got, "# async runtime") {
		t.Errorf("ordinary comments should survive normalization: %q", got)
	}
}

func TestContentHashIgnoresProvenance(t *testing.T) {
	bare := "serde = \"1.0\""
	wrapped := "# Source: portal-co/other\n\nserde = \"1.0\"\n"
	if ContentHash(bare) != ContentHash(wrapped) {
		t.Error("provenance headers must not affect the hash")
	}
}

func TestShortHash(t *testing.T) {
	h := ShortHash("serde = \"1.0\"")
	if len(h) != ShortHashLen {
		t.Fatalf("short hash length = %d, want %d", len(h), ShortHashLen)
	}
	if !strings.HasPrefix(ContentHash("serde = \"1.0\""), h) {
		t.Error("short hash should be a prefix of the full digest")
	}
}

func TestContentHashDeterministic(t *testing.T) {
	if ContentHash("a = \"1\"") != ContentHash("a = \"1\"") {
		t.Error("hash should be deterministic")
	}
	if ContentHash("a = \"1\"") == ContentHash("b = \"2\"") {
		t.Error("different content should hash differently")
	}
}
