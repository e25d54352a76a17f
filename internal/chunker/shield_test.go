package chunker

import (
	"strings"
	"testing"
)

func TestProtect_RoundTrip(t *testing.T) {
	text := "Before the code.\n```go\nfunc main() {}\n```\nAfter the code."

	shielded, reg := Protect(text, true)

	if reg.Len() != 1 {
		t.Fatalf("expected 1 shielded block, got %d", reg.Len())
	}
	if !strings.Contains(shielded, "<<CODE_BLOCK_0>>") {
		t.Errorf("expected placeholder in shielded text, got %q", shielded)
	}
	if strings.Contains(shielded, "func main") {
		t.Errorf("code leaked into shielded text: %q", shielded)
	}

	restored := reg.Restore(shielded)
	if restored != text {
		t.Errorf("round trip mismatch:\nwant %q\ngot  %q", text, restored)
	}
}

func TestProtect_MultipleBlocks(t *testing.T) {
	text := "a\n```\none\n```\nb\n```\ntwo\n```\nc"

	shielded, reg := Protect(text, true)

	if reg.Len() != 2 {
		t.Fatalf("expected 2 blocks, got %d", reg.Len())
	}
	if !strings.Contains(shielded, "<<CODE_BLOCK_0>>") || !strings.Contains(shielded, "<<CODE_BLOCK_1>>") {
		t.Errorf("expected sequential placeholders, got %q", shielded)
	}
	if got := reg.Restore(shielded); got != text {
		t.Errorf("round trip mismatch:\nwant %q\ngot  %q", text, got)
	}
}

func TestProtect_UnterminatedFence(t *testing.T) {
	text := "intro\n```\ncode with no closing fence"

	shielded, reg := Protect(text, true)

	if !reg.Unterminated() {
		t.Error("expected unterminated flag to be set")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 block, got %d", reg.Len())
	}
	// The open fence extends to end of text and still round-trips.
	if got := reg.Restore(shielded); got != text {
		t.Errorf("round trip mismatch:\nwant %q\ngot  %q", text, got)
	}
}

func TestProtect_Disabled(t *testing.T) {
	text := "some\n```\ncode\n```\nhere"

	shielded, reg := Protect(text, false)

	if shielded != text {
		t.Errorf("expected identity pass when disabled, got %q", shielded)
	}
	if reg.Len() != 0 {
		t.Errorf("expected no blocks, got %d", reg.Len())
	}
}

func TestProtect_NoFences(t *testing.T) {
	text := "plain text without any fences"
	shielded, reg := Protect(text, true)
	if shielded != text || reg.Len() != 0 {
		t.Errorf("expected pass-through, got %q (%d blocks)", shielded, reg.Len())
	}
}

func TestPlaceholderSpan_CoversInterior(t *testing.T) {
	text := "aaa<<CODE_BLOCK_0>>bbb"
	// Placeholder occupies [3, 19).
	for pos := 4; pos < 19; pos++ {
		start, end, ok := placeholderSpan(text, pos)
		if !ok {
			t.Fatalf("pos %d: expected placeholder hit", pos)
		}
		if start != 3 || end != 19 {
			t.Errorf("pos %d: expected span [3,19), got [%d,%d)", pos, start, end)
		}
	}
	// Boundaries are valid cut points, not interior positions.
	if _, _, ok := placeholderSpan(text, 3); ok {
		t.Error("pos 3: start boundary should not count as interior")
	}
	if _, _, ok := placeholderSpan(text, 19); ok {
		t.Error("pos 19: end boundary should not count as interior")
	}
}
