package styling

import (
	"strings"
	"testing"
)

func TestHash(t *testing.T) {
	h := Hash(".btn{color:red}")
	if !strings.HasPrefix(h, "_") || len(h) != 7 {
		t.Errorf("Expected _ plus 6 hex chars, got %q", h)
	}
	if h != Hash(".btn{color:red}") {
		t.Error("Expected hash to be stable")
	}
	if h == Hash(".btn{color:blue}") {
		t.Error("Expected different CSS to hash differently")
	}
}

func TestSheet_AddDeduplicates(t *testing.T) {
	s := NewSheet()
	first := s.Add(".a{x:1}")
	s.Add(".b{x:2}")
	again := s.Add("  .a{x:1}\n")

	if first != again {
		t.Errorf("Expected same hash for the same block, got %q and %q", first, again)
	}
	if s.Len() != 2 {
		t.Errorf("Expected 2 blocks, got %d", s.Len())
	}
	if !s.Has(first) {
		t.Error("Expected Has to find the block")
	}
	if got := s.CSS(); got != ".a{x:1}\n.b{x:2}\n" {
		t.Errorf("Unexpected CSS %q", got)
	}
}

func TestSheet_IgnoresBlankAndComments(t *testing.T) {
	s := NewSheet()
	if h := s.Add("   "); h != "" {
		t.Errorf("Expected no hash for blank css, got %q", h)
	}
	if h := s.Add("/* only a comment */"); h != "" {
		t.Errorf("Expected no hash for a comment, got %q", h)
	}
	s.Add("/* head */ .a{x:1} /* tail */")

	if got := s.CSS(); got != ".a{x:1}\n" {
		t.Errorf("Expected comments stripped, got %q", got)
	}
}
