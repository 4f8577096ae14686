package store

import "testing"

func TestPQStringArray(t *testing.T) {
	if v := pqStringArray(nil); v != nil {
		t.Fatalf("nil slice -> nil expected")
	}
	if v := pqStringArray([]string{}); v != nil {
		t.Fatalf("empty slice -> nil expected")
	}
	got := pqStringArray([]string{"a", "b"})
	if got != `{"a","b"}` {
		t.Fatalf("got %v", got)
	}
}
