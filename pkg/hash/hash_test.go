package hash

import "testing"

func TestSHA256Hex_Deterministic(t *testing.T) {
	a := SHA256Hex("golang tutorial")
	b := SHA256Hex("golang tutorial")
	if a != b {
		t.Fatal("same input must hash to same value")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64", len(a))
	}
}

func TestSHA256Hex_DistinctInputs(t *testing.T) {
	if SHA256Hex("query-a") == SHA256Hex("query-b") {
		t.Fatal("different inputs must not collide")
	}
}

func TestShort_Truncates(t *testing.T) {
	full := SHA256Hex("abc")
	short := Short("abc", 12)
	if len(short) != 12 {
		t.Fatalf("short length = %d, want 12", len(short))
	}
	if short != full[:12] {
		t.Fatal("short must be a prefix of the full hash")
	}
}

func TestShort_LongerThanHash(t *testing.T) {
	if got := Short("abc", 100); got != SHA256Hex("abc") {
		t.Fatal("n beyond hash length must return the full hash")
	}
}
