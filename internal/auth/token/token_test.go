package token

import "testing"

func TestGenerateRandomTokenUnique(t *testing.T) {
	a, err := GenerateRandomToken(48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := GenerateRandomToken(48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}
	if len(a) == 0 {
		t.Fatal("expected non-empty token")
	}
}

func TestHashSHA256Deterministic(t *testing.T) {
	if HashSHA256("abc") != HashSHA256("abc") {
		t.Fatal("expected stable hash for identical input")
	}
	if HashSHA256("abc") == HashSHA256("abd") {
		t.Fatal("expected different hashes for different input")
	}
	if len(HashSHA256("abc")) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(HashSHA256("abc")))
	}
}
