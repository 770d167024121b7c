package billing

import (
	"strings"
	"testing"
)

func TestNextSequenceNumber(t *testing.T) {
	if got := NextSequenceNumber("INV-", 4); got != "INV-00005" {
		t.Fatalf("expected INV-00005, got %s", got)
	}
	if got := NextSequenceNumber("QT-", 0); got != "QT-00001" {
		t.Fatalf("expected QT-00001, got %s", got)
	}
	// Numbers past 5 digits widen rather than truncate
	if got := NextSequenceNumber("INV-", 99999); got != "INV-100000" {
		t.Fatalf("expected INV-100000, got %s", got)
	}
}

func TestNewDocumentID(t *testing.T) {
	first := NewDocumentID()
	second := NewDocumentID()

	if first == second {
		t.Fatalf("expected distinct ids, both were %s", first)
	}
	if !strings.Contains(first, "-") {
		t.Fatalf("expected time-random format, got %s", first)
	}
}
