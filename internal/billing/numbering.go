package billing

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// NextSequenceNumber formats the human-readable number for the next document
// of a type: prefix followed by the 5-digit zero-padded successor of
// currentCount. The function is display formatting only; uniqueness under
// concurrent callers comes from the counters table, which hands out
// currentCount atomically.
func NextSequenceNumber(prefix string, currentCount int64) string {
	return fmt.Sprintf("%s%05d", prefix, currentCount+1)
}

// NewDocumentID generates an opaque unique document token. Time-prefixed for
// rough sortability in logs, with a random suffix for uniqueness. No ordering
// guarantee is required of these.
func NewDocumentID() string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
