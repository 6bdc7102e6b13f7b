package service

import (
	"crypto/rand"
	"fmt"
)

const (
	refCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	refCodeLength   = 20
)

// NewRefCode generates the opaque reference code stamped on a
// finalized order, used later for refund lookups.
func NewRefCode() (string, error) {
	buf := make([]byte, refCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = refCodeAlphabet[int(b)%len(refCodeAlphabet)]
	}

	return string(buf), nil
}
