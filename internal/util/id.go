package util

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random identifier of the form <prefix>_<32 hex chars>,
// or bare hex when the prefix is empty. Record IDs are minted with the
// "val" prefix.
func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}
