// Package checksum computes content identifiers for extracted text.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentIDLength is the number of hex characters kept in a content id.
const ContentIDLength = 16

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ContentID returns the short content-addressed id for text.
func ContentID(text string) string {
	return Sum([]byte(text))[:ContentIDLength]
}
