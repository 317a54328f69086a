package testutil

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/xxh3"
)

// SHA256Hex returns the SHA-256 digest of data as a lowercase hex string.
// Matches the digest format stored in records.
func SHA256Hex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// XXH3Hex returns the 128-bit XXH3 digest of data as a lowercase hex string.
func XXH3Hex(data []byte) string {
	h := xxh3.Hash128(data).Bytes()
	return hex.EncodeToString(h[:])
}
