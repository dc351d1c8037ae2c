package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the SHA-256 hash of the input data as a 64-character hex
// string. Manifest bytes hashed with this function form the content address
// of their compiled netlist.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
