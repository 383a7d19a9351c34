package store

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// Fingerprint is the BLAKE3-256 digest of an object file's raw bytes.
type Fingerprint [32]byte

// String returns the hexadecimal representation of the fingerprint.
func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// Sum computes the fingerprint of data.
func Sum(data []byte) Fingerprint {
	return blake3.Sum256(data)
}
