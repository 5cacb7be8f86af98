package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Short returns the first n characters of SHA256Hex(input). Used to derive
// fixed-length cache keys from arbitrary query strings and to log IP
// addresses without storing raw PII.
func Short(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}
