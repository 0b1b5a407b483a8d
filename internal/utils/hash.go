package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the lowercase hex digest of s. Used to compare a raw
// password against the password_hash the login webhook may return.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
