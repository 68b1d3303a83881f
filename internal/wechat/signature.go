package wechat

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// CheckSignature reports whether signature matches the digest the platform
// computes during the webhook handshake: the shared token, timestamp and
// nonce are sorted lexicographically, joined and hashed with SHA-1.
func CheckSignature(token, signature, timestamp, nonce string) bool {
	parts := []string{token, timestamp, nonce}
	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:]) == signature
}
