package simtrace

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeDecisionHash computes the deterministic hash of a canonical trace
// encoding, sha256 over the canonical bytes, hex-encoded. The input is
// assumed to already be a canonical encoding (e.g. from CanonicalJSON()).
func ComputeDecisionHash(canonicalEncoding []byte) string {
	if len(canonicalEncoding) == 0 {
		return ""
	}
	sum := sha256.Sum256(canonicalEncoding)
	return hex.EncodeToString(sum[:])
}
