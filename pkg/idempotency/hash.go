package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
)

// RequestHash fingerprints a request as hex(SHA-256("METHOD:path:body")).
func RequestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{':'})
	h.Write([]byte(path))
	h.Write([]byte{':'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
