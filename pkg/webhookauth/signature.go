package webhookauth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Header carrying the hex HMAC of the raw request body
const SignatureHeader = "X-Webhook-Signature"

// Sign computes the sha256 HMAC hex signature for a payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a sha256 HMAC hex signature against payload and secret.
// An empty secret or signature never verifies.
func Verify(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}
