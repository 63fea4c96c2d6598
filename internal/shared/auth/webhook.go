package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// ErrBadSignature is returned when a webhook signature does not match the payload.
var ErrBadSignature = errors.New("webhook signature mismatch")

// VerifyWebhookSignature checks an HMAC-SHA256 hex signature over the raw payload.
// The header value may carry a "sha256=" prefix.
func VerifyWebhookSignature(secret, signature string, payload []byte) error {
	if strings.TrimSpace(secret) == "" {
		return errors.New("webhook secret not configured")
	}
	sig := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(signature), "sha256="))
	if sig == "" {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig))) {
		return ErrBadSignature
	}
	return nil
}
