package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// MaxTimestampSkew bounds how old a signed webhook delivery may be.
const MaxTimestampSkew = 5 * time.Minute

// EncryptToken answers the endpoint.url_validation challenge: hex
// HMAC-SHA256 of the plain token under the webhook secret.
func EncryptToken(secret, plainToken string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(plainToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// Signature computes the expected x-zm-signature header value for a request
// body and timestamp: "v0=" + hex HMAC-SHA256 of "v0:{timestamp}:{body}".
func Signature(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:", timestamp)
	mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the provided header value against the expected
// signature and rejects stale timestamps.
func VerifySignature(secret, timestamp, header string, body []byte, now time.Time) bool {
	sec, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return false
	}
	sent := time.Unix(sec, 0)
	if now.Sub(sent) > MaxTimestampSkew || sent.Sub(now) > MaxTimestampSkew {
		return false
	}
	expected := Signature(secret, timestamp, body)
	return hmac.Equal([]byte(expected), []byte(header))
}
