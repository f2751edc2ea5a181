package webhook

import (
	"strconv"
	"testing"
	"time"
)

func TestEncryptToken(t *testing.T) {
	// echo -n "sometoken" | openssl dgst -sha256 -hmac "secret"
	got := EncryptToken("secret", "sometoken")
	want := "0fdc28ee4936cc11104a84c1dd1ad4387671fd37dfd2d61efecc5f2953861d1a"
	if got != want {
		t.Errorf("EncryptToken = %s, want %s", got, want)
	}
}

func TestVerifySignatureAcceptsValid(t *testing.T) {
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`{"event":"meeting.participant_joined_breakout_room"}`)

	header := Signature("secret", ts, body)
	if !VerifySignature("secret", ts, header, body, now) {
		t.Error("valid signature rejected")
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	header := Signature("secret", ts, []byte("original"))

	if VerifySignature("secret", ts, header, []byte("tampered"), now) {
		t.Error("tampered body accepted")
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte("body")
	header := Signature("other-secret", ts, body)

	if VerifySignature("secret", ts, header, body, now) {
		t.Error("signature under wrong secret accepted")
	}
}

func TestVerifySignatureRejectsStaleTimestamp(t *testing.T) {
	now := time.Now()
	stale := now.Add(-MaxTimestampSkew - time.Minute)
	ts := strconv.FormatInt(stale.Unix(), 10)
	body := []byte("body")
	header := Signature("secret", ts, body)

	if VerifySignature("secret", ts, header, body, now) {
		t.Error("stale delivery accepted")
	}

	// Future skew is equally invalid.
	future := now.Add(MaxTimestampSkew + time.Minute)
	ts = strconv.FormatInt(future.Unix(), 10)
	header = Signature("secret", ts, body)
	if VerifySignature("secret", ts, header, body, now) {
		t.Error("future delivery accepted")
	}
}

func TestVerifySignatureRejectsBadTimestamp(t *testing.T) {
	if VerifySignature("secret", "not-a-number", "v0=abc", []byte("body"), time.Now()) {
		t.Error("non-numeric timestamp accepted")
	}
}
