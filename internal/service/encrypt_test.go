package service

import (
	"encoding/base64"
	"strings"
	"testing"
)

func testKey() string {
	return base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestMessageCipherRoundTrip(t *testing.T) {
	cipher, err := NewMessageCipher(testKey())
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	plaintext := "Please pray for me, things are hard."
	ciphertext, nonce, err := cipher.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if strings.Contains(ciphertext, "pray") {
		t.Error("ciphertext leaks plaintext")
	}

	got, err := cipher.Decrypt(ciphertext, nonce)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if got != plaintext {
		t.Errorf("round trip: got %q", got)
	}
}

func TestMessageCipherUniqueNonces(t *testing.T) {
	cipher, _ := NewMessageCipher(testKey())

	_, nonce1, _ := cipher.Encrypt("same text")
	_, nonce2, _ := cipher.Encrypt("same text")
	if nonce1 == nonce2 {
		t.Error("nonces must differ between encryptions")
	}
}

func TestMessageCipherTamperDetection(t *testing.T) {
	cipher, _ := NewMessageCipher(testKey())

	ciphertext, nonce, _ := cipher.Encrypt("original")

	raw, _ := base64.StdEncoding.DecodeString(ciphertext)
	raw[0] ^= 0xff
	tampered := base64.StdEncoding.EncodeToString(raw)

	_, err := cipher.Decrypt(tampered, nonce)
	if err == nil {
		t.Error("tampered ciphertext must not decrypt")
	}
}

func TestMessageCipherKeyValidation(t *testing.T) {
	_, err := NewMessageCipher("not-base64!!!")
	if err == nil {
		t.Error("expected error for invalid base64 key")
	}

	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	_, err = NewMessageCipher(short)
	if err == nil {
		t.Error("expected error for wrong key length")
	}

	// Empty key falls back to an ephemeral one
	cipher, err := NewMessageCipher("")
	if err != nil {
		t.Fatalf("empty key: %v", err)
	}
	ct, nonce, err := cipher.Encrypt("x")
	if err != nil {
		t.Fatalf("encrypt with ephemeral key: %v", err)
	}
	got, err := cipher.Decrypt(ct, nonce)
	if err != nil || got != "x" {
		t.Errorf("ephemeral round trip: %q, %v", got, err)
	}
}
