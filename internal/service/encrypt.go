package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
)

// MessageCipher encrypts contact submissions at rest with AES-256-GCM.
// Ciphertext and nonce are stored base64-encoded alongside each message.
type MessageCipher struct {
	aead cipher.AEAD
}

// NewMessageCipher builds a cipher from a base64-encoded 32-byte key. An
// empty key generates an ephemeral one, so messages written in development
// become unreadable after restart.
func NewMessageCipher(keyB64 string) (*MessageCipher, error) {
	var key []byte
	if keyB64 == "" {
		key = make([]byte, 32)
		_, err := rand.Read(key)
		if err != nil {
			return nil, err
		}
		slog.Warn("no message encryption key configured, using ephemeral key")
	} else {
		var err error
		key, err = base64.StdEncoding.DecodeString(keyB64)
		if err != nil {
			return nil, fmt.Errorf("decode message key: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("message key must be 32 bytes, got %d", len(key))
		}
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &MessageCipher{aead: aead}, nil
}

func (c *MessageCipher) Encrypt(plaintext string) (ciphertextB64, nonceB64 string, err error) {
	nonce := make([]byte, c.aead.NonceSize())
	_, err = rand.Read(nonce)
	if err != nil {
		return "", "", err
	}

	ciphertext := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), base64.StdEncoding.EncodeToString(nonce), nil
}

func (c *MessageCipher) Decrypt(ciphertextB64, nonceB64 string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(nonceB64)
	if err != nil {
		return "", fmt.Errorf("decode nonce: %w", err)
	}

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypt message: %w", err)
	}
	return string(plaintext), nil
}
