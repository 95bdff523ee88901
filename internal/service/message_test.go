package service

import (
	"path/filepath"
	"testing"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

func newTestMessageService(t *testing.T) *MessageService {
	t.Helper()

	store := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { store.Close() })

	cipher, err := NewMessageCipher(testKey())
	if err != nil {
		t.Fatal(err)
	}
	email := NewEmailService("", "from@example.com", "", "http://localhost", "Test", "admin@example.com", true)

	return NewMessageService(repository.NewMessageRepository(store), cipher, email)
}

func TestMessageSubmitAndRead(t *testing.T) {
	s := newTestMessageService(t)

	text := "Please pray for my brother."
	message, err := s.Submit("Jo", "jo@example.com", "prayer", text)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if message.ID == "" {
		t.Fatal("no id assigned")
	}
	if message.Category != model.CategoryPrayer || message.RiskLevel != model.RiskLow {
		t.Errorf("triage: %s/%s", message.Category, message.RiskLevel)
	}
	if message.Ciphertext == "" || message.Nonce == "" {
		t.Fatal("message stored without ciphertext")
	}

	// The stored record never carries plaintext
	stored, err := s.Messages()
	if err != nil || len(stored) != 1 {
		t.Fatalf("messages: %v, %v", stored, err)
	}
	if stored[0].Ciphertext == text {
		t.Error("message text stored in the clear")
	}

	decrypted, err := s.Read(message.ID)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if decrypted.Text != text {
		t.Errorf("decrypted %q, want %q", decrypted.Text, text)
	}
}

func TestMessageSubmitCrisisEscalates(t *testing.T) {
	s := newTestMessageService(t)

	message, err := s.Submit("Sam", "sam@example.com", "general", "some days I want to die")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if message.RiskLevel != model.RiskHigh {
		t.Errorf("risk %s, want high", message.RiskLevel)
	}
	if !message.Flags.Contains("possible_crisis_language") {
		t.Errorf("flags %v missing crisis flag", message.Flags)
	}
}
