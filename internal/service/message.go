package service

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

// MessageService receives contact and prayer submissions. The message text is
// triaged in the clear, then only ciphertext is written to the store.
type MessageService struct {
	repo   repository.MessageRepository
	cipher *MessageCipher
	email  *EmailService
}

func NewMessageService(repo repository.MessageRepository, cipher *MessageCipher, email *EmailService) *MessageService {
	return &MessageService{
		repo:   repo,
		cipher: cipher,
		email:  email,
	}
}

// Submit triages, encrypts, and stores a submission, then notifies the admin.
// Notification failure does not fail the submission.
func (s *MessageService) Submit(name, email, requestType, text string) (*model.ContactMessage, error) {
	triage := Triage(requestType, text)

	ciphertext, nonce, err := s.cipher.Encrypt(text)
	if err != nil {
		return nil, err
	}

	message := &model.ContactMessage{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		RequestType: requestType,
		Ciphertext:  ciphertext,
		Nonce:       nonce,
		Category:    triage.Category,
		RiskLevel:   triage.RiskLevel,
		Flags:       triage.Flags,
		CreatedAt:   time.Now(),
	}

	err = s.repo.Create(message)
	if err != nil {
		return nil, err
	}

	err = s.email.NotifyNewMessage(message.ID, message.Category, message.RiskLevel)
	if err != nil {
		slog.Warn("admin notification failed", "message_id", message.ID, "error", err)
	}

	return message, nil
}

// Messages lists all submissions, newest first, without decrypting.
func (s *MessageService) Messages() ([]*model.ContactMessage, error) {
	return s.repo.All()
}

// DecryptedMessage is a submission with its text recovered for admin review.
type DecryptedMessage struct {
	*model.ContactMessage
	Text string `json:"text"`
}

// Read fetches one submission and decrypts its text.
func (s *MessageService) Read(id string) (*DecryptedMessage, error) {
	message, err := s.repo.ByID(id)
	if err != nil {
		return nil, err
	}

	text, err := s.cipher.Decrypt(message.Ciphertext, message.Nonce)
	if err != nil {
		return nil, err
	}

	return &DecryptedMessage{ContactMessage: message, Text: text}, nil
}
