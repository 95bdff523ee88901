package repository

import (
	"database/sql"
	"errors"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *model.ContactMessage) error
	ByID(id string) (*model.ContactMessage, error)
	All() ([]*model.ContactMessage, error)
}

type messageRepository struct {
	store *db.Store
}

func NewMessageRepository(store *db.Store) MessageRepository {
	return &messageRepository{store: store}
}

func (r *messageRepository) Create(message *model.ContactMessage) error {
	query := `INSERT INTO contact_messages (id, name, email, request_type, ciphertext_b64, nonce_b64, category, risk_level, flags, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	return r.store.Exec(query,
		message.ID,
		message.Name,
		message.Email,
		message.RequestType,
		message.Ciphertext,
		message.Nonce,
		message.Category,
		message.RiskLevel,
		message.Flags,
		message.CreatedAt,
	)
}

func (r *messageRepository) ByID(id string) (*model.ContactMessage, error) {
	message := &model.ContactMessage{}
	query := `SELECT * FROM contact_messages WHERE id = $1`

	err := r.store.Get(message, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}

	return message, nil
}

func (r *messageRepository) All() ([]*model.ContactMessage, error) {
	var messages []*model.ContactMessage
	query := `SELECT * FROM contact_messages ORDER BY created_at DESC`

	err := r.store.Select(&messages, query)
	if err != nil {
		return nil, err
	}

	return messages, nil
}
