package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

var ErrLoginCodeNotFound = errors.New("login code not found")

type LoginCodeRepository interface {
	Create(code *model.LoginCode) error
	Consume(email, codeHash string) (*model.LoginCode, error)
	DeleteForEmail(email string) error
}

type loginCodeRepository struct {
	store *db.Store
}

func NewLoginCodeRepository(store *db.Store) LoginCodeRepository {
	return &loginCodeRepository{store: store}
}

func (r *loginCodeRepository) Create(code *model.LoginCode) error {
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}

	query := `INSERT INTO login_codes (id, email, code_hash, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	return r.store.Exec(query, code.ID, code.Email, code.CodeHash, code.ExpiresAt, code.CreatedAt)
}

// Consume atomically marks the code as used and returns it. Only the first
// caller succeeds; an expired or already-used code reads as not found.
func (r *loginCodeRepository) Consume(email, codeHash string) (*model.LoginCode, error) {
	var c model.LoginCode
	now := time.Now()

	query := `UPDATE login_codes
	          SET used_at = $1
	          WHERE email = $2
	          AND code_hash = $3
	          AND used_at IS NULL
	          AND expires_at > $4
	          RETURNING *`

	err := r.store.Get(&c, query, now, email, codeHash, now)
	if err == sql.ErrNoRows {
		return nil, ErrLoginCodeNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *loginCodeRepository) DeleteForEmail(email string) error {
	return r.store.Exec(`DELETE FROM login_codes WHERE email = $1`, email)
}
