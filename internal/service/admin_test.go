package service

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shametoflame/ministry/internal/config"
	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

func newTestAdminService(t *testing.T) (*AdminService, repository.LoginCodeRepository) {
	t.Helper()

	store := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { store.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	codes := repository.NewLoginCodeRepository(store)
	email := NewEmailService("", "from@example.com", "", "http://localhost", "Test", "admin@example.com", true)

	admin := NewAdminService(codes, email, &config.Config{
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		LoginCodeExpiry:   10 * time.Minute,
	})
	return admin, codes
}

func TestAdminRequestCode(t *testing.T) {
	admin, _ := newTestAdminService(t)

	// Dev mode email just logs, so a correct password succeeds end to end
	err := admin.RequestCode("admin@example.com", "correct-password")
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
}

func TestAdminWrongCredentials(t *testing.T) {
	admin, _ := newTestAdminService(t)

	err := admin.RequestCode("admin@example.com", "wrong-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}

	err = admin.RequestCode("other@example.com", "correct-password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong email: got %v", err)
	}
}

func TestAdminVerifyAndValidate(t *testing.T) {
	admin, codes := newTestAdminService(t)

	err := codes.Create(&model.LoginCode{
		Email:     "admin@example.com",
		CodeHash:  hashCode("111222"),
		ExpiresAt: time.Now().Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatal(err)
	}

	token, err := admin.VerifyCode("admin@example.com", "111222")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	email, err := admin.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if email != "admin@example.com" {
		t.Errorf("token subject: %q", email)
	}

	// The code is single use
	_, err = admin.VerifyCode("admin@example.com", "111222")
	if !errors.Is(err, ErrInvalidLoginCode) {
		t.Errorf("second verify: got %v", err)
	}

	_, err = admin.ValidateToken("not.a.token")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage token: got %v", err)
	}
}

type captureLoginCodeRepo struct {
	created []*model.LoginCode
}

func (r *captureLoginCodeRepo) Create(code *model.LoginCode) error {
	r.created = append(r.created, code)
	return nil
}

func (r *captureLoginCodeRepo) Consume(email, codeHash string) (*model.LoginCode, error) {
	for _, c := range r.created {
		if c.Email == email && c.CodeHash == codeHash {
			return c, nil
		}
	}
	return nil, repository.ErrLoginCodeNotFound
}

func (r *captureLoginCodeRepo) DeleteForEmail(email string) error { return nil }

func TestLoginCodeStoredAsDigest(t *testing.T) {
	codes := &captureLoginCodeRepo{}
	email := NewEmailService("", "from@example.com", "", "http://localhost", "Test", "admin@example.com", true)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	admin := NewAdminService(codes, email, &config.Config{
		AdminEmail:        "admin@example.com",
		AdminPasswordHash: string(hash),
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		LoginCodeExpiry:   10 * time.Minute,
	})

	err = admin.RequestCode("admin@example.com", "correct-password")
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	if len(codes.created) != 1 {
		t.Fatalf("created %d codes, want 1", len(codes.created))
	}

	stored := codes.created[0].CodeHash
	if len(stored) != 64 {
		t.Errorf("stored value %q is not a sha256 hex digest", stored)
	}
	for _, r := range stored {
		if r >= '0' && r <= '9' {
			continue
		}
		if r >= 'a' && r <= 'f' {
			continue
		}
		t.Fatalf("stored value %q is not hex", stored)
	}
}

func TestGenerateCodeFormat(t *testing.T) {
	for i := 0; i < 20; i++ {
		code, err := generateCode()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(code) != 6 {
			t.Fatalf("code %q is not 6 digits", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("code %q contains non-digit", code)
			}
		}
	}
}
