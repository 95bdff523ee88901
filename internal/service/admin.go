package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/shametoflame/ministry/internal/config"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidLoginCode   = errors.New("invalid or expired login code")
	ErrInvalidToken       = errors.New("invalid token")
)

// AdminService signs the site admin into the console. Sign-in is two steps:
// password check, then a single-use code emailed to the admin address. Both
// steps succeeding yields a JWT.
type AdminService struct {
	codes repository.LoginCodeRepository
	email *EmailService

	adminEmail   string
	passwordHash string
	jwtSecret    []byte
	jwtExpiry    time.Duration
	codeExpiry   time.Duration
}

func NewAdminService(codes repository.LoginCodeRepository, email *EmailService, cfg *config.Config) *AdminService {
	return &AdminService{
		codes:        codes,
		email:        email,
		adminEmail:   cfg.AdminEmail,
		passwordHash: cfg.AdminPasswordHash,
		jwtSecret:    []byte(cfg.JWTSecret),
		jwtExpiry:    cfg.JWTExpiry,
		codeExpiry:   cfg.LoginCodeExpiry,
	}
}

// RequestCode verifies the password and emails a fresh sign-in code,
// invalidating any earlier codes. The same error covers wrong email and
// wrong password.
func (s *AdminService) RequestCode(email, password string) error {
	if subtle.ConstantTimeCompare([]byte(email), []byte(s.adminEmail)) != 1 {
		// Burn a hash comparison anyway so both failures take the same time
		bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
		return ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password))
	if err != nil {
		return ErrInvalidCredentials
	}

	err = s.codes.DeleteForEmail(email)
	if err != nil {
		slog.Warn("stale login code cleanup failed", "error", err)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	err = s.codes.Create(&model.LoginCode{
		Email:     email,
		CodeHash:  hashCode(code),
		ExpiresAt: time.Now().Add(s.codeExpiry),
	})
	if err != nil {
		return err
	}

	return s.email.SendLoginCode(email, code)
}

// VerifyCode consumes a sign-in code and returns a signed JWT. A code can be
// consumed once.
func (s *AdminService) VerifyCode(email, code string) (string, error) {
	_, err := s.codes.Consume(email, hashCode(code))
	if err != nil {
		if errors.Is(err, repository.ErrLoginCodeNotFound) {
			return "", ErrInvalidLoginCode
		}
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
	})

	return token.SignedString(s.jwtSecret)
}

// ValidateToken checks a JWT and returns the admin email it was issued to.
func (s *AdminService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// generateCode returns a 6-digit numeric code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// hashCode digests a sign-in code for storage. The plaintext code exists
// only in the email.
func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
