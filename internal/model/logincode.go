package model

import "time"

// LoginCode is a single-use admin sign-in code delivered by email after the
// password step. Only a digest of the code is stored; consumed atomically on
// verification.
type LoginCode struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	CodeHash  string     `db:"code_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	UsedAt    *time.Time `db:"used_at"`
}
