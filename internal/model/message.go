package model

import (
	"database/sql/driver"
	"time"
)

const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

const (
	CategoryGeneral    = "general"
	CategoryPrayer     = "prayer"
	CategoryBibleStudy = "bible-study"
	CategoryTestimony  = "testimony"
	CategoryCrisis     = "crisis"
)

type Flags []string

func (f Flags) Value() (driver.Value, error) { return jsonValue(f) }
func (f *Flags) Scan(src any) error          { return jsonScan(f, src) }

func (f Flags) Contains(flag string) bool {
	for _, v := range f {
		if v == flag {
			return true
		}
	}
	return false
}

// ContactMessage is a contact or prayer submission. The sender's message text
// is stored only as AES-GCM ciphertext; triage metadata stays in the clear so
// the admin console can sort without decrypting.
type ContactMessage struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Email       string    `json:"email" db:"email"`
	RequestType string    `json:"requestType" db:"request_type"`
	Ciphertext  string    `json:"-" db:"ciphertext_b64"`
	Nonce       string    `json:"-" db:"nonce_b64"`
	Category    string    `json:"category" db:"category"`
	RiskLevel   string    `json:"riskLevel" db:"risk_level"`
	Flags       Flags     `json:"flags" db:"flags"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
