package model

import "time"

// VerseSubscriber receives the verse of the day by email.
type VerseSubscriber struct {
	Email        string     `json:"email" db:"email"`
	SubscribedAt time.Time  `json:"subscribedAt" db:"subscribed_at"`
	LastSentAt   *time.Time `json:"lastSentAt,omitempty" db:"last_sent_at"`
}
