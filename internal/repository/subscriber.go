package repository

import (
	"time"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

type SubscriberRepository interface {
	Subscribe(email string) error
	Unsubscribe(email string) error
	All() ([]*model.VerseSubscriber, error)
	MarkSent(email string, at time.Time) error
}

type subscriberRepository struct {
	store *db.Store
}

func NewSubscriberRepository(store *db.Store) SubscriberRepository {
	return &subscriberRepository{store: store}
}

func (r *subscriberRepository) Subscribe(email string) error {
	// Re-subscribing is a no-op, not an error (prevents email enumeration)
	query := `INSERT INTO verse_subscribers (email, subscribed_at)
	          VALUES ($1, $2)
	          ON CONFLICT (email) DO NOTHING`

	return r.store.Exec(query, email, time.Now())
}

func (r *subscriberRepository) Unsubscribe(email string) error {
	return r.store.Exec(`DELETE FROM verse_subscribers WHERE email = $1`, email)
}

func (r *subscriberRepository) All() ([]*model.VerseSubscriber, error) {
	var subscribers []*model.VerseSubscriber
	query := `SELECT * FROM verse_subscribers ORDER BY subscribed_at`

	err := r.store.Select(&subscribers, query)
	if err != nil {
		return nil, err
	}

	return subscribers, nil
}

func (r *subscriberRepository) MarkSent(email string, at time.Time) error {
	return r.store.Exec(`UPDATE verse_subscribers SET last_sent_at = $1 WHERE email = $2`, at, email)
}
