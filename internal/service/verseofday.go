package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/shametoflame/ministry/internal/bible"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

// dailyVerses is the verse-of-the-day rotation. The day of the year indexes
// into it, so every visitor sees the same verse on the same date.
var dailyVerses = []model.ScriptureReference{
	{Book: "JER", Chapter: 29, Verse: 11},
	{Book: "PSA", Chapter: 23, Verse: 1},
	{Book: "JHN", Chapter: 3, Verse: 16},
	{Book: "ROM", Chapter: 8, Verse: 28},
	{Book: "PHP", Chapter: 4, Verse: 13},
	{Book: "ISA", Chapter: 41, Verse: 10},
	{Book: "PSA", Chapter: 46, Verse: 1},
	{Book: "MAT", Chapter: 11, Verse: 28},
	{Book: "2CO", Chapter: 5, Verse: 17},
	{Book: "PSA", Chapter: 34, Verse: 18},
	{Book: "1PE", Chapter: 5, Verse: 7},
	{Book: "JOS", Chapter: 1, Verse: 9},
	{Book: "PSA", Chapter: 27, Verse: 1},
	{Book: "ISA", Chapter: 40, Verse: 31},
	{Book: "PSA", Chapter: 37, Verse: 4},
	{Book: "PRO", Chapter: 3, Verse: 5},
	{Book: "PSA", Chapter: 91, Verse: 1},
	{Book: "MAT", Chapter: 6, Verse: 26},
	{Book: "PSA", Chapter: 139, Verse: 14},
	{Book: "ROM", Chapter: 12, Verse: 2},
	{Book: "EPH", Chapter: 2, Verse: 8},
	{Book: "GAL", Chapter: 2, Verse: 20},
	{Book: "COL", Chapter: 3, Verse: 23},
	{Book: "HEB", Chapter: 11, Verse: 1},
	{Book: "PSA", Chapter: 119, Verse: 105},
	{Book: "2TI", Chapter: 1, Verse: 7},
	{Book: "PSA", Chapter: 16, Verse: 11},
	{Book: "ISA", Chapter: 26, Verse: 3},
	{Book: "PSA", Chapter: 55, Verse: 22},
	{Book: "MAT", Chapter: 28, Verse: 20},
}

// DailyVerse is the resolved verse of the day.
type DailyVerse struct {
	Reference string                   `json:"reference"`
	Ref       model.ScriptureReference `json:"ref"`
	Text      string                   `json:"text"`
}

// VerseOfDayService rotates through a fixed list of encouraging verses and
// mails the day's verse to subscribers.
type VerseOfDayService struct {
	scripture   *ScriptureService
	subscribers repository.SubscriberRepository
	email       *EmailService
	now         func() time.Time
}

func NewVerseOfDayService(scripture *ScriptureService, subscribers repository.SubscriberRepository, email *EmailService) *VerseOfDayService {
	return &VerseOfDayService{
		scripture:   scripture,
		subscribers: subscribers,
		email:       email,
		now:         time.Now,
	}
}

// Today resolves the verse for the current date.
func (s *VerseOfDayService) Today(ctx context.Context) (*DailyVerse, error) {
	return s.ForDate(ctx, s.now())
}

// ForDate resolves the verse for an arbitrary date. The same date always
// yields the same verse.
func (s *VerseOfDayService) ForDate(ctx context.Context, date time.Time) (*DailyVerse, error) {
	ref := dailyVerses[date.YearDay()%len(dailyVerses)]

	text, err := s.scripture.Text(ctx, ref)
	if err != nil {
		return nil, err
	}

	return &DailyVerse{
		Reference: fmt.Sprintf("%s %d:%d", bible.Name(ref.Book), ref.Chapter, ref.Verse),
		Ref:       ref,
		Text:      leadingVerseNumber.ReplaceAllString(text, ""),
	}, nil
}

// leadingVerseNumber matches the verse-number prefix the cache keeps on verse
// text; a standalone verse reads better without it.
var leadingVerseNumber = regexp.MustCompile(`^\d+\s*`)

// Subscribe registers an email for the daily verse. Duplicates are silently
// accepted.
func (s *VerseOfDayService) Subscribe(email string) error {
	err := s.subscribers.Subscribe(email)
	if err != nil {
		return err
	}
	return s.email.SubscribeAudience(email)
}

func (s *VerseOfDayService) Unsubscribe(email string) error {
	return s.subscribers.Unsubscribe(email)
}

// SendDue mails today's verse to every subscriber who has not received one
// today. Per-subscriber failures are logged and skipped.
func (s *VerseOfDayService) SendDue(ctx context.Context) error {
	verse, err := s.Today(ctx)
	if err != nil {
		return fmt.Errorf("resolve daily verse: %w", err)
	}

	subscribers, err := s.subscribers.All()
	if err != nil {
		return err
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sent := 0
	for _, sub := range subscribers {
		if sub.LastSentAt != nil && !sub.LastSentAt.Before(midnight) {
			continue
		}

		err = s.email.SendDailyVerse(sub.Email, verse.Reference, verse.Text)
		if err != nil {
			slog.Warn("daily verse send failed", "email", sub.Email, "error", err)
			continue
		}

		err = s.subscribers.MarkSent(sub.Email, now)
		if err != nil {
			slog.Warn("daily verse mark-sent failed", "email", sub.Email, "error", err)
		}
		sent++
	}

	if sent > 0 {
		slog.Info("daily verse sent", "reference", verse.Reference, "count", sent)
	}
	return nil
}

// RunScheduler delivers due verse emails once immediately, then hourly until
// the context is cancelled.
func (s *VerseOfDayService) RunScheduler(ctx context.Context) {
	err := s.SendDue(ctx)
	if err != nil {
		slog.Warn("daily verse run failed", "error", err)
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := s.SendDue(ctx)
			if err != nil {
				slog.Warn("daily verse run failed", "error", err)
			}
		}
	}
}
