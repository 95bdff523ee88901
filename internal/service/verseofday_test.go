package service

import (
	"context"
	"testing"
	"time"

	"github.com/shametoflame/ministry/internal/model"
)

func TestVerseOfDayDeterministic(t *testing.T) {
	repo := newFakeScriptureRepo()
	// January 1 lands on Psalm 23:1, January 2 on John 3:16
	repo.Put(&model.CachedChapter{Book: "PSA", Chapter: 23, Verses: model.VerseMap{1: "The LORD is my shepherd"}})
	repo.Put(&model.CachedChapter{Book: "JHN", Chapter: 3, Verses: model.VerseMap{16: "For God so loved the world"}})

	scripture := newTestScriptureService(repo, "http://unreachable.invalid")
	s := NewVerseOfDayService(scripture, nil, nil)

	jan1 := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	first, err := s.ForDate(context.Background(), jan1)
	if err != nil {
		t.Fatalf("for date: %v", err)
	}
	if first.Reference != "Psalms 23:1" {
		t.Errorf("jan 1 reference: %q", first.Reference)
	}
	if first.Text != "The LORD is my shepherd" {
		t.Errorf("jan 1 text: %q, want the verse-number prefix stripped", first.Text)
	}

	// Same date resolves the same verse, any time of day
	again, err := s.ForDate(context.Background(), jan1.Add(10*time.Hour))
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if again.Reference != first.Reference {
		t.Errorf("same date gave %q then %q", first.Reference, again.Reference)
	}

	// Next day rotates
	jan2, err := s.ForDate(context.Background(), jan1.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("jan 2: %v", err)
	}
	if jan2.Reference != "John 3:16" {
		t.Errorf("jan 2 reference: %q", jan2.Reference)
	}
}

func TestVerseOfDayRotationWraps(t *testing.T) {
	repo := newFakeScriptureRepo()
	repo.Put(&model.CachedChapter{Book: "JER", Chapter: 29, Verses: model.VerseMap{11: "x"}})

	scripture := newTestScriptureService(repo, "http://unreachable.invalid")
	s := NewVerseOfDayService(scripture, nil, nil)

	// Day 30 wraps back to the first entry of the 30-verse rotation
	jan30 := time.Date(2026, 1, 30, 0, 0, 0, 0, time.UTC)
	verse, err := s.ForDate(context.Background(), jan30)
	if err != nil {
		t.Fatalf("jan 30: %v", err)
	}
	if verse.Reference != "Jeremiah 29:11" {
		t.Errorf("wrap: got %q, want Jeremiah 29:11", verse.Reference)
	}
}
