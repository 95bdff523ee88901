package repository_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

func openTestStore(t *testing.T) *db.Store {
	t.Helper()
	store := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(func() { store.Close() })
	if !store.Available() {
		t.Fatal("expected store to be available")
	}
	return store
}

func TestPlanRepositoryUpsert(t *testing.T) {
	repo := repository.NewPlanRepository(openTestStore(t))

	plan := &model.Plan{
		PlanID:   "test-plan",
		Title:    "Test Plan",
		Duration: 7,
		Category: "healing",
		Readings: model.Readings{
			{Day: 1, Devotional: "first", Scripture: []model.ScriptureReference{{Book: "PSA", Chapter: 23}}},
		},
	}

	err := repo.Put(plan)
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.ByID("test-plan")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.Title != "Test Plan" || got.Duration != 7 {
		t.Errorf("got %q/%d, want Test Plan/7", got.Title, got.Duration)
	}
	if len(got.Readings) != 1 || got.Readings[0].Scripture[0].Book != "PSA" {
		t.Errorf("readings did not round-trip: %+v", got.Readings)
	}

	// Second put overwrites
	plan.Title = "Renamed"
	err = repo.Put(plan)
	if err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, err = repo.ByID("test-plan")
	if err != nil {
		t.Fatalf("by id after upsert: %v", err)
	}
	if got.Title != "Renamed" {
		t.Errorf("upsert did not overwrite title: %q", got.Title)
	}

	_, err = repo.ByID("missing")
	if !errors.Is(err, repository.ErrPlanNotFound) {
		t.Errorf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestProgressRepositoryUpsert(t *testing.T) {
	repo := repository.NewProgressRepository(openTestStore(t))

	now := time.Now()
	progress := &model.Progress{
		PlanID:        "p1",
		CurrentDay:    1,
		StartedAt:     now,
		CompletedDays: model.DaySet{},
		LastAccessed:  now,
	}

	err := repo.Put(progress)
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	progress.CurrentDay = 3
	progress.CompletedDays = model.DaySet{1, 2, 3}
	err = repo.Put(progress)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := repo.ByPlan("p1")
	if err != nil {
		t.Fatalf("by plan: %v", err)
	}
	if got.CurrentDay != 3 || len(got.CompletedDays) != 3 {
		t.Errorf("got day %d with %d completed, want 3 and 3", got.CurrentDay, len(got.CompletedDays))
	}

	_, err = repo.ByPlan("missing")
	if !errors.Is(err, repository.ErrProgressNotFound) {
		t.Errorf("expected ErrProgressNotFound, got %v", err)
	}
}

func TestCurrentPlanSingleton(t *testing.T) {
	repo := repository.NewCurrentPlanRepository(openTestStore(t))

	_, err := repo.Get()
	if !errors.Is(err, repository.ErrCurrentPlanNotSet) {
		t.Fatalf("expected ErrCurrentPlanNotSet, got %v", err)
	}

	err = repo.Set("p1", 1)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	err = repo.Set("p2", 5)
	if err != nil {
		t.Fatalf("second set: %v", err)
	}

	got, err := repo.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PlanID != "p2" || got.Day != 5 {
		t.Errorf("last write should win, got %s day %d", got.PlanID, got.Day)
	}
}

func TestSavedPlanRepository(t *testing.T) {
	repo := repository.NewSavedPlanRepository(openTestStore(t))

	saved, err := repo.IsSaved("p1")
	if err != nil || saved {
		t.Fatalf("expected not saved, got %v, %v", saved, err)
	}

	err = repo.Save("p1")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	// Saving twice is fine
	err = repo.Save("p1")
	if err != nil {
		t.Fatalf("second save: %v", err)
	}

	saved, err = repo.IsSaved("p1")
	if err != nil || !saved {
		t.Fatalf("expected saved, got %v, %v", saved, err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 saved plan, got %d", len(all))
	}

	err = repo.Remove("p1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	saved, _ = repo.IsSaved("p1")
	if saved {
		t.Error("expected plan removed")
	}
}

func TestScriptureRepository(t *testing.T) {
	repo := repository.NewScriptureRepository(openTestStore(t))

	_, err := repo.ByChapter("JHN", 3)
	if !errors.Is(err, repository.ErrChapterNotCached) {
		t.Fatalf("expected ErrChapterNotCached, got %v", err)
	}

	err = repo.Put(&model.CachedChapter{
		Book:    "JHN",
		Chapter: 3,
		Verses:  model.VerseMap{16: "For God so loved the world"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := repo.ByChapter("JHN", 3)
	if err != nil {
		t.Fatalf("by chapter: %v", err)
	}
	if got.Verses[16] != "For God so loved the world" {
		t.Errorf("verse text did not round-trip: %q", got.Verses[16])
	}
	if got.CachedAt.IsZero() {
		t.Error("expected CachedAt to be set")
	}

	count, err := repo.Count()
	if err != nil || count != 1 {
		t.Errorf("expected count 1, got %d, %v", count, err)
	}
}

func TestLoginCodeConsumeOnce(t *testing.T) {
	repo := repository.NewLoginCodeRepository(openTestStore(t))

	err := repo.Create(&model.LoginCode{
		Email:     "admin@example.com",
		CodeHash:  "digest-one",
		ExpiresAt: time.Now().Add(10 * time.Minute),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	code, err := repo.Consume("admin@example.com", "digest-one")
	if err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if code.UsedAt == nil {
		t.Error("expected UsedAt set after consume")
	}

	_, err = repo.Consume("admin@example.com", "digest-one")
	if !errors.Is(err, repository.ErrLoginCodeNotFound) {
		t.Errorf("second consume should fail, got %v", err)
	}
}

func TestLoginCodeExpired(t *testing.T) {
	repo := repository.NewLoginCodeRepository(openTestStore(t))

	err := repo.Create(&model.LoginCode{
		Email:     "admin@example.com",
		CodeHash:  "digest-two",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = repo.Consume("admin@example.com", "digest-two")
	if !errors.Is(err, repository.ErrLoginCodeNotFound) {
		t.Errorf("expired code should not consume, got %v", err)
	}
}

func TestSubscriberRepository(t *testing.T) {
	repo := repository.NewSubscriberRepository(openTestStore(t))

	err := repo.Subscribe("a@example.com")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	// Duplicate subscription is a silent no-op
	err = repo.Subscribe("a@example.com")
	if err != nil {
		t.Fatalf("duplicate subscribe: %v", err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", len(all))
	}
	if all[0].LastSentAt != nil {
		t.Error("expected LastSentAt nil before first send")
	}

	sent := time.Now()
	err = repo.MarkSent("a@example.com", sent)
	if err != nil {
		t.Fatalf("mark sent: %v", err)
	}
	all, _ = repo.All()
	if all[0].LastSentAt == nil {
		t.Error("expected LastSentAt set after MarkSent")
	}

	err = repo.Unsubscribe("a@example.com")
	if err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	all, _ = repo.All()
	if len(all) != 0 {
		t.Errorf("expected no subscribers after unsubscribe, got %d", len(all))
	}
}

func TestMessageRepository(t *testing.T) {
	repo := repository.NewMessageRepository(openTestStore(t))

	message := &model.ContactMessage{
		ID:          "m1",
		Name:        "Jo",
		Email:       "jo@example.com",
		RequestType: "prayer",
		Ciphertext:  "Y2lwaGVy",
		Nonce:       "bm9uY2U=",
		Category:    model.CategoryPrayer,
		RiskLevel:   model.RiskLow,
		Flags:       model.Flags{},
		CreatedAt:   time.Now(),
	}

	err := repo.Create(message)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ByID("m1")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if got.Ciphertext != "Y2lwaGVy" || got.Category != model.CategoryPrayer {
		t.Errorf("message did not round-trip: %+v", got)
	}

	_, err = repo.ByID("missing")
	if !errors.Is(err, repository.ErrMessageNotFound) {
		t.Errorf("expected ErrMessageNotFound, got %v", err)
	}
}
