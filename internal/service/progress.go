package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shametoflame/ministry/internal/catalog"
	"github.com/shametoflame/ministry/internal/model"
	"github.com/shametoflame/ministry/internal/repository"
)

var (
	ErrPlanNotStarted   = errors.New("no reading plan in progress")
	ErrPlanDataNotFound = errors.New("plan data not found")
)

// ProgressService tracks advancement through reading plans. Starting a plan
// caches a denormalized copy of the catalog entry so reading continues when
// the catalog is unavailable.
type ProgressService struct {
	plans    repository.PlanRepository
	progress repository.ProgressRepository
	current  repository.CurrentPlanRepository
	saved    repository.SavedPlanRepository
	catalog  *catalog.Catalog
}

func NewProgressService(
	plans repository.PlanRepository,
	progress repository.ProgressRepository,
	current repository.CurrentPlanRepository,
	saved repository.SavedPlanRepository,
	cat *catalog.Catalog,
) *ProgressService {
	return &ProgressService{
		plans:    plans,
		progress: progress,
		current:  current,
		saved:    saved,
		catalog:  cat,
	}
}

// ActivePlan bundles everything the dashboard needs about the plan being read.
type ActivePlan struct {
	Plan       *model.Plan         `json:"plan"`
	Progress   *model.Progress     `json:"progress"`
	Day        int                 `json:"day"`
	Reading    *model.DailyReading `json:"reading,omitempty"`
	Percentage int                 `json:"percentage"`
}

// StartPlan begins (or restarts) a plan. Existing progress for the plan is
// overwritten, and the plan becomes the current plan at day 1.
func (s *ProgressService) StartPlan(planID string) (*model.Progress, error) {
	plan, err := s.catalog.PlanByID(planID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanDataNotFound, planID)
	}

	err = s.plans.Put(plan)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	progress := &model.Progress{
		PlanID:        planID,
		CurrentDay:    1,
		StartedAt:     now,
		CompletedDays: model.DaySet{},
		LastAccessed:  now,
	}

	err = s.progress.Put(progress)
	if err != nil {
		return nil, err
	}

	err = s.current.Set(planID, 1)
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// CurrentPlan resolves the singleton cursor to the active plan, its progress,
// and the reading for the cursor day.
func (s *ProgressService) CurrentPlan() (*ActivePlan, error) {
	cursor, err := s.current.Get()
	if err != nil {
		if errors.Is(err, repository.ErrCurrentPlanNotSet) {
			return nil, ErrPlanNotStarted
		}
		return nil, err
	}

	plan, err := s.cachedPlan(cursor.PlanID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progress.ByPlan(cursor.PlanID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil, ErrPlanNotStarted
		}
		return nil, err
	}

	return &ActivePlan{
		Plan:       plan,
		Progress:   progress,
		Day:        cursor.Day,
		Reading:    plan.Reading(cursor.Day),
		Percentage: percentage(progress, plan),
	}, nil
}

// CompleteDay marks a day finished. The high-water current day never moves
// backwards. When the plan is the current plan, the cursor advances to the
// day after the one completed; completing days on another plan leaves the
// cursor where it is.
func (s *ProgressService) CompleteDay(planID string, day int) (*model.Progress, error) {
	progress, err := s.progress.ByPlan(planID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil, ErrPlanNotStarted
		}
		return nil, err
	}

	progress.CompletedDays = progress.CompletedDays.Add(day)
	if day > progress.CurrentDay {
		progress.CurrentDay = day
	}
	progress.LastAccessed = time.Now()

	err = s.progress.Put(progress)
	if err != nil {
		return nil, err
	}

	cursor, err := s.current.Get()
	switch {
	case err == nil && cursor.PlanID == planID:
		err = s.current.Set(planID, day+1)
		if err != nil {
			return nil, err
		}
	case err != nil && !errors.Is(err, repository.ErrCurrentPlanNotSet):
		return nil, err
	}

	return progress, nil
}

// UncompleteDay removes a day from the completed set. The high-water current
// day and the cursor are left where they are.
func (s *ProgressService) UncompleteDay(planID string, day int) (*model.Progress, error) {
	progress, err := s.progress.ByPlan(planID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil, ErrPlanNotStarted
		}
		return nil, err
	}

	progress.CompletedDays = progress.CompletedDays.Remove(day)
	progress.LastAccessed = time.Now()

	err = s.progress.Put(progress)
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// GoToDay moves the cursor to an arbitrary day of the current plan, clamped
// to [1, duration].
func (s *ProgressService) GoToDay(day int) (*ActivePlan, error) {
	active, err := s.CurrentPlan()
	if err != nil {
		return nil, err
	}

	if day < 1 {
		day = 1
	}
	if day > active.Plan.Duration {
		day = active.Plan.Duration
	}

	err = s.current.Set(active.Plan.PlanID, day)
	if err != nil {
		return nil, err
	}

	active.Day = day
	active.Reading = active.Plan.Reading(day)
	return active, nil
}

// NextDay advances a plan's current day by one, stopping at the last day.
// The cursor follows the navigated plan.
func (s *ProgressService) NextDay(planID string) (*model.Progress, error) {
	progress, err := s.progress.ByPlan(planID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil, ErrPlanNotStarted
		}
		return nil, err
	}

	plan, err := s.cachedPlan(planID)
	if err != nil {
		return nil, err
	}

	if progress.CurrentDay < plan.Duration {
		progress.CurrentDay++
		progress.LastAccessed = time.Now()

		err = s.progress.Put(progress)
		if err != nil {
			return nil, err
		}
		err = s.current.Set(planID, progress.CurrentDay)
		if err != nil {
			return nil, err
		}
	}

	return progress, nil
}

// PreviousDay moves a plan's current day back one, stopping at day 1. The
// cursor follows the navigated plan.
func (s *ProgressService) PreviousDay(planID string) (*model.Progress, error) {
	progress, err := s.progress.ByPlan(planID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return nil, ErrPlanNotStarted
		}
		return nil, err
	}

	if progress.CurrentDay > 1 {
		progress.CurrentDay--
		progress.LastAccessed = time.Now()

		err = s.progress.Put(progress)
		if err != nil {
			return nil, err
		}
		err = s.current.Set(planID, progress.CurrentDay)
		if err != nil {
			return nil, err
		}
	}

	return progress, nil
}

// Percentage returns completion of one plan, 0-100. A plan with no progress
// record or no cached plan copy reads as 0 rather than an error.
func (s *ProgressService) Percentage(planID string) (int, error) {
	progress, err := s.progress.ByPlan(planID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressNotFound) {
			return 0, nil
		}
		return 0, err
	}

	plan, err := s.plans.ByID(planID)
	if err != nil {
		if errors.Is(err, repository.ErrPlanNotFound) {
			return 0, nil
		}
		return 0, err
	}

	return percentage(progress, plan), nil
}

// AllProgress lists progress records across every started plan, most recently
// accessed first.
func (s *ProgressService) AllProgress() ([]*model.Progress, error) {
	return s.progress.All()
}

// SavePlan bookmarks a plan for later without starting it.
func (s *ProgressService) SavePlan(planID string) error {
	_, err := s.catalog.PlanByID(planID)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPlanDataNotFound, planID)
	}
	return s.saved.Save(planID)
}

func (s *ProgressService) UnsavePlan(planID string) error {
	return s.saved.Remove(planID)
}

func (s *ProgressService) SavedPlans() ([]*model.SavedPlan, error) {
	return s.saved.All()
}

func (s *ProgressService) IsSaved(planID string) (bool, error) {
	return s.saved.IsSaved(planID)
}

// cachedPlan prefers the store's denormalized copy and falls back to the
// catalog so a wiped cache does not strand an in-progress plan.
func (s *ProgressService) cachedPlan(planID string) (*model.Plan, error) {
	plan, err := s.plans.ByID(planID)
	if err == nil {
		return plan, nil
	}
	if !errors.Is(err, repository.ErrPlanNotFound) {
		return nil, err
	}

	plan, err = s.catalog.PlanByID(planID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrPlanDataNotFound, planID)
	}
	return plan, nil
}

func percentage(progress *model.Progress, plan *model.Plan) int {
	if plan.Duration <= 0 {
		return 0
	}
	pct := int(math.Round(float64(len(progress.CompletedDays)) * 100 / float64(plan.Duration)))
	if pct > 100 {
		pct = 100
	}
	return pct
}
