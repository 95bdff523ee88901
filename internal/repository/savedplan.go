package repository

import (
	"database/sql"
	"time"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

type SavedPlanRepository interface {
	Save(planID string) error
	Remove(planID string) error
	All() ([]*model.SavedPlan, error)
	IsSaved(planID string) (bool, error)
}

type savedPlanRepository struct {
	store *db.Store
}

func NewSavedPlanRepository(store *db.Store) SavedPlanRepository {
	return &savedPlanRepository{store: store}
}

func (r *savedPlanRepository) Save(planID string) error {
	query := `INSERT INTO saved_plans (plan_id, saved_at)
	          VALUES ($1, $2)
	          ON CONFLICT (plan_id) DO UPDATE SET saved_at = excluded.saved_at`

	return r.store.Exec(query, planID, time.Now())
}

func (r *savedPlanRepository) Remove(planID string) error {
	return r.store.Exec(`DELETE FROM saved_plans WHERE plan_id = $1`, planID)
}

func (r *savedPlanRepository) All() ([]*model.SavedPlan, error) {
	var saved []*model.SavedPlan
	query := `SELECT * FROM saved_plans ORDER BY saved_at DESC`

	err := r.store.Select(&saved, query)
	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (r *savedPlanRepository) IsSaved(planID string) (bool, error) {
	var planIDOut string
	err := r.store.Get(&planIDOut, `SELECT plan_id FROM saved_plans WHERE plan_id = $1`, planID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
