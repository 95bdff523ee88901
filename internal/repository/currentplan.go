package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

var ErrCurrentPlanNotSet = errors.New("current plan not set")

// CurrentPlanRepository holds the singleton dashboard cursor. Set overwrites
// unconditionally; last write wins.
type CurrentPlanRepository interface {
	Set(planID string, day int) error
	Get() (*model.CurrentPlan, error)
}

type currentPlanRepository struct {
	store *db.Store
}

func NewCurrentPlanRepository(store *db.Store) CurrentPlanRepository {
	return &currentPlanRepository{store: store}
}

func (r *currentPlanRepository) Set(planID string, day int) error {
	query := `INSERT INTO current_plan (id, plan_id, day, last_updated)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (id) DO UPDATE SET
	            plan_id = excluded.plan_id,
	            day = excluded.day,
	            last_updated = excluded.last_updated`

	return r.store.Exec(query, model.CurrentPlanID, planID, day, time.Now())
}

func (r *currentPlanRepository) Get() (*model.CurrentPlan, error) {
	current := &model.CurrentPlan{}
	query := `SELECT * FROM current_plan WHERE id = $1`

	err := r.store.Get(current, query, model.CurrentPlanID)
	if err == sql.ErrNoRows {
		return nil, ErrCurrentPlanNotSet
	}
	if err != nil {
		return nil, err
	}

	return current, nil
}
