package repository

import (
	"database/sql"
	"errors"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

var ErrProgressNotFound = errors.New("progress not found")

type ProgressRepository interface {
	Put(progress *model.Progress) error
	ByPlan(planID string) (*model.Progress, error)
	All() ([]*model.Progress, error)
}

type progressRepository struct {
	store *db.Store
}

func NewProgressRepository(store *db.Store) ProgressRepository {
	return &progressRepository{store: store}
}

func (r *progressRepository) Put(progress *model.Progress) error {
	query := `INSERT INTO progress (plan_id, current_day, started_at, completed_days, last_accessed)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (plan_id) DO UPDATE SET
	            current_day = excluded.current_day,
	            started_at = excluded.started_at,
	            completed_days = excluded.completed_days,
	            last_accessed = excluded.last_accessed`

	return r.store.Exec(query,
		progress.PlanID,
		progress.CurrentDay,
		progress.StartedAt,
		progress.CompletedDays,
		progress.LastAccessed,
	)
}

func (r *progressRepository) ByPlan(planID string) (*model.Progress, error) {
	progress := &model.Progress{}
	query := `SELECT * FROM progress WHERE plan_id = $1`

	err := r.store.Get(progress, query, planID)
	if err == sql.ErrNoRows {
		return nil, ErrProgressNotFound
	}
	if err != nil {
		return nil, err
	}

	return progress, nil
}

func (r *progressRepository) All() ([]*model.Progress, error) {
	var records []*model.Progress
	query := `SELECT * FROM progress ORDER BY last_accessed DESC`

	err := r.store.Select(&records, query)
	if err != nil {
		return nil, err
	}

	return records, nil
}
