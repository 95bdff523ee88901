package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shametoflame/ministry/internal/db"
	"github.com/shametoflame/ministry/internal/model"
)

var ErrPlanNotFound = errors.New("plan not found")

// PlanRepository is the store's cached-plan collection. Records are read-only
// denormalized copies of catalog entries, overwritten whenever a plan is
// (re)started.
type PlanRepository interface {
	Put(plan *model.Plan) error
	ByID(planID string) (*model.Plan, error)
	All() ([]*model.Plan, error)
}

type planRepository struct {
	store *db.Store
}

func NewPlanRepository(store *db.Store) PlanRepository {
	return &planRepository{store: store}
}

func (r *planRepository) Put(plan *model.Plan) error {
	if plan.CachedAt.IsZero() {
		plan.CachedAt = time.Now()
	}

	query := `INSERT INTO plans (plan_id, title, description, duration, category, aligned, featured, readings, cached_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (plan_id) DO UPDATE SET
	            title = excluded.title,
	            description = excluded.description,
	            duration = excluded.duration,
	            category = excluded.category,
	            aligned = excluded.aligned,
	            featured = excluded.featured,
	            readings = excluded.readings,
	            cached_at = excluded.cached_at`

	return r.store.Exec(query,
		plan.PlanID,
		plan.Title,
		plan.Description,
		plan.Duration,
		plan.Category,
		plan.Aligned,
		plan.Featured,
		plan.Readings,
		plan.CachedAt,
	)
}

func (r *planRepository) ByID(planID string) (*model.Plan, error) {
	plan := &model.Plan{}
	query := `SELECT * FROM plans WHERE plan_id = $1`

	err := r.store.Get(plan, query, planID)
	if err == sql.ErrNoRows {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	return plan, nil
}

func (r *planRepository) All() ([]*model.Plan, error) {
	var plans []*model.Plan
	query := `SELECT * FROM plans ORDER BY cached_at DESC`

	err := r.store.Select(&plans, query)
	if err != nil {
		return nil, err
	}

	return plans, nil
}
