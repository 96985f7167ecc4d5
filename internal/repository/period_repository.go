package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lesson-booking-api/internal/models"
)

// PeriodRepository reads the period catalog from the database.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository creates a new period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// ListAll returns every period in catalog order.
func (r *PeriodRepository) ListAll(ctx context.Context) ([]models.Period, error) {
	const query = `SELECT id, name, sort_order FROM periods ORDER BY sort_order ASC, id ASC`
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}
