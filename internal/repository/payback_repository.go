package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/advancehq/payback-engine/internal/domain"
)

type paybackRepository struct {
	db *sqlx.DB
}

func NewPaybackRepository(db *sqlx.DB) PaybackRepository {
	return &paybackRepository{db: db}
}

func (r *paybackRepository) GetByPlanID(ctx context.Context, planID uuid.UUID) ([]*domain.Payback, error) {
	query := `
		SELECT id, plan_id, sequence_index, due_date, amount_cents, status, created_at
		FROM paybacks
		WHERE plan_id = $1
		ORDER BY sequence_index
	`

	var paybacks []*domain.Payback
	if err := r.db.SelectContext(ctx, &paybacks, query, planID); err != nil {
		return nil, err
	}

	return paybacks, nil
}
