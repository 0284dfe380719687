package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/advancehq/payback-engine/internal/domain"
	customError "github.com/advancehq/payback-engine/pkg/errors"
)

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `
	id, funding_id, funder_id, lender_id, merchant_id,
	total_amount_cents, payback_count, start_date, frequency, payday_list, avoid_holiday, distribution_priority,
	next_payback_date, generated_count, end_date, status, version, created_at, updated_at
`

func (r *planRepository) Create(ctx context.Context, plan *domain.PaybackPlan) error {
	query := `
		INSERT INTO payback_plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.FundingID,
		plan.FunderID,
		plan.LenderID,
		plan.MerchantID,
		plan.TotalAmount,
		plan.PaybackCount,
		plan.StartDate,
		plan.Frequency,
		plan.PaydayList,
		plan.AvoidHoliday,
		plan.Priority,
		plan.NextPaybackDate,
		plan.GeneratedCount,
		plan.EndDate,
		plan.Status,
		plan.Version,
		plan.CreatedAt,
		plan.UpdatedAt,
	)

	return err
}

func (r *planRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaybackPlan, error) {
	query := `SELECT ` + planColumns + ` FROM payback_plans WHERE id = $1`

	var plan domain.PaybackPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepository) AdvanceCursor(ctx context.Context, plan *domain.PaybackPlan, paybacks []*domain.Payback, expectedVersion int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	cursorQuery := `
		UPDATE payback_plans
		SET next_payback_date = $2, generated_count = $3, status = $4, version = version + 1, updated_at = $5
		WHERE id = $1 AND version = $6
	`

	result, err := tx.ExecContext(ctx, cursorQuery,
		plan.ID,
		plan.NextPaybackDate,
		plan.GeneratedCount,
		plan.Status,
		time.Now(),
		expectedVersion,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.ErrConcurrentModification
	}

	insertQuery := `
		INSERT INTO paybacks (id, plan_id, sequence_index, due_date, amount_cents, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, payback := range paybacks {
		_, err = tx.ExecContext(ctx, insertQuery,
			payback.ID,
			payback.PlanID,
			payback.SequenceIndex,
			payback.Date,
			payback.Amount,
			payback.Status,
			payback.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *planRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, expectedVersion int) error {
	query := `
		UPDATE payback_plans
		SET status = $2, version = version + 1, updated_at = $3
		WHERE id = $1 AND version = $4
	`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now(), expectedVersion)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return customError.ErrConcurrentModification
	}

	return nil
}

func (r *planRepository) ListDue(ctx context.Context, asOf time.Time, limit int) ([]*domain.PaybackPlan, error) {
	query := `
		SELECT ` + planColumns + `
		FROM payback_plans
		WHERE status = $1 AND next_payback_date IS NOT NULL AND next_payback_date <= $2
		ORDER BY next_payback_date
		LIMIT $3
	`

	var plans []*domain.PaybackPlan
	if err := r.db.SelectContext(ctx, &plans, query, domain.PlanStatusActive, asOf, limit); err != nil {
		return nil, err
	}

	return plans, nil
}
