package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/advancehq/payback-engine/internal/domain"
)

// PlanRepository defines the interface for payback plan data operations
type PlanRepository interface {
	// Create persists a new plan
	Create(ctx context.Context, plan *domain.PaybackPlan) error

	// GetByID retrieves a plan by its id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.PaybackPlan, error)

	// AdvanceCursor persists newly generated paybacks and moves the
	// plan's materialization cursor in a single transaction. The plan
	// row is matched on expectedVersion; errors.ErrConcurrentModification
	// is returned when another writer advanced the cursor first.
	AdvanceCursor(ctx context.Context, plan *domain.PaybackPlan, paybacks []*domain.Payback, expectedVersion int) error

	// UpdateStatus transitions a plan's status under the same
	// version check as AdvanceCursor.
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, expectedVersion int) error

	// ListDue returns ACTIVE plans whose next payback date falls on
	// or before asOf, ordered by next payback date.
	ListDue(ctx context.Context, asOf time.Time, limit int) ([]*domain.PaybackPlan, error)
}

// PaybackRepository defines the interface for payback data operations
type PaybackRepository interface {
	// GetByPlanID retrieves all materialized paybacks for a plan in
	// sequence order
	GetByPlanID(ctx context.Context, planID uuid.UUID) ([]*domain.Payback, error)
}
