package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/advancehq/payback-engine/internal/domain"
)

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *domain.PaybackPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PaybackPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaybackPlan), args.Error(1)
}

func (m *MockPlanRepository) AdvanceCursor(ctx context.Context, plan *domain.PaybackPlan, paybacks []*domain.Payback, expectedVersion int) error {
	args := m.Called(ctx, plan, paybacks, expectedVersion)
	return args.Error(0)
}

func (m *MockPlanRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, expectedVersion int) error {
	args := m.Called(ctx, id, status, expectedVersion)
	return args.Error(0)
}

func (m *MockPlanRepository) ListDue(ctx context.Context, asOf time.Time, limit int) ([]*domain.PaybackPlan, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaybackPlan), args.Error(1)
}

type MockPaybackRepository struct {
	mock.Mock
}

func (m *MockPaybackRepository) GetByPlanID(ctx context.Context, planID uuid.UUID) ([]*domain.Payback, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payback), args.Error(1)
}
