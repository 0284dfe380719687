package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/advancehq/payback-engine/internal/config"
	"github.com/advancehq/payback-engine/internal/domain"
	"github.com/advancehq/payback-engine/internal/repository"
	"github.com/advancehq/payback-engine/internal/schedule"
	customError "github.com/advancehq/payback-engine/pkg/errors"
	"github.com/advancehq/payback-engine/pkg/money"
)

// PlanService orchestrates payback plan creation and incremental
// installment generation. The schedule itself is always re-derived
// from the plan's immutable spec, so the service holds no schedule
// state of its own.
type PlanService struct {
	planRepo    repository.PlanRepository
	paybackRepo repository.PaybackRepository
	redis       *redis.Client
	config      *config.Config
	clock       Clock
	holidays    schedule.HolidaySet
}

func NewPlanService(
	planRepo repository.PlanRepository,
	paybackRepo repository.PaybackRepository,
	redisClient *redis.Client,
	cfg *config.Config,
	clock Clock,
) *PlanService {
	return &PlanService{
		planRepo:    planRepo,
		paybackRepo: paybackRepo,
		redis:       redisClient,
		config:      cfg,
		clock:       clock,
		holidays:    schedule.NewHolidaySet(cfg.HolidayList()),
	}
}

// CreatePlan validates the schedule spec, computes the plan's end date
// by running the full generator once, and persists the plan with an
// empty materialization cursor.
func (s *PlanService) CreatePlan(ctx context.Context, request *domain.CreatePlanRequest) (*domain.PaybackPlan, error) {
	spec, err := s.specFromCreateRequest(request)
	if err != nil {
		return nil, customError.WrapInvalidSpec(err)
	}

	// Plans may not start further in the past than the grace window.
	grace := s.clock.Now().AddDate(0, 0, -s.config.Business.GraceWindowDays)
	if spec.StartDate.Before(time.Date(grace.Year(), grace.Month(), grace.Day(), 0, 0, 0, 0, time.UTC)) {
		return nil, customError.WrapInvalidSpec(
			fmt.Errorf("start_date %s is more than %d days in the past", spec.StartDate.Format(time.DateOnly), s.config.Business.GraceWindowDays))
	}

	installments, err := schedule.Generate(spec, s.holidays)
	if err != nil {
		return nil, customError.WrapInvalidSpec(err)
	}

	fundingID, funderID, lenderID, merchantID, err := parseOwnerRefs(request)
	if err != nil {
		return nil, customError.WrapInvalidSpec(err)
	}

	now := s.clock.Now()
	firstDate := installments[0].Date
	plan := &domain.PaybackPlan{
		ID:              uuid.New(),
		FundingID:       fundingID,
		FunderID:        funderID,
		LenderID:        lenderID,
		MerchantID:      merchantID,
		ScheduleSpec:    spec,
		NextPaybackDate: &firstDate,
		GeneratedCount:  0,
		EndDate:         installments[len(installments)-1].Date,
		Status:          domain.PlanStatusActive,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.cacheSchedule(ctx, plan.ID, installments)

	return plan, nil
}

// GenerateNext materializes the next n installments of an active plan.
// The whole batch is persisted atomically together with the cursor
// advance; a version conflict surfaces as CONCURRENT_MODIFICATION and
// is safe to retry. A plan whose schedule is already exhausted yields
// an empty slice, not an error.
func (s *PlanService) GenerateNext(ctx context.Context, planID uuid.UUID, n int) ([]*domain.Payback, error) {
	if n < 1 {
		n = s.config.Business.DefaultGenerateCount
	}

	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if plan.Status == domain.PlanStatusCompleted {
		// Exhaustion is idempotent: repeat calls are a no-op.
		return []*domain.Payback{}, nil
	}
	if plan.Status != domain.PlanStatusActive {
		return nil, customError.WrapPlanNotActive(planID.String(), plan.Status)
	}
	if plan.Exhausted() {
		return []*domain.Payback{}, nil
	}

	installments, err := s.fullSchedule(ctx, plan)
	if err != nil {
		return nil, err
	}

	from := plan.GeneratedCount
	to := from + n
	if to > plan.PaybackCount {
		to = plan.PaybackCount
	}

	now := s.clock.Now()
	paybacks := make([]*domain.Payback, 0, to-from)
	for i := from; i < to; i++ {
		paybacks = append(paybacks, &domain.Payback{
			ID:            uuid.New(),
			PlanID:        plan.ID,
			SequenceIndex: i + 1,
			Date:          installments[i].Date,
			Amount:        installments[i].Amount,
			Status:        domain.PaybackStatusScheduled,
			CreatedAt:     now,
		})
	}

	expectedVersion := plan.Version
	plan.GeneratedCount = to
	if to == plan.PaybackCount {
		plan.Status = domain.PlanStatusCompleted
		plan.NextPaybackDate = nil
	} else {
		next := installments[to].Date
		plan.NextPaybackDate = &next
	}

	if err := s.planRepo.AdvanceCursor(ctx, plan, paybacks, expectedVersion); err != nil {
		if errors.Is(err, customError.ErrConcurrentModification) {
			return nil, customError.WrapConcurrentModification(planID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return paybacks, nil
}

// PreviewSchedule computes the full schedule for a prospective spec
// without persisting anything. The output matches what CreatePlan plus
// repeated GenerateNext calls would eventually materialize.
func (s *PlanService) PreviewSchedule(request *domain.PreviewRequest) ([]schedule.Installment, error) {
	spec, err := s.specFromPreviewRequest(request)
	if err != nil {
		return nil, customError.WrapInvalidSpec(err)
	}

	installments, err := schedule.Generate(spec, s.holidays)
	if err != nil {
		return nil, customError.WrapInvalidSpec(err)
	}

	return installments, nil
}

// ClosePlan stops further generation for an active plan. Already
// materialized paybacks are retained for audit.
func (s *PlanService) ClosePlan(ctx context.Context, planID uuid.UUID) (*domain.PaybackPlan, error) {
	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if plan.Status != domain.PlanStatusActive {
		return nil, customError.WrapPlanNotActive(planID.String(), plan.Status)
	}

	if err := s.planRepo.UpdateStatus(ctx, planID, domain.PlanStatusClosed, plan.Version); err != nil {
		if errors.Is(err, customError.ErrConcurrentModification) {
			return nil, customError.WrapConcurrentModification(planID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	plan.Status = domain.PlanStatusClosed
	return plan, nil
}

// GetPlan returns a plan together with its materialized paybacks.
func (s *PlanService) GetPlan(ctx context.Context, planID uuid.UUID) (*domain.PaybackPlan, []*domain.Payback, error) {
	plan, err := s.getPlan(ctx, planID)
	if err != nil {
		return nil, nil, err
	}

	paybacks, err := s.paybackRepo.GetByPlanID(ctx, planID)
	if err != nil {
		return nil, nil, customError.WrapDatabaseError(err)
	}

	return plan, paybacks, nil
}

// MaterializeDue generates the next installment for every active plan
// whose next payback date falls within leadDays of asOf. Used by the
// scheduler daemon.
func (s *PlanService) MaterializeDue(ctx context.Context, asOf time.Time) (int, error) {
	horizon := asOf.AddDate(0, 0, s.config.Scheduler.LeadDays)

	plans, err := s.planRepo.ListDue(ctx, horizon, s.config.Scheduler.Batch)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	generated := 0
	for _, plan := range plans {
		paybacks, err := s.GenerateNext(ctx, plan.ID, s.config.Business.DefaultGenerateCount)
		if err != nil {
			// A concurrent writer already advanced this plan; the
			// next run will pick it up again if anything is left.
			logrus.WithError(err).WithField("plan_id", plan.ID).Warn("skipping plan during materialization")
			continue
		}
		generated += len(paybacks)
	}

	return generated, nil
}

func (s *PlanService) getPlan(ctx context.Context, planID uuid.UUID) (*domain.PaybackPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPlanNotFound(planID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return plan, nil
}

// fullSchedule returns the plan's complete theoretical schedule,
// consulting the cache first. The spec is immutable once paybacks
// exist, so a cached schedule never needs invalidation.
func (s *PlanService) fullSchedule(ctx context.Context, plan *domain.PaybackPlan) ([]schedule.Installment, error) {
	key := scheduleCacheKey(plan.ID)

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			var installments []schedule.Installment
			if err := json.Unmarshal([]byte(cached), &installments); err == nil && len(installments) == plan.PaybackCount {
				return installments, nil
			}
		}
	}

	installments, err := schedule.Generate(plan.ScheduleSpec, s.holidays)
	if err != nil {
		return nil, customError.WrapInvalidSpec(err)
	}

	s.cacheSchedule(ctx, plan.ID, installments)

	return installments, nil
}

func (s *PlanService) cacheSchedule(ctx context.Context, planID uuid.UUID, installments []schedule.Installment) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(installments)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, scheduleCacheKey(planID), payload, s.config.GetScheduleCacheTTL()).Err(); err != nil {
		logrus.WithError(err).WithField("plan_id", planID).Warn("failed to cache schedule")
	}
}

func scheduleCacheKey(planID uuid.UUID) string {
	return fmt.Sprintf("plan:%s:schedule", planID)
}

func (s *PlanService) specFromCreateRequest(request *domain.CreatePlanRequest) (domain.ScheduleSpec, error) {
	return buildSpec(request.TotalAmount, request.PaybackCount, request.StartDate,
		request.Frequency, request.PaydayList, request.AvoidHoliday, request.Priority)
}

func (s *PlanService) specFromPreviewRequest(request *domain.PreviewRequest) (domain.ScheduleSpec, error) {
	startDate := request.StartDate
	if request.NextPaybackDate != "" {
		// Anchoring on the next payback date previews the remaining
		// schedule of an in-flight plan.
		startDate = request.NextPaybackDate
	}

	frequency := request.Frequency
	if frequency == "" {
		frequency = string(domain.FrequencyWeekly)
	}

	return buildSpec(request.TotalAmount, request.PaybackCount, startDate,
		frequency, request.PaydayList, request.AvoidHoliday, request.Priority)
}

func buildSpec(amount decimal.Decimal, count int, startDate, frequency string, paydays []int, avoidHoliday bool, priority string) (domain.ScheduleSpec, error) {
	cents, err := money.FromDecimal(amount)
	if err != nil {
		return domain.ScheduleSpec{}, err
	}

	start, err := time.Parse(time.DateOnly, startDate)
	if err != nil {
		return domain.ScheduleSpec{}, fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
	}

	paydayList := make([]int64, 0, len(paydays))
	for _, d := range paydays {
		paydayList = append(paydayList, int64(d))
	}

	spec := domain.ScheduleSpec{
		TotalAmount:  cents,
		PaybackCount: count,
		StartDate:    start,
		Frequency:    domain.Frequency(frequency),
		PaydayList:   paydayList,
		AvoidHoliday: avoidHoliday,
		Priority:     domain.DistributionPriority(priority),
	}

	if err := spec.Validate(); err != nil {
		return domain.ScheduleSpec{}, err
	}

	return spec, nil
}

func parseOwnerRefs(request *domain.CreatePlanRequest) (funding, funder, lender, merchant uuid.UUID, err error) {
	if funding, err = uuid.Parse(request.FundingID); err != nil {
		return funding, funder, lender, merchant, fmt.Errorf("funding_id: %w", err)
	}
	if funder, err = uuid.Parse(request.FunderID); err != nil {
		return funding, funder, lender, merchant, fmt.Errorf("funder_id: %w", err)
	}
	if lender, err = uuid.Parse(request.LenderID); err != nil {
		return funding, funder, lender, merchant, fmt.Errorf("lender_id: %w", err)
	}
	if merchant, err = uuid.Parse(request.MerchantID); err != nil {
		return funding, funder, lender, merchant, fmt.Errorf("merchant_id: %w", err)
	}
	return funding, funder, lender, merchant, nil
}
