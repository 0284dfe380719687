package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/advancehq/payback-engine/internal/domain"
	"github.com/advancehq/payback-engine/internal/schedule"
	"github.com/advancehq/payback-engine/internal/service"
	customError "github.com/advancehq/payback-engine/pkg/errors"
	"github.com/advancehq/payback-engine/pkg/response"
)

type PlanHandler struct {
	service   *service.PlanService
	validator *validator.Validate
}

func NewPlanHandler(service *service.PlanService) *PlanHandler {
	return &PlanHandler{
		service:   service,
		validator: validator.New(),
	}
}

// CreatePlan handles POST /api/v1/plans
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var request domain.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	plan, err := h.service.CreatePlan(r.Context(), &request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Created(w, toPlanResponse(plan))
}

// Preview handles POST /api/v1/plans/preview
func (h *PlanHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var request domain.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	installments, err := h.service.PreviewSchedule(&request)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, toInstallmentResponses(installments))
}

// GenerateNext handles POST /api/v1/plans/{planId}/generate
func (h *PlanHandler) GenerateNext(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid plan id", err)
		return
	}

	// The count is optional; an empty body means "generate one".
	var request domain.GeneratePaybacksRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid request body", err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, "validation failed", err)
		return
	}

	paybacks, err := h.service.GenerateNext(r.Context(), planID, request.Count)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	out := make([]*domain.PaybackResponse, 0, len(paybacks))
	for _, payback := range paybacks {
		out = append(out, toPaybackResponse(payback))
	}

	response.Created(w, out)
}

// GetPlan handles GET /api/v1/plans/{planId}
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid plan id", err)
		return
	}

	plan, paybacks, err := h.service.GetPlan(r.Context(), planID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	detail := &domain.PlanDetailResponse{
		Plan:     toPlanResponse(plan),
		Paybacks: make([]*domain.PaybackResponse, 0, len(paybacks)),
	}
	for _, payback := range paybacks {
		detail.Paybacks = append(detail.Paybacks, toPaybackResponse(payback))
	}

	response.Success(w, detail)
}

// ClosePlan handles POST /api/v1/plans/{planId}/close
func (h *PlanHandler) ClosePlan(w http.ResponseWriter, r *http.Request) {
	planID, err := planIDFromRequest(r)
	if err != nil {
		response.BadRequest(w, "invalid plan id", err)
		return
	}

	plan, err := h.service.ClosePlan(r.Context(), planID)
	if err != nil {
		writeBusinessError(w, err)
		return
	}

	response.Success(w, toPlanResponse(plan))
}

func planIDFromRequest(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["planId"])
}

func writeBusinessError(w http.ResponseWriter, err error) {
	var bizErr *customError.BusinessError
	if !errors.As(err, &bizErr) {
		response.InternalServerError(w, "internal error", err)
		return
	}

	status := http.StatusInternalServerError
	switch bizErr.Code {
	case customError.ErrCodeInvalidSpec:
		status = http.StatusBadRequest
	case customError.ErrCodePlanNotFound:
		status = http.StatusNotFound
	case customError.ErrCodePlanNotActive, customError.ErrCodeConcurrentModification:
		status = http.StatusConflict
	}

	response.ErrorWithCode(w, status, bizErr.Code, bizErr.Message, bizErr.Err)
}

func toPlanResponse(plan *domain.PaybackPlan) *domain.PlanResponse {
	out := &domain.PlanResponse{
		ID:             plan.ID,
		FundingID:      plan.FundingID,
		TotalAmount:    plan.TotalAmount.Decimal(),
		PaybackCount:   plan.PaybackCount,
		StartDate:      plan.StartDate.Format(time.DateOnly),
		EndDate:        plan.EndDate.Format(time.DateOnly),
		Frequency:      plan.Frequency,
		PaydayList:     plan.PaydayList,
		AvoidHoliday:   plan.AvoidHoliday,
		Priority:       string(plan.Priority),
		GeneratedCount: plan.GeneratedCount,
		Status:         plan.Status,
	}
	if plan.NextPaybackDate != nil {
		out.NextPaybackDate = plan.NextPaybackDate.Format(time.DateOnly)
	}
	return out
}

func toPaybackResponse(payback *domain.Payback) *domain.PaybackResponse {
	return &domain.PaybackResponse{
		ID:            payback.ID,
		SequenceIndex: payback.SequenceIndex,
		Date:          payback.Date.Format(time.DateOnly),
		Amount:        payback.Amount.Decimal(),
		Status:        payback.Status,
	}
}

func toInstallmentResponses(installments []schedule.Installment) []*domain.InstallmentResponse {
	out := make([]*domain.InstallmentResponse, 0, len(installments))
	for _, inst := range installments {
		out = append(out, &domain.InstallmentResponse{
			Date:   inst.Date.Format(time.DateOnly),
			Amount: inst.Amount.Decimal(),
		})
	}
	return out
}
