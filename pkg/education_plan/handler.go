package education_plan

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/finwise/finwise/internal/rest"
	"github.com/finwise/finwise/internal/utils"
	"github.com/finwise/finwise/pkg/family"
	"github.com/finwise/finwise/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// EducationPlanDTO is the response shape. Money and rates are strings to keep their exact value.
type EducationPlanDTO struct {
	Id                    int       `json:"id"`
	FamilyProfileId       int       `json:"familyProfileId"`
	ChildId               int       `json:"childId"`
	EducationLevel        string    `json:"educationLevel"`
	EstimatedTotalCost    string    `json:"estimatedTotalCost"`
	EstimatedStartYear    int       `json:"estimatedStartYear"`
	InflationRate         string    `json:"inflationRate"`
	InflationAdjustedCost string    `json:"inflationAdjustedCost"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// EducationPlanInputDTO is accepted by create and full update. Decimals may be sent as numbers or strings.
type EducationPlanInputDTO struct {
	ChildId            int              `json:"childId"`
	EducationLevel     string           `json:"educationLevel"`
	EstimatedTotalCost *decimal.Decimal `json:"estimatedTotalCost"`
	EstimatedStartYear *int             `json:"estimatedStartYear"`
	InflationRate      *decimal.Decimal `json:"inflationRate"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreatePlan godoc
// @Summary Create an education plan
// @Description Create an education plan for a child of the family profile. The inflation adjusted cost is computed by the server.
// @Tags EducationPlan
// @Accept json
// @Produce json
// @Param familyProfileId path int true "Family profile ID"
// @Param plan body EducationPlanInputDTO true "Education plan"
// @Success 201 {object} EducationPlanDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Family profile or child not found"
// @Router /api/family-profiles/{familyProfileId}/education-plans [post]
// @Security SessionCookie
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating education plan")
	w.Header().Set("Content-Type", "application/json")

	familyProfileId, err := rest.PathInt(r, "familyProfileId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid family profile id", err.Error())
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Create(r.Context(), familyProfileId, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, PlanToDTO(plan))
}

// GetPlan godoc
// @Summary Get an education plan
// @Tags EducationPlan
// @Produce json
// @Param planId path int true "Education plan ID"
// @Success 200 {object} EducationPlanDTO
// @Failure 404 {object} rest.ErrorResponse "Education plan not found"
// @Router /api/education-plans/{planId} [get]
// @Security SessionCookie
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting education plan")
	w.Header().Set("Content-Type", "application/json")

	planId, err := rest.PathInt(r, "planId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid plan id", err.Error())
		return
	}
	plan, err := h.service.Get(r.Context(), planId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlanToDTO(plan))
}

// ListPlansByChild godoc
// @Summary List education plans of a child
// @Tags EducationPlan
// @Produce json
// @Param childId path int true "Child ID"
// @Success 200 {array} EducationPlanDTO
// @Failure 404 {object} rest.ErrorResponse "Child not found"
// @Router /api/children/{childId}/education-plans [get]
// @Security SessionCookie
func (h *Handler) ListPlansByChild(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing education plans of child")
	w.Header().Set("Content-Type", "application/json")

	childId, err := rest.PathInt(r, "childId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid child id", err.Error())
		return
	}
	plans, err := h.service.ListByChild(r.Context(), childId)
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]EducationPlanDTO, 0, len(plans))
	for _, plan := range plans {
		dtos = append(dtos, PlanToDTO(plan))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdatePlan godoc
// @Summary Replace an education plan
// @Description Overwrite every writable field. The inflation adjusted cost is recomputed.
// @Tags EducationPlan
// @Accept json
// @Produce json
// @Param planId path int true "Education plan ID"
// @Param plan body EducationPlanInputDTO true "Education plan"
// @Success 200 {object} EducationPlanDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Education plan or child not found"
// @Router /api/education-plans/{planId} [put]
// @Security SessionCookie
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating education plan")
	w.Header().Set("Content-Type", "application/json")

	planId, err := rest.PathInt(r, "planId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid plan id", err.Error())
		return
	}
	input, ok := decodeInput(w, r)
	if !ok {
		return
	}

	plan, err := h.service.Update(r.Context(), planId, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlanToDTO(plan))
}

// PatchPlan godoc
// @Summary Partially update an education plan
// @Description Change a subset of educationLevel, estimatedTotalCost, estimatedStartYear and inflationRate. Unknown fields are rejected and nothing is written.
// @Tags EducationPlan
// @Accept json
// @Produce json
// @Param planId path int true "Education plan ID"
// @Param patch body object true "Fields to change"
// @Success 200 {object} EducationPlanDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid field"
// @Failure 404 {object} rest.ErrorResponse "Education plan not found"
// @Router /api/education-plans/{planId} [patch]
// @Security SessionCookie
func (h *Handler) PatchPlan(w http.ResponseWriter, r *http.Request) {
	log.Debug("Patching education plan")
	w.Header().Set("Content-Type", "application/json")

	planId, err := rest.PathInt(r, "planId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid plan id", err.Error())
		return
	}
	rest.LimitBody(w, r)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		rest.WriteBodyError(w, err)
		return
	}
	patch, err := DecodePatch(body)
	if err != nil {
		writeError(w, err)
		return
	}

	plan, err := h.service.PartialUpdate(r.Context(), planId, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, PlanToDTO(plan))
}

// DeletePlan godoc
// @Summary Delete an education plan
// @Tags EducationPlan
// @Param planId path int true "Education plan ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Education plan not found"
// @Router /api/education-plans/{planId} [delete]
// @Security SessionCookie
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting education plan")

	planId, err := rest.PathInt(r, "planId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid plan id", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), planId); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (PlanInput, bool) {
	var dto EducationPlanInputDTO
	rest.LimitBody(w, r)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBodyError(w, err)
		return PlanInput{}, false
	}
	input, err := DTOToInput(dto)
	if err != nil {
		writeError(w, err)
		return PlanInput{}, false
	}
	return input, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	var fieldErr *FieldError
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	case errors.Is(err, ErrPlanNotFound):
		rest.WriteError(w, http.StatusNotFound, "Education plan not found", "")
	case errors.Is(err, family.ErrChildNotFound):
		rest.WriteError(w, http.StatusNotFound, "Child not found", "")
	case errors.Is(err, family.ErrFamilyProfileNotFound):
		rest.WriteError(w, http.StatusNotFound, "Family profile not found", "")
	case errors.As(err, &fieldErr):
		rest.WriteError(w, http.StatusBadRequest, "Invalid field: "+fieldErr.Field, fieldErr.Reason)
	case errors.Is(err, ErrInvalidField):
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
	default:
		log.Errorf("education plan request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func PlanToDTO(plan EducationPlan) EducationPlanDTO {
	return EducationPlanDTO{
		Id:                    plan.Id,
		FamilyProfileId:       plan.FamilyProfileId,
		ChildId:               plan.ChildId,
		EducationLevel:        plan.EducationLevel,
		EstimatedTotalCost:    plan.EstimatedTotalCost.StringFixed(2),
		EstimatedStartYear:    plan.EstimatedStartYear,
		InflationRate:         plan.InflationRate.String(),
		InflationAdjustedCost: plan.InflationAdjustedCost.StringFixed(2),
		CreatedAt:             plan.CreatedAt,
		UpdatedAt:             plan.UpdatedAt,
	}
}

func DTOToInput(dto EducationPlanInputDTO) (PlanInput, error) {
	if dto.ChildId <= 0 {
		return PlanInput{}, &FieldError{Field: "childId", Reason: "is required"}
	}
	if dto.EstimatedTotalCost == nil {
		return PlanInput{}, &FieldError{Field: "estimatedTotalCost", Reason: "is required"}
	}
	if !utils.DecimalInBounds(*dto.EstimatedTotalCost) {
		return PlanInput{}, &FieldError{Field: "estimatedTotalCost", Reason: "is out of range"}
	}
	if dto.EstimatedStartYear == nil {
		return PlanInput{}, &FieldError{Field: "estimatedStartYear", Reason: "is required"}
	}
	if dto.InflationRate == nil {
		return PlanInput{}, &FieldError{Field: "inflationRate", Reason: "is required"}
	}
	if !utils.DecimalInBounds(*dto.InflationRate) {
		return PlanInput{}, &FieldError{Field: "inflationRate", Reason: "is out of range"}
	}
	return PlanInput{
		ChildId:            dto.ChildId,
		EducationLevel:     dto.EducationLevel,
		EstimatedTotalCost: *dto.EstimatedTotalCost,
		EstimatedStartYear: *dto.EstimatedStartYear,
		InflationRate:      *dto.InflationRate,
	}, nil
}
