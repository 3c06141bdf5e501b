package indicator

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/finwise/finwise/internal/rest"
	"github.com/finwise/finwise/internal/utils"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type IndicatorDTO struct {
	Id              int       `json:"id"`
	IndicatorName   string    `json:"indicatorName"`
	Value           string    `json:"value"`
	Year            int       `json:"year"`
	Month           *int      `json:"month"`
	DataSource      string    `json:"dataSource"`
	CreatedDate     time.Time `json:"createdDate"`
	LastUpdatedDate time.Time `json:"lastUpdatedDate"`
}

type IndicatorInputDTO struct {
	IndicatorName string           `json:"indicatorName"`
	Value         *decimal.Decimal `json:"value"`
	Year          *int             `json:"year"`
	Month         *int             `json:"month"`
	DataSource    string           `json:"dataSource"`
}

type Handler struct {
	service  Service
	renderer Renderer
}

func NewHandler(service Service, renderer Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// ListIndicators godoc
// @Summary List economic indicators
// @Description Ordered by name, year and month. The optional name filter is case-insensitive.
// @Tags Indicator
// @Produce json
// @Param name query string false "Indicator name"
// @Success 200 {array} IndicatorDTO
// @Router /api/indicators [get]
// @Security SessionCookie
func (h *Handler) ListIndicators(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing economic indicators")
	w.Header().Set("Content-Type", "application/json")

	indicators, err := h.service.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("name")))
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]IndicatorDTO, 0, len(indicators))
	for _, indicator := range indicators {
		dtos = append(dtos, IndicatorToDTO(indicator))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportIndicators godoc
// @Summary Export economic indicators as CSV
// @Tags Indicator
// @Produce text/csv
// @Param name query string false "Indicator name"
// @Success 200 {string} string "CSV document"
// @Router /api/indicators/export [get]
// @Security SessionCookie
func (h *Handler) ExportIndicators(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting economic indicators")

	indicators, err := h.service.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("name")))
	if err != nil {
		writeError(w, err)
		return
	}
	csv, err := h.renderer.Render(indicators)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="indicators.csv"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(csv)); err != nil {
		log.Errorf("failed to write indicators csv: %v", err)
	}
}

// GetIndicator godoc
// @Summary Get an economic indicator
// @Tags Indicator
// @Produce json
// @Param indicatorId path int true "Indicator ID"
// @Success 200 {object} IndicatorDTO
// @Failure 404 {object} rest.ErrorResponse "Indicator not found"
// @Router /api/indicators/{indicatorId} [get]
// @Security SessionCookie
func (h *Handler) GetIndicator(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := rest.PathInt(r, "indicatorId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid indicator id", err.Error())
		return
	}
	indicator, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IndicatorToDTO(indicator))
}

// CreateIndicator godoc
// @Summary Create an economic indicator
// @Tags Indicator
// @Accept json
// @Produce json
// @Param indicator body IndicatorInputDTO true "Indicator"
// @Success 201 {object} IndicatorDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Router /api/indicators [post]
// @Security SessionCookie
func (h *Handler) CreateIndicator(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating economic indicator")
	w.Header().Set("Content-Type", "application/json")

	indicator, ok := decodeInput(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), indicator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, IndicatorToDTO(created))
}

// UpdateIndicator godoc
// @Summary Update an economic indicator
// @Tags Indicator
// @Accept json
// @Produce json
// @Param indicatorId path int true "Indicator ID"
// @Param indicator body IndicatorInputDTO true "Indicator"
// @Success 200 {object} IndicatorDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Indicator not found"
// @Router /api/indicators/{indicatorId} [put]
// @Security SessionCookie
func (h *Handler) UpdateIndicator(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating economic indicator")
	w.Header().Set("Content-Type", "application/json")

	id, err := rest.PathInt(r, "indicatorId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid indicator id", err.Error())
		return
	}
	indicator, ok := decodeInput(w, r)
	if !ok {
		return
	}
	updated, err := h.service.Update(r.Context(), id, indicator)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IndicatorToDTO(updated))
}

// DeleteIndicator godoc
// @Summary Delete an economic indicator
// @Tags Indicator
// @Param indicatorId path int true "Indicator ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Indicator not found"
// @Router /api/indicators/{indicatorId} [delete]
// @Security SessionCookie
func (h *Handler) DeleteIndicator(w http.ResponseWriter, r *http.Request) {
	id, err := rest.PathInt(r, "indicatorId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid indicator id", err.Error())
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (Indicator, bool) {
	var dto IndicatorInputDTO
	rest.LimitBody(w, r)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBodyError(w, err)
		return Indicator{}, false
	}
	indicator, err := DTOToIndicator(dto)
	if err != nil {
		writeError(w, err)
		return Indicator{}, false
	}
	return indicator, true
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
	case errors.Is(err, ErrIndicatorNotFound):
		rest.WriteError(w, http.StatusNotFound, "Economic indicator not found", "")
	case errors.As(err, &fieldErr):
		rest.WriteError(w, http.StatusBadRequest, "Invalid field: "+fieldErr.Field, fieldErr.Reason)
	default:
		log.Errorf("economic indicator request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func IndicatorToDTO(indicator Indicator) IndicatorDTO {
	return IndicatorDTO{
		Id:              indicator.Id,
		IndicatorName:   indicator.Name,
		Value:           indicator.Value.String(),
		Year:            indicator.Year,
		Month:           indicator.Month,
		DataSource:      indicator.DataSource,
		CreatedDate:     indicator.CreatedDate,
		LastUpdatedDate: indicator.LastUpdatedDate,
	}
}

func DTOToIndicator(dto IndicatorInputDTO) (Indicator, error) {
	if dto.Value == nil {
		return Indicator{}, &FieldError{Field: "value", Reason: "is required"}
	}
	if !utils.DecimalInBounds(*dto.Value) {
		return Indicator{}, &FieldError{Field: "value", Reason: "is out of range"}
	}
	if dto.Year == nil {
		return Indicator{}, &FieldError{Field: "year", Reason: "is required"}
	}
	return Indicator{
		Name:       dto.IndicatorName,
		Value:      *dto.Value,
		Year:       *dto.Year,
		Month:      dto.Month,
		DataSource: dto.DataSource,
	}, nil
}
