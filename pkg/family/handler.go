package family

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/finwise/finwise/internal/rest"
	"github.com/finwise/finwise/pkg/user"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type FamilyProfileDTO struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FamilyProfileInputDTO struct {
	Name string `json:"name"`
}

type ChildDTO struct {
	Id              int       `json:"id"`
	FamilyProfileId int       `json:"familyProfileId"`
	Name            string    `json:"name"`
	BirthDate       *string   `json:"birthDate,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ChildInputDTO struct {
	Name      string  `json:"name"`
	BirthDate *string `json:"birthDate"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetCurrentProfile godoc
// @Summary Get current family profile
// @Description Get the family profile of the authenticated user
// @Tags FamilyProfile
// @Produce json
// @Success 200 {object} FamilyProfileDTO
// @Failure 401 {object} rest.ErrorResponse "Not authenticated"
// @Router /api/family-profiles/current [get]
// @Security SessionCookie
func (h *Handler) GetCurrentProfile(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting current family profile")
	w.Header().Set("Content-Type", "application/json")

	profile, err := h.service.GetCurrentProfile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileToDTO(profile))
}

// GetProfile godoc
// @Summary Get family profile
// @Tags FamilyProfile
// @Produce json
// @Param familyProfileId path int true "Family profile ID"
// @Success 200 {object} FamilyProfileDTO
// @Failure 404 {object} rest.ErrorResponse "Family profile not found"
// @Router /api/family-profiles/{familyProfileId} [get]
// @Security SessionCookie
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting family profile")
	w.Header().Set("Content-Type", "application/json")

	profileId, err := rest.PathInt(r, "familyProfileId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid family profile id", err.Error())
		return
	}
	profile, err := h.service.GetFamilyProfile(r.Context(), profileId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileToDTO(profile))
}

// UpdateProfile godoc
// @Summary Rename family profile
// @Tags FamilyProfile
// @Accept json
// @Produce json
// @Param familyProfileId path int true "Family profile ID"
// @Param profile body FamilyProfileInputDTO true "Family profile"
// @Success 200 {object} FamilyProfileDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Family profile not found"
// @Router /api/family-profiles/{familyProfileId} [put]
// @Security SessionCookie
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating family profile")
	w.Header().Set("Content-Type", "application/json")

	profileId, err := rest.PathInt(r, "familyProfileId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid family profile id", err.Error())
		return
	}
	var dto FamilyProfileInputDTO
	rest.LimitBody(w, r)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBodyError(w, err)
		return
	}
	profile, err := h.service.UpdateFamilyProfile(r.Context(), FamilyProfile{Id: profileId, Name: dto.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileToDTO(profile))
}

// ListChildren godoc
// @Summary List children of a family profile
// @Tags Child
// @Produce json
// @Param familyProfileId path int true "Family profile ID"
// @Success 200 {array} ChildDTO
// @Failure 404 {object} rest.ErrorResponse "Family profile not found"
// @Router /api/family-profiles/{familyProfileId}/children [get]
// @Security SessionCookie
func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing children")
	w.Header().Set("Content-Type", "application/json")

	profileId, err := rest.PathInt(r, "familyProfileId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid family profile id", err.Error())
		return
	}
	children, err := h.service.ListChildren(r.Context(), profileId)
	if err != nil {
		writeError(w, err)
		return
	}
	dtos := make([]ChildDTO, 0, len(children))
	for _, child := range children {
		dtos = append(dtos, ChildToDTO(child))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateChild godoc
// @Summary Add a child to a family profile
// @Tags Child
// @Accept json
// @Produce json
// @Param familyProfileId path int true "Family profile ID"
// @Param child body ChildInputDTO true "Child"
// @Success 201 {object} ChildDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Family profile not found"
// @Router /api/family-profiles/{familyProfileId}/children [post]
// @Security SessionCookie
func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating child")
	w.Header().Set("Content-Type", "application/json")

	profileId, err := rest.PathInt(r, "familyProfileId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid family profile id", err.Error())
		return
	}
	child, ok := decodeChild(w, r)
	if !ok {
		return
	}
	created, err := h.service.CreateChild(r.Context(), profileId, child)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ChildToDTO(created))
}

// GetChild godoc
// @Summary Get child
// @Tags Child
// @Produce json
// @Param childId path int true "Child ID"
// @Success 200 {object} ChildDTO
// @Failure 404 {object} rest.ErrorResponse "Child not found"
// @Router /api/children/{childId} [get]
// @Security SessionCookie
func (h *Handler) GetChild(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting child")
	w.Header().Set("Content-Type", "application/json")

	childId, err := rest.PathInt(r, "childId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid child id", err.Error())
		return
	}
	child, err := h.service.GetChild(r.Context(), childId)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChildToDTO(child))
}

// UpdateChild godoc
// @Summary Update child
// @Tags Child
// @Accept json
// @Produce json
// @Param childId path int true "Child ID"
// @Param child body ChildInputDTO true "Child"
// @Success 200 {object} ChildDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 404 {object} rest.ErrorResponse "Child not found"
// @Router /api/children/{childId} [put]
// @Security SessionCookie
func (h *Handler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	log.Debug("Updating child")
	w.Header().Set("Content-Type", "application/json")

	childId, err := rest.PathInt(r, "childId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid child id", err.Error())
		return
	}
	child, ok := decodeChild(w, r)
	if !ok {
		return
	}
	child.Id = childId
	updated, err := h.service.UpdateChild(r.Context(), child)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ChildToDTO(updated))
}

// DeleteChild godoc
// @Summary Delete child
// @Description Delete a child together with its education plans
// @Tags Child
// @Param childId path int true "Child ID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "Child not found"
// @Router /api/children/{childId} [delete]
// @Security SessionCookie
func (h *Handler) DeleteChild(w http.ResponseWriter, r *http.Request) {
	log.Debug("Deleting child")

	childId, err := rest.PathInt(r, "childId")
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid child id", err.Error())
		return
	}
	if err := h.service.DeleteChild(r.Context(), childId); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeChild(w http.ResponseWriter, r *http.Request) (Child, bool) {
	var dto ChildInputDTO
	rest.LimitBody(w, r)
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteBodyError(w, err)
		return Child{}, false
	}
	child, err := DTOToChild(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid birth date", err.Error())
		return Child{}, false
	}
	return child, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		rest.WriteError(w, http.StatusUnauthorized, "Not authenticated", "")
	case errors.Is(err, ErrFamilyProfileNotFound):
		rest.WriteError(w, http.StatusNotFound, "Family profile not found", "")
	case errors.Is(err, ErrChildNotFound):
		rest.WriteError(w, http.StatusNotFound, "Child not found", "")
	case errors.Is(err, ErrInvalidChild), errors.Is(err, ErrInvalidFamilyProfile):
		rest.WriteError(w, http.StatusBadRequest, "Invalid input", err.Error())
	default:
		log.Errorf("family request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal server error", "")
	}
}

func ProfileToDTO(profile FamilyProfile) FamilyProfileDTO {
	return FamilyProfileDTO{
		Id:        profile.Id,
		Name:      profile.Name,
		CreatedAt: profile.CreatedAt,
		UpdatedAt: profile.UpdatedAt,
	}
}

func ChildToDTO(child Child) ChildDTO {
	dto := ChildDTO{
		Id:              child.Id,
		FamilyProfileId: child.FamilyProfileId,
		Name:            child.Name,
		CreatedAt:       child.CreatedAt,
	}
	if child.BirthDate != nil {
		birthDate := child.BirthDate.Format(dateLayout)
		dto.BirthDate = &birthDate
	}
	return dto
}

func DTOToChild(dto ChildInputDTO) (Child, error) {
	child := Child{Name: dto.Name}
	if dto.BirthDate != nil && *dto.BirthDate != "" {
		birthDate, err := time.Parse(dateLayout, *dto.BirthDate)
		if err != nil {
			return Child{}, fmt.Errorf("birthDate must be formatted as %s", dateLayout)
		}
		child.BirthDate = &birthDate
	}
	return child, nil
}
