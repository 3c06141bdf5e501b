package education_plan

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/finwise/finwise/internal/rest"
	"github.com/finwise/finwise/pkg/user"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*mux.Router, func()) {
	teardown := setup(t)
	handler := NewHandler(service)
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(user.WithUser(req.Context(), user.User{Id: userId})))
		})
	})
	r.HandleFunc("/api/family-profiles/{familyProfileId}/education-plans", handler.CreatePlan).Methods("POST")
	r.HandleFunc("/api/children/{childId}/education-plans", handler.ListPlansByChild).Methods("GET")
	r.HandleFunc("/api/education-plans/{planId}", handler.GetPlan).Methods("GET")
	r.HandleFunc("/api/education-plans/{planId}", handler.UpdatePlan).Methods("PUT")
	r.HandleFunc("/api/education-plans/{planId}", handler.PatchPlan).Methods("PATCH")
	r.HandleFunc("/api/education-plans/{planId}", handler.DeletePlan).Methods("DELETE")
	return r, teardown
}

func serve(router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func planPath(id int) string {
	return "/api/education-plans/" + strconv.Itoa(id)
}

func decodePlan(t *testing.T, rec *httptest.ResponseRecorder) EducationPlanDTO {
	t.Helper()
	var dto EducationPlanDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	return dto
}

const createBody = `{"childId":11,"educationLevel":"University","estimatedTotalCost":10000,"estimatedStartYear":2027,"inflationRate":5}`

func TestHandler_CreatePlan(t *testing.T) {
	t.Run("should create plan and return computed cost", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()

		// when
		rec := serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", createBody)

		// then
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		dto := decodePlan(t, rec)
		assert.Equal(t, "University", dto.EducationLevel)
		assert.Equal(t, "10000.00", dto.EstimatedTotalCost)
		assert.Equal(t, "11025.00", dto.InflationAdjustedCost)
		assert.Equal(t, 2027, dto.EstimatedStartYear)
		assert.Equal(t, 1, dto.FamilyProfileId)
	})

	t.Run("should ignore client supplied inflation adjusted cost", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		body := `{"childId":11,"educationLevel":"University","estimatedTotalCost":"10000","estimatedStartYear":2027,"inflationRate":"5","inflationAdjustedCost":1}`

		// when
		rec := serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", body)

		// then
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "11025.00", decodePlan(t, rec).InflationAdjustedCost)
	})

	t.Run("should answer 404 for missing child", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		body := strings.Replace(createBody, `"childId":11`, `"childId":99`, 1)

		// when
		rec := serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", body)

		// then
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should answer 400 for missing cost", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()

		// when
		rec := serve(router, http.MethodPost, "/api/family-profiles/1/education-plans",
			`{"childId":11,"educationLevel":"University","estimatedStartYear":2027,"inflationRate":5}`)

		// then
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid field: estimatedTotalCost", body.Error)
	})

	t.Run("should answer 400 quickly for huge decimal exponents", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		body := `{"childId":11,"educationLevel":"University","estimatedTotalCost":1e1000000000,"estimatedStartYear":2027,"inflationRate":5}`
		start := time.Now()

		// when
		rec := serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", body)

		// then
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var errBody rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
		assert.Equal(t, "Invalid field: estimatedTotalCost", errBody.Error)
		assert.Less(t, time.Since(start), time.Second)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should answer 413 for body over the size limit", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		body := `{"childId":11,"educationLevel":"` + strings.Repeat("a", rest.MaxBodySize) + `"}`

		// when
		rec := serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", body)

		// then
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		var errBody rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
		assert.Equal(t, "Request body too large", errBody.Error)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should answer 400 for malformed path id", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()

		// when
		rec := serve(router, http.MethodPost, "/api/family-profiles/abc/education-plans", createBody)

		// then
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_PatchPlan(t *testing.T) {
	t.Run("should patch start year and recompute", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		created := decodePlan(t, serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", createBody))

		// when
		rec := serve(router, http.MethodPatch, planPath(created.Id), `{"estimatedStartYear":2028}`)

		// then
		require.Equal(t, http.StatusOK, rec.Code)
		dto := decodePlan(t, rec)
		assert.Equal(t, 2028, dto.EstimatedStartYear)
		assert.Equal(t, "11576.25", dto.InflationAdjustedCost)
	})

	t.Run("should reject unknown field and keep plan unchanged", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		created := decodePlan(t, serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", createBody))

		// when
		rec := serve(router, http.MethodPatch, planPath(created.Id), `{"estimatedStartYear":2030,"nickname":"x"}`)

		// then
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid field: nickname", body.Error)
		stored := decodePlan(t, serve(router, http.MethodGet, planPath(created.Id), ""))
		assert.Equal(t, 2027, stored.EstimatedStartYear)
		assert.Equal(t, "11025.00", stored.InflationAdjustedCost)
	})

	t.Run("should answer 413 for body over the size limit and keep plan unchanged", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		created := decodePlan(t, serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", createBody))
		body := `{"educationLevel":"` + strings.Repeat("a", rest.MaxBodySize) + `"}`

		// when
		rec := serve(router, http.MethodPatch, planPath(created.Id), body)

		// then
		require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		var errBody rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
		assert.Equal(t, "Request body too large", errBody.Error)
		stored := decodePlan(t, serve(router, http.MethodGet, planPath(created.Id), ""))
		assert.Equal(t, "University", stored.EducationLevel)
	})

	t.Run("should answer 404 for missing plan", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()

		// when
		rec := serve(router, http.MethodPatch, planPath(42), `{"educationLevel":"College"}`)

		// then
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandler_PlanLifecycle(t *testing.T) {
	t.Run("should update list and delete plan", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()
		created := decodePlan(t, serve(router, http.MethodPost, "/api/family-profiles/1/education-plans", createBody))

		// when
		updateRec := serve(router, http.MethodPut, planPath(created.Id),
			`{"childId":11,"educationLevel":"College","estimatedTotalCost":20000,"estimatedStartYear":2026,"inflationRate":5}`)
		listRec := serve(router, http.MethodGet, "/api/children/11/education-plans", "")
		deleteRec := serve(router, http.MethodDelete, planPath(created.Id), "")
		afterDelete := serve(router, http.MethodGet, planPath(created.Id), "")

		// then
		require.Equal(t, http.StatusOK, updateRec.Code)
		assert.Equal(t, "21000.00", decodePlan(t, updateRec).InflationAdjustedCost)
		require.Equal(t, http.StatusOK, listRec.Code)
		var plans []EducationPlanDTO
		require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &plans))
		require.Len(t, plans, 1)
		assert.Equal(t, "College", plans[0].EducationLevel)
		assert.Equal(t, http.StatusNoContent, deleteRec.Code)
		assert.Equal(t, http.StatusNotFound, afterDelete.Code)
	})

	t.Run("should list empty array for child without plans", func(t *testing.T) {
		// given
		router, teardown := setupHandler(t)
		defer teardown()

		// when
		rec := serve(router, http.MethodGet, "/api/children/11/education-plans", "")

		// then
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}
