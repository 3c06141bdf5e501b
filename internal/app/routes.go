package app

import (
	"net/http"

	"github.com/finwise/finwise/internal/rest"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {
	r.NotFoundHandler = http.HandlerFunc(rest.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(rest.MethodNotAllowed)

	// Authentication
	r.HandleFunc("/api/auth/register", deps.AuthHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", deps.AuthHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/logout", deps.AuthHandler.Logout).Methods("POST")
	r.HandleFunc("/api/auth/user", deps.AuthHandler.CurrentUser).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")

	// Family profile
	r.HandleFunc("/api/family-profiles/current", deps.FamilyHandler.GetCurrentProfile).Methods("GET")
	r.HandleFunc("/api/family-profiles/{familyProfileId}", deps.FamilyHandler.GetProfile).Methods("GET")
	r.HandleFunc("/api/family-profiles/{familyProfileId}", deps.FamilyHandler.UpdateProfile).Methods("PUT")

	// Children
	r.HandleFunc("/api/family-profiles/{familyProfileId}/children", deps.FamilyHandler.ListChildren).Methods("GET")
	r.HandleFunc("/api/family-profiles/{familyProfileId}/children", deps.FamilyHandler.CreateChild).Methods("POST")
	r.HandleFunc("/api/children/{childId}", deps.FamilyHandler.GetChild).Methods("GET")
	r.HandleFunc("/api/children/{childId}", deps.FamilyHandler.UpdateChild).Methods("PUT")
	r.HandleFunc("/api/children/{childId}", deps.FamilyHandler.DeleteChild).Methods("DELETE")

	// Education plans
	r.HandleFunc("/api/family-profiles/{familyProfileId}/education-plans", deps.EducationPlanHandler.CreatePlan).Methods("POST")
	r.HandleFunc("/api/children/{childId}/education-plans", deps.EducationPlanHandler.ListPlansByChild).Methods("GET")
	r.HandleFunc("/api/education-plans/{planId}", deps.EducationPlanHandler.GetPlan).Methods("GET")
	r.HandleFunc("/api/education-plans/{planId}", deps.EducationPlanHandler.UpdatePlan).Methods("PUT")
	r.HandleFunc("/api/education-plans/{planId}", deps.EducationPlanHandler.PatchPlan).Methods("PATCH")
	r.HandleFunc("/api/education-plans/{planId}", deps.EducationPlanHandler.DeletePlan).Methods("DELETE")

	// Economic indicators
	r.HandleFunc("/api/indicators", deps.IndicatorHandler.ListIndicators).Methods("GET")
	r.HandleFunc("/api/indicators", deps.IndicatorHandler.CreateIndicator).Methods("POST")
	r.HandleFunc("/api/indicators/export", deps.IndicatorHandler.ExportIndicators).Methods("GET")
	r.HandleFunc("/api/indicators/{indicatorId}", deps.IndicatorHandler.GetIndicator).Methods("GET")
	r.HandleFunc("/api/indicators/{indicatorId}", deps.IndicatorHandler.UpdateIndicator).Methods("PUT")
	r.HandleFunc("/api/indicators/{indicatorId}", deps.IndicatorHandler.DeleteIndicator).Methods("DELETE")
}
