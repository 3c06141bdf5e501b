package education_plan

import (
	"strings"
	"unicode/utf8"

	"github.com/finwise/finwise/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	minStartYear = 1900
	maxStartYear = 9999
)

var (
	minInflationRate = decimal.NewFromInt(-100)
	maxInflationRate = decimal.NewFromInt(1000)
	// costs are stored as NUMERIC(19,2)
	maxCost = decimal.New(1, 17)
)

// normalize validates the writable fields of plan and rounds the decimals to their stored scale, so the
// derived cost is computed from exactly the values that end up in the database.
func normalize(plan *EducationPlan) error {
	if !utils.DecimalInBounds(plan.EstimatedTotalCost) {
		return &FieldError{Field: "estimatedTotalCost", Reason: "is out of range"}
	}
	if !utils.DecimalInBounds(plan.InflationRate) {
		return &FieldError{Field: "inflationRate", Reason: "is out of range"}
	}
	plan.EducationLevel = strings.TrimSpace(plan.EducationLevel)
	if utf8.RuneCountInString(plan.EducationLevel) > 255 {
		return &FieldError{Field: "educationLevel", Reason: "must have at most 255 characters"}
	}
	if plan.EstimatedTotalCost.IsNegative() {
		return &FieldError{Field: "estimatedTotalCost", Reason: "must not be negative"}
	}
	if plan.EstimatedTotalCost.GreaterThanOrEqual(maxCost) {
		return &FieldError{Field: "estimatedTotalCost", Reason: "is too large"}
	}
	if plan.EstimatedStartYear < minStartYear || plan.EstimatedStartYear > maxStartYear {
		return &FieldError{Field: "estimatedStartYear", Reason: "must be between 1900 and 9999"}
	}
	if plan.InflationRate.LessThanOrEqual(minInflationRate) || plan.InflationRate.GreaterThanOrEqual(maxInflationRate) {
		return &FieldError{Field: "inflationRate", Reason: "must be greater than -100 and less than 1000"}
	}
	plan.EstimatedTotalCost = plan.EstimatedTotalCost.Round(2)
	plan.InflationRate = plan.InflationRate.Round(4)
	return nil
}

// checkProjection rejects projections that do not fit the stored column.
func checkProjection(plan EducationPlan) error {
	if plan.InflationAdjustedCost.Abs().GreaterThanOrEqual(maxCost) {
		return &FieldError{Field: "inflationAdjustedCost", Reason: "projected cost is too large"}
	}
	return nil
}
