package education_plan

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrPlanNotFound = errors.New("education plan not found")
var ErrInvalidField = errors.New("invalid field")

// FieldError names the plan field that failed decoding or validation. It matches ErrInvalidField.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidField
}

type EducationPlan struct {
	Id                    int
	FamilyProfileId       int
	ChildId               int
	EducationLevel        string
	EstimatedTotalCost    decimal.Decimal
	EstimatedStartYear    int
	InflationRate         decimal.Decimal // percent per year
	InflationAdjustedCost decimal.Decimal
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// PlanInput carries every client-writable field of a plan. Ids of the plan itself, the derived cost and
// the timestamps are not part of it.
type PlanInput struct {
	ChildId            int
	EducationLevel     string
	EstimatedTotalCost decimal.Decimal
	EstimatedStartYear int
	InflationRate      decimal.Decimal
}

// PlanPatch has one optional slot per field a partial update may change. Nil slots are left untouched.
type PlanPatch struct {
	EducationLevel     *string
	EstimatedTotalCost *decimal.Decimal
	EstimatedStartYear *int
	InflationRate      *decimal.Decimal
}

func (p PlanPatch) touchesProjection() bool {
	return p.EstimatedTotalCost != nil || p.EstimatedStartYear != nil || p.InflationRate != nil
}

func (p PlanPatch) applyTo(plan *EducationPlan) {
	if p.EducationLevel != nil {
		plan.EducationLevel = *p.EducationLevel
	}
	if p.EstimatedTotalCost != nil {
		plan.EstimatedTotalCost = *p.EstimatedTotalCost
	}
	if p.EstimatedStartYear != nil {
		plan.EstimatedStartYear = *p.EstimatedStartYear
	}
	if p.InflationRate != nil {
		plan.InflationRate = *p.InflationRate
	}
}

func (in PlanInput) applyTo(plan *EducationPlan) {
	plan.ChildId = in.ChildId
	plan.EducationLevel = in.EducationLevel
	plan.EstimatedTotalCost = in.EstimatedTotalCost
	plan.EstimatedStartYear = in.EstimatedStartYear
	plan.InflationRate = in.InflationRate
}
