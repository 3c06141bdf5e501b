package indicator

import (
	"strings"
	"unicode/utf8"

	"github.com/finwise/finwise/internal/utils"
	"github.com/shopspring/decimal"
)

const (
	maxTextLength = 255
	valueScale    = 4
	minYear       = 1900
	maxYear       = 9999
)

// values must fit NUMERIC(19,4)
var valueLimit = decimal.New(1, 15)

func normalize(indicator *Indicator) error {
	indicator.Name = strings.TrimSpace(indicator.Name)
	if indicator.Name == "" {
		return &FieldError{Field: "indicatorName", Reason: "is required"}
	}
	if utf8.RuneCountInString(indicator.Name) > maxTextLength {
		return &FieldError{Field: "indicatorName", Reason: "must be at most 255 characters"}
	}

	indicator.DataSource = strings.TrimSpace(indicator.DataSource)
	if utf8.RuneCountInString(indicator.DataSource) > maxTextLength {
		return &FieldError{Field: "dataSource", Reason: "must be at most 255 characters"}
	}

	if !utils.DecimalInBounds(indicator.Value) {
		return &FieldError{Field: "value", Reason: "is out of range"}
	}
	indicator.Value = indicator.Value.Round(valueScale)
	if indicator.Value.Abs().GreaterThanOrEqual(valueLimit) {
		return &FieldError{Field: "value", Reason: "is out of range"}
	}

	if indicator.Year < minYear || indicator.Year > maxYear {
		return &FieldError{Field: "year", Reason: "must be between 1900 and 9999"}
	}
	if indicator.Month != nil && (*indicator.Month < 1 || *indicator.Month > 12) {
		return &FieldError{Field: "month", Reason: "must be between 1 and 12"}
	}
	return nil
}
