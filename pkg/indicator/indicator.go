package indicator

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrIndicatorNotFound = errors.New("economic indicator not found")
var ErrInvalidIndicator = errors.New("invalid economic indicator")

// FieldError names the indicator field that failed validation. It matches ErrInvalidIndicator.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidIndicator
}

type Indicator struct {
	Id              int
	Name            string
	Value           decimal.Decimal
	Year            int
	Month           *int
	DataSource      string
	CreatedDate     time.Time
	LastUpdatedDate time.Time
}
