package education_plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/finwise/finwise/internal/utils"
	"github.com/shopspring/decimal"
)

// DecodePatch reads a JSON object into a PlanPatch. Decimal fields accept numbers and numeric strings,
// the start year accepts any value convertible to a whole number, and the education level accepts any
// scalar as text. Any unknown field or unconvertible value fails the whole patch with a FieldError.
func DecodePatch(data []byte) (PlanPatch, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return PlanPatch{}, fmt.Errorf("%w: body must be a JSON object: %v", ErrInvalidField, err)
	}

	// sorted so the reported field is stable when several are wrong
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var patch PlanPatch
	for _, name := range names {
		raw := bytes.TrimSpace(fields[name])
		switch name {
		case "educationLevel":
			v, err := coerceText(name, raw)
			if err != nil {
				return PlanPatch{}, err
			}
			patch.EducationLevel = &v
		case "estimatedTotalCost":
			v, err := coerceDecimal(name, raw)
			if err != nil {
				return PlanPatch{}, err
			}
			patch.EstimatedTotalCost = &v
		case "estimatedStartYear":
			v, err := coerceInt(name, raw)
			if err != nil {
				return PlanPatch{}, err
			}
			patch.EstimatedStartYear = &v
		case "inflationRate":
			v, err := coerceDecimal(name, raw)
			if err != nil {
				return PlanPatch{}, err
			}
			patch.InflationRate = &v
		default:
			return PlanPatch{}, &FieldError{Field: name, Reason: "unknown field"}
		}
	}
	return patch, nil
}

func coerceDecimal(field string, raw json.RawMessage) (decimal.Decimal, error) {
	text, ok := scalarText(raw)
	if !ok {
		return decimal.Decimal{}, &FieldError{Field: field, Reason: "must be a number"}
	}
	v, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Decimal{}, &FieldError{Field: field, Reason: "must be a number"}
	}
	if !utils.DecimalInBounds(v) {
		return decimal.Decimal{}, &FieldError{Field: field, Reason: "is out of range"}
	}
	return v, nil
}

func coerceInt(field string, raw json.RawMessage) (int, error) {
	v, err := coerceDecimal(field, raw)
	if err != nil {
		return 0, &FieldError{Field: field, Reason: "must be a whole number"}
	}
	if !v.IsInteger() || v.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, &FieldError{Field: field, Reason: "must be a whole number"}
	}
	return int(v.IntPart()), nil
}

func coerceText(field string, raw json.RawMessage) (string, error) {
	text, ok := scalarText(raw)
	if !ok {
		return "", &FieldError{Field: field, Reason: "must be a text value"}
	}
	return text, nil
}

// scalarText returns the text of a JSON string, number or boolean. Null, objects and arrays are rejected.
func scalarText(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case 'n', '{', '[':
		return "", false
	default:
		return string(raw), true
	}
}
