package services

import "fmt"

// ValidationCode identifies which business rule rejected the input.
type ValidationCode string

const (
	CodeMissingFields     ValidationCode = "missing_fields"
	CodeInvalidYearFormat ValidationCode = "invalid_year_format"
	CodeYearOutOfRange    ValidationCode = "year_out_of_range"
	CodeFieldTooLong      ValidationCode = "field_too_long"
)

// ValidationError is returned when form input breaks a business rule.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Code  ValidationCode
	Field string // set for field_too_long
	Limit int    // set for field_too_long
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s (%s)", e.Code, e.Field)
	}
	return "validation failed: " + string(e.Code)
}

// Message is the text shown to the user.
func (e *ValidationError) Message() string {
	switch e.Code {
	case CodeMissingFields:
		return "All fields except description are required!"
	case CodeInvalidYearFormat:
		return "Year must be a valid number!"
	case CodeYearOutOfRange:
		return "Please enter a valid year!"
	case CodeFieldTooLong:
		return fmt.Sprintf("%s is too long (max %d characters).", e.Field, e.Limit)
	default:
		return "Invalid input."
	}
}
