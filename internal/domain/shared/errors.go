package shared

import "fmt"

// DomainError is a rule violation reported to the caller by code.
// Two DomainErrors match under errors.Is when their codes are equal, so a
// detailed copy made with Withf still matches its sentinel.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// Withf returns a copy of e carrying a more specific message
func (e *DomainError) Withf(format string, args ...any) *DomainError {
	return &DomainError{Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidFormat   = NewDomainError("INVALID_FORMAT", "Unsupported output format")
	ErrInvalidGeometry = NewDomainError("INVALID_GEOMETRY", "Invalid page geometry")
	ErrUnknownRoutine  = NewDomainError("UNKNOWN_ROUTINE", "Unknown service routine")
	ErrEmptyTemplate   = NewDomainError("EMPTY_TEMPLATE", "Service template has no axles")
	ErrNoCharges       = NewDomainError("NO_CHARGES", "Bulk receipt requires at least one charge")
)
