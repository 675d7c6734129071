package booking

import (
	"errors"
	"fmt"
)

// Domain conflict codes surfaced by the booking and lifecycle flows.
const (
	CodeSlotNotFound            = "SLOT_NOT_FOUND"
	CodeSlotUnavailable         = "SLOT_UNAVAILABLE"
	CodeSlotZeroDuration        = "SLOT_ZERO_DURATION"
	CodeInsufficientSlots       = "INSUFFICIENT_CONTIGUOUS_SLOTS"
	CodeServiceProMismatch      = "SERVICE_PROFESSIONAL_MISMATCH"
	CodeServiceNotAssigned      = "SERVICE_NOT_ASSIGNED"
	CodeLeadTimeViolation       = "LEAD_TIME_VIOLATION"
	CodePendingDuplicate        = "PENDING_DUPLICATE"
	CodePrematureCompletion     = "PREMATURE_COMPLETION"
	CodeStateInvalid            = "STATE_INVALID"
	CodeValidation              = "VALIDATION"
	CodeNotFound                = "NOT_FOUND"
)

// DomainError carries a stable code the API layer can map to a response.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewDomainError builds a coded domain error.
func NewDomainError(code, format string, args ...interface{}) error {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the domain code from err, or "" for non-domain errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
