package quality

import (
	"fmt"
	"time"

	"qc-tracking-backend/internal/model"
)

// ValidationError reports a submission that cannot be accepted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func missing(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

// Validate checks a fully parsed measurement against the master data and the
// domain constraints. Presence of raw fields is checked by the caller, which
// knows what "empty" means for its input format.
func Validate(m model.Measurement, master model.MasterData) error {
	if m.Date != "" && !validDate(m.Date) {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD or RFC 3339"}
	}
	if !master.HasGroup(m.Group) {
		return &ValidationError{Field: "group", Reason: fmt.Sprintf("unknown group %q", m.Group)}
	}
	if !master.HasShift(m.Shift) {
		return &ValidationError{Field: "shift", Reason: fmt.Sprintf("unknown shift %d", m.Shift)}
	}
	if !master.HasLine(m.Line) {
		return &ValidationError{Field: "line", Reason: fmt.Sprintf("unknown line %q", m.Line)}
	}
	if m.Suhu < 0 {
		return &ValidationError{Field: "suhu", Reason: "must not be negative"}
	}
	if m.Berat < 0 {
		return &ValidationError{Field: "berat", Reason: "must not be negative"}
	}
	if !m.Kualitas.Valid() {
		return &ValidationError{Field: "kualitas", Reason: fmt.Sprintf("must be %q or %q", model.VerdictOK, model.VerdictNotOK)}
	}
	return nil
}

func validDate(s string) bool {
	if _, err := time.Parse(time.DateOnly, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}
