package quality

import (
	"net/url"
	"strconv"
	"strings"

	"qc-tracking-backend/internal/model"
)

// FilterSpec narrows a record collection. A nil field places no constraint;
// it never means "match the empty string".
type FilterSpec struct {
	Line      *string
	Shift     *string
	Status    *model.Verdict
	StartDate *string
	EndDate   *string
}

// NewFilterSpec builds a spec from raw selector values, treating blank
// values as absent the way a cleared dropdown does.
func NewFilterSpec(line, shift, status, startDate, endDate string) FilterSpec {
	var spec FilterSpec
	if v := strings.TrimSpace(line); v != "" {
		spec.Line = &v
	}
	if v := strings.TrimSpace(shift); v != "" {
		spec.Shift = &v
	}
	if v := strings.TrimSpace(status); v != "" {
		verdict := model.Verdict(v)
		spec.Status = &verdict
	}
	if v := strings.TrimSpace(startDate); v != "" {
		spec.StartDate = &v
	}
	if v := strings.TrimSpace(endDate); v != "" {
		spec.EndDate = &v
	}
	return spec
}

// FilterFromQuery reads line, shift, status, startDate and endDate from a query string.
func FilterFromQuery(q url.Values) FilterSpec {
	return NewFilterSpec(q.Get("line"), q.Get("shift"), q.Get("status"), q.Get("startDate"), q.Get("endDate"))
}

// Query encodes the present predicates with the keys FilterFromQuery reads.
func (s FilterSpec) Query() url.Values {
	q := url.Values{}
	if s.Line != nil {
		q.Set("line", *s.Line)
	}
	if s.Shift != nil {
		q.Set("shift", *s.Shift)
	}
	if s.Status != nil {
		q.Set("status", string(*s.Status))
	}
	if s.StartDate != nil {
		q.Set("startDate", *s.StartDate)
	}
	if s.EndDate != nil {
		q.Set("endDate", *s.EndDate)
	}
	return q
}

// IsEmpty reports whether s places no constraint at all.
func (s FilterSpec) IsEmpty() bool {
	return s.Line == nil && s.Shift == nil && s.Status == nil && s.StartDate == nil && s.EndDate == nil
}

// Match reports whether a single record satisfies every present predicate.
func (s FilterSpec) Match(m model.Measurement) bool {
	if s.Line != nil && m.Line != *s.Line {
		return false
	}
	if s.Shift != nil && strconv.Itoa(m.Shift) != normalizeShift(*s.Shift) {
		return false
	}
	if s.Status != nil && m.Kualitas != *s.Status {
		return false
	}
	if s.StartDate != nil && m.Date < *s.StartDate {
		return false
	}
	if s.EndDate != nil && m.Date > *s.EndDate {
		return false
	}
	return true
}

// normalizeShift makes "02" and " 2" compare equal to a record shift of 2.
// Values that are not integers are compared as written and so never match.
func normalizeShift(s string) string {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return strconv.Itoa(n)
	}
	return s
}

// Filter returns the records matching spec in their original order. The
// input is not modified; no match yields an empty, non-nil slice.
func Filter(records []model.Measurement, spec FilterSpec) []model.Measurement {
	out := make([]model.Measurement, 0, len(records))
	for _, r := range records {
		if spec.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
