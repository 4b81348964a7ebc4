package quality

import (
	"strings"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/parse"
)

// VerdictSource records who decided the verdict currently held by a Form.
type VerdictSource int

const (
	// Derived means the verdict was computed by Evaluate from the inputs.
	Derived VerdictSource = iota
	// Overridden means the operator picked the verdict explicitly.
	Overridden
)

func (s VerdictSource) String() string {
	if s == Overridden {
		return "overridden"
	}
	return "derived"
}

// Form is a not-yet-submitted measurement entry.
//
// The verdict is re-derived whenever suhu or berat changes to a new
// well-formed value while the other is also well-formed. An explicit Override
// wins until one of the two inputs changes again. Empty or malformed input
// leaves the current verdict untouched.
type Form struct {
	Group string
	Shift string
	Line  string

	standards model.Standards

	suhuRaw  string
	beratRaw string
	suhu     *int
	berat    *float64

	verdict model.Verdict
	source  VerdictSource
}

// NewForm returns an empty form evaluated against std. A fresh form suggests OK.
func NewForm(std model.Standards) *Form {
	return &Form{standards: std, verdict: model.VerdictOK, source: Derived}
}

// SetSuhu updates the temperature input.
func (f *Form) SetSuhu(raw string) {
	f.suhuRaw = raw
	v, err := parse.Suhu(raw)
	if err != nil {
		f.suhu = nil
		return
	}
	changed := f.suhu == nil || *f.suhu != v
	f.suhu = &v
	if changed {
		f.derive()
	}
}

// SetBerat updates the weight input.
func (f *Form) SetBerat(raw string) {
	f.beratRaw = raw
	v, err := parse.Berat(raw)
	if err != nil {
		f.berat = nil
		return
	}
	changed := f.berat == nil || *f.berat != v
	f.berat = &v
	if changed {
		f.derive()
	}
}

func (f *Form) derive() {
	if f.suhu == nil || f.berat == nil {
		return
	}
	f.verdict = Evaluate(*f.suhu, *f.berat, f.standards)
	f.source = Derived
}

// Override sets the verdict explicitly. Unknown verdicts are ignored.
func (f *Form) Override(v model.Verdict) {
	if !v.Valid() {
		return
	}
	f.verdict = v
	f.source = Overridden
}

// Verdict returns the verdict the form would submit.
func (f *Form) Verdict() model.Verdict { return f.verdict }

// Source reports whether the verdict is derived or overridden.
func (f *Form) Source() VerdictSource { return f.source }

// ClearMeasurements empties suhu and berat after a successful submission,
// keeping group, shift and line for the next entry.
func (f *Form) ClearMeasurements() {
	f.suhuRaw, f.beratRaw = "", ""
	f.suhu, f.berat = nil, nil
}

// Measurement validates the form and builds the record to submit. ID and
// Date are left for the store and server to assign.
func (f *Form) Measurement(master model.MasterData) (model.Measurement, error) {
	if strings.TrimSpace(f.Group) == "" {
		return model.Measurement{}, missing("group")
	}
	if strings.TrimSpace(f.Shift) == "" {
		return model.Measurement{}, missing("shift")
	}
	if strings.TrimSpace(f.Line) == "" {
		return model.Measurement{}, missing("line")
	}
	if strings.TrimSpace(f.suhuRaw) == "" {
		return model.Measurement{}, missing("suhu")
	}
	if strings.TrimSpace(f.beratRaw) == "" {
		return model.Measurement{}, missing("berat")
	}

	shift, err := parse.Shift(f.Shift)
	if err != nil {
		return model.Measurement{}, &ValidationError{Field: "shift", Reason: "must be a whole number"}
	}
	if f.suhu == nil {
		return model.Measurement{}, &ValidationError{Field: "suhu", Reason: "must be a number"}
	}
	if f.berat == nil {
		return model.Measurement{}, &ValidationError{Field: "berat", Reason: "must be a number"}
	}

	m := model.Measurement{
		Group:    strings.TrimSpace(f.Group),
		Shift:    shift,
		Line:     strings.TrimSpace(f.Line),
		Suhu:     *f.suhu,
		Berat:    *f.berat,
		Kualitas: f.verdict,
	}
	if err := Validate(m, master); err != nil {
		return model.Measurement{}, err
	}
	return m, nil
}
