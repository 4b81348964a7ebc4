package quality

import (
	"cmp"
	"slices"

	"qc-tracking-backend/internal/model"
)

// SortKey names the record field a collection is ordered by.
type SortKey string

const (
	KeyID       SortKey = "id"
	KeyDate     SortKey = "date"
	KeyGroup    SortKey = "group"
	KeyShift    SortKey = "shift"
	KeyLine     SortKey = "line"
	KeySuhu     SortKey = "suhu"
	KeyBerat    SortKey = "berat"
	KeyKualitas SortKey = "kualitas"
)

// Direction is the ordering direction of a SortSpec.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

var comparators = map[SortKey]func(a, b model.Measurement) int{
	KeyID:       func(a, b model.Measurement) int { return cmp.Compare(a.ID, b.ID) },
	KeyDate:     func(a, b model.Measurement) int { return cmp.Compare(a.Date, b.Date) },
	KeyGroup:    func(a, b model.Measurement) int { return cmp.Compare(a.Group, b.Group) },
	KeyShift:    func(a, b model.Measurement) int { return cmp.Compare(a.Shift, b.Shift) },
	KeyLine:     func(a, b model.Measurement) int { return cmp.Compare(a.Line, b.Line) },
	KeySuhu:     func(a, b model.Measurement) int { return cmp.Compare(a.Suhu, b.Suhu) },
	KeyBerat:    func(a, b model.Measurement) int { return cmp.Compare(a.Berat, b.Berat) },
	KeyKualitas: func(a, b model.Measurement) int { return cmp.Compare(a.Kualitas, b.Kualitas) },
}

// ParseSortKey maps a field name to a SortKey.
func ParseSortKey(s string) (SortKey, bool) {
	k := SortKey(s)
	_, ok := comparators[k]
	return k, ok
}

// SortSpec selects a key and a direction.
type SortSpec struct {
	Key       SortKey
	Direction Direction
}

// Toggle returns the sort order after a header click on key: the same key flips
// the direction, a different key starts ascending.
func (s SortSpec) Toggle(key SortKey) SortSpec {
	if s.Key == key {
		if s.Direction == Descending {
			return SortSpec{Key: key, Direction: Ascending}
		}
		return SortSpec{Key: key, Direction: Descending}
	}
	return SortSpec{Key: key, Direction: Ascending}
}

// Sort returns a new slice ordered by spec. The sort is stable, so records
// with equal keys keep their input order in both directions. An unknown key
// returns a copy in input order.
func Sort(records []model.Measurement, spec SortSpec) []model.Measurement {
	out := make([]model.Measurement, len(records))
	copy(out, records)

	compare, ok := comparators[spec.Key]
	if !ok {
		return out
	}
	desc := spec.Direction == Descending
	slices.SortStableFunc(out, func(a, b model.Measurement) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out
}
