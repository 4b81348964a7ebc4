package quality

import "qc-tracking-backend/internal/model"

// WindowRecent returns the last n records in their existing order, or all of
// them when there are no more than n. It selects by position only.
func WindowRecent(records []model.Measurement, n int) []model.Measurement {
	if n <= 0 {
		return []model.Measurement{}
	}
	start := max(0, len(records)-n)
	out := make([]model.Measurement, len(records)-start)
	copy(out, records[start:])
	return out
}
