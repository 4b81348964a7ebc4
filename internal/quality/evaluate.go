// Package quality holds the domain rules shared by every client of the
// measurement API: verdict evaluation, filtering, sorting, aggregation,
// paging and chart windowing. Everything here is pure and in-memory.
package quality

import (
	"math"

	"qc-tracking-backend/internal/model"
)

// Evaluate judges a measurement against the standards. Bounds are inclusive;
// anything outside the window, or a weight that is not a number, is NOT OK.
func Evaluate(suhu int, berat float64, std model.Standards) model.Verdict {
	t := float64(suhu)
	if math.IsNaN(berat) ||
		t < std.MinSuhu || t > std.MaxSuhu ||
		berat < std.MinBerat || berat > std.MaxBerat {
		return model.VerdictNotOK
	}
	return model.VerdictOK
}
