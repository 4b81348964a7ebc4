package quality

import (
	"fmt"
	"math/rand"

	"qc-tracking-backend/internal/model"
)

var testStandards = model.Standards{MinSuhu: 12, MaxSuhu: 20, MinBerat: 12.5, MaxBerat: 18.5}

func ptr[T any](v T) *T { return &v }

// randomRecords builds a reproducible collection with every field varied.
func randomRecords(seed int64, n int) []model.Measurement {
	rng := rand.New(rand.NewSource(seed))
	lines := []string{"A", "B", "C"}
	groups := []string{"SD", "SMP", "SMA"}
	out := make([]model.Measurement, n)
	for i := range out {
		v := model.VerdictOK
		if rng.Intn(3) == 0 {
			v = model.VerdictNotOK
		}
		out[i] = model.Measurement{
			ID:       int64(i + 1),
			Date:     fmt.Sprintf("2026-10-%02d", 1+rng.Intn(28)),
			Group:    groups[rng.Intn(len(groups))],
			Shift:    1 + rng.Intn(3),
			Line:     lines[rng.Intn(len(lines))],
			Suhu:     8 + rng.Intn(16),
			Berat:    float64(100+rng.Intn(100)) / 10,
			Kualitas: v,
		}
	}
	return out
}
