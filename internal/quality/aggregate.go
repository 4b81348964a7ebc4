package quality

import (
	"math"
	"sort"

	"qc-tracking-backend/internal/model"
)

// Summary is the headline count of a record scope.
type Summary struct {
	Total             int     `json:"total"`
	OKCount           int     `json:"okCount"`
	RejectCount       int     `json:"rejectCount"`
	RejectRatePercent float64 `json:"rejectRatePercent"`
}

// Aggregate counts records and their reject rate. The result reflects exactly
// the scope passed in; callers pass the filtered set when they want filtered
// numbers.
func Aggregate(records []model.Measurement) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.IsReject() {
			s.RejectCount++
		}
	}
	s.OKCount = s.Total - s.RejectCount
	s.RejectRatePercent = percent(s.RejectCount, s.Total)
	return s
}

// RatioSlice is one verdict's share of a scope, as drawn in a ratio chart.
type RatioSlice struct {
	Kualitas model.Verdict `json:"kualitas"`
	Count    int           `json:"count"`
	Percent  float64       `json:"percent"`
}

// Breakdown splits the scope into its OK and NOT OK shares, always in that order.
func Breakdown(records []model.Measurement) []RatioSlice {
	s := Aggregate(records)
	return []RatioSlice{
		{Kualitas: model.VerdictOK, Count: s.OKCount, Percent: percent(s.OKCount, s.Total)},
		{Kualitas: model.VerdictNotOK, Count: s.RejectCount, Percent: s.RejectRatePercent},
	}
}

// LineSummary is the Summary of the records of one production line.
type LineSummary struct {
	Line string `json:"line"`
	Summary
}

// AggregateByLine summarises each line present in the scope, ordered by line.
func AggregateByLine(records []model.Measurement) []LineSummary {
	byLine := make(map[string][]model.Measurement)
	for _, r := range records {
		byLine[r.Line] = append(byLine[r.Line], r)
	}

	out := make([]LineSummary, 0, len(byLine))
	for line, rs := range byLine {
		out = append(out, LineSummary{Line: line, Summary: Aggregate(rs)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}

// percent returns part/total as a percentage rounded to one decimal, or 0
// for an empty scope.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}
