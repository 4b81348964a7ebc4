package dashboard

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/quality"
)

// records returns n measurements with IDs 1..n alternating lines A and B;
// every third one is a reject.
func records(n int) []model.Measurement {
	out := make([]model.Measurement, n)
	for i := range out {
		id := i + 1
		v := model.VerdictOK
		if id%3 == 0 {
			v = model.VerdictNotOK
		}
		line := "A"
		if id%2 == 0 {
			line = "B"
		}
		out[i] = model.Measurement{
			ID: int64(id), Date: fmt.Sprintf("2026-10-%02d", id), Group: "SD",
			Shift: 1 + i%3, Line: line, Suhu: 15, Berat: 15, Kualitas: v,
		}
	}
	return out
}

func ids(ms []model.Measurement) []int64 {
	out := make([]int64, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestSession_DefaultView(t *testing.T) {
	s := NewSession(5, 10)
	v := s.View(records(12))

	assert.Equal(t, quality.Summary{Total: 12, OKCount: 8, RejectCount: 4, RejectRatePercent: 33.3}, v.Summary)
	assert.Equal(t, 1, v.PageIndex)
	assert.Equal(t, 3, v.Page.TotalPages)
	assert.Equal(t, []int64{12, 11, 10, 9, 8}, ids(v.Page.Items), "newest first")
	assert.Equal(t, []int64{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, ids(v.Chart), "chart keeps storage order")
	assert.Len(t, v.ByLine, 2)
}

func TestSession_FilterResetsPageAndScopesEverything(t *testing.T) {
	s := NewSession(2, 3)
	s.SetPage(3)
	s.SetFilter(quality.NewFilterSpec("B", "", "", "", ""))

	v := s.View(records(12))
	assert.Equal(t, 1, v.PageIndex)
	assert.Equal(t, 6, v.Summary.Total)
	assert.Equal(t, 2, v.Summary.RejectCount)
	assert.Equal(t, []int64{12, 10}, ids(v.Page.Items))
	assert.Equal(t, []int64{8, 10, 12}, ids(v.Chart))
	if diff := cmp.Diff([]quality.RatioSlice{
		{Kualitas: model.VerdictOK, Count: 4, Percent: 66.7},
		{Kualitas: model.VerdictNotOK, Count: 2, Percent: 33.3},
	}, v.Breakdown); diff != "" {
		t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_PageIsClampedWhenDataShrinks(t *testing.T) {
	s := NewSession(5, 10)
	s.SetPage(3)
	assert.Equal(t, 3, s.View(records(12)).PageIndex)

	v := s.View(records(6))
	assert.Equal(t, 2, v.PageIndex)
	assert.Equal(t, []int64{1}, ids(v.Page.Items))

	s.NextPage()
	s.NextPage()
	assert.Equal(t, 2, s.View(records(6)).PageIndex)

	s.PrevPage()
	s.PrevPage()
	s.PrevPage()
	assert.Equal(t, 1, s.View(records(6)).PageIndex)
}

func TestSession_EmptyScope(t *testing.T) {
	s := NewSession(5, 10)
	s.SetFilter(quality.NewFilterSpec("Z", "", "", "", ""))

	v := s.View(records(12))
	assert.Equal(t, quality.Summary{}, v.Summary)
	assert.Equal(t, 1, v.PageIndex)
	assert.Equal(t, 1, v.Page.TotalPages)
	assert.Empty(t, v.Page.Items)
	assert.Empty(t, v.Chart)
}

func TestSession_ToggleSort(t *testing.T) {
	s := NewSession(3, 10)

	spec := s.ToggleSort(quality.KeyID)
	assert.Equal(t, quality.SortSpec{Key: quality.KeyID, Direction: quality.Ascending}, spec)
	assert.Equal(t, []int64{1, 2, 3}, ids(s.View(records(6)).Page.Items))

	spec = s.ToggleSort(quality.KeyLine)
	assert.Equal(t, quality.Ascending, spec.Direction)
	assert.Equal(t, []int64{1, 3, 5}, ids(s.View(records(6)).Page.Items))
}
