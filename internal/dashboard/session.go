// Package dashboard holds the client-side state of a monitoring screen: the
// operator's filter, sort and page choices, and the poller that keeps the
// record list fresh.
package dashboard

import (
	"sync"

	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/quality"
)

// View is everything one dashboard render needs, derived from a record list.
type View struct {
	Summary   quality.Summary       `json:"summary"`
	Breakdown []quality.RatioSlice  `json:"breakdown"`
	ByLine    []quality.LineSummary `json:"byLine"`
	Page      quality.Page          `json:"page"`
	PageIndex int                   `json:"pageIndex"`
	Chart     []model.Measurement   `json:"chart"`
}

// Session is one operator's view settings. It is safe for concurrent use so
// that a poller goroutine can render while input changes the settings.
type Session struct {
	mu          sync.Mutex
	filter      quality.FilterSpec
	sort        quality.SortSpec
	page        int
	pageSize    int
	chartWindow int
}

// NewSession starts on page 1, newest records first.
func NewSession(pageSize, chartWindow int) *Session {
	return &Session{
		sort:        quality.SortSpec{Key: quality.KeyID, Direction: quality.Descending},
		page:        1,
		pageSize:    pageSize,
		chartWindow: chartWindow,
	}
}

// SetFilter replaces the filter and returns to the first page.
func (s *Session) SetFilter(f quality.FilterSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.page = 1
}

// Filter returns the current filter.
func (s *Session) Filter() quality.FilterSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// ToggleSort applies a column click: the same key flips direction, a new key
// sorts ascending.
func (s *Session) ToggleSort(key quality.SortKey) quality.SortSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(key)
	return s.sort
}

// SetSort replaces the sort outright.
func (s *Session) SetSort(spec quality.SortSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = spec
}

// SetPage selects a page. It is clamped on the next View.
func (s *Session) SetPage(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = n
}

func (s *Session) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page++
}

func (s *Session) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page > 1 {
		s.page--
	}
}

// View filters records, aggregates the filtered scope, sorts and pages it,
// and takes the chart window from the filtered scope in storage order. A
// page beyond the end (the data shrank, or NextPage went too far) is clamped
// and the clamped page is remembered.
func (s *Session) View(records []model.Measurement) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	scope := quality.Filter(records, s.filter)
	sorted := quality.Sort(scope, s.sort)

	s.page = quality.ClampPage(s.page, quality.TotalPages(len(sorted), s.pageSize))

	return View{
		Summary:   quality.Aggregate(scope),
		Breakdown: quality.Breakdown(scope),
		ByLine:    quality.AggregateByLine(scope),
		Page:      quality.Paginate(sorted, s.pageSize, s.page),
		PageIndex: s.page,
		Chart:     quality.WindowRecent(scope, s.chartWindow),
	}
}
