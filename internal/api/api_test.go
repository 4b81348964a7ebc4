package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qc-tracking-backend/config"
	"qc-tracking-backend/internal/db"
	"qc-tracking-backend/internal/model"
	"qc-tracking-backend/internal/report"
	"qc-tracking-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []model.Measurement
}

func (d *recordingDispatcher) Dispatch(m model.Measurement) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, m)
	return true
}

type testServer struct {
	router *gin.Engine
	store  store.Store
	alerts *recordingDispatcher
}

func serverConfig() config.ServerConfig {
	cfg := config.Default().Server
	cfg.RateLimitPerSec = 1000
	cfg.RateLimitBurst = 1000
	return cfg
}

func newTestServer(t *testing.T, withSubscriptions bool) *testServer {
	t.Helper()
	s, err := store.NewFileStore("", zap.NewNop())
	require.NoError(t, err)

	alerts := &recordingDispatcher{}
	d := Deps{
		Store:     s,
		Master:    model.DefaultMasterData(),
		Standards: model.DefaultStandards(),
		Alerts:    alerts,
		Logger:    zap.NewNop(),
	}
	if withSubscriptions {
		gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
		require.NoError(t, err)
		sqlDB, err := gormDB.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1) // every connection to :memory: is a new database
		require.NoError(t, db.Migrate(gormDB))
		d.Subscriptions = store.NewGormSubscriptionStore(gormDB)
		d.WebPush = &webpush.Options{VAPIDPublicKey: "test-public-key"}
	}

	return &testServer{router: NewRouter(serverConfig(), d), store: s, alerts: alerts}
}

func (ts *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestGetMaster(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodGet, "/api/master", "")
	require.Equal(t, http.StatusOK, w.Code)

	var got model.MasterData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.DefaultMasterData(), got)
}

func TestGetStandards(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodGet, "/api/standards", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"minSuhu":12,"maxSuhu":20,"minBerat":12.5,"maxBerat":18.5}`, w.Body.String())
}

func TestCreateData(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodPost, "/api/data",
		`{"group":"SD","shift":1,"line":"A","suhu":15,"berat":15.5,"kualitas":"OK","date":"2026-10-18"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Data saved","data":{"id":1,"date":"2026-10-18","group":"SD","shift":1,"line":"A","suhu":15,"berat":15.5,"kualitas":"OK"}}`, w.Body.String())
	assert.Empty(t, ts.alerts.jobs)
}

func TestCreateData_FormStringsAndDerivedVerdict(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodPost, "/api/data",
		`{"group":"SMA","shift":"2","line":"B","suhu":"25.9","berat":"15,5"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Message string            `json:"message"`
		Data    model.Measurement `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Shift)
	assert.Equal(t, 25, resp.Data.Suhu, "suhu is truncated")
	assert.Equal(t, 15.5, resp.Data.Berat)
	assert.Equal(t, model.VerdictNotOK, resp.Data.Kualitas)
	assert.Len(t, resp.Data.Date, len("2006-01-02"))

	require.Len(t, ts.alerts.jobs, 1)
	assert.Equal(t, resp.Data, ts.alerts.jobs[0])
}

func TestCreateData_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing line", `{"group":"SD","shift":1,"suhu":15,"berat":15}`, "line: is required"},
		{"null suhu", `{"group":"SD","shift":1,"line":"A","suhu":null,"berat":15}`, "suhu: is required"},
		{"unknown line", `{"group":"SD","shift":1,"line":"Z","suhu":15,"berat":15}`, `line: unknown line "Z"`},
		{"unknown shift", `{"group":"SD","shift":7,"line":"A","suhu":15,"berat":15}`, "shift: unknown shift 7"},
		{"bad berat", `{"group":"SD","shift":1,"line":"A","suhu":15,"berat":"heavy"}`, "berat: must be a number"},
		{"negative suhu", `{"group":"SD","shift":1,"line":"A","suhu":-3,"berat":15}`, "suhu: must not be negative"},
		{"bad verdict", `{"group":"SD","shift":1,"line":"A","suhu":15,"berat":15,"kualitas":"MAYBE"}`, `kualitas: must be "OK" or "NOT OK"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, false)
			w := ts.do(http.MethodPost, "/api/data", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"message":`+mustJSON(t, tt.message)+`}`, w.Body.String())

			records, err := ts.store.ListAll(context.Background())
			require.NoError(t, err)
			assert.Empty(t, records, "nothing is stored on failure")
		})
	}
}

func TestCreateData_MalformedJSON(t *testing.T) {
	ts := newTestServer(t, false)
	w := ts.do(http.MethodPost, "/api/data", `{"group":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request")
}

func TestListData_SeesWritesThroughCache(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodGet, "/api/data", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/data",
		`{"group":"SD","shift":1,"line":"A","suhu":15,"berat":15.5}`).Code)

	w = ts.do(http.MethodGet, "/api/data", "")
	var records []model.Measurement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, model.VerdictOK, records[0].Kualitas)
}

func seed(t *testing.T, s store.Store) {
	t.Helper()
	for _, m := range []model.Measurement{
		{Date: "2026-10-16", Group: "SD", Shift: 1, Line: "A", Suhu: 15, Berat: 15, Kualitas: model.VerdictOK},
		{Date: "2026-10-17", Group: "SD", Shift: 2, Line: "A", Suhu: 25, Berat: 15, Kualitas: model.VerdictNotOK},
		{Date: "2026-10-17", Group: "SMP", Shift: 1, Line: "B", Suhu: 15, Berat: 10, Kualitas: model.VerdictNotOK},
		{Date: "2026-10-18", Group: "SMA", Shift: 1, Line: "A", Suhu: 14, Berat: 13, Kualitas: model.VerdictOK},
	} {
		_, err := s.Append(context.Background(), m)
		require.NoError(t, err)
	}
}

func TestGetSummary(t *testing.T) {
	ts := newTestServer(t, false)
	seed(t, ts.store)

	w := ts.do(http.MethodGet, "/api/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"total":4,"okCount":2,"rejectCount":2,"rejectRatePercent":50,
		"breakdown":[{"kualitas":"OK","count":2,"percent":50},{"kualitas":"NOT OK","count":2,"percent":50}],
		"byLine":[
			{"line":"A","total":3,"okCount":2,"rejectCount":1,"rejectRatePercent":33.3},
			{"line":"B","total":1,"okCount":0,"rejectCount":1,"rejectRatePercent":100}
		]}`, w.Body.String())

	w = ts.do(http.MethodGet, "/api/summary?line=A&shift=1&startDate=2026-10-17", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 0, resp.RejectCount)

	w = ts.do(http.MethodGet, "/api/summary?line=Z", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
	assert.Equal(t, 0.0, resp.RejectRatePercent)
}

func TestEvaluate(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodPost, "/api/evaluate", `{"suhu":"20","berat":18.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"suhu":20,"berat":18.5,"kualitas":"OK"}`, w.Body.String())

	w = ts.do(http.MethodPost, "/api/evaluate", `{"suhu":11,"berat":15}`)
	assert.JSONEq(t, `{"suhu":11,"berat":15,"kualitas":"NOT OK"}`, w.Body.String())

	w = ts.do(http.MethodPost, "/api/evaluate", `{"suhu":"","berat":15}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportData(t *testing.T) {
	ts := newTestServer(t, false)
	seed(t, ts.store)

	w := ts.do(http.MethodGet, "/api/data/export?status=NOT%20OK&sort=id&dir=desc", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, report.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(report.DataSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "3", rows[1][0])
	assert.Equal(t, "2", rows[2][0])
}

func TestSubscriptions(t *testing.T) {
	ts := newTestServer(t, true)
	endpoint := "https://push.example.com/sub/1"

	w := ts.do(http.MethodPut, "/api/subscriptions",
		`{"endpoint":"`+endpoint+`","p256dh":"key","auth":"secret","lines":["A","C"]}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"lines":["A","C"]}`, w.Body.String())

	// Replacing the line list drops the old lines.
	w = ts.do(http.MethodPut, "/api/subscriptions",
		`{"endpoint":"`+endpoint+`","p256dh":"key2","auth":"secret","lines":["B"]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	w = ts.do(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, "")
	assert.JSONEq(t, `{"lines":["B"]}`, w.Body.String())

	w = ts.do(http.MethodDelete, "/api/subscriptions", `{"endpoint":"`+endpoint+`"}`)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do(http.MethodGet, "/api/subscriptions?endpoint="+endpoint, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPutSubscription_Invalid(t *testing.T) {
	ts := newTestServer(t, true)

	w := ts.do(http.MethodPut, "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(http.MethodPut, "/api/subscriptions", `{"endpoint":"e","p256dh":"k","auth":"a","lines":["Z"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"lines: unknown line \"Z\""}`, w.Body.String())

	w = ts.do(http.MethodGet, "/api/subscriptions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptions_Disabled(t *testing.T) {
	ts := newTestServer(t, false)

	assert.Equal(t, http.StatusServiceUnavailable, ts.do(http.MethodGet, "/api/subscriptions?endpoint=x", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, ts.do(http.MethodGet, "/api/vapid_public_key", "").Code)
}

func TestGetVAPIDPublicKey(t *testing.T) {
	ts := newTestServer(t, true)

	w := ts.do(http.MethodGet, "/api/vapid_public_key", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"test-public-key"}`, w.Body.String())
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestCreateData_RejectsFreeFormDate(t *testing.T) {
	ts := newTestServer(t, false)

	w := ts.do(http.MethodPost, "/api/data",
		`{"date":"18 Oct 2026","group":"SD","shift":1,"line":"A","suhu":15,"berat":15.5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "date")

	all, err := ts.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

// pausingStore blocks the first ListAll after it has read the records, until
// release is closed.
type pausingStore struct {
	store.Store
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (s *pausingStore) ListAll(ctx context.Context) ([]model.Measurement, error) {
	records, err := s.Store.ListAll(ctx)
	s.once.Do(func() {
		close(s.read)
		<-s.release
	})
	return records, err
}

func TestListData_ReadRacingWriteIsNotCached(t *testing.T) {
	inner, err := store.NewFileStore("", zap.NewNop())
	require.NoError(t, err)
	s := &pausingStore{Store: inner, read: make(chan struct{}), release: make(chan struct{})}
	ts := &testServer{router: NewRouter(serverConfig(), Deps{
		Store:     s,
		Master:    model.DefaultMasterData(),
		Standards: model.DefaultStandards(),
		Logger:    zap.NewNop(),
	}), store: s}

	slow := make(chan *httptest.ResponseRecorder)
	go func() { slow <- ts.do(http.MethodGet, "/api/data", "") }()

	<-s.read
	require.Equal(t, http.StatusCreated, ts.do(http.MethodPost, "/api/data",
		`{"group":"SD","shift":1,"line":"A","suhu":15,"berat":15.5}`).Code)
	close(s.release)
	assert.JSONEq(t, `[]`, (<-slow).Body.String())

	w := ts.do(http.MethodGet, "/api/data", "")
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	var records []model.Measurement
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 1)
}
