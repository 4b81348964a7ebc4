package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qc-tracking-backend/internal/model"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC) }

func sample(line string, v model.Verdict) model.Measurement {
	return model.Measurement{Group: "SD", Shift: 1, Line: line, Suhu: 15, Berat: 15.5, Kualitas: v}
}

func TestFileStore_AppendAndReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")

	s, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	s.(*fileStore).now = fixedNow

	first, err := s.Append(ctx, sample("A", model.VerdictOK))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "2026-10-18", first.Date)

	second, err := s.Append(ctx, model.Measurement{Date: "2026-10-01T08:00:00Z", Line: "B", Kualitas: model.VerdictNotOK})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "2026-10-01T08:00:00Z", second.Date, "client-supplied date is kept")

	// A fresh store over the same file sees both records and keeps counting.
	reloaded, err := NewFileStore(path, zap.NewNop())
	require.NoError(t, err)
	all, err := reloaded.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0])
	assert.Equal(t, second, all[1])

	third, err := reloaded.Append(ctx, sample("C", model.VerdictOK))
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)
}

func TestFileStore_IgnoresCallerID(t *testing.T) {
	s, err := NewFileStore("", zap.NewNop())
	require.NoError(t, err)

	m := sample("A", model.VerdictOK)
	m.ID = 99
	got, err := s.Append(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

func TestFileStore_ListAllReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore("", zap.NewNop())
	require.NoError(t, err)
	_, err = s.Append(ctx, sample("A", model.VerdictOK))
	require.NoError(t, err)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	all[0].Line = "Z"

	again, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", again[0].Line)
}

func TestFileStore_EmptyStoreListsEmptySlice(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "missing.json"), zap.NewNop())
	require.NoError(t, err)
	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not an array"), 0o644))

	_, err := NewFileStore(path, zap.NewNop())
	assert.Error(t, err)
}

func TestFileStore_WriteFailureLeavesStateUnchanged(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	require.NoError(t, os.Mkdir(dir, 0o755))
	s, err := NewFileStore(filepath.Join(dir, "data.json"), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, os.Remove(dir))

	_, err = s.Append(context.Background(), sample("A", model.VerdictOK))
	assert.Error(t, err)

	all, err := s.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}
