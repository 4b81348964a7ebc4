package store

import (
	"context"
	"errors"
	"time"

	"qc-tracking-backend/internal/model"
)

// ErrNotFound is returned when a looked-up entity does not exist.
var ErrNotFound = errors.New("not found")

// Store is the durable list of measurements. It is append-only: records are
// never updated or deleted once stored.
type Store interface {
	// Append assigns the next ID (and today's date when Date is empty) and
	// persists the record, returning it as stored.
	Append(ctx context.Context, m model.Measurement) (model.Measurement, error)
	// ListAll returns every record in append order.
	ListAll(ctx context.Context) ([]model.Measurement, error)
}

// Today formats the capture day the way dates are stored when the client
// does not supply one. The format compares correctly as a plain string.
func Today(now time.Time) string {
	return now.UTC().Format("2006-01-02")
}

// stamp fills the server-assigned fields other than the ID.
func stamp(m model.Measurement, now func() time.Time) model.Measurement {
	if m.Date == "" {
		m.Date = Today(now())
	}
	return m
}
