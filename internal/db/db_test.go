package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"qc-tracking-backend/config"
	"qc-tracking-backend/internal/model"
)

func TestInit_SQLiteMigratesTables(t *testing.T) {
	db, err := Init(&config.DatabaseConfig{Dialect: "sqlite", DSN: "file::memory:", MaxOpenConns: 1}, zap.NewNop())
	require.NoError(t, err)

	for _, table := range []any{&model.Measurement{}, &model.PushSubscription{}, &model.SubscriptionLine{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasColumn(&model.Measurement{}, "group_name"))
}

func TestOpen_UnknownDialect(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Dialect: "oracle", DSN: "x"})
	assert.ErrorContains(t, err, "unsupported database dialect")
}
