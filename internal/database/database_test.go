package database

import (
	"testing"
	"time"

	"descubre/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestConfigurePool_DefaultsWhenUnset(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, configurePool(db, &config.Config{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 25, sqlDB.Stats().MaxOpenConnections)
}

func TestCustomGormLogger_LogMode(t *testing.T) {
	base := &CustomGormLogger{Config: logger.Config{LogLevel: logger.Warn, SlowThreshold: 200 * time.Millisecond}}

	silenced, ok := base.LogMode(logger.Silent).(*CustomGormLogger)
	require.True(t, ok)
	assert.Equal(t, logger.Silent, silenced.Config.LogLevel)
	// The original instance stays untouched.
	assert.Equal(t, logger.Warn, base.Config.LogLevel)
}
