package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ENV", "")
		conf := NewConfig()

		assert.Equal(t, "DEV", conf.Env)
		assert.False(t, conf.TestMode)
		assert.Equal(t, "localhost:5432", conf.Database.Address())
		assert.Equal(t, int64(5<<20), conf.Server.MaxUploadSize)
		assert.Equal(t, 5, conf.Redis.LoginMaxAttempts)
		assert.Equal(t, 15*time.Minute, conf.Redis.LoginWindow)
		assert.Empty(t, conf.Redis.Address)
	})

	t.Run("env prefixed overrides", func(t *testing.T) {
		t.Setenv("ENV", "test")
		t.Setenv("TEST_DATABASE_NAME", "")
		t.Setenv("TEST_DATABASE_HOST", "db.internal")
		t.Setenv("TEST_DATABASE_PORT", "6543")
		t.Setenv("TEST_SERVER_SHUTDOWNTIMEOUT", "12s")
		conf := NewConfig()

		assert.Equal(t, "TEST", conf.Env)
		assert.True(t, conf.TestMode)
		assert.Equal(t, "fms_test", conf.Database.Name)
		assert.Equal(t, "db.internal:6543", conf.Database.Address())
		assert.Equal(t, 12*time.Second, conf.Server.ShutdownTimeout)
	})
}

func TestDatabaseConfig_Address(t *testing.T) {
	assert.Equal(t, "/var/run/postgresql", DatabaseConfig{Host: "/var/run/postgresql"}.Address())
	assert.Equal(t, "pg:5433", DatabaseConfig{Host: "pg", Port: 5433}.Address())
}
