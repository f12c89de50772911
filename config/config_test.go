package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_DSN", "")
	t.Setenv("TABLE_CAPACITIES", "")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "reservations.db", cfg.DBDSN)
	assert.Equal(t, []int{2, 2, 4, 4, 6, 6}, cfg.TableCapacities)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.False(t, cfg.SMTPConfigured())
}

func TestLoadMySQLDSN(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_DSN", "")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3307")
	t.Setenv("DB_NAME", "bookings")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "app:pw@tcp(db:3307)/bookings?charset=utf8mb4&parseTime=True&loc=UTC", cfg.DBDSN)
}

func TestLoadRejectsBadCapacities(t *testing.T) {
	t.Setenv("TABLE_CAPACITIES", "2,zero,4")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load()
	assert.Error(t, err)
}
