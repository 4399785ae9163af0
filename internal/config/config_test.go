package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
[server]
http_port = 8083
read_timeout = 15
write_timeout = 15
idle_timeout = 60
shutdown_timeout = 10

[database]
host = "localhost"
port = 5432
user = "rental"
password = "rental"
dbname = "rental"
sslmode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = 300

[redis]
addr = "localhost:6379"
password = ""
db = 0

[catalog_service]
url = "http://localhost:8081"
timeout = 5

[booking]
reservation_timeout = 300
sweep_interval = 60
booking_cache_ttl = 600

[logs]
file = ""
level = "info"

[metrics]
enabled = true
path = "/metrics"
service_name = "rental-service"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 300, cfg.Booking.ReservationTimeout)
	assert.Equal(t, 60, cfg.Booking.SweepInterval)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("does-not-exist.toml")
	require.Error(t, err)
}

func TestValidate_SweepIntervalExceedsTimeout(t *testing.T) {
	// Очистка должна успевать закрыть просроченную резервацию
	// до истечения TTL её блокировки
	invalid := `
[server]
http_port = 8083

[database]
host = "localhost"

[redis]
addr = "localhost:6379"

[booking]
reservation_timeout = 60
sweep_interval = 120
`
	_, err := Load(writeConfig(t, invalid))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sweep_interval")
}

func TestValidate_MissingRedis(t *testing.T) {
	invalid := `
[server]
http_port = 8083

[database]
host = "localhost"

[booking]
reservation_timeout = 300
sweep_interval = 60
`
	_, err := Load(writeConfig(t, invalid))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "rental",
		Password: "secret",
		DBName:   "rental",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=rental password=secret dbname=rental sslmode=disable",
		d.DSN())
}
