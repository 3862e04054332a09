package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  http:
    port: 9090
jwt:
  secret: "0123456789abcdef0123456789abcdef"
  audience: "mobile"
  accessTokenTTLMin: 15
db:
  driver: postgres
  dsn: "postgres://localhost/syriazone"
redis:
  addr: "localhost:6379"
kafka:
  brokers: ["localhost:9092"]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_FileAndDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "0.0.0.0", c.App.HTTP.Host)
	assert.Equal(t, "syriazone", c.JWT.Issuer)
	assert.Equal(t, "mobile", c.JWT.Audience)
	assert.Equal(t, 15*time.Minute, c.JWT.AccessTTL())
	assert.Equal(t, 14*24*time.Hour, c.JWT.RefreshTTL())
	assert.Equal(t, 30*time.Second, c.JWT.Leeway())
	assert.Equal(t, "localhost:6379", c.Redis.Addr)
	assert.Equal(t, 300, c.Redis.ProfileTTL)
	assert.Equal(t, []string{"localhost:9092"}, c.Kafka.Brokers)
	assert.Equal(t, int64(300), c.App.HTTP.MaxConcurrency)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_JWT_ISSUER", "from-env")
	t.Setenv("APP_APP_HTTP_PORT", "7000")

	c, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Issuer)
	assert.Equal(t, 7000, c.App.HTTP.Port)
}

func TestLoad_RejectsShortSecret(t *testing.T) {
	_, err := Load(writeConfig(t, `
jwt:
  secret: "short"
db:
  driver: postgres
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate_UnknownDriver(t *testing.T) {
	c := &Config{
		JWT: JWT{Secret: "0123456789abcdef0123456789abcdef", AccessTokenTTLMin: 1, RefreshTokenTTLHours: 1},
		DB:  DB{Driver: "sqlserver"},
	}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlserver")
}
