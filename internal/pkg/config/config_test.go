package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labour/backend/internal/wage"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNewConfig_Defaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
db_username: labour
db_password: secret
db_host: localhost
db_name: labour
jwt_key: 0123456789abcdef
wage_policy:
  penalty_per_day: 40
`)

	c, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "5432", c.DBPort)
	assert.Equal(t, 10*time.Minute, c.CacheTTL)
	assert.Equal(t, 40.0, c.WagePolicy.PenaltyPerDay)
	assert.Equal(t, wage.DefaultPolicy().AllowedAbsentDays, c.WagePolicy.AllowedAbsentDays)
	assert.Equal(t, wage.DefaultPolicy().InsuranceAmount, c.WagePolicy.InsuranceAmount)
	assert.Equal(t, wage.DefaultThresholds(), c.ReportThresholds)
}

func TestNewConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("LABOUR_TEST_DB_PASSWORD", "from-env")
	path := writeFile(t, "config.yaml", `
db_username: labour
db_password: ${LABOUR_TEST_DB_PASSWORD}
db_host: localhost
db_name: labour
jwt_key: 0123456789abcdef
cache_ttl: 30s
`)

	c, err := NewConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.DBPassword)
	assert.Equal(t, 30*time.Second, c.CacheTTL)
}

func TestNewConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing db":       "jwt_key: 0123456789abcdef\n",
		"missing jwt":      "db_username: a\ndb_password: b\ndb_host: c\ndb_name: d\n",
		"negative penalty": "db_username: a\ndb_password: b\ndb_host: c\ndb_name: d\njwt_key: k\nwage_policy:\n  penalty_per_day: -1\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfig(writeFile(t, "config.yaml", body))
			assert.Error(t, err)
		})
	}

	_, err := NewConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), ".env")))

	path := writeFile(t, ".env", "LABOUR_TEST_FROM_DOTENV=yes\n")
	t.Cleanup(func() { os.Unsetenv("LABOUR_TEST_FROM_DOTENV") })

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "yes", os.Getenv("LABOUR_TEST_FROM_DOTENV"))
}
