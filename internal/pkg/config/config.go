package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"labour/backend/internal/wage"
)

type Config struct {
	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `yaml:"disable_tls"`

	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	BaseUrl         string        `yaml:"base_url"`
	JWTKey          string        `yaml:"jwt_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`

	SuperAdminUsername string `yaml:"super_admin_username"`
	SuperAdminPassword string `yaml:"super_admin_password"`

	WagePolicy       wage.Policy     `yaml:"wage_policy"`
	ReportThresholds wage.Thresholds `yaml:"report_thresholds"`
}

// NewConfig reads the yaml file at path. Values missing from the file keep
// their defaults; environment variables named in the file as ${VAR} are expanded.
func NewConfig(path string) (*Config, error) {
	c := Config{
		DBPort:             "5432",
		CacheTTL:           10 * time.Minute,
		AccessTokenTTL:     12 * time.Hour,
		RefreshTokenTTL:    7 * 24 * time.Hour,
		SuperAdminUsername: "admin",
		WagePolicy:         wage.DefaultPolicy(),
		ReportThresholds:   wage.DefaultThresholds(),
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}

	if err = yaml.Unmarshal([]byte(os.ExpandEnv(string(yamlFile))), &c); err != nil {
		return nil, errors.Wrap(err, "parsing config file")
	}

	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}
	if c.JWTKey == "" {
		return nil, errors.New("missing jwt_key")
	}
	if c.WagePolicy.PenaltyPerDay < 0 || c.WagePolicy.AllowedAbsentDays < 0 || c.WagePolicy.InsuranceAmount < 0 {
		return nil, errors.New("wage_policy values must not be negative")
	}

	return &c, nil
}

// LoadEnv loads a .env file into the process environment. A missing file is
// not an error.
func LoadEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return errors.Wrap(godotenv.Load(path), "loading env file")
}
