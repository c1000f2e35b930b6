package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Photos       PhotosConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FIELDSERVE_APP_ENV" required:"true"`
	Port         string `envconfig:"FIELDSERVE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FIELDSERVE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FIELDSERVE_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"FIELDSERVE_CORS_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"FIELDSERVE_DB_DSN"`

	Host     string `envconfig:"FIELDSERVE_DB_HOST"`
	Port     int    `envconfig:"FIELDSERVE_DB_PORT" default:"5432"`
	User     string `envconfig:"FIELDSERVE_DB_USER"`
	Password string `envconfig:"FIELDSERVE_DB_PASSWORD"`
	Name     string `envconfig:"FIELDSERVE_DB_NAME"`
	SSLMode  string `envconfig:"FIELDSERVE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FIELDSERVE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FIELDSERVE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FIELDSERVE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FIELDSERVE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is optional: when URL and Address are both empty the API runs
// without response idempotency.
type RedisConfig struct {
	URL          string        `envconfig:"FIELDSERVE_REDIS_URL"`
	Address      string        `envconfig:"FIELDSERVE_REDIS_ADDR"`
	Password     string        `envconfig:"FIELDSERVE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FIELDSERVE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FIELDSERVE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FIELDSERVE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FIELDSERVE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FIELDSERVE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FIELDSERVE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type PhotosConfig struct {
	Dir string `envconfig:"FIELDSERVE_PHOTOS_DIR" default:"./photos"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FIELDSERVE_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	required := map[string]string{
		"FIELDSERVE_DB_HOST": db.Host,
		"FIELDSERVE_DB_USER": db.User,
		"FIELDSERVE_DB_NAME": db.Name,
	}
	for _, key := range []string{"FIELDSERVE_DB_HOST", "FIELDSERVE_DB_USER", "FIELDSERVE_DB_NAME"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either FIELDSERVE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
