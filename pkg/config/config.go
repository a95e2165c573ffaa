package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the platform.
const EnvPrefix = "LOOMERY"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LOOMERY_DB_DSN"
	EnvDBHost = "LOOMERY_DB_HOST"
	EnvDBUser = "LOOMERY_DB_USER"
	EnvDBName = "LOOMERY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Tier     TierConfig
	Cache    CacheConfig
	Cron     CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LOOMERY_APP_ENV" required:"true"`
	Port         string `envconfig:"LOOMERY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOOMERY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOOMERY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LOOMERY_DB_DSN"`
	Driver string `envconfig:"LOOMERY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LOOMERY_DB_HOST"`
	LegacyPort     int    `envconfig:"LOOMERY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOOMERY_DB_USER"`
	LegacyPassword string `envconfig:"LOOMERY_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOOMERY_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOOMERY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOOMERY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOOMERY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOOMERY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOOMERY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOOMERY_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LOOMERY_REDIS_ADDR"`
	Password     string        `envconfig:"LOOMERY_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOOMERY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOOMERY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOOMERY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOOMERY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOOMERY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOOMERY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LOOMERY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LOOMERY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LOOMERY_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOOMERY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOOMERY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOOMERY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOOMERY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOOMERY_ARGON_KEY_LEN" default:"32"`
}

// TierConfig controls the pricing tier engine. Timezone decides which
// calendar the "current month" order window is computed in.
type TierConfig struct {
	Timezone string `envconfig:"LOOMERY_TIER_TIMEZONE" default:"UTC"`
}

// Location resolves the configured timezone, falling back to UTC on
// unknown names so a bad value never breaks recomputation.
func (t TierConfig) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type CacheConfig struct {
	DiscountPreviewTTL time.Duration `envconfig:"LOOMERY_CACHE_DISCOUNT_PREVIEW_TTL" default:"30s"`
	DesignListTTL      time.Duration `envconfig:"LOOMERY_CACHE_DESIGN_LIST_TTL" default:"1m"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"LOOMERY_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"LOOMERY_CRON_LOCK_TTL" default:"25h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
