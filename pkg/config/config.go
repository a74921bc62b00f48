package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every configuration variable.
	EnvPrefix = "JUBAHOMEZ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "JUBAHOMEZ_DB_DSN"
	EnvDBHost = "JUBAHOMEZ_DB_HOST"
	EnvDBUser = "JUBAHOMEZ_DB_USER"
	EnvDBName = "JUBAHOMEZ_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	RateLimit    RateLimitConfig
	CORS         CORSConfig
	Upload       UploadConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"JUBAHOMEZ_APP_ENV" required:"true"`
	Port         string `envconfig:"JUBAHOMEZ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"JUBAHOMEZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JUBAHOMEZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"JUBAHOMEZ_DB_DSN"`
	Driver string `envconfig:"JUBAHOMEZ_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JUBAHOMEZ_DB_HOST"`
	LegacyPort     int    `envconfig:"JUBAHOMEZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JUBAHOMEZ_DB_USER"`
	LegacyPassword string `envconfig:"JUBAHOMEZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"JUBAHOMEZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"JUBAHOMEZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JUBAHOMEZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JUBAHOMEZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JUBAHOMEZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JUBAHOMEZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JUBAHOMEZ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"JUBAHOMEZ_REDIS_ADDR"`
	Password     string        `envconfig:"JUBAHOMEZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"JUBAHOMEZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JUBAHOMEZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JUBAHOMEZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JUBAHOMEZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JUBAHOMEZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JUBAHOMEZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"JUBAHOMEZ_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"JUBAHOMEZ_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"JUBAHOMEZ_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"JUBAHOMEZ_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"JUBAHOMEZ_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"JUBAHOMEZ_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"JUBAHOMEZ_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"JUBAHOMEZ_ARGON_KEY_LEN" default:"32"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"JUBAHOMEZ_RATE_LIMIT_WINDOW" default:"1m"`
	Max    int64         `envconfig:"JUBAHOMEZ_RATE_LIMIT_MAX" default:"120"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"JUBAHOMEZ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type UploadConfig struct {
	Dir            string `envconfig:"JUBAHOMEZ_UPLOAD_DIR" default:"uploads"`
	BaseURL        string `envconfig:"JUBAHOMEZ_UPLOAD_BASE_URL" default:"/uploads"`
	MaxUploadMB    int64  `envconfig:"JUBAHOMEZ_MAX_UPLOAD_MB" default:"50"`
	ThumbnailWidth int    `envconfig:"JUBAHOMEZ_THUMBNAIL_WIDTH" default:"600"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"JUBAHOMEZ_AUTO_MIGRATE" default:"false"`
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
