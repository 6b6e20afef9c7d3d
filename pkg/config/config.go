package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	OTP           OTPConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Storage       StorageConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SWIFTHAUL_APP_ENV" required:"true"`
	Port         string `envconfig:"SWIFTHAUL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SWIFTHAUL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SWIFTHAUL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SWIFTHAUL_DB_DSN"`
	Driver string `envconfig:"SWIFTHAUL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SWIFTHAUL_DB_HOST"`
	LegacyPort     int    `envconfig:"SWIFTHAUL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SWIFTHAUL_DB_USER"`
	LegacyPassword string `envconfig:"SWIFTHAUL_DB_PASSWORD"`
	LegacyName     string `envconfig:"SWIFTHAUL_DB_NAME"`
	LegacySSLMode  string `envconfig:"SWIFTHAUL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SWIFTHAUL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SWIFTHAUL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SWIFTHAUL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SWIFTHAUL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SWIFTHAUL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SWIFTHAUL_REDIS_ADDR"`
	Password     string        `envconfig:"SWIFTHAUL_REDIS_PASSWORD"`
	DB           int           `envconfig:"SWIFTHAUL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SWIFTHAUL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SWIFTHAUL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SWIFTHAUL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SWIFTHAUL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SWIFTHAUL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SWIFTHAUL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SWIFTHAUL_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SWIFTHAUL_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"SWIFTHAUL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type OTPConfig struct {
	Digits         int           `envconfig:"SWIFTHAUL_OTP_DIGITS" default:"6"`
	TTL            time.Duration `envconfig:"SWIFTHAUL_OTP_TTL" default:"5m"`
	MaxAttempts    int           `envconfig:"SWIFTHAUL_OTP_MAX_ATTEMPTS" default:"5"`
	EchoInResponse bool          `envconfig:"SWIFTHAUL_OTP_ECHO_IN_RESPONSE" default:"false"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SWIFTHAUL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SWIFTHAUL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SWIFTHAUL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SWIFTHAUL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SWIFTHAUL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	OTPWindow        time.Duration `envconfig:"SWIFTHAUL_AUTH_RATE_LIMIT_OTP_WINDOW" default:"1m"`
	OTPPhoneLimit    int           `envconfig:"SWIFTHAUL_AUTH_RATE_LIMIT_OTP_PHONE_LIMIT" default:"3"`
	OTPIPLimit       int           `envconfig:"SWIFTHAUL_AUTH_RATE_LIMIT_OTP_IP_LIMIT" default:"20"`
	LoginWindow      time.Duration `envconfig:"SWIFTHAUL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"SWIFTHAUL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"SWIFTHAUL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type StorageConfig struct {
	DocumentDir string `envconfig:"SWIFTHAUL_STORAGE_DOCUMENT_DIR" default:"uploads/documents"`
	MaxUploadMB int    `envconfig:"SWIFTHAUL_STORAGE_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"SWIFTHAUL_AUTO_MIGRATE" default:"false"`
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
