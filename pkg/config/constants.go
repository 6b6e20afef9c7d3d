package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names.
const EnvPrefix = "SWIFTHAUL"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "SWIFTHAUL_APP_ENV"
	EnvPort      = "SWIFTHAUL_APP_PORT"
	EnvDBDSN     = "SWIFTHAUL_DB_DSN"
	EnvDBHost    = "SWIFTHAUL_DB_HOST"
	EnvDBUser    = "SWIFTHAUL_DB_USER"
	EnvDBName    = "SWIFTHAUL_DB_NAME"
	EnvRedisURL  = "SWIFTHAUL_REDIS_URL"
	EnvJWTSecret = "SWIFTHAUL_JWT_SECRET"
	EnvJWTIssuer = "SWIFTHAUL_JWT_ISSUER"
	EnvJWTExpMins = "SWIFTHAUL_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SWIFTHAUL_REFRESH_TOKEN_TTL_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
