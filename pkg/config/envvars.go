package config

// EnvPrefix is passed to envconfig.Process; individual fields carry explicit
// CATALOG_* names so the prefix only matters for undeclared overrides.
const EnvPrefix = "catalog"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv            = "CATALOG_APP_ENV"
	EnvPort              = "CATALOG_APP_PORT"
	EnvDBDSN             = "CATALOG_DB_DSN"
	EnvDBHost            = "CATALOG_DB_HOST"
	EnvDBUser            = "CATALOG_DB_USER"
	EnvDBName            = "CATALOG_DB_NAME"
	EnvRedisURL          = "CATALOG_REDIS_URL"
	EnvJWTSecret         = "CATALOG_JWT_SECRET"
	EnvJWTIssuer         = "CATALOG_JWT_ISSUER"
	EnvSeedAdminEmail    = "CATALOG_SEED_ADMIN_EMAIL"
	EnvSeedAdminPassword = "CATALOG_SEED_ADMIN_PASSWORD"
)

var fallbackDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
