package config

// EnvPrefix is the envconfig prefix applied to every variable.
const EnvPrefix = "NOTARYFLOW"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv          = "NOTARYFLOW_APP_ENV"
	EnvPort            = "NOTARYFLOW_APP_PORT"
	EnvDBDSN           = "NOTARYFLOW_DB_DSN"
	EnvDBHost          = "NOTARYFLOW_DB_HOST"
	EnvDBUser          = "NOTARYFLOW_DB_USER"
	EnvDBName          = "NOTARYFLOW_DB_NAME"
	EnvRedisURL        = "NOTARYFLOW_REDIS_URL"
	EnvJWTSecret       = "NOTARYFLOW_JWT_SECRET"
	EnvJWTIssuer       = "NOTARYFLOW_JWT_ISSUER"
	EnvJWTExpMins      = "NOTARYFLOW_JWT_EXPIRATION_MINUTES"
	EnvGCPProjectID    = "NOTARYFLOW_GCP_PROJECT_ID"
	EnvPubSubDomainTop = "NOTARYFLOW_PUBSUB_DOMAIN_TOPIC"
	EnvPubSubDomainSub = "NOTARYFLOW_PUBSUB_DOMAIN_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
