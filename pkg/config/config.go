package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Service  ServiceConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Custody  CustodyConfig
	Features FeatureFlagsConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Outbox   OutboxConfig
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
	Env          string `envconfig:"NOTARYFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"NOTARYFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"NOTARYFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NOTARYFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"NOTARYFLOW_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"NOTARYFLOW_DB_DSN"`
	Driver string `envconfig:"NOTARYFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"NOTARYFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"NOTARYFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"NOTARYFLOW_DB_USER"`
	LegacyPassword string `envconfig:"NOTARYFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"NOTARYFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"NOTARYFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"NOTARYFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"NOTARYFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"NOTARYFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"NOTARYFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"NOTARYFLOW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"NOTARYFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"NOTARYFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"NOTARYFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"NOTARYFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"NOTARYFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"NOTARYFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NOTARYFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NOTARYFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"NOTARYFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"NOTARYFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"NOTARYFLOW_JWT_EXPIRATION_MINUTES" required:"true"`
}

// CustodyConfig holds workflow policy knobs.
type CustodyConfig struct {
	DefaultLoanDays int `envconfig:"NOTARYFLOW_CUSTODY_DEFAULT_LOAN_DAYS" default:"14"`
}

// DefaultLoanPeriod returns the loan period configured in days.
func (c CustodyConfig) DefaultLoanPeriod() time.Duration {
	if c.DefaultLoanDays <= 0 {
		return 0
	}
	return time.Duration(c.DefaultLoanDays) * 24 * time.Hour
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"NOTARYFLOW_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"NOTARYFLOW_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"NOTARYFLOW_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"NOTARYFLOW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"NOTARYFLOW_PUBSUB_DOMAIN_TOPIC" default:"nf-custody-events"`
	DomainSubscription string `envconfig:"NOTARYFLOW_PUBSUB_DOMAIN_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"NOTARYFLOW_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"NOTARYFLOW_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"NOTARYFLOW_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
