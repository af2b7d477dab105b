package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// EnvPrefix scopes every environment variable read by Load.
const EnvPrefix = "KINMEL"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "KINMEL_APP_ENV"
	EnvDBDSN  = "KINMEL_DB_DSN"
	EnvDBHost = "KINMEL_DB_HOST"
	EnvDBUser = "KINMEL_DB_USER"
	EnvDBName = "KINMEL_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Checkout      CheckoutConfig
	Dashboard     DashboardConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.parseDeliveryCharge(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KINMEL_APP_ENV" required:"true"`
	Port         string `envconfig:"KINMEL_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KINMEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KINMEL_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KINMEL_DB_DSN"`
	Driver string `envconfig:"KINMEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KINMEL_DB_HOST"`
	LegacyPort     int    `envconfig:"KINMEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KINMEL_DB_USER"`
	LegacyPassword string `envconfig:"KINMEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"KINMEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"KINMEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KINMEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KINMEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KINMEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KINMEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KINMEL_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KINMEL_REDIS_ADDR"`
	Password     string        `envconfig:"KINMEL_REDIS_PASSWORD"`
	DB           int           `envconfig:"KINMEL_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KINMEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KINMEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KINMEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KINMEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KINMEL_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"KINMEL_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"KINMEL_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"KINMEL_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"KINMEL_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KINMEL_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KINMEL_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KINMEL_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KINMEL_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KINMEL_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KINMEL_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KINMEL_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KINMEL_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KINMEL_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KINMEL_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KINMEL_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// CheckoutConfig carries checkout tunables. The delivery charge is a flat fee
// added once per order line during total computation.
type CheckoutConfig struct {
	DeliveryChargeRaw string `envconfig:"KINMEL_CHECKOUT_DELIVERY_CHARGE" default:"100"`

	deliveryCharge decimal.Decimal
}

// DeliveryCharge returns the parsed per-line delivery charge.
func (c CheckoutConfig) DeliveryCharge() decimal.Decimal {
	return c.deliveryCharge
}

func (c *CheckoutConfig) parseDeliveryCharge() error {
	charge, err := decimal.NewFromString(strings.TrimSpace(c.DeliveryChargeRaw))
	if err != nil {
		return fmt.Errorf("parsing delivery charge: %w", err)
	}
	if charge.IsNegative() {
		return fmt.Errorf("delivery charge must not be negative")
	}
	c.deliveryCharge = charge
	return nil
}

type DashboardConfig struct {
	CacheTTL time.Duration `envconfig:"KINMEL_DASHBOARD_CACHE_TTL" default:"15m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KINMEL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KINMEL_AUTO_MIGRATE" default:"false"`
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
