package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for every setting.
const EnvPrefix = "subirana"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "SUBIRANA_DB_DSN"
	EnvDBHost = "SUBIRANA_DB_HOST"
	EnvDBUser = "SUBIRANA_DB_USER"
	EnvDBName = "SUBIRANA_DB_NAME"
)

var discreteDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Shop     ShopConfig
	CORS     CORSConfig
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
	Env          string `envconfig:"SUBIRANA_APP_ENV" required:"true"`
	Port         string `envconfig:"SUBIRANA_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SUBIRANA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SUBIRANA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SUBIRANA_DB_DSN"`
	Driver string `envconfig:"SUBIRANA_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SUBIRANA_DB_HOST"`
	Port     int    `envconfig:"SUBIRANA_DB_PORT" default:"5432"`
	User     string `envconfig:"SUBIRANA_DB_USER"`
	Password string `envconfig:"SUBIRANA_DB_PASSWORD"`
	Name     string `envconfig:"SUBIRANA_DB_NAME"`
	SSLMode  string `envconfig:"SUBIRANA_DB_SSLMODE" default:"disable"`

	AutoMigrate     bool          `envconfig:"SUBIRANA_DB_AUTO_MIGRATE" default:"false"`
	MaxOpenConns    int           `envconfig:"SUBIRANA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SUBIRANA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SUBIRANA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SUBIRANA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SUBIRANA_REDIS_URL"`
	Address      string        `envconfig:"SUBIRANA_REDIS_ADDR"`
	Password     string        `envconfig:"SUBIRANA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SUBIRANA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SUBIRANA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SUBIRANA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SUBIRANA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SUBIRANA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SUBIRANA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SUBIRANA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SUBIRANA_JWT_ISSUER" default:"subirananadons"`
	ExpirationMinutes      int    `envconfig:"SUBIRANA_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"SUBIRANA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL converts the configured minutes into a duration.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SUBIRANA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SUBIRANA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SUBIRANA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SUBIRANA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SUBIRANA_ARGON_KEY_LEN" default:"32"`
}

// ShopConfig carries the storefront pricing rules. The defaults mirror the
// production storefront: flat 5.99 delivery fee, waived at a 60.00 subtotal,
// and IVA reported at 21% (listed prices are tax inclusive).
type ShopConfig struct {
	ShippingFee       string `envconfig:"SUBIRANA_SHOP_SHIPPING_FEE" default:"5.99"`
	FreeShippingFloor string `envconfig:"SUBIRANA_SHOP_FREE_SHIPPING_FLOOR" default:"60"`
	TaxRatePercent    string `envconfig:"SUBIRANA_SHOP_TAX_RATE_PERCENT" default:"21"`
	OrderNumberPrefix string `envconfig:"SUBIRANA_SHOP_ORDER_NUMBER_PREFIX" default:"SN"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SUBIRANA_CORS_ALLOWED_ORIGINS" default:"*"`
}

type CronConfig struct {
	Interval              time.Duration `envconfig:"SUBIRANA_CRON_INTERVAL" default:"24h"`
	NotificationRetention time.Duration `envconfig:"SUBIRANA_CRON_NOTIFICATION_RETENTION" default:"720h"`
	SnapshotMaxAge        time.Duration `envconfig:"SUBIRANA_CRON_SNAPSHOT_MAX_AGE" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	discrete := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if discrete[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
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
