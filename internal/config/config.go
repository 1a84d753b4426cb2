// Package config reads the runtime configuration from the environment.
package config

import (
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Environment    string `mapstructure:"ENVIRONMENT"`
	Port           string `mapstructure:"PORT"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogFile        string `mapstructure:"LOG_FILE"`
	BaseURL        string `mapstructure:"BASE_URL"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBDriver      string `mapstructure:"DB_DRIVER"`
	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPass        string `mapstructure:"DB_PASS"`
	DBName        string `mapstructure:"DB_NAME"`

	KeyPairPath string        `mapstructure:"KEY_PAIR_PATH"`
	SessionTTL  time.Duration `mapstructure:"SESSION_TTL"`
	CookieName  string        `mapstructure:"COOKIE_NAME"`

	TokenTTL           time.Duration `mapstructure:"TOKEN_TTL"`
	TokenSweepInterval time.Duration `mapstructure:"TOKEN_SWEEP_INTERVAL"`
	PasswordResetDelay time.Duration `mapstructure:"PASSWORD_RESET_DELAY"`

	MailgunDomain   string        `mapstructure:"MAILGUN_DOMAIN"`
	MailgunAPIKey   string        `mapstructure:"MAILGUN_API_KEY"`
	MailgunEU       bool          `mapstructure:"MAILGUN_EU"`
	MailFrom        string        `mapstructure:"MAIL_FROM"`
	EmailMXCheck    bool          `mapstructure:"EMAIL_MX_CHECK"`
	EmailRateLimit  int           `mapstructure:"EMAIL_RATE_LIMIT"`
	EmailRateWindow time.Duration `mapstructure:"EMAIL_RATE_WINDOW"`

	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3PublicURL string `mapstructure:"S3_PUBLIC_URL"`
	S3Prefix    string `mapstructure:"S3_PREFIX"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `mapstructure:"S3_SECRET_ACCESS_KEY"`
}

var defaults = map[string]any{
	"ENVIRONMENT":          "development",
	"PORT":                 "8080",
	"LOG_LEVEL":            "INFO",
	"LOG_FILE":             "",
	"BASE_URL":             "http://localhost:3000",
	"SERVICE_NAME":         "gadget-server",
	"ALLOWED_ORIGINS":      "http://localhost:3000",
	"DB_DRIVER":            DriverMongo,
	"MONGO_URI":            "mongodb://localhost:27017",
	"MONGO_DATABASE":       "gadgets",
	"DB_HOST":              "localhost",
	"DB_PORT":              "5432",
	"DB_USER":              "postgres",
	"DB_PASS":              "",
	"DB_NAME":              "gadgets",
	"KEY_PAIR_PATH":        "keys/ed25519.key",
	"SESSION_TTL":          "72h",
	"COOKIE_NAME":          "jwtGadgetToken",
	"TOKEN_TTL":            "1h",
	"TOKEN_SWEEP_INTERVAL": "10m",
	"PASSWORD_RESET_DELAY": "15m",
	"MAILGUN_DOMAIN":       "",
	"MAILGUN_API_KEY":      "",
	"MAILGUN_EU":           false,
	"MAIL_FROM":            "Gadget Store <no-reply@localhost>",
	"EMAIL_MX_CHECK":       false,
	"EMAIL_RATE_LIMIT":     5,
	"EMAIL_RATE_WINDOW":    "15m",
	"S3_BUCKET":            "",
	"S3_REGION":            "us-east-1",
	"S3_ENDPOINT":          "",
	"S3_PUBLIC_URL":        "",
	"S3_PREFIX":            "gadgets",
	"S3_ACCESS_KEY_ID":     "",
	"S3_SECRET_ACCESS_KEY": "",
}

// Load reads every key from the environment, falling back to the defaults above.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DBDriver != DriverMongo && c.DBDriver != DriverPostgres {
		return errors.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.EmailRateLimit <= 0 || c.EmailRateWindow <= 0 {
		return errors.New("EMAIL_RATE_LIMIT and EMAIL_RATE_WINDOW must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the comma separated ALLOWED_ORIGINS as a slice.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// PostgresURL builds the connection string for the pgx pool.
func (c *Config) PostgresURL() string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPass),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	return dsn.String()
}
