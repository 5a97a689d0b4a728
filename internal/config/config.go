package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultJWTSecret = "change-me-helping-hand-secret"

// AdminAccount is an admin credential provisioned at startup.
type AdminAccount struct {
	Username string
	Password string
}

// Config holds all configuration for the service.
type Config struct {
	ServiceName            string        `mapstructure:"SERVICE_NAME"`
	HTTPPort               string        `mapstructure:"HTTP_PORT"`
	GRPCHealthPort         string        `mapstructure:"GRPC_HEALTH_PORT"`
	DBDriver               string        `mapstructure:"DB_DRIVER"`
	DBDSN                  string        `mapstructure:"DB_DSN"`
	RedisAddress           string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword          string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int           `mapstructure:"REDIS_DB"`
	NATSURL                string        `mapstructure:"NATS_URL"`
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	TokenTTL               time.Duration `mapstructure:"TOKEN_TTL"`
	AdminAccountsRaw       string        `mapstructure:"ADMIN_ACCOUNTS"`
	BcryptCost             int           `mapstructure:"BCRYPT_COST"`
	SearchCaseInsensitive  bool          `mapstructure:"SEARCH_CASE_INSENSITIVE"`
	RateLimitRPS           float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst         int           `mapstructure:"RATE_LIMIT_BURST"`
	PrometheusMetricsPort  string        `mapstructure:"PROMETHEUS_METRICS_PORT"`
	OTExporterOTLPEndpoint string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SMTPHost               string        `mapstructure:"SMTP_HOST"`
	SMTPPort               int           `mapstructure:"SMTP_PORT"`
	SMTPUsername           string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword           string        `mapstructure:"SMTP_PASSWORD"`
	SMTPSender             string        `mapstructure:"SMTP_SENDER"`
	MailWorkers            int           `mapstructure:"MAIL_WORKERS"`
	MailQueueSize          int           `mapstructure:"MAIL_QUEUE_SIZE"`
	LogLevel               string        `mapstructure:"LOG_LEVEL"`
	LogFormat              string        `mapstructure:"LOG_FORMAT"`
	TrustedProxiesRaw      string        `mapstructure:"TRUSTED_PROXIES"`

	AdminAccounts  []AdminAccount `mapstructure:"-"`
	TrustedProxies []netip.Prefix `mapstructure:"-"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "helping-hand")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("GRPC_HEALTH_PORT", "50055")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_DSN", "host=localhost user=postgres password=postgres dbname=helping_hand port=5432 sslmode=disable")
	v.SetDefault("REDIS_ADDRESS", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NATS_URL", "")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("ADMIN_ACCOUNTS", "admin:admin")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("SEARCH_CASE_INSENSITIVE", false)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9095")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER", "")
	v.SetDefault("MAIL_WORKERS", 2)
	v.SetDefault("MAIL_QUEUE_SIZE", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("TRUSTED_PROXIES", "")
}

// LoadConfig reads configuration from the environment. The .env file, if any,
// has already been loaded into the environment by main.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	accounts, err := ParseAdminAccounts(cfg.AdminAccountsRaw)
	if err != nil {
		return nil, err
	}
	cfg.AdminAccounts = accounts

	proxies, err := ParseTrustedProxies(cfg.TrustedProxiesRaw)
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = proxies

	if err := cfg.validate(appLogger); err != nil {
		return nil, err
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("db_driver", cfg.DBDriver),
		zap.Bool("redis_configured", cfg.RedisAddress != ""),
		zap.Bool("nats_configured", cfg.NATSURL != ""),
		zap.Bool("smtp_configured", cfg.SMTPHost != ""),
		zap.Int("admin_accounts", len(cfg.AdminAccounts)),
		zap.Int("trusted_proxies", len(cfg.TrustedProxies)),
		zap.Bool("search_case_insensitive", cfg.SearchCaseInsensitive),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
	)
	return &cfg, nil
}

func (c *Config) validate(appLogger *logger.Logger) error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTSecret == defaultJWTSecret {
		appLogger.Warn("JWT_SECRET is set to its default insecure value. Please set a strong secret in your environment.")
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (expected postgres or sqlite)", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is not set")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	for _, a := range c.AdminAccounts {
		if a.Username == "admin" && a.Password == "admin" {
			appLogger.Warn("Default admin credentials admin/admin are configured. Change ADMIN_ACCOUNTS before exposing the service.")
		}
	}
	return nil
}

// ParseAdminAccounts parses "user:password[,user:password]". The password may contain ':'.
func ParseAdminAccounts(raw string) ([]AdminAccount, error) {
	var accounts []AdminAccount
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		username, password, ok := strings.Cut(entry, ":")
		username = strings.TrimSpace(username)
		if !ok || username == "" || password == "" {
			return nil, fmt.Errorf("invalid ADMIN_ACCOUNTS entry %q, expected user:password", entry)
		}
		accounts = append(accounts, AdminAccount{Username: username, Password: password})
	}
	return accounts, nil
}

// ParseTrustedProxies parses a comma separated list of IPs and CIDR ranges.
func ParseTrustedProxies(raw string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", entry, err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", entry, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}
