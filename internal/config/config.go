package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is used when JWT_SECRET is not set. It is public and
// therefore unsafe outside local development; Load flags its use through
// Config.JWTSecretIsDefault so the caller can warn at startup.
const DefaultJWTSecret = "seu-segredo-super-secreto"

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

// Config holds all runtime configuration values. It is built once by Load
// and treated as read-only afterwards.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	JWTSecret          string        // secret used to sign tokens; never logged
	JWTSecretIsDefault bool          // true when JWTSecret fell back to DefaultJWTSecret
	TokenTTL           time.Duration // session token lifetime
	BcryptCost         int           // bcrypt cost for password hashing

	StoreDriver string // "mongo" or "mysql"
	MongoURI    string
	MongoDB     string
	DBUser      string
	DBPass      string // may be empty
	DBHost      string
	DBPort      string
	DBName      string

	UploadDir      string
	MaxUploadBytes int64
	CORSOrigins    []string
	TrustedProxies []*net.IPNet // proxies whose X-Forwarded-For is believed; empty means use the peer address

	RabbitURL            string // empty disables order events
	OrderConsumerEnabled bool
	OrderLogDir          string

	LogLevel  string
	LogFormat string

	Redis     RedisConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// Load reads configuration values from environment variables. Unlike the
// optional sections, malformed values are reported as errors rather than
// silently replaced with defaults.
func Load() (Config, error) {
	cfg := Config{
		Env:                  envStr("APP_ENV", "dev"),
		Port:                 envStr("PORT", "3000"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		StoreDriver:          strings.ToLower(envStr("STORE_DRIVER", DriverMongo)),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              envStr("MONGO_DB", "shop"),
		DBUser:               os.Getenv("DB_USER"),
		DBPass:               os.Getenv("DB_PASS"),
		DBHost:               envStr("DB_HOST", "localhost"),
		DBPort:               envStr("DB_PORT", "3306"),
		DBName:               os.Getenv("DB_NAME"),
		UploadDir:            envStr("UPLOAD_DIR", "uploads"),
		CORSOrigins:          splitList(envStr("CORS_ORIGINS", "*")),
		RabbitURL:            firstNonEmpty(os.Getenv("RABBITMQ_URL"), os.Getenv("AMQP_URL")),
		OrderConsumerEnabled: envBool("ORDER_CONSUMER_ENABLED", false),
		OrderLogDir:          envStr("ORDER_LOG_DIR", "logs"),
		LogLevel:             envStr("LOG_LEVEL", "info"),
		LogFormat:            envStr("LOG_FORMAT", "json"),
		Redis:                LoadRedisConfig(),
		Cache:                LoadCacheConfig(),
		RateLimit:            LoadRateLimitConfig(),
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = DefaultJWTSecret
		cfg.JWTSecretIsDefault = true
	}

	var err error
	if cfg.TokenTTL, err = parseDuration("TOKEN_TTL", "1h"); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	if cfg.BcryptCost, err = parseInt("BCRYPT_COST", 10); err != nil {
		return Config{}, err
	}
	maxUpload, err := parseInt("MAX_UPLOAD_BYTES", 5<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	if cfg.TrustedProxies, err = parseCIDRs("TRUSTED_PROXIES"); err != nil {
		return Config{}, err
	}

	switch cfg.StoreDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("missing required env var: MONGO_URI")
		}
	case DriverMySQL:
		if cfg.DBUser == "" || cfg.DBName == "" {
			return Config{}, errors.New("missing required env vars: DB_USER and DB_NAME")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

// parseInt is like envInt but reports a malformed value instead of
// falling back to the default.
func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid int for %s: %q", key, s)
	}
	return n, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envStr(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, s)
	}
	return d, nil
}

// parseCIDRs reads a comma-separated list of CIDRs or bare IPs.
func parseCIDRs(key string) ([]*net.IPNet, error) {
	var out []*net.IPNet
	for _, p := range splitList(os.Getenv(key)) {
		if !strings.Contains(p, "/") {
			if ip := net.ParseIP(p); ip != nil && ip.To4() != nil {
				p += "/32"
			} else {
				p += "/128"
			}
		}
		_, n, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR in %s: %q", key, p)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
