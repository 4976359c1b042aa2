package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/storefront/internal/models"
	cfgpkg "github.com/Skotchmaster/storefront/pkg/config"
)

const (
	SessionMemory = "memory"
	SessionSQL    = "sql"
	SessionRedis  = "redis"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	APIBaseURL string
	APITimeout time.Duration
	MediaURL   string

	SessionBackend string
	SessionTTL     time.Duration
	DatabaseDriver string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	AdminRoles   []string
	CookieSecure bool
	VisitorIdle  time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

// Load reads .env when present, then the environment. Missing required
// settings end the process.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ListenAddr: cfgpkg.EnvDefault("LISTEN_ADDR", ":8080"),
		LogLevel:   cfgpkg.EnvDefault("LOG_LEVEL", "info"),

		APIBaseURL: strings.TrimRight(cfgpkg.EnvDefault("API_BASE_URL", ""), "/"),
		APITimeout: cfgpkg.EnvDurationDefault("API_TIMEOUT", 10*time.Second),

		SessionBackend: cfgpkg.EnvDefault("SESSION_BACKEND", SessionMemory),
		SessionTTL:     cfgpkg.EnvDurationDefault("SESSION_TTL", 168*time.Hour),
		DatabaseDriver: cfgpkg.EnvDefault("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    cfgpkg.EnvDefault("DATABASE_URL", ""),
		RedisAddr:      cfgpkg.EnvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  cfgpkg.EnvDefault("REDIS_PASSWORD", ""),
		RedisDB:        cfgpkg.EnvIntDefault("REDIS_DB", 0),

		AdminRoles:   cfgpkg.EnvCSVDefault("ADMIN_ROLES", []string{models.RoleAdmin, models.RoleStaff}),
		CookieSecure: cfgpkg.EnvBoolDefault("COOKIE_SECURE", false),
		VisitorIdle:  cfgpkg.EnvDurationDefault("VISITOR_IDLE", 30*time.Minute),

		KafkaBrokers: cfgpkg.CSV(cfgpkg.EnvDefault("KAFKA_BROKERS", "")),
		KafkaTopic:   cfgpkg.EnvDefault("KAFKA_TOPIC", "storefront_events"),

		ESURL:      cfgpkg.EnvDefault("ES_URL", ""),
		ESUser:     cfgpkg.EnvDefault("ES_USER", ""),
		ESPassword: cfgpkg.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    cfgpkg.EnvDefault("ES_INDEX", "products"),
	}
	cfg.MediaURL = strings.TrimRight(cfgpkg.EnvDefault("MEDIA_URL", cfg.APIBaseURL), "/")

	cfgpkg.MustNonEmpty(cfg.APIBaseURL, "API_BASE_URL")
	cfgpkg.MustOneOf(cfg.SessionBackend, "SESSION_BACKEND", SessionMemory, SessionSQL, SessionRedis)
	if cfg.SessionBackend == SessionSQL {
		cfgpkg.MustOneOf(cfg.DatabaseDriver, "DATABASE_DRIVER", "postgres", "sqlite")
		cfgpkg.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	}
	return cfg
}

func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

func (c *Config) SearchEnabled() bool { return c.ESURL != "" }
