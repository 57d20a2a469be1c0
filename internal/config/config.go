package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers understood by the question and event stores.
const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds runtime configuration values for the quiz API.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	LogLevel            string
	DataDir             string
	StorageDriver       string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	NATSSubject         string
	AdminUsername       string
	AdminPassword       string
	AdminPasswordHash   string
	JWTSecret           string
	JWTTTL              time.Duration
	SessionTTL          time.Duration
	SessionCookieSecure bool
	PresenceWindow      time.Duration
	TrackRateLimit      int
	TrackRateWindow     time.Duration
	SeedSamples         bool
	CORSAllowOrigins    string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// SessionsDir is where the file driver keeps one event log per session.
func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

// PageTitlesPath is the JSON file holding page display names.
func (c Config) PageTitlesPath() string {
	return filepath.Join(c.DataDir, "page-title.json")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	return LoadFrom("")
}

// LoadFrom behaves like Load and additionally reads path (yaml, json, toml or any format viper
// understands) when it is not empty. Environment variables win over the file.
func LoadFrom(path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("QUIZ")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetDefault("app.name", "Quiz API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("data.dir", "data")
	v.SetDefault("storage.driver", StorageFile)
	v.SetDefault("nats.subject", "quiz.events")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("jwt.ttl", "12h")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookie_secure", false)
	v.SetDefault("presence.window", "5m")
	v.SetDefault("track.rate_limit", 120)
	v.SetDefault("track.rate_window", "1m")
	v.SetDefault("seed.samples", true)
	v.SetDefault("cors.allow_origins", "*")

	durations := map[string]*time.Duration{}
	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		LogLevel:            strings.ToLower(v.GetString("log.level")),
		DataDir:             v.GetString("data.dir"),
		StorageDriver:       strings.ToLower(strings.TrimSpace(v.GetString("storage.driver"))),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		NATSSubject:         v.GetString("nats.subject"),
		AdminUsername:       v.GetString("admin.username"),
		AdminPassword:       v.GetString("admin.password"),
		AdminPasswordHash:   v.GetString("admin.password_hash"),
		JWTSecret:           v.GetString("jwt.secret"),
		SessionCookieSecure: v.GetBool("session.cookie_secure"),
		TrackRateLimit:      v.GetInt("track.rate_limit"),
		SeedSamples:         v.GetBool("seed.samples"),
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
	}
	durations["jwt.ttl"] = &cfg.JWTTTL
	durations["session.ttl"] = &cfg.SessionTTL
	durations["presence.window"] = &cfg.PresenceWindow
	durations["track.rate_window"] = &cfg.TrackRateWindow

	for key, target := range durations {
		parsed, err := time.ParseDuration(v.GetString(key))
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid %s: %q", key, v.GetString(key))
		}
		*target = parsed
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return Config{}, fmt.Errorf("admin password or password hash must be provided")
	}

	switch cfg.StorageDriver {
	case StorageFile, StorageSQLite:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("database url is required for the postgres driver")
		}
	default:
		return Config{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	if cfg.TrackRateLimit <= 0 {
		cfg.TrackRateLimit = 120
	}

	return cfg, nil
}
