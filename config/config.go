package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the environment driven settings for the matchmaking server.
type Config struct {
	Port        string
	DatabaseURL string
	AutoMigrate bool
	SeedOnStart bool

	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost      string
	SMTPPort      int
	EmailUser     string
	EmailPassword string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	UploadDir      string
	UploadMaxBytes int64

	EventTimezone string
	EventLocation *time.Location

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string

	AdminEmail    string
	AdminPassword string

	CORSOrigins string
}

// Load reads .env (when present) and the process environment.
// Missing required keys and malformed values are reported in a single error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an arbitrary lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	l := loader{getenv: getenv}

	cfg := &Config{
		Port:        l.str(EnvPort, DefaultPort),
		DatabaseURL: l.required(EnvDatabaseURL),
		AutoMigrate: l.boolean(EnvAutoMigrate, DefaultAutoMigrate),
		SeedOnStart: l.boolean(EnvSeedOnStart, DefaultSeedOnStart),

		JWTSecret:  l.required(EnvJWTSecret),
		SessionTTL: l.duration(EnvSessionTTL, DefaultSessionTTL),
		BcryptCost: l.num(EnvBcryptCost, DefaultBcryptCost),

		RedisAddr:     l.str(EnvRedisAddr, ""),
		RedisPassword: l.str(EnvRedisPassword, ""),
		RedisDB:       l.num(EnvRedisDB, 0),

		SMTPHost:      l.str(EnvSMTPHost, ""),
		SMTPPort:      l.num(EnvSMTPPort, DefaultSMTPPort),
		EmailUser:     l.str(EnvEmailUser, ""),
		EmailPassword: l.str(EnvEmailPass, ""),

		CloudinaryCloudName: l.str(EnvCloudinaryCloudName, ""),
		CloudinaryAPIKey:    l.str(EnvCloudinaryAPIKey, ""),
		CloudinaryAPISecret: l.str(EnvCloudinaryAPISecret, ""),

		UploadDir:      l.str(EnvUploadDir, DefaultUploadDir),
		UploadMaxBytes: int64(l.num(EnvUploadMaxBytes, DefaultUploadMaxBytes)),

		EventTimezone: l.str(EnvEventTimezone, DefaultEventTimezone),

		KafkaBrokers: l.list(EnvKafkaBrokers),
		KafkaTopic:   l.str(EnvKafkaTopic, DefaultKafkaTopic),

		LogLevel:  l.str(EnvLogLevel, DefaultLogLevel),
		LogFormat: l.str(EnvLogFormat, DefaultLogFormat),

		AdminEmail:    l.str(EnvAdminEmail, ""),
		AdminPassword: l.str(EnvAdminPassword, ""),

		CORSOrigins: l.str(EnvCORSOrigins, DefaultCORSOrigins),
	}

	if loc, err := time.LoadLocation(cfg.EventTimezone); err != nil {
		l.invalid = append(l.invalid, EnvEventTimezone)
	} else {
		cfg.EventLocation = loc
	}

	if err := cfg.validate(&l); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate(l *loader) error {
	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		l.invalid = append(l.invalid, EnvPort)
	}
	if cfg.SessionTTL <= 0 {
		l.invalid = append(l.invalid, EnvSessionTTL)
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		l.invalid = append(l.invalid, EnvBcryptCost)
	}
	if cfg.UploadMaxBytes <= 0 {
		l.invalid = append(l.invalid, EnvUploadMaxBytes)
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		l.invalid = append(l.invalid, EnvAdminEmail+"/"+EnvAdminPassword)
	}

	var problems []string
	if len(l.missing) > 0 {
		problems = append(problems, "missing required environment variables: "+strings.Join(l.missing, ", "))
	}
	if len(l.invalid) > 0 {
		problems = append(problems, "invalid environment variables: "+strings.Join(l.invalid, ", "))
	}
	if len(problems) > 0 {
		return fmt.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// MailEnabled reports whether SMTP delivery is configured.
func (cfg *Config) MailEnabled() bool {
	return cfg.SMTPHost != "" && cfg.EmailUser != ""
}

// CloudinaryEnabled reports whether header images go to Cloudinary.
func (cfg *Config) CloudinaryEnabled() bool {
	return cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != ""
}

type loader struct {
	getenv  func(string) string
	missing []string
	invalid []string
}

func (l *loader) lookup(key string) string {
	return strings.TrimSpace(l.getenv(key))
}

func (l *loader) required(key string) string {
	v := l.lookup(key)
	if v == "" {
		l.missing = append(l.missing, key)
	}
	return v
}

func (l *loader) str(key, fallback string) string {
	if v := l.lookup(key); v != "" {
		return v
	}
	return fallback
}

func (l *loader) num(key string, fallback int) int {
	v := l.lookup(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		l.invalid = append(l.invalid, key)
		return fallback
	}
	return n
}

func (l *loader) boolean(key string, fallback bool) bool {
	v := l.lookup(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.invalid = append(l.invalid, key)
		return fallback
	}
	return b
}

func (l *loader) duration(key string, fallback time.Duration) time.Duration {
	v := l.lookup(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.invalid = append(l.invalid, key)
		return fallback
	}
	return d
}

func (l *loader) list(key string) []string {
	v := l.lookup(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
