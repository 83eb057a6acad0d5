package config

import "time"

const (
	EnvPort        = "PORT"
	EnvDatabaseURL = "DATABASE_URL"
	EnvAutoMigrate = "AUTO_MIGRATE"
	EnvSeedOnStart = "SEED_ON_START"

	EnvJWTSecret  = "JWT_SECRET"
	EnvSessionTTL = "SESSION_TTL"
	EnvBcryptCost = "BCRYPT_COST"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvSMTPHost  = "SMTP_HOST"
	EnvSMTPPort  = "SMTP_PORT"
	EnvEmailUser = "EMAIL_USER"
	EnvEmailPass = "EMAIL_PASS"

	EnvCloudinaryCloudName = "CLOUDINARY_CLOUD_NAME"
	EnvCloudinaryAPIKey    = "CLOUDINARY_API_KEY"
	EnvCloudinaryAPISecret = "CLOUDINARY_API_SECRET"

	EnvUploadDir      = "UPLOAD_DIR"
	EnvUploadMaxBytes = "UPLOAD_MAX_BYTES"

	EnvEventTimezone = "EVENT_TIMEZONE"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"

	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"

	EnvCORSOrigins = "CORS_ORIGINS"
)

const (
	DefaultPort           = "8000"
	DefaultAutoMigrate    = true
	DefaultSeedOnStart    = false
	DefaultSessionTTL     = 24 * time.Hour
	DefaultBcryptCost     = 12
	DefaultSMTPPort       = 587
	DefaultUploadDir      = "./public/uploads"
	DefaultUploadMaxBytes = 10 << 20
	DefaultEventTimezone  = "UTC"
	DefaultKafkaTopic     = "meeting-events"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultCORSOrigins    = "*"
)
