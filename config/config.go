package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AWS      AWSConfig
	Zoom     ZoomConfig
	Report   ReportConfig
	Schedule ScheduleConfig
	Operator OperatorConfig
}

// ServerConfig holds HTTP server settings for the webhook listener.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is (e.g. postgres://localhost:5432/roomtrack?sslmode=disable)
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds JWT signing and validation settings for the admin API.
type JWTConfig struct {
	Secret      string
	ExpireHours int
}

// AWSConfig holds AWS credentials and the report artifact bucket.
type AWSConfig struct {
	Region               string
	AccessKeyID          string
	SecretAccessKey      string
	ReportsBucket        string
	PresignExpireMinutes int
}

// ZoomConfig holds Zoom server-to-server OAuth credentials and webhook secret.
type ZoomConfig struct {
	AccountID          string
	ClientID           string
	ClientSecret       string
	MeetingID          string // recurring meeting whose instances are tracked
	WebhookSecretToken string // for url_validation challenge and x-zm-signature
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	OutputDir   string // directory for generated CSV artifacts
	MappingFile string // room UUID -> display name JSON file
	Timezone    string // IANA zone for day boundaries; "Local" for system zone
}

// ScheduleConfig holds the automatic report schedule.
type ScheduleConfig struct {
	MeetingDays      []int // time.Weekday values, e.g. 1,2,3,4,5,6 for Mon-Sat
	EndHour          int
	EndMinute        int
	ReportDelayHours int // wait after meeting end before generating (QOS availability)
}

// OperatorConfig holds the single admin-API principal.
type OperatorConfig struct {
	Email        string
	PasswordHash string // bcrypt hash; login is disabled when empty
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExpire, _ := strconv.Atoi(getEnv("JWT_EXPIRE_HOURS", "24"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "roomtrack"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			ExpireHours: jwtExpire,
		},
		AWS: AWSConfig{
			Region:               getEnv("AWS_REGION", ""),
			AccessKeyID:          getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey:      getEnv("AWS_SECRET_ACCESS_KEY", ""),
			ReportsBucket:        getEnv("AWS_S3_REPORTS_BUCKET", "roomtrack-reports"),
			PresignExpireMinutes: getEnvInt("AWS_PRESIGN_EXPIRE_MINUTES", 15),
		},
		Zoom: ZoomConfig{
			AccountID:          getEnv("ZOOM_ACCOUNT_ID", ""),
			ClientID:           getEnv("ZOOM_CLIENT_ID", ""),
			ClientSecret:       getEnv("ZOOM_CLIENT_SECRET", ""),
			MeetingID:          getEnv("ZOOM_MEETING_ID", ""),
			WebhookSecretToken: getEnv("ZOOM_WEBHOOK_SECRET_TOKEN", ""),
		},
		Report: ReportConfig{
			OutputDir:   getEnv("REPORT_OUTPUT_DIR", "reports"),
			MappingFile: getEnv("ROOM_MAPPING_FILE", "room_name_mapping.json"),
			Timezone:    getEnv("REPORT_TIMEZONE", "Local"),
		},
		Schedule: ScheduleConfig{
			MeetingDays:      splitInts(getEnv("MEETING_DAYS", "1,2,3,4,5,6")),
			EndHour:          getEnvInt("MEETING_END_HOUR", 13),
			EndMinute:        getEnvInt("MEETING_END_MINUTE", 0),
			ReportDelayHours: getEnvInt("REPORT_DELAY_HOURS", 2),
		},
		Operator: OperatorConfig{
			Email:        getEnv("OPERATOR_EMAIL", ""),
			PasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),
		},
	}
	return cfg, nil
}

// Location resolves the report timezone ("Local" or an IANA name).
func (c ReportConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitInts(s string) []int {
	var out []int
	for _, v := range strings.Split(s, ",") {
		if t := strings.TrimSpace(v); t != "" {
			if n, err := strconv.Atoi(t); err == nil {
				out = append(out, n)
			}
		}
	}
	return out
}
