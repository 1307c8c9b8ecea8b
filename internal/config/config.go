package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	DatabaseURL          string
	JWTSecret            string
	JWTIssuer            string
	TokenTTLSeconds      int64
	UploadStoragePath    string
	SMTPHost             string
	SMTPPort             int
	SMTPUsername         string
	SMTPPassword         string
	MailFromEmail        string
	MailFromName         string
	AdminNotifyEmail     string
	AdminUsername        string
	AdminEmail           string
	AdminPassword        string
	MetricsDiskPath      string
	MetricsSampleSeconds int
	CorsOrigins          []string
}

func Load() Config {
	uploadPath := envOr("UPLOAD_STORAGE_PATH", "storage/uploads")
	return Config{
		DatabaseURL:          mustEnv("DATABASE_URL"),
		JWTSecret:            mustEnv("JWT_SECRET"),
		JWTIssuer:            envOr("JWT_ISSUER", "legacyvoices"),
		TokenTTLSeconds:      int64(envOrInt("TOKEN_TTL_SECONDS", 86400)),
		UploadStoragePath:    uploadPath,
		SMTPHost:             envOr("SMTP_HOST", ""),
		SMTPPort:             envOrInt("SMTP_PORT", 587),
		SMTPUsername:         envOr("SMTP_USERNAME", ""),
		SMTPPassword:         envOr("SMTP_PASSWORD", ""),
		MailFromEmail:        envOr("MAIL_FROM_EMAIL", "no-reply@legacyvoices.local"),
		MailFromName:         envOr("MAIL_FROM_NAME", "Legacy Voices"),
		AdminNotifyEmail:     envOr("ADMIN_NOTIFY_EMAIL", ""),
		AdminUsername:        envOr("ADMIN_USERNAME", ""),
		AdminEmail:           envOr("ADMIN_EMAIL", ""),
		AdminPassword:        envOr("ADMIN_PASSWORD", ""),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", uploadPath),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 60),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
	}
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
