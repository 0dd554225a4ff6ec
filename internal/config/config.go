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
	AccessTTLSeconds     int64
	RefreshTTLSeconds    int64
	CorsOrigins          []string
	MetricsDiskPath      string
	MetricsSampleSeconds int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RazorpayKeyID  string
	RazorpaySecret string
	RazorpayAPIURL string

	GeminiAPIKey  string
	GeminiAPIURL  string
	GeminiModel   string
	ChatTimeoutMs int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	FeedbackTo   string
}

func Load() Config {
	return Config{
		DatabaseURL:          mustEnv("DATABASE_URL"),
		JWTSecret:            mustEnv("JWT_SECRET"),
		JWTIssuer:            envOr("JWT_ISSUER", "codemart"),
		AccessTTLSeconds:     int64(envOrInt("ACCESS_TTL_SECONDS", 14400)),
		RefreshTTLSeconds:    int64(envOrInt("REFRESH_TTL_SECONDS", 1209600)),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
		MetricsDiskPath:      envOr("METRICS_DISK_PATH", "/"),
		MetricsSampleSeconds: envOrInt("METRICS_SAMPLE_INTERVAL", 5),

		MinioEndpoint:  envOr("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: envOr("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: envOr("MINIO_SECRET_KEY", ""),
		MinioBucket:    envOr("MINIO_BUCKET", "codemart"),
		MinioUseSSL:    envOrBool("MINIO_USE_SSL", false),

		RazorpayKeyID:  envOr("RAZORPAY_KEY_ID", ""),
		RazorpaySecret: envOr("RAZORPAY_KEY_SECRET", ""),
		RazorpayAPIURL: envOr("RAZORPAY_API_URL", "https://api.razorpay.com/v1"),

		GeminiAPIKey:  envOr("GEMINI_API_KEY", ""),
		GeminiAPIURL:  envOr("GEMINI_API_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:   envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		ChatTimeoutMs: envOrInt("CHAT_TIMEOUT_MS", 20000),

		SMTPHost:     envOr("SMTP_HOST", ""),
		SMTPPort:     envOrInt("SMTP_PORT", 587),
		SMTPUser:     envOr("SMTP_USER", ""),
		SMTPPassword: envOr("SMTP_PASSWORD", ""),
		SMTPFrom:     envOr("SMTP_FROM", ""),
		FeedbackTo:   envOr("FEEDBACK_TO", ""),
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

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
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
