package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration, built once at startup and passed
// by reference. Nothing else in the codebase reads environment variables.
type Config struct {
	Addr       string
	Production bool

	DatabaseURL string
	Redis       RedisConfig
	Kafka       KafkaConfig
	Verify      VerifyConfig
	RateLimit   RateLimitConfig
	Log         LogConfig
}

// VerifyConfig carries verifier thresholds and provider credentials.
// A missing credential makes the corresponding verifier fail closed.
type VerifyConfig struct {
	RecaptchaSecret    string
	RecaptchaVerifyURL string
	RecaptchaMinScore  float64

	FaceMatchThreshold float64

	AadhaarAPIKey    string
	AadhaarVerifyURL string
	AadhaarSandbox   bool

	ExternalTimeout time.Duration
}

// RedisConfig configures the optional Redis-backed rate limiter store.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures the optional attempt-event publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RateLimitConfig bounds verification attempts per user.
type RateLimitConfig struct {
	Attempts int
	Window   time.Duration
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() *Config {
	addr := os.Getenv("VERIGATE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	recaptchaURL := os.Getenv("RECAPTCHA_VERIFY_URL")
	if recaptchaURL == "" {
		recaptchaURL = "https://www.google.com/recaptcha/api/siteverify"
	}

	kafkaTopic := os.Getenv("KAFKA_AUDIT_TOPIC")
	if kafkaTopic == "" {
		kafkaTopic = "verigate.verification-attempts"
	}

	return &Config{
		Addr:        addr,
		Production:  os.Getenv("APP_ENV") == "production",
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers: envList("KAFKA_BROKERS"),
			Topic:   kafkaTopic,
		},
		Verify: VerifyConfig{
			RecaptchaSecret:    os.Getenv("RECAPTCHA_SECRET"),
			RecaptchaVerifyURL: recaptchaURL,
			RecaptchaMinScore:  envFloat("RECAPTCHA_MIN_SCORE", 0.5),
			FaceMatchThreshold: envFloat("FACE_MATCH_THRESHOLD", 0.6),
			AadhaarAPIKey:      os.Getenv("AADHAAR_API_KEY"),
			AadhaarVerifyURL:   os.Getenv("AADHAAR_VERIFY_URL"),
			AadhaarSandbox:     os.Getenv("AADHAAR_SANDBOX") == "true",
			ExternalTimeout:    envDuration("VERIFY_EXTERNAL_TIMEOUT", 5*time.Second),
		},
		RateLimit: RateLimitConfig{
			Attempts: envInt("VERIFY_RATE_LIMIT_ATTEMPTS", 10),
			Window:   envDuration("VERIFY_RATE_LIMIT_WINDOW", time.Minute),
		},
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
		},
	}
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
