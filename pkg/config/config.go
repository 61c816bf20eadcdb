package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often PgBouncer/pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	DB DBConfig

	Auth AuthConfig

	Org OrgConfig

	// ReceiptsDir is where generated PDF receipts are written.
	ReceiptsDir string

	// AllowedOrigins is a comma-separated allowlist of origins allowed to call
	// the API from a browser. Example:
	//   https://lodge.mcan.ng,http://localhost:5173
	AllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type AuthConfig struct {
	// JWTSecret signs bearer tokens (HS256). Required outside dev.
	JWTSecret string
	TokenTTL  time.Duration
}

// OrgConfig carries the organization identity printed on receipts and returned
// by the payment-config endpoint.
type OrgConfig struct {
	Name          string
	ShortCode     string
	BankName      string
	AccountName   string
	AccountNumber string
	MomoNumber    string
	SupportEmail  string
	// PublicBaseURL is the externally reachable URL for this backend; receipt
	// QR codes point at <PublicBaseURL>/api/receipts/verify/<serial>.
	PublicBaseURL string
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		HTTPAddr:       httpAddr,
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "mcanlodge"),
			User:     env("DB_USER", "mcanlodge"),
			Password: env("DB_PASSWORD", "mcanlodge"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: env("JWT_SECRET", "dev-only-change-me"),
			TokenTTL:  envDuration("JWT_TTL", 24*time.Hour),
		},
		Org: OrgConfig{
			Name:          env("ORG_NAME", "MCAN Lodge"),
			ShortCode:     env("ORG_SHORT_CODE", "MCAN"),
			BankName:      os.Getenv("ORG_BANK_NAME"),
			AccountName:   os.Getenv("ORG_ACCOUNT_NAME"),
			AccountNumber: os.Getenv("ORG_ACCOUNT_NUMBER"),
			MomoNumber:    os.Getenv("ORG_MOMO_NUMBER"),
			SupportEmail:  os.Getenv("ORG_SUPPORT_EMAIL"),
			PublicBaseURL: env("PUBLIC_BASE_URL", "http://localhost:8081"),
		},
		ReceiptsDir:    env("RECEIPTS_DIR", "receipts"),
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:4173"),
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Accept a bare hour count too (JWT_TTL=24).
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Hour
	}
	return fallback
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	start := 0
	for i := 0; i <= len(v); i++ {
		if i == len(v) || v[i] == ',' {
			s := v[start:i]
			start = i + 1
			// trim spaces
			for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\n' || s[0] == '\r') {
				s = s[1:]
			}
			for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
				s = s[:len(s)-1]
			}
			if s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
