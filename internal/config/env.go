package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Env struct {
	AppAddr            string
	GinMode            string
	LogLevel           string
	DBDSN              string
	DBMaxOpenConns     int
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
}

// LoadEnv reads .env (if present) into the process environment, then the environment
// through viper with defaults applied.
func LoadEnv() Env {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("APP_ADDR", ":8080")
	v.SetDefault("GIN_MODE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("JWT_TTL")))
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return Env{
		AppAddr:            strings.TrimSpace(v.GetString("APP_ADDR")),
		GinMode:            strings.TrimSpace(v.GetString("GIN_MODE")),
		LogLevel:           strings.TrimSpace(v.GetString("LOG_LEVEL")),
		DBDSN:              strings.TrimSpace(v.GetString("DB_DSN")),
		DBMaxOpenConns:     v.GetInt("DB_MAX_OPEN_CONNS"),
		JWTSecret:          strings.TrimSpace(v.GetString("JWT_SECRET")),
		JWTTTL:             ttl,
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}
}

// Validate fails fast on settings the server cannot start without.
func (e Env) Validate() error {
	var errs []error
	if e.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is required"))
	}
	if len(e.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
