package config

import (
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	DBSchema       string        `mapstructure:"DB_SCHEMA"`
	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	SMTPHost       string        `mapstructure:"SMTP_HOST"`
	SMTPPort       int           `mapstructure:"SMTP_PORT"`
	SMTPUsername   string        `mapstructure:"SMTP_USERNAME"`
	SMTPPassword   string        `mapstructure:"SMTP_PASSWORD"`
	MailFrom       string        `mapstructure:"MAIL_FROM"`
	OTPTTL         time.Duration `mapstructure:"OTP_TTL"`
	OTPMaxAttempts int           `mapstructure:"OTP_MAX_ATTEMPTS"`
	JWTSigningKey  string        `mapstructure:"JWT_SIGNING_KEY"`
	JWTTTL         time.Duration `mapstructure:"JWT_TTL"`
	AuthRequired   bool          `mapstructure:"AUTH_REQUIRED"`
	ModelDir       string        `mapstructure:"MODEL_DIR"`
	OllamaHost     string        `mapstructure:"OLLAMA_HOST"`
	AdviceModel    string        `mapstructure:"ADVICE_MODEL"`
	AdviceTimeout  time.Duration `mapstructure:"ADVICE_TIMEOUT"`
	AdviceFailMax  int           `mapstructure:"ADVICE_BREAKER_FAILURES"`
	AdviceCooldown time.Duration `mapstructure:"ADVICE_BREAKER_COOLDOWN"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	BodyLimit      string        `mapstructure:"BODY_LIMIT"`
	ReportLimit    string        `mapstructure:"REPORT_BODY_LIMIT"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "DB_SCHEMA",
	"CORS_ORIGINS",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME", "SMTP_PASSWORD", "MAIL_FROM",
	"OTP_TTL", "OTP_MAX_ATTEMPTS",
	"JWT_SIGNING_KEY", "JWT_TTL", "AUTH_REQUIRED",
	"MODEL_DIR", "OLLAMA_HOST", "ADVICE_MODEL",
	"ADVICE_TIMEOUT", "ADVICE_BREAKER_FAILURES", "ADVICE_BREAKER_COOLDOWN",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"REQUEST_TIMEOUT", "BODY_LIMIT", "REPORT_BODY_LIMIT",
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_SCHEMA", "public")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "no-reply@thyrotrack.local")
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("MODEL_DIR", "./models")
	v.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	v.SetDefault("ADVICE_MODEL", "deepseek-r1:1.5b")
	v.SetDefault("ADVICE_TIMEOUT", "60s")
	v.SetDefault("ADVICE_BREAKER_FAILURES", 3)
	v.SetDefault("ADVICE_BREAKER_COOLDOWN", "30s")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("REQUEST_TIMEOUT", "90s")
	v.SetDefault("BODY_LIMIT", "1M")
	v.SetDefault("REPORT_BODY_LIMIT", "15M")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// The decode hook may or may not have split the env string already.
	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() && cfg.SMTPHost == "" {
		log.Println("WARNING: SMTP_HOST is not set; outgoing mail is written to the log instead of being sent.")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Production needs a
// real mail relay and a stable JWT signing key; a random per-process key would
// invalidate every session on restart.
func (c *Config) Validate() error {
	if c.IsProduction() && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required in production")
	}
	if c.IsProduction() && c.JWTSigningKey == "" {
		return fmt.Errorf("JWT_SIGNING_KEY is required in production")
	}
	if c.JWTSigningKey != "" {
		key, err := hex.DecodeString(c.JWTSigningKey)
		if err != nil {
			return fmt.Errorf("JWT_SIGNING_KEY is not valid hex: %w", err)
		}
		if len(key) < 32 {
			return fmt.Errorf("JWT_SIGNING_KEY must be at least 32 bytes (64 hex chars), got %d bytes", len(key))
		}
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive, got %s", c.OTPTTL)
	}
	if c.OTPMaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be positive, got %d", c.OTPMaxAttempts)
	}
	if c.AdviceFailMax <= 0 {
		return fmt.Errorf("ADVICE_BREAKER_FAILURES must be positive, got %d", c.AdviceFailMax)
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.JWTTTL)
	}
	if c.SMTPHost != "" && (c.SMTPPort <= 0 || c.SMTPPort > 65535) {
		return fmt.Errorf("SMTP_PORT out of range: %d", c.SMTPPort)
	}
	return nil
}
