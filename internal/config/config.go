package config

import (
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	MySQLDSN   string `env:"MYSQL_DSN" envDefault:"user:password@tcp(localhost:3306)/consignparts?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret string `env:"JWT_SECRET" envDefault:"change-me"`

	// SMTP settings for welcome / password-reset / part-sold mail.
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailSender   string `env:"MAIL_SENDER"`
	// SalesNotifyAddr receives part-sold notifications.
	SalesNotifyAddr string `env:"SALES_NOTIFY_ADDR" envDefault:"sales@example.com"`

	// BaseURL is used to build password-reset links in outgoing mail.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from a .env file (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	if cfg.MailSender == "" {
		cfg.MailSender = cfg.SMTPUsername
	}
	return cfg
}
