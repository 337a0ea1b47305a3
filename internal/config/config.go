package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	ServerPort    string
	SessionSecret string

	// Only addresses under this domain may sign in.
	AllowedEmailDomain string

	SuperAdminEmail string
	SuperAdminName  string

	OTPTTL time.Duration

	MailHost     string
	MailPort     int
	MailUsername string
	MailPassword string
	MailFrom     string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:              os.Getenv("DB_DSN"),
		ServerPort:         os.Getenv("SERVER_PORT"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		AllowedEmailDomain: os.Getenv("ALLOWED_EMAIL_DOMAIN"),
		SuperAdminEmail:    os.Getenv("SUPER_ADMIN_EMAIL"),
		SuperAdminName:     os.Getenv("SUPER_ADMIN_NAME"),
		MailHost:           os.Getenv("MAIL_HOST"),
		MailUsername:       os.Getenv("MAIL_USERNAME"),
		MailPassword:       os.Getenv("MAIL_PASSWORD"),
		MailFrom:           os.Getenv("MAIL_FROM"),
	}

	if cfg.DBDSN == "" {
		log.Fatal("DB_DSN is not set")
	}
	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set")
	}
	if cfg.AllowedEmailDomain == "" {
		cfg.AllowedEmailDomain = "accenture.com"
	}
	if cfg.SuperAdminEmail == "" {
		log.Fatal("SUPER_ADMIN_EMAIL is not set")
	}
	if cfg.SuperAdminName == "" {
		cfg.SuperAdminName = "Super Admin"
	}

	ttlMinutes := 10
	if v := os.Getenv("OTP_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttlMinutes = n
		}
	}
	cfg.OTPTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.MailPort = 587
	if v := os.Getenv("MAIL_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MailPort = n
		}
	}
	if cfg.MailHost == "" {
		cfg.MailHost = "smtp.office365.com"
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = "SkillHive <noreply@" + cfg.AllowedEmailDomain + ">"
	}

	return cfg
}
