package userhub

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every setting the service and its collaborators need.
// It is built once (ConfigFromEnv or by hand) and passed in at
// construction time; handlers never reach into the environment.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string

	// BaseURL is the externally visible origin used when building
	// verification links.
	BaseURL string

	// DatabaseDSN is the DSN for the gorm-backed store (cmd only).
	DatabaseDSN string

	// JWTSecretKey signs session tokens (HS256).
	JWTSecretKey string

	// SessionTokenTTL is the fixed session token expiry.
	SessionTokenTTL time.Duration

	// PublicDir is the root of statically served files. Avatars land in
	// PublicDir/avatars and are addressable at /avatars/<id>.<ext>.
	PublicDir string

	// UploadDir is where multipart uploads are staged before processing.
	UploadDir string

	// SMTP settings for the mail sender. When Host is empty the service
	// falls back to the console mailer.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// EnsureDefaults fills in reasonable values for anything left unset.
func (c *Config) EnsureDefaults() *Config {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:3000"
	}
	if c.SessionTokenTTL <= 0 {
		c.SessionTokenTTL = time.Hour
	}
	if c.PublicDir == "" {
		c.PublicDir = "public"
	}
	if c.UploadDir == "" {
		c.UploadDir = os.TempDir()
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.JWTSecretKey == "" {
		c.JWTSecretKey = strings.TrimSpace(os.Getenv("USERHUB_JWT_SECRET_KEY"))
	}
	return c
}

// ConfigFromEnv builds a Config from USERHUB_* environment variables and
// applies defaults.
func ConfigFromEnv() *Config {
	cfg := &Config{
		Addr:         os.Getenv("USERHUB_ADDR"),
		BaseURL:      os.Getenv("USERHUB_BASE_URL"),
		DatabaseDSN:  os.Getenv("USERHUB_DATABASE_DSN"),
		JWTSecretKey: os.Getenv("USERHUB_JWT_SECRET_KEY"),
		PublicDir:    os.Getenv("USERHUB_PUBLIC_DIR"),
		UploadDir:    os.Getenv("USERHUB_UPLOAD_DIR"),
		SMTPHost:     os.Getenv("USERHUB_SMTP_HOST"),
		SMTPUsername: os.Getenv("USERHUB_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("USERHUB_SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("USERHUB_SMTP_FROM"),
	}
	if port := os.Getenv("USERHUB_SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.SMTPPort = p
		}
	}
	return cfg.EnsureDefaults()
}
