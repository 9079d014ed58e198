package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by the application.
const (
	StorageFile    = "file"
	StorageMemory  = "memory"
	StorageSurreal = "surreal"
)

// Credential verifiers understood by the application.
const (
	VerifierStatic  = "static"
	VerifierScript  = "script"
	VerifierSurreal = "surreal"
)

// Provider is the read-only view of the configuration that the rest of the
// application depends on.
type Provider interface {
	GetServerAddr() string
	GetSessionSecret() string
	GetLogFormat() string
	GetLogLevel() string
	GetStorageDriver() string
	GetStorageDir() string
	GetVerifier() string
	GetVerifierScript() string
	GetRedirectDelay() time.Duration
	GetRememberPrefill() bool
	GetFormIdleTimeout() time.Duration
	GetLoginRateLimit() int
	GetDBUrl() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBAccess() string
}

// Config holds all configuration for the application.
type Config struct {
	ServerAddr      string
	SessionSecret   string
	LogFormat       string
	LogLevel        string
	StorageDriver   string
	StorageDir      string
	Verifier        string
	VerifierScript  string
	RedirectDelay   time.Duration
	RememberPrefill bool
	FormIdleTimeout time.Duration
	// LoginRateLimit is the number of login POSTs allowed per client IP per minute.
	LoginRateLimit int

	DBUrl    string
	DBNs     string
	DBDb     string
	DBUser   string
	DBPass   string
	DBAccess string
}

// New loads configuration from environment variables, reading a .env file
// first when one is present.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	return &Config{
		ServerAddr:      getEnv("SERVER_ADDR", ":8080"),
		SessionSecret:   getEnv("SESSION_SECRET", "change-me-in-production"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		StorageDriver:   getEnv("STORAGE_DRIVER", StorageFile),
		StorageDir:      getEnv("STORAGE_DIR", ".loginpage"),
		Verifier:        getEnv("VERIFIER", VerifierStatic),
		VerifierScript:  os.Getenv("VERIFIER_SCRIPT"),
		RedirectDelay:   getDuration("REDIRECT_DELAY", time.Second),
		RememberPrefill: getBool("REMEMBER_PREFILL", false),
		FormIdleTimeout: getDuration("FORM_IDLE_TIMEOUT", 30*time.Minute),
		LoginRateLimit:  getInt("LOGIN_RATE_LIMIT", 10),
		DBUrl:           os.Getenv("SURREAL_URL"),
		DBNs:            os.Getenv("SURREAL_NS"),
		DBDb:            os.Getenv("SURREAL_DB"),
		DBUser:          os.Getenv("SURREAL_USER"),
		DBPass:          os.Getenv("SURREAL_PASS"),
		DBAccess:        getEnv("SURREAL_ACCESS", "account"),
	}
}

// Validate reports configuration combinations that cannot work.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageFile, StorageMemory, StorageSurreal:
	default:
		return errors.New("STORAGE_DRIVER must be one of file, memory, surreal")
	}
	switch c.Verifier {
	case VerifierStatic, VerifierSurreal:
	case VerifierScript:
		if c.VerifierScript == "" {
			return errors.New("VERIFIER_SCRIPT is required when VERIFIER=script")
		}
	default:
		return errors.New("VERIFIER must be one of static, script, surreal")
	}
	if c.usesSurreal() && (c.DBUrl == "" || c.DBNs == "" || c.DBDb == "") {
		return errors.New("SURREAL_URL, SURREAL_NS and SURREAL_DB are required for the surreal driver")
	}
	if c.RedirectDelay < 0 {
		return errors.New("REDIRECT_DELAY must not be negative")
	}
	if c.FormIdleTimeout <= 0 {
		return errors.New("FORM_IDLE_TIMEOUT must be positive")
	}
	if c.LoginRateLimit < 1 {
		return errors.New("LOGIN_RATE_LIMIT must be at least 1")
	}
	return nil
}

func (c *Config) usesSurreal() bool {
	return c.StorageDriver == StorageSurreal || c.Verifier == VerifierSurreal
}

func (c *Config) GetServerAddr() string             { return c.ServerAddr }
func (c *Config) GetSessionSecret() string          { return c.SessionSecret }
func (c *Config) GetLogFormat() string              { return c.LogFormat }
func (c *Config) GetLogLevel() string               { return c.LogLevel }
func (c *Config) GetStorageDriver() string          { return c.StorageDriver }
func (c *Config) GetStorageDir() string             { return c.StorageDir }
func (c *Config) GetVerifier() string               { return c.Verifier }
func (c *Config) GetVerifierScript() string         { return c.VerifierScript }
func (c *Config) GetRedirectDelay() time.Duration   { return c.RedirectDelay }
func (c *Config) GetRememberPrefill() bool          { return c.RememberPrefill }
func (c *Config) GetFormIdleTimeout() time.Duration { return c.FormIdleTimeout }
func (c *Config) GetLoginRateLimit() int            { return c.LoginRateLimit }
func (c *Config) GetDBUrl() string                  { return c.DBUrl }
func (c *Config) GetDBNs() string                   { return c.DBNs }
func (c *Config) GetDBDb() string                   { return c.DBDb }
func (c *Config) GetDBUser() string                 { return c.DBUser }
func (c *Config) GetDBPass() string                 { return c.DBPass }
func (c *Config) GetDBAccess() string               { return c.DBAccess }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s (%q), using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s (%q), using %t", key, v, fallback)
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid integer for %s (%q), using %d", key, v, fallback)
		return fallback
	}
	return n
}
