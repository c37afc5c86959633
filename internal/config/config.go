package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Storage engines
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the process configuration read from the environment
type Config struct {
	ServerPort    string
	GinMode       string
	AllowedOrigin string
	CookieSecure  bool

	JWTSecret          string
	JWTExpirationHours int64

	DB DBConfig

	// InitialAdmin is seeded at startup when Identification and Password are set
	InitialAdmin AdminSeed
}

// AdminSeed describes the bootstrap administrator
type AdminSeed struct {
	Identification string
	Password       string
	FirstName      string
	LastName       string
}

// Enabled reports whether enough fields are set to seed an admin
func (a AdminSeed) Enabled() bool {
	return a.Identification != "" && a.Password != ""
}

// Load reads .env when present and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only
func FromEnv() (*Config, error) {
	cfg := &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		GinMode:            os.Getenv("GIN_MODE"),
		AllowedOrigin:      getEnv("CORS_ALLOWED_ORIGIN", "*"),
		CookieSecure:       getBool("COOKIE_SECURE", false),
		JWTSecret:          os.Getenv("JWT_SECRET_KEY"),
		JWTExpirationHours: int64(getInt("JWT_EXPIRATION_HOURS", 1)),
		InitialAdmin: AdminSeed{
			Identification: strings.TrimSpace(os.Getenv("INITIAL_ADMIN_IDENTIFICACION")),
			Password:       os.Getenv("INITIAL_ADMIN_CONTRASENA"),
			FirstName:      getEnv("INITIAL_ADMIN_NOMBRE", "Administrador"),
			LastName:       getEnv("INITIAL_ADMIN_APELLIDO", "Principal"),
		},
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET_KEY not set in environment")
	}
	if cfg.JWTExpirationHours <= 0 {
		log.Printf("INFO: JWT_EXPIRATION_HOURS must be positive, defaulting to 1")
		cfg.JWTExpirationHours = 1
	}

	db, err := LoadDBConfig()
	if err != nil {
		return nil, err
	}
	cfg.DB = *db
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("INFO: Invalid %s %q, defaulting to %d: %v", key, raw, fallback, err)
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("INFO: Invalid %s %q, defaulting to %t: %v", key, raw, fallback, err)
		return fallback
	}
	return v
}
