package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Config holds everything read from the environment at startup. It is built
// once in main and never mutated afterwards.
type Config struct {
	Port    string
	GinMode string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// JWTSecret signs staff session tokens.
	JWTSecret string
	// TableTokenSecret signs table QR capability tokens. Falls back to
	// JWTSecret when unset so single-secret deployments keep working.
	TableTokenSecret string
	// TableTokenTTL is the default lifetime of issued QR tokens. Zero means
	// tokens never expire.
	TableTokenTTL time.Duration

	// BaseURL is used to build scannable QR URLs for tables.
	BaseURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		GinMode:          getEnv("GIN_MODE", "debug"),
		DBUser:           getEnv("DB_USER", "root"),
		DBPass:           getEnv("DB_PASS", ""),
		DBHost:           getEnv("DB_HOST", "127.0.0.1"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBName:           getEnv("DB_NAME", "backoffice"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		TableTokenSecret: getEnv("TABLE_TOKEN_SECRET", ""),
		BaseURL:          getEnv("BASE_URL", "http://localhost:8080"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.TableTokenSecret == "" {
		cfg.TableTokenSecret = cfg.JWTSecret
	}

	if raw := os.Getenv("TABLE_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("invalid TABLE_TOKEN_TTL %q: %v", raw, err)
		}
		cfg.TableTokenTTL = ttl
	}

	return cfg
}

func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
