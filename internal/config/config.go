package config

import (
	"log"
	"os"
	"strconv"
)

type Config struct {
	HTTPPort          string
	DatabaseDSN       string
	JWTSecret         string
	CORSOrigins       string
	GeminiAPIKey      string
	AllowRegistration bool
	// TaxRate is a fraction of the subtotal (0.12 = 12%). The store currently
	// runs tax-free, so the default keeps tax_amount at zero.
	TaxRate float64
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DB_DSN", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		AllowRegistration: os.Getenv("ALLOW_REGISTRATION") == "true",
		TaxRate:           getEnvFloat("TAX_RATE", 0),
	}

	if cfg.DatabaseDSN == "" {
		log.Fatal("DB_DSN not set. Please configure your database connection.")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not set. Refusing to start with an empty signing key.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Invalid %s=%q, using %v", key, v, def)
		return def
	}
	return f
}
