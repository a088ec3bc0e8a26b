package config

import (
	"os"
	"strconv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	AppEnv     string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	AdminUsername   string
	AdminPassword   string
	SessionTTLHours int

	ExchangeAPIURL string
	NewsAPIKey     string
	WeatherAPIKey  string
	WeatherCity    string
	CarSpecsAPIKey string

	ImageDir string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		AppEnv:     getEnv("APP_ENV", "development"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/carfleet?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),

		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
		SessionTTLHours: getEnvInt("SESSION_TTL_HOURS", 24),

		ExchangeAPIURL: getEnv("EXCHANGE_API_URL", "https://api.exchangerate-api.com/v4/latest"),
		NewsAPIKey:     os.Getenv("NEWS_API_KEY"),
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
		WeatherCity:    getEnv("WEATHER_CITY", "Astana"),
		CarSpecsAPIKey: os.Getenv("CAR_SPECS_API_KEY"),

		ImageDir: getEnv("IMAGE_DIR", "public/car-images"),
	}
}

// IsDevelopment reports whether detailed errors may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
