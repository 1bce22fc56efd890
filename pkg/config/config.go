package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	// Identity provider (Appwrite). Account verification authenticates with
	// the user's session JWT only; no server API key is needed.
	AppwriteEndpoint  string
	AppwriteProjectID string

	// Generative model (Gemini)
	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// Extraction call budget, seconds
	ExtractTimeoutSeconds int

	LogLevel string
	LogJSON  bool

	// Optional rotated log file; empty LogFile means stderr only
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// Load reads environment variables, optionally from a .env file if present.
func Load() Config {
	// Try to load .env if it exists; ignore error if file not found
	_ = godotenv.Load()

	cfg := Config{
		Port:                  getEnv("PORT", "8080"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		AppwriteEndpoint:      getEnv("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1"),
		AppwriteProjectID:     os.Getenv("APPWRITE_PROJECT_ID"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:         os.Getenv("GEMINI_BASE_URL"),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		ExtractTimeoutSeconds: getEnvInt("EXTRACT_TIMEOUT_SECONDS", 60),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogJSON:               getEnvBool("LOG_JSON", false),
		LogFile:               os.Getenv("LOG_FILE"),
		LogMaxSizeMB:          getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:         getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:         getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:           getEnvBool("LOG_COMPRESS", false),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
