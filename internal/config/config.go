package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Config struct {
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	PlayStoreFeedURL string
	PlayStoreAppID   string
	AppStoreAppID    string
	CSVPath          string

	UsePlayStore bool
	UseAppStore  bool
	UseCSV       bool
	ForceRefresh bool

	DataDir    string
	ReportsDir string

	CacheTTL       time.Duration
	BatchSize      int
	InterCallDelay time.Duration
	MaxRetries     int
	PageCap        int

	LogLevel string
}

func Load() *Config {
	return &Config{
		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),

		PlayStoreFeedURL: getEnv("PLAY_STORE_FEED_URL", ""),
		PlayStoreAppID:   getEnv("GOOGLE_PLAY_APP_ID", "com.whatsapp"),
		AppStoreAppID:    getEnv("APPSTORE_APP_ID", "310633997"),
		CSVPath:          getEnv("SURVEY_CSV_PATH", ""),

		UsePlayStore: getEnvAsBool("USE_PLAY_STORE", true),
		UseAppStore:  getEnvAsBool("USE_APP_STORE", true),
		UseCSV:       getEnvAsBool("USE_CSV", true),
		ForceRefresh: getEnvAsBool("FORCE_REFRESH", false),

		DataDir:    getEnv("DATA_DIR", "data"),
		ReportsDir: getEnv("REPORTS_DIR", "reports"),

		CacheTTL:       getEnvAsDuration("CACHE_TTL", 2*time.Hour),
		BatchSize:      getEnvAsInt("BATCH_SIZE", 5),
		InterCallDelay: getEnvAsDuration("INTER_CALL_DELAY", 2500*time.Millisecond),
		MaxRetries:     getEnvAsInt("MAX_RETRIES", 4),
		PageCap:        getEnvAsInt("PAGE_CAP", 5),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// CachePath is where the merged review snapshot lives.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "reviews_cache.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
