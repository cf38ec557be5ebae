package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	AppEnv string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret   string
	JWTTTLHours int

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers          []string
	KafkaApplicationTopic string
	KafkaReviewTopic      string
	KafkaGroupID          string

	// ✅ External providers (empty key = mock provider)
	WeatherAPIKey   string
	MarketPricesURL string
	GeminiAPIKey    string
	GeminiModel     string

	// ✅ FCM Config
	FCMCredentialsPath string

	RateLimitPerMinute int
	CORSOrigins        []string

	// Recommendation policy
	RecommendationThreshold int
	RecommendationLimit     int
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "production"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		JWTTTLHours: getEnvInt("JWT_TTL_HOURS", 24),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		KafkaBrokers:          splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaApplicationTopic: getEnv("KAFKA_APPLICATION_TOPIC", "farmer.applications"),
		KafkaReviewTopic:      getEnv("KAFKA_REVIEW_TOPIC", "farmer.application-reviews"),
		KafkaGroupID:          getEnv("KAFKA_GROUP_ID", "farmer-portal"),

		WeatherAPIKey:   firstNonEmpty(os.Getenv("OPENWEATHER_API_KEY"), os.Getenv("WEATHER_API_KEY")),
		MarketPricesURL: os.Getenv("MARKET_PRICES_URL"),
		GeminiAPIKey:    firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_GEMINI_API_KEY")),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		FCMCredentialsPath: os.Getenv("FCM_CREDENTIALS_PATH"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),

		RecommendationThreshold: getEnvInt("RECOMMENDATION_THRESHOLD", 50),
		RecommendationLimit:     getEnvInt("RECOMMENDATION_LIMIT", 5),
	}
}

// IsDevelopment reports whether verbose logging and gin debug mode should be on.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ Invalid integer for %s=%q, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
