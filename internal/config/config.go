package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv         string
	Port           string
	FrontendURL    string
	AllowedOrigins []string

	// Detection
	ScorerURL      string
	RulesPath      string
	MLWeight       float64
	RuleWeight     float64
	AlertThreshold float64
	ScorerTimeout  time.Duration

	// Alert storage
	MongoURI     string
	AlertBackend string // "mongo" or "mysql"
	AlertDBUser  string
	AlertDBPass  string
	AlertDBHost  string
	AlertDBName  string

	// Replay
	ReplayPath     string
	ReplayInterval time.Duration

	// Security
	JWTSecret string
}

func Load() *Config {
	appEnv := getEnv("APP_ENV", "development")

	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")
	origins := strings.Split(frontendURL, ",")
	if appEnv == "development" {
		origins = append(origins, "http://localhost:3000")
	}

	return &Config{
		AppEnv:         appEnv,
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    frontendURL,
		AllowedOrigins: origins,

		ScorerURL:      getEnv("SCORER_URL", "http://ml_scorer:8000"),
		RulesPath:      getEnv("RULES_PATH", "rules/rules.yaml"),
		MLWeight:       getEnvFloat("ML_WEIGHT", 0.6),
		RuleWeight:     getEnvFloat("RULE_WEIGHT", 0.4),
		AlertThreshold: getEnvFloat("ALERT_THRESHOLD", 0.7),
		ScorerTimeout:  getEnvDuration("SCORER_TIMEOUT", 2*time.Second),

		MongoURI:     getEnv("MONGO_URI", "mongodb://mongo:27017"),
		AlertBackend: getEnv("ALERT_BACKEND", "mongo"),
		AlertDBUser:  getEnv("ALERT_DB_USER", "hids"),
		AlertDBPass:  getEnv("ALERT_DB_PASS", "hids_password"),
		AlertDBHost:  getEnv("ALERT_DB_HOST", "alert_sql_db"),
		AlertDBName:  getEnv("ALERT_DB_NAME", "hids"),

		ReplayPath:     getEnv("REPLAY_PATH", ""),
		ReplayInterval: getEnvDuration("REPLAY_INTERVAL", time.Second),

		JWTSecret: getEnv("JWT_SECRET", "super_secret_hids_key_change_me"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
