package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string

	GuessLimit   int
	PointsPerHit int

	ReminderInterval time.Duration

	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string
}

// Rules is the immutable game tuning handed to the game service at
// construction. Images is indexed by miss count: Images[0] is the start
// illustration, Images[n] the illustration after n misses.
type Rules struct {
	GuessLimit   int
	PointsPerHit int
	Images       []string
}

// defaultImages is the classic seven-step gallows drawing.
var defaultImages = []string{
	"//upload.wikimedia.org/wikipedia/commons/thumb/8/8b/Hangman-0.png/60px-Hangman-0.png",
	"//upload.wikimedia.org/wikipedia/commons/thumb/8/8b/Hangman-0.png/60px-Hangman-1.png",
	"//upload.wikimedia.org/wikipedia/commons/thumb/8/8b/Hangman-0.png/60px-Hangman-2.png",
	"//upload.wikimedia.org/wikipedia/commons/thumb/8/8b/Hangman-0.png/60px-Hangman-3.png",
	"//upload.wikimedia.org/wikipedia/commons/thumb/8/8b/Hangman-0.png/60px-Hangman-4.png",
	"//upload.wikimedia.org/wikipedia/commons/thumb/8/8b/Hangman-0.png/60px-Hangman-5.png",
	"//upload.wikimedia.org/wikipedia/commons/thumb/8/8b/Hangman-0.png/60px-Hangman-6.png",
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort:       getEnv("PORT", "8080"),
		DatabaseType:     getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:      getEnv("DB_URL", ""),
		DatabasePath:     getEnv("DB_PATH", "./wordgallows.db"),
		MigrationsPath:   getEnv("MIGRATIONS_PATH", "./migrations"),
		GuessLimit:       getEnvInt("GUESS_LIMIT", 6),
		PointsPerHit:     getEnvInt("POINTS_PER_HIT", 2),
		ReminderInterval: getEnvDuration("REMINDER_INTERVAL", 24*time.Hour),
		AWSRegion:        getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:     getEnv("SES_FROM_EMAIL", ""),
		SESFromName:      getEnv("SES_FROM_NAME", "Wordgallows"),
		AppBaseURL:       getEnv("APP_BASE_URL", "http://localhost:8080"),
	}
}

// GameRules builds the immutable rule set from the loaded configuration.
func (c *Config) GameRules() Rules {
	return Rules{
		GuessLimit:   c.GuessLimit,
		PointsPerHit: c.PointsPerHit,
		Images:       defaultImages,
	}
}

// StartImage returns the illustration for a game with no misses yet.
func (r Rules) StartImage() string {
	if len(r.Images) == 0 {
		return ""
	}
	return r.Images[0]
}

// ImageFor returns the illustration for the given miss count, clamped to
// the last available step.
func (r Rules) ImageFor(missCount int) string {
	if len(r.Images) == 0 {
		return ""
	}
	if missCount < 0 {
		missCount = 0
	}
	if missCount >= len(r.Images) {
		missCount = len(r.Images) - 1
	}
	return r.Images[missCount]
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
