package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI   string
	TelegramToken string
	AdminChatIDs  []int64
	DigestCron    string
	Env           string
	LogLevel      string
	SeedFile      string
}

func Load() (*Config, error) {
	// .env is optional in production
	_ = godotenv.Load()

	adminIDs, err := parseChatIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		AdminChatIDs:  adminIDs,
		DigestCron:    getEnvOrDefault("DIGEST_CRON", "0 8 * * *"),
		Env:           getEnvOrDefault("ENV", "development"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		SeedFile:      getEnvOrDefault("SEED_FILE", "seed-data.json"),
	}, nil
}

// IsProduction reports whether the portal runs in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_CHAT_IDS entry %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
