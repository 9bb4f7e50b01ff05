package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port        int
	DatabaseURL string
	EventsTable string
	LogLevel    string

	KnowledgeBaseID string
	KBEndpoint      string
	ModelID         string
	ModelAPIKey     string
	ModelEndpoint   string
	Region          string

	NatsURL   string
	NatsToken string
	APIToken  string
}

func Load() Config {
	region := envStr("AWS_REGION", envStr("REGION", "us-east-1"))
	return Config{
		Port:        envInt("FAIRBOT_PORT", 8780),
		DatabaseURL: envStr("DATABASE_URL", ""),
		EventsTable: envStr("EVENTS_TABLE", "fairbot_agent_history"),
		LogLevel:    envStr("LOG_LEVEL", "info"),

		KnowledgeBaseID: envStr("KB_ID", ""),
		KBEndpoint:      envStr("KB_ENDPOINT", fmt.Sprintf("https://kb-runtime.%s.fairental.net", region)),
		ModelID:         envStr("MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0"),
		ModelAPIKey:     envStr("MODEL_API_KEY", ""),
		ModelEndpoint:   envStr("MODEL_ENDPOINT", "https://api.anthropic.com/v1/messages"),
		Region:          region,

		NatsURL:   envStr("NATS_URL", ""),
		NatsToken: envStr("NATS_TOKEN", ""),
		APIToken:  envStr("API_TOKEN", ""),
	}
}

// Validate checks the required values. The server refuses to start without
// them rather than failing on the first request.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.KnowledgeBaseID == "" {
		return fmt.Errorf("KB_ID is required")
	}
	if c.ModelAPIKey == "" {
		return fmt.Errorf("MODEL_API_KEY is required")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
