package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is built once at startup and passed into constructors; request
// handlers never read the environment directly.
type Config struct {
	ServerPort string
	MongoURI   string
	MongoDB    string
	JWTSecret  string

	AzureEndpoint   string
	AzureAPIKey     string
	AzureDeployment string
	AzureAPIVersion string
	AITimeout       time.Duration
}

const defaultAITimeout = 60 * time.Second

func Load() (*Config, error) {
	// .env is optional; containers usually supply real environment variables
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:      os.Getenv("SERVER_PORT"),
		MongoURI:        os.Getenv("MONGO_URI"),
		MongoDB:         os.Getenv("MONGO_DB"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AzureEndpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
		AzureAPIKey:     os.Getenv("AZURE_OPENAI_API_KEY"),
		AzureDeployment: os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME"),
		AzureAPIVersion: os.Getenv("AZURE_OPENAI_API_VERSION"),
		AITimeout:       defaultAITimeout,
	}

	required := []struct {
		name, value string
	}{
		{"SERVER_PORT", cfg.ServerPort},
		{"MONGO_URI", cfg.MongoURI},
		{"MONGO_DB", cfg.MongoDB},
		{"JWT_SECRET", cfg.JWTSecret},
		{"AZURE_OPENAI_ENDPOINT", cfg.AzureEndpoint},
		{"AZURE_OPENAI_API_KEY", cfg.AzureAPIKey},
		{"AZURE_OPENAI_DEPLOYMENT_NAME", cfg.AzureDeployment},
		{"AZURE_OPENAI_API_VERSION", cfg.AzureAPIVersion},
	}
	for _, env := range required {
		if env.value == "" {
			return nil, fmt.Errorf("environment variable %s must be set", env.name)
		}
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if raw := os.Getenv("AI_TIMEOUT_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return nil, fmt.Errorf("AI_TIMEOUT_SECONDS must be a positive integer, got %q", raw)
		}
		cfg.AITimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}
