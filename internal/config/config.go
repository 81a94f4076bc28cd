package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Groq (moderation + ideation model)
	GroqAPIKey      string
	GroqAPIURL      string
	GroqModel       string
	GroqTemperature float64
	AITimeout       time.Duration

	// Chat
	ChatHistoryLimit int

	// Knowledge bases (directories of .txt/.md files)
	IdeiaKnowledgeDir     string
	FiltradorKnowledgeDir string

	// Server
	Port        string
	CORSOrigins string
}

// OrchestrateConfig configures the watsonx Orchestrate companion client.
// All identifiers are required: the orchestrate client has no degraded mode.
type OrchestrateConfig struct {
	APIKey          string
	BaseURL         string
	AgentID         string
	IAMURL          string
	ThreadStorePath string
	ConversationDir string
}

// Load reads the server configuration from the environment, loading a .env
// file first when one is present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "sandbox_ideas"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		GroqAPIKey:      getEnv("GROQ_API_KEY", ""),
		GroqAPIURL:      getEnv("GROQ_API_URL", "https://api.groq.com/openai/v1/chat/completions"),
		GroqModel:       getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		GroqTemperature: parseFloat(getEnv("GROQ_TEMPERATURE", "0.2"), 0.2),
		AITimeout:       parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		ChatHistoryLimit: parseInt(getEnv("CHAT_HISTORY_LIMIT", "10"), 10),

		IdeiaKnowledgeDir:     getEnv("IDEIA_KNOWLEDGE_DIR", "knowledge/ideia"),
		FiltradorKnowledgeDir: getEnv("FILTRADOR_KNOWLEDGE_DIR", "knowledge/filtrador"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// LoadOrchestrate reads the orchestrate client configuration. Missing
// identifiers are a startup error, not a degraded mode.
func LoadOrchestrate() (*OrchestrateConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	cfg := &OrchestrateConfig{
		APIKey:          strings.TrimSpace(os.Getenv("IBM_CLOUD_API_KEY")),
		BaseURL:         strings.TrimRight(strings.TrimSpace(os.Getenv("WXO_BASE_URL")), "/"),
		AgentID:         strings.TrimSpace(os.Getenv("WXO_AGENT_ID")),
		IAMURL:          getEnv("IAM_URL", "https://iam.cloud.ibm.com/identity/token"),
		ThreadStorePath: getEnv("WXO_THREAD_STORE", ".orchestrate_threads.json"),
		ConversationDir: getEnv("WXO_CONVERSATION_DIR", "conversas"),
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("IBM_CLOUD_API_KEY is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("WXO_BASE_URL is required")
	}
	if cfg.AgentID == "" {
		return nil, fmt.Errorf("WXO_AGENT_ID is required")
	}

	// IBM Cloud serves the orchestrate API under /v1.
	if !strings.HasSuffix(cfg.BaseURL, "/v1") {
		cfg.BaseURL += "/v1"
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
