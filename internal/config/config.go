package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DefaultSystemPrompt keeps local models terse and nudges them toward the
// registered tools instead of guessing.
const DefaultSystemPrompt = "Be brief. If you need data, use the available tools."

const (
	DefaultBaseURL       = "http://127.0.0.1:11434/v1"
	DefaultAPIKey        = "local"
	DefaultModel         = "devstral:latest"
	DefaultMaxToolRounds = 8
)

type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	SystemPrompt   string
	MaxToolRounds  int
	Stream         bool
	UseTools       bool
	UnloadPrevious bool
	Debug          bool
	LogPath        string
}

// Load reads configuration from the environment, with an optional .env
// file overlay. Every setting has a workable default for a stock local
// Ollama install.
func Load() Config {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	return Config{
		BaseURL:        getEnv("OLLAMA_BASE_URL", DefaultBaseURL),
		APIKey:         getEnv("OLLAMA_API_KEY", DefaultAPIKey),
		Model:          getEnv("EMBER_MODEL", getEnv("OLLAMA_MODEL", DefaultModel)),
		SystemPrompt:   getEnv("EMBER_SYSTEM_PROMPT", DefaultSystemPrompt),
		MaxToolRounds:  getInt("EMBER_MAX_TOOL_ROUNDS", DefaultMaxToolRounds),
		Stream:         getBool("EMBER_STREAM", true),
		UseTools:       getBool("EMBER_TOOLS", true),
		UnloadPrevious: getBool("EMBER_UNLOAD_PREVIOUS", false),
		Debug:          getBool("EMBER_DEBUG", false),
		LogPath:        getEnv("EMBER_LOG_FILE", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
