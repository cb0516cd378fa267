package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIPort  string
	LogLevel string

	CorpusDir string
	IndexDir  string

	ChunkSize    int
	ChunkOverlap int
	TopK         int

	EmbedderBackend string
	EmbedBatchSize  int

	OllamaURL        string
	OllamaEmbedModel string

	OpenAIEmbedModel string
	OpenAIBaseURL    string

	GeminiBaseURL     string
	GeminiModel       string
	GeminiAPIKey      string
	GeminiTemperature float64
	GeminiMaxTokens   int

	PromptTokenBudget int

	APIRateLimitRPS   int
	APIRateLimitBurst int
	APIMaxConcurrent  int
}

// Load reads configuration from the environment, with a best-effort .env
// file so local runs don't need exported variables.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		CorpusDir: mustEnv("CORPUS_DIR", "./corpus"),
		IndexDir:  mustEnv("INDEX_DIR", "./data/index"),

		ChunkSize:    mustEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: mustEnvInt("CHUNK_OVERLAP", 200),
		TopK:         mustEnvInt("RAG_TOP_K", 5),

		EmbedderBackend: mustEnv("EMBEDDER_BACKEND", "ollama"),
		EmbedBatchSize:  mustEnvInt("EMBED_BATCH_SIZE", 64),

		OllamaURL:        mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaEmbedModel: mustEnv("OLLAMA_EMBED_MODEL", "all-minilm"),

		OpenAIEmbedModel: mustEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),
		OpenAIBaseURL:    mustEnv("OPENAI_BASE_URL", ""),

		GeminiBaseURL:     mustEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:       mustEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiAPIKey:      mustEnv("GOOGLE_API_KEY", ""),
		GeminiTemperature: mustEnvFloat("GEMINI_TEMPERATURE", 0.3),
		GeminiMaxTokens:   mustEnvInt("GEMINI_MAX_TOKENS", 2048),

		PromptTokenBudget: mustEnvInt("PROMPT_TOKEN_BUDGET", 3000),

		APIRateLimitRPS:   mustEnvInt("API_RATE_LIMIT_RPS", 10),
		APIRateLimitBurst: mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxConcurrent:  mustEnvInt("API_MAX_CONCURRENT", 8),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
