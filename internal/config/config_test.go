package config

import (
	"fmt"
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Config_EnvironmentOverrideWorksCorrect(t *testing.T) {
	override := Config{
		Logger: LoggerConfig{
			LogLevel:   LevelDebug,
			AppName:    "overrideApp",
			OutputFile: "override.log",
		},
		AI: AIConfig{
			GeminiKey:                 "overrideGeminiKey",
			EmbeddingModel:            "embedding-001",
			EmbedMaxRequestsPerMinute: 88,
			EmbedMaxRequestsPerDay:    89,
			OpenAIKey:                 "overrideOpenAIKey",
			AnthropicKey:              "overrideAnthropicKey",
			OllamaURL:                 "http://localhost:11434",
		},
		DB: DBConfig{ConnectionString: "newConnectionString"},
		Search: SearchConfig{
			DefaultLimit:          42,
			ListingExpirationDays: 128,
		},
	}
	os.Setenv("CONFIG_PATH", "../../configs/config.yaml")

	os.Setenv("LOG_LEVEL", string(override.Logger.LogLevel))
	os.Setenv("APP_NAME", override.Logger.AppName)
	os.Setenv("LOG_OUTPUT_FILE", override.Logger.OutputFile)
	os.Setenv("GEMINI_KEY", override.AI.GeminiKey)
	os.Setenv("EMBEDDING_MODEL", override.AI.EmbeddingModel)
	os.Setenv("EMBED_MAX_REQUESTS_PER_MINUTE", fmt.Sprintf("%f", override.AI.EmbedMaxRequestsPerMinute))
	os.Setenv("EMBED_MAX_REQUESTS_PER_DAY", fmt.Sprintf("%f", override.AI.EmbedMaxRequestsPerDay))
	os.Setenv("OPENAI_API_KEY", override.AI.OpenAIKey)
	os.Setenv("ANTHROPIC_API_KEY", override.AI.AnthropicKey)
	os.Setenv("OLLAMA_BASE_URL", override.AI.OllamaURL)
	os.Setenv("DB_CONNECTION_STRING", override.DB.ConnectionString)
	os.Setenv("SEARCH_DEFAULT_LIMIT", strconv.Itoa(override.Search.DefaultLimit))
	os.Setenv("LISTING_EXPIRATION_DAYS", strconv.Itoa(override.Search.ListingExpirationDays))

	cfg := Get()

	assert.Equal(t, override.Logger.LogLevel, cfg.Logger.LogLevel)
	assert.Equal(t, override.Logger.AppName, cfg.Logger.AppName)
	assert.Equal(t, override.Logger.OutputFile, cfg.Logger.OutputFile)
	assert.Equal(t, override.AI.GeminiKey, cfg.AI.GeminiKey)
	assert.Equal(t, override.AI.EmbeddingModel, cfg.AI.EmbeddingModel)
	assert.Equal(t, override.AI.EmbedMaxRequestsPerMinute, cfg.AI.EmbedMaxRequestsPerMinute)
	assert.Equal(t, override.AI.EmbedMaxRequestsPerDay, cfg.AI.EmbedMaxRequestsPerDay)
	assert.Equal(t, override.AI.OpenAIKey, cfg.AI.OpenAIKey)
	assert.Equal(t, override.AI.AnthropicKey, cfg.AI.AnthropicKey)
	assert.Equal(t, override.AI.OllamaURL, cfg.AI.OllamaURL)
	assert.Equal(t, override.DB.ConnectionString, cfg.DB.ConnectionString)
	assert.Equal(t, override.Search.DefaultLimit, cfg.Search.DefaultLimit)
	assert.Equal(t, override.Search.ListingExpirationDays, cfg.Search.ListingExpirationDays)
}
