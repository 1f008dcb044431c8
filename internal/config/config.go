package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/guardianlink/backend/internal/service/completion"
)

// Config aggregates all service settings.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Store   StoreConfig
	Metrics MetricsConfig
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig()
	if err != nil {
		return nil, err
	}

	metrics, err := loadMetricsConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Store: store, Metrics: metrics}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr        string
	CORSOrigins []string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	origins := splitList(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if strings.Contains(port, ":") {
		// ":8080" or "127.0.0.1:8080" are taken as-is.
		return ServerConfig{Addr: port, CORSOrigins: origins}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, CORSOrigins: origins}, nil
}

// Provider selects the completion backend.
type Provider string

const (
	ProviderGaia Provider = "gaia"
	ProviderArk  Provider = "ark"
)

// AIConfig describes the completion provider.
type AIConfig struct {
	Provider Provider

	GaiaAPIKey         string
	GaiaEndpoint       string
	GaiaModel          string
	GaiaEmbeddingModel string

	CompletionTimeout time.Duration
	EmbeddingTimeout  time.Duration

	ArkAPIKey    string
	ArkAccessKey string
	ArkSecretKey string
	ArkModel     string
	ArkBaseURL   string
	ArkRegion    string
}

// Enabled reports whether the selected provider has the credentials it needs.
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	default:
		return c.GaiaAPIKey != "" && c.GaiaEndpoint != ""
	}
}

// CompletionConfig returns the settings of the OpenAI-compatible client.
func (c AIConfig) CompletionConfig() completion.Config {
	return completion.Config{
		APIKey:            c.GaiaAPIKey,
		Endpoint:          c.GaiaEndpoint,
		Model:             c.GaiaModel,
		EmbeddingModel:    c.GaiaEmbeddingModel,
		CompletionTimeout: c.CompletionTimeout,
		EmbeddingTimeout:  c.EmbeddingTimeout,
	}
}

// NewChatModel creates the Ark chat model.
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	if c.ArkModel == "" || (c.ArkAPIKey == "" && (c.ArkAccessKey == "" || c.ArkSecretKey == "")) {
		return nil, fmt.Errorf("ark credentials missing: set ARK_MODEL and ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY")
	}

	return ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   c.ArkBaseURL,
		Region:    c.ArkRegion,
		APIKey:    c.ArkAPIKey,
		AccessKey: c.ArkAccessKey,
		SecretKey: c.ArkSecretKey,
		Model:     c.ArkModel,
	})
}

func loadAIConfig() (AIConfig, error) {
	provider := Provider(strings.ToLower(getEnvOrDefault("COMPLETION_PROVIDER", string(ProviderGaia))))
	if provider != ProviderGaia && provider != ProviderArk {
		return AIConfig{}, fmt.Errorf("invalid COMPLETION_PROVIDER value %q", provider)
	}

	completionTimeout, err := parseDurationEnv("COMPLETION_TIMEOUT", completion.DefaultCompletionTimeout)
	if err != nil {
		return AIConfig{}, err
	}

	embeddingTimeout, err := parseDurationEnv("EMBEDDING_TIMEOUT", completion.DefaultEmbeddingTimeout)
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:           provider,
		GaiaAPIKey:         strings.TrimSpace(os.Getenv("GAIA_AGENT_API_KEY")),
		GaiaEndpoint:       strings.TrimSpace(os.Getenv("GAIA_AGENT_ENDPOINT")),
		GaiaModel:          getEnvOrDefault("GAIA_MODEL", completion.DefaultModel),
		GaiaEmbeddingModel: getEnvOrDefault("GAIA_EMBEDDING_MODEL", completion.DefaultEmbeddingModel),
		CompletionTimeout:  completionTimeout,
		EmbeddingTimeout:   embeddingTimeout,
		ArkAPIKey:          strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey:       strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey:       strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:           strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:         getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:          getEnvOrDefault("ARK_REGION", "cn-beijing"),
	}, nil
}

// Backend names a chat-history store implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendRedis    Backend = "redis"
)

// StoreConfig selects and configures the chat-history store.
type StoreConfig struct {
	Backend       Backend
	SQLitePath    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func loadStoreConfig() (StoreConfig, error) {
	backend := Backend(strings.ToLower(getEnvOrDefault("HISTORY_BACKEND", string(BackendMemory))))
	switch backend {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
	default:
		return StoreConfig{}, fmt.Errorf("invalid HISTORY_BACKEND value %q", backend)
	}

	redisDB := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err != nil {
		return StoreConfig{}, err
	} else if override != nil {
		redisDB = *override
	}

	cfg := StoreConfig{
		Backend:       backend,
		SQLitePath:    getEnvOrDefault("HISTORY_SQLITE_PATH", "data/guardianlink.db"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
	}
	if backend == BackendPostgres && cfg.DatabaseURL == "" {
		return StoreConfig{}, fmt.Errorf("DATABASE_URL is required when HISTORY_BACKEND=postgres")
	}
	return cfg, nil
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool
	Namespace string
}

func loadMetricsConfig() (MetricsConfig, error) {
	enabled, err := parseBoolEnv("METRICS_ENABLED", true)
	if err != nil {
		return MetricsConfig{}, err
	}
	return MetricsConfig{
		Enabled:   enabled,
		Namespace: getEnvOrDefault("METRICS_NAMESPACE", "guardianlink"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

// parseDurationEnv accepts Go durations ("45s") or whole seconds ("45").
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	if secs, err := strconv.Atoi(raw); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
		}
		return time.Duration(secs) * time.Second, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return val, nil
}
