package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "CORS_ALLOWED_ORIGINS", "COMPLETION_PROVIDER", "GAIA_AGENT_API_KEY", "GAIA_AGENT_ENDPOINT",
		"GAIA_MODEL", "GAIA_EMBEDDING_MODEL", "COMPLETION_TIMEOUT", "EMBEDDING_TIMEOUT",
		"ARK_API_KEY", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_MODEL",
		"HISTORY_BACKEND", "HISTORY_SQLITE_PATH", "DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"METRICS_ENABLED", "METRICS_NAMESPACE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected origins: %v", cfg.Server.CORSOrigins)
	}
	if cfg.AI.Provider != ProviderGaia || cfg.AI.Enabled() {
		t.Fatalf("expected disabled gaia provider, got %+v", cfg.AI)
	}
	if cfg.AI.GaiaModel != "llama" || cfg.AI.GaiaEmbeddingModel != "nomic-embed" {
		t.Fatalf("unexpected models: %s / %s", cfg.AI.GaiaModel, cfg.AI.GaiaEmbeddingModel)
	}
	if cfg.AI.CompletionTimeout != 60*time.Second || cfg.AI.EmbeddingTimeout != 30*time.Second {
		t.Fatalf("unexpected timeouts: %s / %s", cfg.AI.CompletionTimeout, cfg.AI.EmbeddingTimeout)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Fatalf("unexpected backend: %s", cfg.Store.Backend)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "guardianlink" {
		t.Fatalf("unexpected metrics config: %+v", cfg.Metrics)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("GAIA_AGENT_API_KEY", "key")
	t.Setenv("GAIA_AGENT_ENDPOINT", "https://llama.gaia.domains/v1")
	t.Setenv("COMPLETION_TIMEOUT", "45")
	t.Setenv("EMBEDDING_TIMEOUT", "1500ms")
	t.Setenv("HISTORY_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.Server.CORSOrigins)
	}
	if !cfg.AI.Enabled() {
		t.Fatal("expected gaia provider to be enabled")
	}
	if cfg.AI.CompletionTimeout != 45*time.Second || cfg.AI.EmbeddingTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected timeouts: %s / %s", cfg.AI.CompletionTimeout, cfg.AI.EmbeddingTimeout)
	}
	cc := cfg.AI.CompletionConfig()
	if cc.APIKey != "key" || cc.Endpoint != "https://llama.gaia.domains/v1" {
		t.Fatalf("unexpected completion config: %+v", cc)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.RedisDB != 2 {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Metrics.Enabled {
		t.Fatal("expected metrics disabled")
	}
}

func TestLoadArkProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("COMPLETION_PROVIDER", "ark")
	t.Setenv("ARK_MODEL", "doubao")
	t.Setenv("ARK_ACCESS_KEY", "ak")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.AI.Enabled() {
		t.Fatal("expected ark disabled without secret key")
	}

	cfg.AI.ArkSecretKey = "sk"
	if !cfg.AI.Enabled() {
		t.Fatal("expected ark enabled with AK/SK")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                "80 80",
		"COMPLETION_PROVIDER": "openai",
		"COMPLETION_TIMEOUT":  "-5",
		"EMBEDDING_TIMEOUT":   "soon",
		"HISTORY_BACKEND":     "mongo",
		"REDIS_DB":            "one",
		"METRICS_ENABLED":     "maybe",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadPostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("HISTORY_BACKEND", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/guardianlink")
	if _, err := Load(); err != nil {
		t.Fatalf("Load err: %v", err)
	}
}
