package config

import (
	"testing"
	"time"
)

func baseConfig() *Config {
	return &Config{
		Server: ServerConfig{RunTimeout: 15 * time.Minute},
		Chunking: ChunkingConfig{
			TargetBlockDuration:  30 * time.Minute,
			MinLastBlockDuration: 10 * time.Minute,
		},
		Scoring: ScoringConfig{
			APIKey:         "sk-test",
			Mode:           ModeLenient,
			Concurrency:    3,
			RequestTimeout: time.Minute,
		},
		AssemblyAI: AssemblyAIConfig{APIKey: "aai-test"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"strict mode accepted", func(c *Config) { c.Scoring.Mode = ModeStrict }, false},
		{"missing scoring key", func(c *Config) { c.Scoring.APIKey = "" }, true},
		{"missing assemblyai key is allowed", func(c *Config) { c.AssemblyAI.APIKey = "" }, false},
		{"unknown mode", func(c *Config) { c.Scoring.Mode = "best-effort" }, true},
		{"zero target duration", func(c *Config) { c.Chunking.TargetBlockDuration = 0 }, true},
		{"zero concurrency", func(c *Config) { c.Scoring.Concurrency = 0 }, true},
		{"request timeout not below run timeout", func(c *Config) { c.Scoring.RequestTimeout = 20 * time.Minute }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SCORING_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Chunking.TargetBlockDuration != 30*time.Minute {
		t.Errorf("TargetBlockDuration = %v, want 30m", cfg.Chunking.TargetBlockDuration)
	}
	if cfg.Chunking.MinLastBlockDuration != 10*time.Minute {
		t.Errorf("MinLastBlockDuration = %v, want 10m", cfg.Chunking.MinLastBlockDuration)
	}
	if cfg.Scoring.Concurrency != 3 {
		t.Errorf("Concurrency = %d, want 3", cfg.Scoring.Concurrency)
	}
	if cfg.Scoring.Mode != ModeLenient {
		t.Errorf("Mode = %q, want %q", cfg.Scoring.Mode, ModeLenient)
	}
	if cfg.Scoring.RequestTimeout >= cfg.Server.RunTimeout {
		t.Errorf("RequestTimeout %v should be below RunTimeout %v", cfg.Scoring.RequestTimeout, cfg.Server.RunTimeout)
	}
}

func TestGetRedisAddr(t *testing.T) {
	cfg := &Config{Redis: RedisConfig{Host: "cache.internal", Port: "6380"}}
	if got := cfg.GetRedisAddr(); got != "cache.internal:6380" {
		t.Errorf("GetRedisAddr() = %q, want %q", got, "cache.internal:6380")
	}
}
