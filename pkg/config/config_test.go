package config

import (
	"testing"
	"time"
)

func TestNormalizeProvider(t *testing.T) {
	cases := []struct {
		raw  string
		want Provider
	}{
		{"on_device", ProviderOnDevice},
		{"ondevice", ProviderOnDevice},
		{"local", ProviderOnDevice},
		{"apple_intelligence", ProviderOnDevice},
		{"foundation_models", ProviderOnDevice},
		{"cloud", ProviderCloud},
		{"cloud_aggregator", ProviderCloud},
		{"openrouter", ProviderCloud},
		{"groq", ProviderCloud},
		{"none", ProviderNone},
		{"disabled", ProviderNone},
		{"", ProviderNone},
		{"  Cloud  ", ProviderCloud},
		{"something-new", ProviderOnDevice},
	}

	for _, tc := range cases {
		if got := NormalizeProvider(tc.raw); got != tc.want {
			t.Errorf("NormalizeProvider(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func validConfig() *Config {
	cfg := &Config{}
	cfg.AI.ChunkThreshold = 150000
	cfg.AI.ChunkOverlap = 10000
	cfg.Brief.TTL = time.Hour
	cfg.Brief.Backend = "memory"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestValidateRejectsBadChunking(t *testing.T) {
	cfg := validConfig()
	cfg.AI.ChunkOverlap = cfg.AI.ChunkThreshold
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted overlap equal to threshold")
	}

	cfg = validConfig()
	cfg.AI.ChunkThreshold = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted zero threshold")
	}
}

func TestValidateRejectsUnknownBriefBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Brief.Backend = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted unknown brief backend")
	}
}
