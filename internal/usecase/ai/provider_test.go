package ai

import (
	"context"
	"testing"

	pkgai "github.com/insightcrew/relata/pkg/ai"
	"github.com/insightcrew/relata/pkg/config"
)

func TestResolveBothDisabled(t *testing.T) {
	cfg := &config.AIConfig{Primary: config.ProviderNone, Fallback: config.ProviderNone}
	factory := NewFactory(nil, nil, cfg, nil)

	primary, fallback := factory.Resolve(context.Background())
	if primary != nil || fallback != nil {
		t.Errorf("Resolve() = (%v, %v), want no providers when disabled", primary, fallback)
	}
}

func TestResolveCloudPrimaryWithCredentials(t *testing.T) {
	cfg := &config.AIConfig{
		Primary:     config.ProviderCloud,
		Fallback:    config.ProviderNone,
		CloudAPIKey: "sk-test",
		CloudModel:  "test-model",
	}
	cloud := pkgai.NewCloudClient(cfg)
	factory := NewFactory(nil, cloud, cfg, nil)

	primary, fallback := factory.Resolve(context.Background())
	if primary == nil || primary.Name() != "cloud" {
		t.Fatalf("Resolve() primary = %v, want cloud", primary)
	}
	if fallback != nil {
		t.Errorf("Resolve() fallback = %v, want none", fallback)
	}
}

// Without credentials the cloud backend is skipped entirely.
func TestResolveCloudWithoutCredentials(t *testing.T) {
	cfg := &config.AIConfig{
		Primary:  config.ProviderCloud,
		Fallback: config.ProviderNone,
	}
	cloud := pkgai.NewCloudClient(cfg)
	factory := NewFactory(nil, cloud, cfg, nil)

	primary, _ := factory.Resolve(context.Background())
	if primary != nil {
		t.Errorf("Resolve() primary = %v, want nil without credentials", primary)
	}
}

func TestResolveFallbackDistinctFromPrimary(t *testing.T) {
	cfg := &config.AIConfig{
		Primary:     config.ProviderCloud,
		Fallback:    config.ProviderCloud,
		CloudAPIKey: "sk-test",
	}
	cloud := pkgai.NewCloudClient(cfg)
	factory := NewFactory(nil, cloud, cfg, nil)

	primary, fallback := factory.Resolve(context.Background())
	if primary == nil || primary.Name() != "cloud" {
		t.Fatalf("Resolve() primary = %v, want cloud", primary)
	}
	if fallback != nil {
		t.Errorf("Resolve() fallback = %v, want nil when same as primary", fallback)
	}
}
