package ai

import (
	"context"

	"go.uber.org/zap"

	pkgai "github.com/insightcrew/relata/pkg/ai"
	"github.com/insightcrew/relata/pkg/config"
)

// Provider is one AI backend capable of completing a prompt.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Factory selects the primary and fallback providers for a request based
// on configuration, local runtime availability and cloud credentials.
type Factory struct {
	onDevice *pkgai.OnDeviceClient
	cloud    *pkgai.CloudClient
	cfg      *config.AIConfig
	logger   *zap.Logger
}

// NewFactory creates a provider factory. Either client may be nil when the
// corresponding backend is not wired at all.
func NewFactory(onDevice *pkgai.OnDeviceClient, cloud *pkgai.CloudClient, cfg *config.AIConfig, logger *zap.Logger) *Factory {
	return &Factory{onDevice: onDevice, cloud: cloud, cfg: cfg, logger: logger}
}

// Resolve returns the providers for one operation. primary is nil when
// nothing usable exists; fallback is nil when no distinct second backend
// is usable. Selection is re-evaluated per call so a local runtime that
// comes online is picked up without a restart.
func (f *Factory) Resolve(ctx context.Context) (primary, fallback Provider) {
	if f.cfg.Primary == config.ProviderNone && f.cfg.Fallback == config.ProviderNone {
		return nil, nil
	}

	primary = f.resolveKind(ctx, f.cfg.Primary)
	if primary == nil {
		primary = f.firstUsable(ctx)
	}

	if fb := f.resolveKind(ctx, f.cfg.Fallback); fb != nil {
		if primary == nil {
			primary = fb
		} else if fb.Name() != primary.Name() {
			fallback = fb
		}
	}
	return primary, fallback
}

func (f *Factory) resolveKind(ctx context.Context, kind config.Provider) Provider {
	switch kind {
	case config.ProviderOnDevice:
		if f.onDevice != nil && f.onDevice.Available(ctx) {
			return f.onDevice
		}
	case config.ProviderCloud:
		if f.cloud != nil && f.cloud.Configured() {
			return f.cloud
		}
	}
	return nil
}

// firstUsable prefers a reachable local runtime, then a credentialed
// cloud backend, then the local runtime opportunistically even if the
// availability probe failed.
func (f *Factory) firstUsable(ctx context.Context) Provider {
	if f.onDevice != nil && f.onDevice.Available(ctx) {
		return f.onDevice
	}
	if f.cloud != nil && f.cloud.Configured() {
		return f.cloud
	}
	if f.onDevice != nil {
		if f.logger != nil {
			f.logger.Warn("⚠️ No provider verified usable, trying on-device opportunistically")
		}
		return f.onDevice
	}
	return nil
}
