package providers

import (
	"github.com/samber/do/v2"

	"github.com/thriftshopper/thriftshopper-server/internal/config"
	"github.com/thriftshopper/thriftshopper-server/internal/logger"
	"github.com/thriftshopper/thriftshopper-server/internal/vision"
)

// VisionAnalyzers holds the configured image analyzers with their
// lifecycle. Providers without an API key are simply absent.
type VisionAnalyzers struct {
	Analyzers []vision.Analyzer
	closers   []func()
}

// Shutdown implements do.Shutdownable.
func (h *VisionAnalyzers) Shutdown() error {
	for _, closeClient := range h.closers {
		closeClient()
	}
	return nil
}

// ProvideVisionAnalyzers provides the vision analyzer set based on
// which provider keys are configured.
func ProvideVisionAnalyzers(i do.Injector) (*VisionAnalyzers, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	handle := &VisionAnalyzers{}

	if cfg.Vision.OpenAIAPIKey != "" {
		client := vision.NewOpenAI(cfg.Vision.OpenAIAPIKey, cfg.Vision.RequestsPerMinute, log.Logger)
		client.SetTimeout(cfg.Vision.Timeout)
		handle.Analyzers = append(handle.Analyzers, client)
		handle.closers = append(handle.closers, client.Close)
	}

	if cfg.Vision.GoogleAPIKey != "" {
		client := vision.NewGoogle(cfg.Vision.GoogleAPIKey, cfg.Vision.RequestsPerMinute, log.Logger)
		client.SetTimeout(cfg.Vision.Timeout)
		handle.Analyzers = append(handle.Analyzers, client)
		handle.closers = append(handle.closers, client.Close)
	}

	if len(handle.Analyzers) == 0 {
		log.Warn("No vision API keys configured, visual search degrades to browse results")
		return handle, nil
	}

	names := make([]string, len(handle.Analyzers))
	for idx, analyzer := range handle.Analyzers {
		names[idx] = analyzer.Name()
	}
	log.Info("Vision analyzers initialized",
		"providers", names,
		"requests_per_minute", cfg.Vision.RequestsPerMinute,
	)

	return handle, nil
}
