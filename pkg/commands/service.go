package commands

import (
	"log/slog"

	"tableflip.dev/mood/pkg/app"
	"tableflip.dev/mood/pkg/inference"
	"tableflip.dev/mood/pkg/store"
)

// config is read once per process.
var config *store.FileConfig

func loadConfig() (*store.FileConfig, error) {
	if config != nil {
		return config, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	config = cfg
	return cfg, nil
}

func setupLogging() error {
	fallback := ""
	if cfg, err := loadConfig(); err == nil {
		fallback = cfg.LogLevel
	}
	return logging.Setup(fallback)
}

// loadService wires the mood service from configuration.
func loadService() (*store.FileConfig, *app.Service, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := &app.Service{
		Persistence:      p,
		Logger:           slog.Default(),
		Location:         cfg.Location(),
		PollInterval:     cfg.Poll,
		InferenceTimeout: cfg.InferenceTimeout,
	}
	if cfg.InferenceEnabled {
		inf, err := inference.NewOpenAI(inference.Config{
			APIKey:  cfg.InferenceAPIKey,
			BaseURL: cfg.InferenceBaseURL,
			Model:   cfg.InferenceModel,
		})
		if err != nil {
			slog.Warn("remote inference disabled", "err", err)
		} else {
			svc.Inferrer = inf
		}
	}
	return cfg, svc, nil
}
