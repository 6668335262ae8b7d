package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	DefaultPath         = "~/.mood.db"
	DefaultPollInterval = 3 * time.Second
	DefaultInferTimeout = 20 * time.Second
	DefaultInferModel   = "gpt-4o-mini"
)

// Config locates the on-disk state.
type Config interface {
	BasePath() string
}

// FileConfig is the resolved configuration from .mood.yaml, MOOD_* env vars
// and defaults.
type FileConfig struct {
	Path     string        `json:"path"`
	Poll     time.Duration `json:"poll"`
	Zone     string        `json:"location,omitempty"`
	LogLevel string        `json:"logLevel,omitempty"`

	InferenceEnabled bool          `json:"inferenceEnabled"`
	InferenceModel   string        `json:"inferenceModel,omitempty"`
	InferenceBaseURL string        `json:"inferenceBaseURL,omitempty"`
	InferenceAPIKey  string        `json:"-"`
	InferenceTimeout time.Duration `json:"inferenceTimeout"`

	// Source is the config file that was read, if any.
	Source string `json:"source,omitempty"`
}

func (f *FileConfig) BasePath() string {
	return f.Path
}

// Location resolves the configured IANA zone, falling back to time.Local.
func (f *FileConfig) Location() *time.Location {
	if f == nil || strings.TrimSpace(f.Zone) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(strings.TrimSpace(f.Zone))
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig walks the usual places for a .mood config file. A missing file
// is fine; defaults and MOOD_* environment variables still apply.
func LoadConfig() (*FileConfig, error) {
	v := viper.New()
	v.SetDefault("path", DefaultPath)
	v.SetDefault("sync.poll", DefaultPollInterval)
	v.SetDefault("location", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("inference.enabled", false)
	v.SetDefault("inference.model", DefaultInferModel)
	v.SetDefault("inference.base_url", "")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.timeout", DefaultInferTimeout)

	v.SetConfigName(".mood") // .yaml is implicit
	v.SetEnvPrefix("MOOD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("MOOD_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("store: read config: %w", err)
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("store: expand path: %w", err)
	}

	poll := v.GetDuration("sync.poll")
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	timeout := v.GetDuration("inference.timeout")
	if timeout <= 0 {
		timeout = DefaultInferTimeout
	}
	apiKey := v.GetString("inference.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	return &FileConfig{
		Path:             path,
		Poll:             poll,
		Zone:             v.GetString("location"),
		LogLevel:         v.GetString("log.level"),
		InferenceEnabled: v.GetBool("inference.enabled"),
		InferenceModel:   v.GetString("inference.model"),
		InferenceBaseURL: v.GetString("inference.base_url"),
		InferenceAPIKey:  apiKey,
		InferenceTimeout: timeout,
		Source:           v.ConfigFileUsed(),
	}, nil
}
