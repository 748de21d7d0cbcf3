package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/pocketgem/internal/diaglog"
	"github.com/at-ishikawa/pocketgem/internal/inference/gemini"
)

type Config struct {
	Gemini   GeminiConfig   `mapstructure:"gemini" yaml:"gemini"`
	DebugLog DebugLogConfig `mapstructure:"debug_log" yaml:"debug_log"`
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
}

type GeminiConfig struct {
	Endpoint  string        `mapstructure:"endpoint" yaml:"endpoint" validate:"required,httpurl"`
	APIKey    string        `mapstructure:"api_key" yaml:"api_key" validate:"required"`
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	Mode      string        `mapstructure:"mode" yaml:"mode" validate:"oneof=strict legacy"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`
}

type DebugLogConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path" validate:"required_if=Enabled true"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`
}

type ConfigLoader struct {
	viper      *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
	dotenvFile string
}

func NewConfigLoader(configFile string) (*ConfigLoader, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pocketgem")
	}

	return &ConfigLoader{
		viper:      v,
		validator:  validate,
		translator: trans,
		dotenvFile: ".env",
	}, nil
}

func (loader *ConfigLoader) Load() (*Config, error) {
	v := loader.viper

	// Variables already set in the environment win over the .env file.
	if err := godotenv.Load(loader.dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", loader.dotenvFile, err)
	}

	v.SetDefault("gemini.endpoint", gemini.DefaultEndpoint)
	v.SetDefault("gemini.api_key", gemini.PlaceholderAPIKey)
	v.SetDefault("gemini.timeout", gemini.DefaultTimeout)
	v.SetDefault("gemini.mode", string(gemini.ModeStrict))
	v.SetDefault("gemini.user_agent", gemini.DefaultUserAgent)
	v.SetDefault("debug_log.enabled", false)
	v.SetDefault("debug_log.path", diaglog.DefaultPath)
	v.SetDefault("server.port", 8080)

	if err := v.BindEnv("gemini.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY environment variable: %w", err)
	}
	if err := v.BindEnv("gemini.endpoint", "GEMINI_API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_URL environment variable: %w", err)
	}
	if err := v.BindEnv("debug_log.enabled", "POCKETGEM_DEBUG_LOG"); err != nil {
		return nil, fmt.Errorf("failed to bind POCKETGEM_DEBUG_LOG environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	if err := loader.validator.Struct(cfg); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMsgs []string
		for _, e := range validationErrors {
			errorMsgs = append(errorMsgs, e.Translate(loader.translator))
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errorMsgs, ", "))
	}

	return &cfg, nil
}

// RedactedYAML renders cfg for display, with the API key masked unless it
// is still the placeholder.
func (cfg Config) RedactedYAML() ([]byte, error) {
	view := struct {
		Gemini struct {
			Endpoint  string `yaml:"endpoint"`
			APIKey    string `yaml:"api_key"`
			Timeout   string `yaml:"timeout"`
			Mode      string `yaml:"mode"`
			UserAgent string `yaml:"user_agent"`
		} `yaml:"gemini"`
		DebugLog DebugLogConfig `yaml:"debug_log"`
		Server   ServerConfig   `yaml:"server"`
	}{
		DebugLog: cfg.DebugLog,
		Server:   cfg.Server,
	}
	view.Gemini.Endpoint = cfg.Gemini.Endpoint
	view.Gemini.APIKey = maskAPIKey(cfg.Gemini.APIKey)
	view.Gemini.Timeout = cfg.Gemini.Timeout.String()
	view.Gemini.Mode = cfg.Gemini.Mode
	view.Gemini.UserAgent = cfg.Gemini.UserAgent

	out, err := yaml.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("yaml.Marshal > %w", err)
	}
	return out, nil
}

func maskAPIKey(apiKey string) string {
	if gemini.IsPlaceholderAPIKey(apiKey) {
		return apiKey
	}
	if len(apiKey) <= 4 {
		return strings.Repeat("*", len(apiKey))
	}
	return strings.Repeat("*", len(apiKey)-4) + apiKey[len(apiKey)-4:]
}
