// Package config loads the YAML service configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Http      HttpConfig      `yaml:"http"`
	Cache     struct {
		Size int `yaml:"size"`
	} `yaml:"cache"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ArtifactsConfig struct {
	Source           string        `yaml:"source"`
	Dir              string        `yaml:"dir"`
	Classifier       string        `yaml:"classifier"`
	ClassifierFormat string        `yaml:"classifier_format"`
	Scaler           string        `yaml:"scaler"`
	Labels           string        `yaml:"labels"`
	Watch            bool          `yaml:"watch"`
	WatchDebounce    time.Duration `yaml:"watch_debounce"`
	Minio            struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		Prefix    string `yaml:"prefix"`
		UseSSL    bool   `yaml:"use_ssl"`
	} `yaml:"minio"`
	ONNX struct {
		LibraryPath string `yaml:"library_path"`
		InputName   string `yaml:"input_name"`
		OutputName  string `yaml:"output_name"`
		NumClasses  int    `yaml:"num_classes"`
	} `yaml:"onnx"`
}

type HttpConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Timeout        time.Duration `yaml:"timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimit      float64       `yaml:"rate_limit"`
	RateBurst      int           `yaml:"rate_burst"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	MaxSessions    int           `yaml:"max_sessions"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when no file is given: local artifacts in
// ./models and a form on localhost:8501.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads path and fills in defaults for anything left unset.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	a := &c.Artifacts
	if a.Source == "" {
		a.Source = "local"
	}
	if a.Dir == "" {
		a.Dir = "models"
	}
	if a.Classifier == "" {
		a.Classifier = "model.json"
	}
	if a.Scaler == "" {
		a.Scaler = "scaler.json"
	}
	if a.Labels == "" {
		a.Labels = "labels.json"
	}
	if a.WatchDebounce == 0 {
		a.WatchDebounce = 500 * time.Millisecond
	}

	h := &c.Http
	if h.Host == "" {
		h.Host = "127.0.0.1"
	}
	if h.Port == 0 {
		h.Port = 8501
	}
	if h.Timeout == 0 {
		h.Timeout = 30 * time.Second
	}
	if len(h.AllowedOrigins) == 0 {
		h.AllowedOrigins = []string{"*"}
	}
	if h.RateBurst == 0 {
		h.RateBurst = 20
	}
	if h.SessionTTL == 0 {
		h.SessionTTL = 30 * time.Minute
	}
	if h.MaxSessions == 0 {
		h.MaxSessions = 1024
	}

	if c.Cache.Size == 0 {
		c.Cache.Size = 256
	}
	if c.History.Path == "" {
		c.History.Path = "drybean.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = 50
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	var errs []error
	switch c.Artifacts.Source {
	case "local":
	case "minio":
		if c.Artifacts.Minio.Endpoint == "" || c.Artifacts.Minio.Bucket == "" {
			errs = append(errs, errors.New("artifacts.minio needs endpoint and bucket"))
		}
		if c.Artifacts.Watch {
			errs = append(errs, errors.New("artifacts.watch is only supported for local artifacts"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown artifacts.source %q", c.Artifacts.Source))
	}
	switch c.Artifacts.ClassifierFormat {
	case "", "json", "onnx":
	default:
		errs = append(errs, fmt.Errorf("unknown artifacts.classifier_format %q", c.Artifacts.ClassifierFormat))
	}
	if c.Http.Port < 0 || c.Http.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d out of range", c.Http.Port))
	}
	if c.Http.RateLimit < 0 {
		errs = append(errs, errors.New("http.rate_limit must not be negative"))
	}
	if c.Http.MaxSessions < 0 {
		errs = append(errs, errors.New("http.max_sessions must not be negative"))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address of the HTTP server.
func (h HttpConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
