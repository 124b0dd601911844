package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the serving daemon and the CLI.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr           string   `json:"addr" yaml:"addr" toml:"addr"`
	ServiceName    string   `json:"service_name" yaml:"service_name" toml:"service_name"`
	ServiceVersion string   `json:"service_version" yaml:"service_version" toml:"service_version"`
	RoutesFile     string   `json:"routes_file" yaml:"routes_file" toml:"routes_file"`
	RedisAddr      string   `json:"redis_addr" yaml:"redis_addr" toml:"redis_addr"`
	DefaultModel   string   `json:"default_model" yaml:"default_model" toml:"default_model"`
	InternalPort   int      `json:"internal_port" yaml:"internal_port" toml:"internal_port"`
	MaxBodyBytes   int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	PredictTimeout int64    `json:"predict_timeout_seconds" yaml:"predict_timeout_seconds" toml:"predict_timeout_seconds"`
	LogLevel       string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	CORSEnabled    bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins    []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	CORSMethods    []string `json:"cors_methods" yaml:"cors_methods" toml:"cors_methods"`
	CORSHeaders    []string `json:"cors_headers" yaml:"cors_headers" toml:"cors_headers"`
}

// DefaultInternalPort is the port the serving process binds inside a
// container. The run command maps the operator-chosen external port onto it,
// so both sides of the convention share this constant.
const DefaultInternalPort = 8000

// DefaultRoutesFile is the route-table filename the scaffold writes and the
// daemon reads when no override is given; keeping one constant means a
// scaffolded directory works in router mode out of the box.
const DefaultRoutesFile = "model_routes.json"

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
