package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"marketlens/internal/toolcall"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Source   SourceConfig   `yaml:"source" envconfig:"SOURCE"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// SourceConfig describes where the three data sheets come from. Transport
// picks between the CSV export endpoint and a remote tool server.
type SourceConfig struct {
	// Transport is "sheets" (CSV export) or "toolcall".
	Transport string `yaml:"transport" envconfig:"TRANSPORT" default:"sheets" validate:"oneof=sheets toolcall"`

	// Spreadsheet is a raw ID or a full spreadsheet URL.
	Spreadsheet string `yaml:"spreadsheet" envconfig:"SPREADSHEET"`

	// Tab identifiers for the three datasets on the sheets transport.
	VariationGID     int64 `yaml:"variation_gid" envconfig:"VARIATION_GID" default:"0"`
	MovingAverageGID int64 `yaml:"moving_average_gid" envconfig:"MOVING_AVERAGE_GID" default:"45071720"`
	RSIGID           int64 `yaml:"rsi_gid" envconfig:"RSI_GID" default:"372876708"`

	// Sheet names for the three datasets on the toolcall transport.
	VariationSheet     string `yaml:"variation_sheet" envconfig:"VARIATION_SHEET" default:"Variation"`
	MovingAverageSheet string `yaml:"moving_average_sheet" envconfig:"MOVING_AVERAGE_SHEET" default:"MM"`
	RSISheet           string `yaml:"rsi_sheet" envconfig:"RSI_SHEET" default:"RSI"`

	// Tool server settings. Endpoint may carry a streaming suffix; the HTTP
	// base is derived by stripping it.
	ToolEndpoint string            `yaml:"tool_endpoint" envconfig:"TOOL_ENDPOINT"`
	ToolName     string            `yaml:"tool_name" envconfig:"TOOL_NAME" default:"read_sheet"`
	ToolContract toolcall.Contract `yaml:"tool_contract" envconfig:"TOOL_CONTRACT"`

	// Token is an optional bearer token sent on every upstream request.
	Token string `yaml:"token" envconfig:"TOKEN"`

	// FetchTimeout is the fixed wall-clock budget per sheet fetch.
	FetchTimeout time.Duration `yaml:"fetch_timeout" envconfig:"FETCH_TIMEOUT" default:"30s"`

	// CacheTTL memoizes sheet fetches; zero disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" default:"10m"`
}

// SecurityConfig contains rate limiting configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// ExportConfig contains dataset export configuration
type ExportConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR" default:"exports"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("MARKETLENS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Source.Spreadsheet == "" {
		envConfig.Source.Spreadsheet = fileConfig.Source.Spreadsheet
	}
	if envConfig.Source.ToolEndpoint == "" {
		envConfig.Source.ToolEndpoint = fileConfig.Source.ToolEndpoint
	}
	if envConfig.Source.Token == "" {
		envConfig.Source.Token = fileConfig.Source.Token
	}
	if (envConfig.Source.ToolContract == toolcall.Contract{}) {
		envConfig.Source.ToolContract = fileConfig.Source.ToolContract
	}
	return envConfig
}

// Validate validates the configuration. The tool contract is checked here,
// once at startup, so a misconfigured contract never survives into a fetch.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("source fetch timeout must be positive")
	}

	if c.Source.Transport == "toolcall" {
		if c.Source.ToolEndpoint == "" {
			return fmt.Errorf("toolcall transport requires a tool endpoint")
		}
		if (c.Source.ToolContract == toolcall.Contract{}) {
			c.Source.ToolContract = toolcall.DefaultContract()
		}
		if err := c.Source.ToolContract.Validate(); err != nil {
			return fmt.Errorf("tool contract: %w", err)
		}
	}

	// Always JSON format; dual output by default
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/app.log",
		},
		Source: SourceConfig{
			Transport:          "sheets",
			VariationGID:       0,
			MovingAverageGID:   45071720,
			RSIGID:             372876708,
			VariationSheet:     "Variation",
			MovingAverageSheet: "MM",
			RSISheet:           "RSI",
			ToolName:           "read_sheet",
			ToolContract:       toolcall.DefaultContract(),
			FetchTimeout:       30 * time.Second,
			CacheTTL:           10 * time.Minute,
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Export: ExportConfig{
			Dir: "exports",
		},
	}
}
