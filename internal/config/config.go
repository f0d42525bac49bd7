// Package config loads modelsheet configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/ukaji3/modelsheet-go/internal/logging"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet"
)

// EnvPrefix prefixes every environment override, e.g. MODELSHEET_LOG_LEVEL.
const EnvPrefix = "MODELSHEET"

// Config represents the modelsheet configuration.
type Config struct {
	Log        logging.Config   `mapstructure:"log"`
	Export     ExportConfig     `mapstructure:"export"`
	Derivative DerivativeConfig `mapstructure:"derivative"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Server     ServerConfig     `mapstructure:"server"`
}

// ExportConfig controls table building and workbook output.
type ExportConfig struct {
	OutDir    string `mapstructure:"out_dir"`
	Extension string `mapstructure:"extension"`
	Strict    bool   `mapstructure:"strict"`
	Columns   string `mapstructure:"columns"`
	PadRows   int    `mapstructure:"pad_rows"`
}

// DerivativeConfig points at the model-derivative API.
type DerivativeConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	Scope        string        `mapstructure:"scope"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryCount   int           `mapstructure:"retry_count"`
	RetryWait    time.Duration `mapstructure:"retry_wait"`
}

// StorageConfig configures the S3-compatible object store.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// BuildOptions converts the export section into table-building options.
func (e ExportConfig) BuildOptions() (modelsheet.Options, error) {
	mode, err := modelsheet.ParseColumnMode(e.Columns)
	if err != nil {
		return modelsheet.Options{}, err
	}
	pad := e.PadRows
	return modelsheet.Options{
		Columns: mode,
		Strict:  e.Strict,
		PadRows: &pad,
	}, nil
}

// Load reads configuration. path may be empty, in which case modelsheet.yaml
// is looked up in the working directory and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("modelsheet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.development", false)

	v.SetDefault("export.out_dir", defaultOutDir())
	v.SetDefault("export.extension", ".xlsx")
	v.SetDefault("export.strict", false)
	v.SetDefault("export.columns", string(modelsheet.ColumnsFirstRow))
	v.SetDefault("export.pad_rows", modelsheet.DefaultPadRows)

	v.SetDefault("derivative.base_url", "https://developer.api.autodesk.com")
	v.SetDefault("derivative.client_id", "")
	v.SetDefault("derivative.client_secret", "")
	v.SetDefault("derivative.scope", "data:read")
	v.SetDefault("derivative.timeout", 30*time.Second)
	v.SetDefault("derivative.retry_count", 5)
	v.SetDefault("derivative.retry_wait", 2*time.Second)

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.access_key_id", "")
	v.SetDefault("storage.secret_access_key", "")
	v.SetDefault("storage.use_path_style", false)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.request_timeout", 5*time.Minute)
}

// defaultOutDir is the user's Downloads folder, or the working directory
// when the home directory is unknown.
func defaultOutDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if _, err := modelsheet.ParseColumnMode(cfg.Export.Columns); err != nil {
		return fmt.Errorf("export.columns: %w", err)
	}
	if cfg.Export.PadRows < modelsheet.DefaultPadRows {
		return fmt.Errorf("export.pad_rows must be at least %d, got: %d", modelsheet.DefaultPadRows, cfg.Export.PadRows)
	}
	if !strings.HasPrefix(cfg.Export.Extension, ".") {
		return fmt.Errorf("export.extension must start with '.', got: %s", cfg.Export.Extension)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}
	return nil
}
