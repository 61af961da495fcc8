// Package config loads amrviz settings from flags, environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. AMRVIZ_LISTEN_ADDR.
const EnvPrefix = "AMRVIZ"

// Keys shared by viper and the cobra flags bound to it.
const (
	KeyListenAddr      = "listen_addr"
	KeyAllowedOrigins  = "allowed_origins"
	KeyMode            = "mode"
	KeyLogLevel        = "log_level"
	KeyDebug           = "debug"
	KeyVerbose         = "verbose"
	KeyMaxStoredGraphs = "max_stored_graphs"
	KeyMaxBodyBytes    = "max_body_bytes"
	KeyMaxBatchSize    = "max_batch_size"
)

// Config holds the settings shared by the CLI and the HTTP service.
type Config struct {
	ListenAddr      string   `mapstructure:"listen_addr" validate:"required,hostname_port"`
	AllowedOrigins  []string `mapstructure:"allowed_origins" validate:"dive,required"`
	Mode            string   `mapstructure:"mode" validate:"oneof=heuristic nested"`
	LogLevel        string   `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Debug           bool     `mapstructure:"debug"`
	Verbose         bool     `mapstructure:"verbose"`
	MaxStoredGraphs int      `mapstructure:"max_stored_graphs" validate:"min=1"`
	MaxBodyBytes    int64    `mapstructure:"max_body_bytes" validate:"min=1"`
	MaxBatchSize    int      `mapstructure:"max_batch_size" validate:"min=1"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyListenAddr, "127.0.0.1:8000")
	v.SetDefault(KeyAllowedOrigins, []string{"http://localhost:3001", "http://127.0.0.1:3001"})
	v.SetDefault(KeyMode, "heuristic")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMaxStoredGraphs, 256)
	v.SetDefault(KeyMaxBodyBytes, 1<<20)
	v.SetDefault(KeyMaxBatchSize, 64)
}

// LoadDotEnv loads environment variables from path if the file exists. Variables
// already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Bind enables environment lookups with EnvPrefix on v.
func Bind(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		ListenAddr:      v.GetString(KeyListenAddr),
		AllowedOrigins:  v.GetStringSlice(KeyAllowedOrigins),
		Mode:            v.GetString(KeyMode),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		Debug:           v.GetBool(KeyDebug),
		Verbose:         v.GetBool(KeyVerbose),
		MaxStoredGraphs: v.GetInt(KeyMaxStoredGraphs),
		MaxBodyBytes:    v.GetInt64(KeyMaxBodyBytes),
		MaxBatchSize:    v.GetInt(KeyMaxBatchSize),
	}
	if cfg.Mode == "" {
		cfg.Mode = "heuristic"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
