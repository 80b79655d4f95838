package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

// DefaultRegion is used when neither config nor AWS_REGION name one
const DefaultRegion = "eu-central-1"

// Config holds all adfmap configuration
type Config struct {
	MapPath                 string `mapstructure:"map_path"`
	PipelinePrefix          string `mapstructure:"pipeline_prefix"`
	DeploymentAccountRegion string `mapstructure:"deployment_account_region"`
	Region                  string `mapstructure:"region"`
	TemplateDir             string `mapstructure:"template_dir"`
	OutputDir               string `mapstructure:"output_dir"`
	ArtifactBucket          string `mapstructure:"artifact_bucket"`
	Concurrency             int    `mapstructure:"concurrency"`

	// Organizations is read from the management account through this role, both empty uses the caller
	ManagementAccountID string `mapstructure:"management_account_id"`
	CrossAccountRole    string `mapstructure:"cross_account_role"`

	Log LogConfig `mapstructure:"log"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ShouldUpdateParameters is true when running in the deployment account's region
func (c *Config) ShouldUpdateParameters() bool {
	return c.Region == c.DeploymentAccountRegion
}

// Validate returns
func (c *Config) Validate() error {
	if c.PipelinePrefix == "" {
		return fmt.Errorf("pipeline_prefix must be defined")
	}

	if c.DeploymentAccountRegion == "" || c.Region == "" {
		return fmt.Errorf("region and deployment_account_region must be defined")
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %v", c.Concurrency)
	}

	if (c.ManagementAccountID == "") != (c.CrossAccountRole == "") {
		return fmt.Errorf("management_account_id and cross_account_role must be set together")
	}

	return nil
}

// configNotFound is true for errors that fall back to defaults
func configNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	return os.IsNotExist(err)
}

// Load reads configuration from an optional file, ADF_ environment variables and defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = DefaultRegion
	}

	v.SetDefault("map_path", "deployment_map.yml")
	v.SetDefault("pipeline_prefix", "adf-pipeline-")
	v.SetDefault("deployment_account_region", region)
	v.SetDefault("region", region)
	v.SetDefault("template_dir", "pipeline_types")
	v.SetDefault("output_dir", "pipelines")
	v.SetDefault("artifact_bucket", "")
	v.SetDefault("concurrency", 4)
	v.SetDefault("management_account_id", "")
	v.SetDefault("cross_account_role", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil && !configNotFound(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("ADF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SetupLogger builds the logger described by cfg and makes it the default
func SetupLogger(cfg *Config, w io.Writer) *log.Logger {
	level, err := log.ParseLevel(strings.ToLower(cfg.Log.Level))
	if err != nil {
		level = log.InfoLevel
	}

	formatter := log.TextFormatter
	if strings.ToLower(cfg.Log.Format) == "json" {
		formatter = log.JSONFormatter
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: true,
	})

	log.SetDefault(logger)
	return logger
}
