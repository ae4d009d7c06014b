package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Account   AccountConfig   `mapstructure:"account"`
	Journey   JourneyConfig   `mapstructure:"journey"`
	Selection SelectionConfig `mapstructure:"selection"`
	Polling   PollingConfig   `mapstructure:"polling"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Run       RunConfig       `mapstructure:"run"`
}

// envPrefix is prepended to every config key read from the environment
const envPrefix = "RB"

// legacyEnv maps config keys to the bare variable names accepted in .env files
var legacyEnv = map[string]string{
	"account.mobile_number":   "MOBILE_NUMBER",
	"account.password":        "PASSWORD",
	"journey.from_city":       "FROM_CITY",
	"journey.to_city":         "TO_CITY",
	"journey.date_of_journey": "DATE_OF_JOURNEY",
	"journey.seat_class":      "SEAT_CLASS",
	"journey.train_number":    "TRAIN_NUMBER",
	"selection.max_seats":     "MAX_SELECTABLE_SEAT",
	"selection.desired_seats": "DESIRED_SEATS",
}

// configKeys lists every key that may be set from the environment
var configKeys = []string{
	"api.base_url",
	"api.timeout",
	"api.rate_limit.requests",
	"api.rate_limit.burst",
	"api.insecure_skip_verify",
	"account.mobile_number",
	"account.password",
	"journey.from_city",
	"journey.to_city",
	"journey.date_of_journey",
	"journey.seat_class",
	"journey.train_number",
	"selection.desired_seats",
	"selection.max_seats",
	"polling.min_interval",
	"polling.trip_retry_delay",
	"polling.reserve_retry_delay",
	"polling.step_retry_delay",
	"polling.max_attempts",
	"polling.deadline",
	"payment.method",
	"logging.level",
	"logging.format",
	"logging.output",
	"logging.file_path",
	"metrics.enabled",
	"metrics.host",
	"metrics.port",
	"metrics.path",
	"run.lock_file",
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (RB_* first, then the bare legacy names)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/railbook")
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	// Read config file (optional - don't error if missing)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	SetDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func bindEnv(v *viper.Viper) error {
	replacer := strings.NewReplacer(".", "_")
	for _, key := range configKeys {
		names := []string{envPrefix + "_" + strings.ToUpper(replacer.Replace(key))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// LoadConfigOrDefault loads configuration or returns a default config on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		defaultCfg := &Config{}
		SetDefaults(defaultCfg)
		return defaultCfg
	}
	return cfg
}
