package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable the pipeline reads. Values resolve through the
// usual hierarchy: flags, RECDROPINS_* env vars, config file, then defaults.
type Config struct {
	Database   string `yaml:"database" mapstructure:"database"`
	Facilities string `yaml:"facilities" mapstructure:"facilities"`
	Timezone   string `yaml:"timezone" mapstructure:"timezone"`

	Activity     string `yaml:"activity" mapstructure:"activity"`
	ProgramLabel string `yaml:"program_label" mapstructure:"program_label"`

	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`

	// Politeness controls for the rendered facility pages.
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	JitterMin         time.Duration `yaml:"jitter_min" mapstructure:"jitter_min"`
	JitterMax         time.Duration `yaml:"jitter_max" mapstructure:"jitter_max"`
	CheckRobots       bool          `yaml:"check_robots" mapstructure:"check_robots"`
	CacheTTL          time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
}

func setDefaults() {
	viper.SetDefault("database", "rec-dropins.sqlite3")
	viper.SetDefault("facilities", "facilities.json")
	viper.SetDefault("timezone", "America/Toronto")
	viper.SetDefault("activity", "volleyball")
	viper.SetDefault("program_label", "Volleyball Drop-in")
	viper.SetDefault("user_agent", "rec-dropins/0.3 (+https://github.com/pfrederiksen/rec-dropins)")
	viper.SetDefault("timeout", 20*time.Second)
	viper.SetDefault("max_bytes", int64(4<<20))
	viper.SetDefault("requests_per_second", 0.5)
	viper.SetDefault("burst", 1)
	viper.SetDefault("jitter_min", 500*time.Millisecond)
	viper.SetDefault("jitter_max", 2*time.Second)
	viper.SetDefault("check_robots", true)
	viper.SetDefault("cache_ttl", 5*time.Minute)
	viper.SetDefault("log_level", "INFO")
}

// loadConfig resolves the effective configuration and the schedule timezone.
func loadConfig() (Config, *time.Location, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, nil, fmt.Errorf("decoding configuration: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	return cfg, loc, nil
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rec-dropins configuration",
	Long: `Manage rec-dropins configuration.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (RECDROPINS_*)
3. Config file (~/.rec-dropins/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Print(string(yamlData))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}
