package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ametrine/internal/exact"
	"github.com/ppiankov/ametrine/internal/logging"
	"github.com/ppiankov/ametrine/internal/model"
)

// Version is set at build time with -ldflags "-X ...cli.Version=..."
var Version = "0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ametrine",
	Short: "Ametrine - exact arithmetic on rationals and algebraic numbers",
	Long: `Ametrine evaluates arithmetic without rounding error.

Values live in a number tower: integers, rationals, radicals and roots of
integer polynomials. Every result is narrowed back to the simplest level
that represents it exactly, so sqrt(8)/2 prints as sqrt(2) and 0.(3) + 2/3
prints as 1.

Approximations are only ever shown next to an exact value, marked with ≈.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Ametrine.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ametrine v%s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ametrine/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".ametrine"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// bindEnv maps AMETRINE_* variables onto config keys, so that
// AMETRINE_CACHE_ENABLED overrides cache.enabled
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("AMETRINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// setDefaults registers every key so that environment overrides apply to
// keys missing from the config file
func setDefaults(v *viper.Viper, cfg *model.Config) {
	v.SetDefault("limits.max_expansion_digits", cfg.Limits.MaxExpansionDigits)
	v.SetDefault("limits.max_expansion_work", cfg.Limits.MaxExpansionWork)
	v.SetDefault("limits.max_trial_divisor", cfg.Limits.MaxTrialDivisor)
	v.SetDefault("limits.float_digits", cfg.Limits.FloatDigits)
	v.SetDefault("limits.max_exponent", cfg.Limits.MaxExponent)

	v.SetDefault("eval.pi_digits", cfg.Eval.PiDigits)
	v.SetDefault("eval.decimal_digits", cfg.Eval.DecimalDigits)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.json", cfg.Output.JSON)
	v.SetDefault("output.markdown", cfg.Output.Markdown)
	v.SetDefault("output.include_footer", cfg.Output.IncludeFooter)
	v.SetDefault("output.color", cfg.Output.Color)

	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.memory_ttl", cfg.Cache.MemoryTTL)
	v.SetDefault("cache.disk_ttl", cfg.Cache.DiskTTL)

	v.SetDefault("concurrency.workers", cfg.Concurrency.Workers)
	v.SetDefault("concurrency.rate_limit", cfg.Concurrency.RateLimit)
	v.SetDefault("concurrency.burst", cfg.Concurrency.Burst)
	v.SetDefault("concurrency.timeout", cfg.Concurrency.Timeout)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.json", cfg.Logging.JSON)
}

// loadConfig merges defaults, config file and environment into a Config
// and applies the number limits
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	exact.Configure(cfg.Limits)
	return cfg, nil
}

// newLogger builds the logger for cfg; --verbose forces debug
func newLogger(cfg *model.Config) *logging.Logger {
	level := logging.ParseLevel(cfg.Logging.Level)
	if verbose {
		level = logging.LevelDebug
	}
	return logging.New(logging.Config{
		Level:   level,
		Service: "ametrine",
		JSON:    cfg.Logging.JSON,
	})
}
