package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/agentx-labs/modreg/internal/branding"
	"github.com/agentx-labs/modreg/internal/config"
	"github.com/agentx-labs/modreg/internal/controller"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagProject  string
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` catalogs the modules of a Unity-style project tree: it scans the
category directories under Assets/, reads each module's descriptor, and answers
dependency queries from a persisted registry.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "project root to scan (default is the working directory)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default is $HOME/.modreg/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	cobra.OnInitialize(initConfig)
}

// initConfig loads the config file and binds persistent flags over it.
func initConfig() {
	if flagConfig != "" {
		config.SetConfigFileOverride(flagConfig)
	}
	config.Load()
	_ = viper.BindPFlag(config.KeyProjectRoot, rootCmd.PersistentFlags().Lookup("project"))
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

// newLogger returns the stderr logger shared by the controller and scanner.
func newLogger(level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: branding.CLIName(),
		Level:  lvl,
	})
}

// newController resolves settings and opens the project's registry.
func newController() (*controller.Controller, *log.Logger, error) {
	s, err := config.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("resolving configuration: %w", err)
	}
	logger := newLogger(s.LogLevel)
	logger.Debug("opening registry", "root", s.ProjectRoot, "file", s.RegistryFile)
	return controller.New(controller.Options{Settings: s, Logger: logger}), logger, nil
}

func versionString() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", buildVersion, buildCommit, buildDate)
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	return fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
}
