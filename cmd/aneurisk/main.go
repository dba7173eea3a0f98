package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/aneurisk/internal/common"
	"github.com/Veraticus/aneurisk/internal/config"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "aneurisk",
		Short: "🧠 Intracranial aneurysm dataset pipeline",
		Long: `aneurisk loads an intracranial aneurysm dataset, cleans it, derives the
PHASES rupture-risk score, and writes summaries, charts and a run manifest.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/aneurisk/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")

	// Pipeline flags shared by every data command
	rootCmd.PersistentFlags().String("rules", "", "YAML file overriding the PHASES rule tables")
	rootCmd.PersistentFlags().String("on-unresolved", "", "what to do with records that cannot be scored (fail, skip, blank)")
	rootCmd.PersistentFlags().String("subset", "", `keep only matching records, e.g. "Status=ruptured" or "Location~ICA"`)
	rootCmd.PersistentFlags().String("format", "", "summary output format (csv, xlsx, json)")
	rootCmd.PersistentFlags().Int("dpi", 0, "chart resolution")
	rootCmd.PersistentFlags().Int("bins", 0, "histogram bins (0 picks from sample size)")

	// Bind flags to viper
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
	bindFlag("derive.rules_file", "rules")
	bindFlag("derive.on_unresolved", "on-unresolved")
	bindFlag("clean.subset", "subset")
	bindFlag("output.format", "format")
	bindFlag("plot.dpi", "dpi")
	bindFlag("plot.bins", "bins")

	// Add commands
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(cleanCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(plotCmd())
	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(lessonsCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, common.UserMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode separates bad input data from other failures.
func exitCode(err error) int {
	switch {
	case errors.Is(err, common.ErrUnresolvedInput):
		return 3
	case errors.Is(err, common.ErrInvalidConfig), errors.Is(err, common.ErrMissingConfig):
		return 2
	default:
		return 1
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	if cfgFile != "" {
		viper.SetConfigFile(config.ExpandPath(cfgFile))
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		viper.AddConfigPath(fmt.Sprintf("%s/.config/aneurisk", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ANEURISK")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := common.SetupLogger(viper.GetString("logging.level"), viper.GetString("logging.format")); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aneurisk %s\n", version)
		},
	}
}
