package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/intothevoid/tftsight/pkg/config"
	"github.com/intothevoid/tftsight/pkg/logutil"
	"github.com/spf13/cobra"
)

// cfg is loaded once before any command runs; flags then override it.
var cfg *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tftsight",
	Short: "TFT board overlay",
	Long: `tftsight watches the Teamfight Tactics board, detects the champions on it
and floats a tally of copies per cost over the game.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.LogLevel = lvl
		}
		logutil.Setup(cfg.LogLevel, cfg.EnableFileLogging)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOverlay(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	addOverlayFlags(rootCmd)

	rootCmd.AddCommand(overlayCmd, syncCmd, scrapeCmd, predictCmd, recordCmd)
}
