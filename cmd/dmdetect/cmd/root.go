// Package cmd implements the dmdetect command line.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ericlevine/dmdetect/datamatrix/detector"
	"github.com/ericlevine/dmdetect/internal/config"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg      *config.Config
	detector detector.Config
	logger   *slog.Logger
}

// NewRootCommand builds the dmdetect command tree. Each call gets its own
// viper instance so that commands can be executed repeatedly in tests.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "dmdetect",
		Short: "Locate Data Matrix symbols in images and sample their module grid",
		Long: `dmdetect finds a Data Matrix symbol in an image, classifies its corners,
estimates the module dimensions and samples the rectified module grid.

Examples:
  dmdetect detect label.png
  dmdetect detect label.png --format json --form rectangle
  dmdetect batch scans/*.png --workers 8 --metrics-file dmdetect.prom`,
		SilenceUsage:      true,
		PersistentPreRunE: a.init,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is search in ., $HOME, $XDG_CONFIG_HOME/dmdetect, /etc/dmdetect)")
	pf.BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("form", "auto", "symbol shape (auto, square, rectangle)")
	pf.StringP("format", "f", "text", "output format (text, json, yaml)")
	_ = a.v.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = a.v.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = a.v.BindPFlag("detector.form", pf.Lookup("form"))
	_ = a.v.BindPFlag("output.format", pf.Lookup("format"))

	root.AddCommand(newDetectCommand(a), newBatchCommand(a))
	return root
}

// init loads the configuration once the flags have been parsed.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.NewLoaderWithViper(a.v).LoadWithFile(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	a.detector, err = cfg.ToDetectorConfig(a.logger)
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded", "file", a.v.ConfigFileUsed(), "detector", cfg.Detector)
	return nil
}
