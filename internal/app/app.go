// Package app wires configuration, logging, the CloudWatch client and the UI
// together into a runnable program.
package app

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/ewhitmore/timber/internal/config"
	"github.com/ewhitmore/timber/internal/cw"
	"github.com/ewhitmore/timber/internal/logging"
	"github.com/ewhitmore/timber/internal/prefs"
	"github.com/ewhitmore/timber/internal/ui"
)

// Options carries command line overrides into the app.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string
	// LookbackHours overrides the config's query lookback window when > 0.
	LookbackHours int
}

// Run loads everything and blocks until the UI exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.LookbackHours > 0 {
		cfg.LookbackHours = opts.LookbackHours
	}

	log, closeLog := logging.Setup("")
	defer closeLog()

	userPrefs := prefs.Load("")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	log.WithField("lookback_hours", cfg.LookbackHours).Info("starting timber")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Service:   cw.NewClient(awsCfg),
		Config:    cfg,
		Log:       log,
		ThemeName: userPrefs.Theme,
		PrefsPath: prefs.DefaultPath(),
	})
	if err != nil {
		log.WithError(err).Error("ui exited with error")
		return err
	}

	log.Info("timber exiting")
	return nil
}
