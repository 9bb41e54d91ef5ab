package cli

import (
	"context"
	"errors"
	"image"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/intothevoid/tftsight/pkg/capture"
	"github.com/intothevoid/tftsight/pkg/config"
	"github.com/intothevoid/tftsight/pkg/hotkey"
	"github.com/intothevoid/tftsight/pkg/pipeline"
	"github.com/intothevoid/tftsight/pkg/roster"
	"github.com/intothevoid/tftsight/pkg/tally"
	"github.com/intothevoid/tftsight/pkg/ui"
	"github.com/intothevoid/tftsight/pkg/vision"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const appID = "com.intothevoid.tftsight"

var overlayCmd = &cobra.Command{
	Use:   "overlay",
	Short: "Run the board overlay (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOverlay(cmd)
	},
}

func init() {
	addOverlayFlags(overlayCmd)
}

func addOverlayFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("mode", "m", "", "Capture mode: watch or hotkey")
	cmd.Flags().StringP("region", "r", "", "Capture region x,y,w,h or full")
	cmd.Flags().String("backend", "", "Capture backend: screenshot or robotgo")
	cmd.Flags().Duration("interval", 0, "Time between readings in watch mode")
	cmd.Flags().Int("shots", 0, "Screenshots per reading")
	cmd.Flags().String("model", "", "Path to the ONNX model")
	cmd.Flags().BoolP("preview", "p", false, "Show the annotated capture in the overlay")
}

// applyOverlayFlags lets explicitly set flags override the loaded config.
func applyOverlayFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	if f.Changed("mode") {
		c.Mode, _ = f.GetString("mode")
	}
	if f.Changed("region") {
		s, _ := f.GetString("region")
		r, err := config.ParseRegion(s)
		if err != nil {
			return err
		}
		c.Region = r
	}
	if f.Changed("backend") {
		c.Backend, _ = f.GetString("backend")
	}
	if f.Changed("interval") {
		c.Interval, _ = f.GetDuration("interval")
	}
	if f.Changed("shots") {
		c.BurstShots, _ = f.GetInt("shots")
	}
	if f.Changed("model") {
		c.ModelPath, _ = f.GetString("model")
	}
	if f.Changed("preview") {
		c.ShowPreview, _ = f.GetBool("preview")
	}
	return c.ValidateOverlay()
}

func runOverlay(cmd *cobra.Command) error {
	if err := applyOverlayFlags(cmd, cfg); err != nil {
		return err
	}

	r, err := loadRoster(cfg)
	if err != nil {
		return err
	}
	pool, err := roster.ParsePool(cfg.PoolSizes)
	if err != nil {
		return err
	}
	src, err := newSource(cfg)
	if err != nil {
		return err
	}
	det, err := newDetector(cfg, r)
	if err != nil {
		return err
	}
	// closed only once the pipeline has stopped using it
	detOpen := true
	defer func() {
		if detOpen {
			det.Close()
		}
	}()

	screen, err := capture.DisplayBounds(cfg.Display)
	if err != nil {
		log.Warn().Err(err).Msg("display size unknown, using default overlay size")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a := app.NewWithID(appID)
	overlay := ui.NewOverlay(a, ui.Options{
		Title:       "tftsight",
		Screen:      screen.Size(),
		Scale:       cfg.ScreenScale,
		Alpha:       cfg.OverlayAlpha,
		ShowPreview: cfg.ShowPreview,
		OnClose:     cancel,
	})

	p := &pipeline.Pipeline{
		Source:    src,
		Detector:  det,
		Roster:    r,
		Pool:      pool,
		TopN:      cfg.TopN,
		Shots:     cfg.BurstShots,
		ShotDelay: cfg.BurstDelay,
		Interval:  cfg.Interval,
		Comps:     loadComps(cfg.CompsPath),
		Sink: pipeline.SinkFunc(func(s tally.Summary, frame image.Image) {
			log.Debug().Int("units", s.Total).Int("unknown", s.Unknown).Msg("reading")
			overlay.Update(s, frame)
		}),
	}
	if cfg.Smoothing > 0 {
		p.Smoother = tally.NewSmoother(cfg.Smoothing)
	}
	if cfg.ShowPreview {
		p.Annotate = vision.AnnotateImage
	}

	trigger := pipeline.NewTrigger()
	listener := &hotkey.Listener{
		ExitKey: cfg.ExitKey,
		OnExit:  overlay.Close,
	}
	if cfg.Mode == config.ModeHotkey {
		listener.Trigger = cfg.Hotkey
		listener.OnTrigger = func() {
			if !trigger.Fire() {
				log.Debug().Msg("capture already pending, trigger dropped")
			}
		}
		if cfg.CaptureOnBoot {
			trigger.Fire()
		}
	}
	if err := listener.Start(ctx); err != nil {
		return err
	}

	loop := pipeline.Go(func() error {
		if cfg.Mode == config.ModeHotkey {
			return p.RunTriggered(ctx, trigger.C())
		}
		return p.RunWatch(ctx)
	})

	// Ctrl+C in the terminal closes the window too
	go func() {
		<-ctx.Done()
		overlay.Close()
	}()

	log.Info().Str("mode", cfg.Mode).Str("exit", cfg.ExitKey).Msg("overlay running")
	overlay.Run()

	cancel()
	listener.Stop()
	if err := loop.Wait(5 * time.Second); err != nil {
		if errors.Is(err, pipeline.ErrStillRunning) {
			// a detection is still in flight; leave the net to process exit
			detOpen = false
		}
		return err
	}
	log.Info().Msg("overlay closed")
	return nil
}
