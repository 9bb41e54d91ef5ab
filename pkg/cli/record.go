package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/intothevoid/tftsight/pkg/config"
	"github.com/intothevoid/tftsight/pkg/vision"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gocv.io/x/gocv"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Show a live feed of the capture region, optionally saving frames for training",
	RunE: func(cmd *cobra.Command, args []string) error {
		withDetect, _ := cmd.Flags().GetBool("detect")
		saveDir, _ := cmd.Flags().GetString("save")
		every, _ := cmd.Flags().GetDuration("every")
		if cmd.Flags().Changed("region") {
			s, _ := cmd.Flags().GetString("region")
			r, err := config.ParseRegion(s)
			if err != nil {
				return err
			}
			cfg.Region = r
		}

		src, err := newSource(cfg)
		if err != nil {
			return err
		}

		var det *vision.YOLODetector
		if withDetect {
			r, err := loadRoster(cfg)
			if err != nil {
				return err
			}
			if det, err = newDetector(cfg, r); err != nil {
				return err
			}
			defer det.Close()
		}
		if saveDir != "" {
			if err := os.MkdirAll(saveDir, 0o755); err != nil {
				return err
			}
		}

		window := gocv.NewWindow("Live Screen Feed")
		defer window.Close()

		ctx := cmd.Context()
		var lastSave time.Time
		saved := 0
		log.Info().Msg("recording, press q in the preview window to stop")
		for ctx.Err() == nil {
			img, err := src.Grab(ctx)
			if err != nil {
				log.Error().Err(err).Msg("capture failed")
				time.Sleep(100 * time.Millisecond)
				continue
			}
			mat, err := gocv.ImageToMatRGB(img)
			if err != nil {
				log.Error().Err(err).Msg("convert frame")
				continue
			}

			if saveDir != "" && time.Since(lastSave) >= every {
				name := filepath.Join(saveDir, fmt.Sprintf("frame_%s.png", time.Now().Format("20060102_150405.000")))
				if gocv.IMWrite(name, mat) {
					saved++
					lastSave = time.Now()
				} else {
					log.Warn().Str("path", name).Msg("could not save frame")
				}
			}

			if det != nil {
				dets, err := det.DetectMat(mat, img.Bounds())
				if err != nil {
					log.Error().Err(err).Msg("detection failed")
				} else {
					vision.Annotate(&mat, dets, img.Bounds().Min)
				}
			}

			window.IMShow(mat)
			key := window.WaitKey(1)
			mat.Close()
			if key == 'q' {
				break
			}
		}
		log.Info().Int("saved", saved).Msg("recording stopped")
		return nil
	},
}

func init() {
	recordCmd.Flags().Bool("detect", false, "Draw detections on the feed")
	recordCmd.Flags().String("save", "", "Directory to save raw frames to")
	recordCmd.Flags().Duration("every", time.Second, "Minimum time between saved frames")
	recordCmd.Flags().StringP("region", "r", "", "Capture region x,y,w,h or full")
}
