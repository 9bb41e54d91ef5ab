package cli

import (
	"github.com/fatih/color"
	"github.com/intothevoid/tftsight/pkg/config"
	"github.com/intothevoid/tftsight/pkg/vision"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run the detector over a directory of screenshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("source")
		out, _ := cmd.Flags().GetString("out")
		cfg.ConfThresh, _ = cmd.Flags().GetFloat32("conf")
		cropFlag, _ := cmd.Flags().GetString("crop")
		crop, err := config.ParseRegion(cropFlag)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("model") {
			cfg.ModelPath, _ = cmd.Flags().GetString("model")
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		r, err := loadRoster(cfg)
		if err != nil {
			return err
		}
		det, err := newDetector(cfg, r)
		if err != nil {
			return err
		}
		defer det.Close()

		results, err := vision.PredictDir(det, dir, out, crop)
		if err != nil {
			return err
		}

		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				color.Red("%s: %v", res.Path, res.Err)
				continue
			}
			color.Cyan("%s: %d detections", res.Path, len(res.Detections))
			for _, d := range res.Detections {
				color.White("  %s", d)
			}
			if res.Output != "" {
				color.White("  saved %s", res.Output)
			}
		}
		color.Green("Processed %d images (%d failed)", len(results), failed)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringP("source", "s", "images", "Directory of screenshots")
	predictCmd.Flags().StringP("out", "o", "runs/predict", "Directory for annotated copies; empty to skip")
	predictCmd.Flags().Float32("conf", 0.7, "Confidence threshold")
	predictCmd.Flags().String("model", "", "Path to the ONNX model")
	predictCmd.Flags().String("crop", "", "Board region x,y,w,h to cut from each image before detection (e.g. 560,0,1440,720)")
}
