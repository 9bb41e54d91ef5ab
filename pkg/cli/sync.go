package cli

import (
	"path/filepath"

	"github.com/fatih/color"
	"github.com/intothevoid/tftsight/pkg/assets"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Regenerate classes.txt, champ_meta.json and champion icons from CommunityDragon",
	RunE: func(cmd *cobra.Command, args []string) error {
		noIcons, _ := cmd.Flags().GetBool("no-icons")
		workers, _ := cmd.Flags().GetInt("workers")

		s := &assets.Syncer{
			FeedURL:     cfg.CDragonURL,
			BaseURL:     cfg.CDragonBase,
			ClassesPath: cfg.ClassesPath,
			MetaPath:    cfg.MetaPath,
			IconSize:    cfg.IconSize,
			Workers:     workers,
		}
		if !noIcons {
			s.IconDir = filepath.Join(cfg.AssetsDir, "champions", "icons")
		}

		res, err := s.Run(cmd.Context())
		if err != nil {
			return err
		}

		color.Green("Wrote %d champions for set %d", len(res.Classes), res.SetNumber)
		color.White("  classes:  %s", cfg.ClassesPath)
		color.White("  metadata: %s", cfg.MetaPath)
		if s.IconDir != "" {
			color.White("  icons:    %s (%d saved)", s.IconDir, res.Icons)
			if res.IconsFailed > 0 {
				color.Yellow("  %d icons could not be downloaded", res.IconsFailed)
			}
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().Bool("no-icons", false, "Skip downloading champion icons")
	syncCmd.Flags().Int("workers", 8, "Concurrent icon downloads")
}
