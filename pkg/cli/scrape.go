package cli

import (
	"os"

	"github.com/fatih/color"
	"github.com/intothevoid/tftsight/pkg/scrape"
	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape team comps from metatft and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = cfg.ScrapeURL
		}
		out, _ := cmd.Flags().GetString("out")
		if !cmd.Flags().Changed("out") {
			out = cfg.CompsPath
		}

		b, err := scrape.NewBrowser(cmd.Context(), cfg.ChromePath)
		if err != nil {
			return err
		}
		defer b.Close()

		comps, err := scrape.Scrape(cmd.Context(), b, url, cfg.ScrapeTimeout)
		if err != nil {
			return err
		}
		if len(comps) == 0 {
			color.Yellow("No team containers found")
			return nil
		}

		scrape.Print(os.Stdout, comps)
		if out != "" {
			if err := scrape.SaveComps(out, comps); err != nil {
				return err
			}
			color.Green("Saved %d comps to %s", len(comps), out)
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().String("url", "", "Comps page to scrape (default from SCRAPE_URL)")
	scrapeCmd.Flags().StringP("out", "o", "", "Save comps as JSON here; empty to skip (default from COMPS_PATH)")
}
