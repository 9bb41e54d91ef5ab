package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/intothevoid/tftsight/pkg/capture"
	"github.com/intothevoid/tftsight/pkg/capture/robot"
	"github.com/intothevoid/tftsight/pkg/config"
	"github.com/intothevoid/tftsight/pkg/detect"
	"github.com/intothevoid/tftsight/pkg/roster"
	"github.com/intothevoid/tftsight/pkg/scrape"
	"github.com/intothevoid/tftsight/pkg/tally"
	"github.com/intothevoid/tftsight/pkg/vision"
	"github.com/rs/zerolog/log"
)

const (
	backendScreenshot = "screenshot"
	backendRobotgo    = "robotgo"
)

// newSource picks the capture backend named in the config.
func newSource(c *config.Config) (capture.Source, error) {
	switch c.Backend {
	case backendScreenshot, "":
		src, err := capture.NewScreenSource(c.Display, c.Region)
		if err != nil {
			return nil, err
		}
		return src, nil
	case backendRobotgo:
		return robot.New(c.Region), nil
	default:
		return nil, fmt.Errorf("unknown capture backend %q (want %s or %s)", c.Backend, backendScreenshot, backendRobotgo)
	}
}

func loadRoster(c *config.Config) (*roster.Roster, error) {
	r, err := roster.Load(c.ClassesPath, c.MetaPath)
	if err != nil {
		return nil, fmt.Errorf("%w (run `tftsight sync` to generate it)", err)
	}
	log.Info().Int("classes", len(r.Names())).Str("path", c.ClassesPath).Msg("roster loaded")
	return r, nil
}

func newDetector(c *config.Config, r *roster.Roster) (*vision.YOLODetector, error) {
	return vision.NewYOLODetector(detect.Config{
		ModelPath: c.ModelPath,
		Names:     r.Names(),
		Conf:      c.ConfThresh,
		IoU:       c.IoUThresh,
		InputSize: c.InputSize,
	})
}

// loadComps reads saved comps for closest-comp matching. A missing file just
// turns matching off.
func loadComps(path string) []tally.Comp {
	comps, err := scrape.LoadComps(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("ignoring comps file")
		}
		return nil
	}
	log.Info().Int("comps", len(comps)).Msg("comps loaded")
	return scrape.TallyComps(comps)
}
