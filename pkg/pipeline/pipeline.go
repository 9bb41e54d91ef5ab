package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/intothevoid/tftsight/pkg/capture"
	"github.com/intothevoid/tftsight/pkg/detect"
	"github.com/intothevoid/tftsight/pkg/roster"
	"github.com/intothevoid/tftsight/pkg/tally"
	"github.com/rs/zerolog/log"
)

// Sink receives each new board reading. frame is the annotated preview of the
// last shot, or nil when annotation is off.
type Sink interface {
	Update(s tally.Summary, frame image.Image)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(s tally.Summary, frame image.Image)

func (f SinkFunc) Update(s tally.Summary, frame image.Image) { f(s, frame) }

// Annotator draws detections onto a copy of a frame.
type Annotator func(img image.Image, dets []detect.Detection) (image.Image, error)

// Pipeline is the capture -> detect -> tally loop behind the overlay.
type Pipeline struct {
	Source    capture.Source
	Detector  detect.Detector
	Roster    *roster.Roster
	Pool      roster.Pool
	TopN      int
	Shots     int
	ShotDelay time.Duration
	Interval  time.Duration
	Smoother  *tally.Smoother
	Comps     []tally.Comp
	Annotate  Annotator
	Sink      Sink
}

var ErrNoDetections = errors.New("pipeline: detector failed on every shot")

// Step reads the board once: a burst of shots, detection on each, merged and
// summarised counts delivered to the sink.
func (p *Pipeline) Step(ctx context.Context) (tally.Summary, error) {
	start := time.Now()

	shots, err := capture.Burst(ctx, p.Source, p.Shots, p.ShotDelay)
	if err != nil {
		return tally.Summary{}, err
	}

	readings := make([]tally.Counts, 0, len(shots))
	var (
		lastShot image.Image
		lastDets []detect.Detection
	)
	for i, shot := range shots {
		dets, err := p.Detector.Detect(shot)
		if err != nil {
			log.Error().Err(err).Int("shot", i+1).Msg("detection failed")
			continue
		}
		readings = append(readings, tally.FromDetections(dets, p.Roster))
		lastShot, lastDets = shot, dets
	}
	if len(readings) == 0 {
		return tally.Summary{}, ErrNoDetections
	}

	counts := tally.Merge(readings...)
	if p.Smoother != nil {
		counts = p.Smoother.Smooth(counts)
	}

	summary := tally.Summarize(counts, p.Roster, p.Pool, p.TopN)
	if len(p.Comps) > 0 {
		summary.Comp = tally.MatchComp(counts, p.Comps)
	}

	var preview image.Image
	if p.Annotate != nil && lastShot != nil {
		if preview, err = p.Annotate(lastShot, lastDets); err != nil {
			log.Warn().Err(err).Msg("annotation failed")
			preview = nil
		}
	}

	log.Debug().Int("shots", len(shots)).Int("units", summary.Total).
		Dur("took", time.Since(start)).Msg("board read")

	if p.Sink != nil {
		p.Sink.Update(summary, preview)
	}
	return summary, nil
}

// RunWatch reads the board every Interval until ctx is done. A failed step is
// logged and the loop carries on.
func (p *Pipeline) RunWatch(ctx context.Context) error {
	if p.Interval <= 0 {
		return fmt.Errorf("pipeline: interval must be positive, got %s", p.Interval)
	}
	log.Info().Dur("interval", p.Interval).Msg("watching board")

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	for {
		p.step(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// RunTriggered reads the board each time trigger fires until ctx is done or
// trigger is closed. Triggered readings are independent snapshots, so any
// smoothing history is dropped before each one.
func (p *Pipeline) RunTriggered(ctx context.Context, trigger <-chan struct{}) error {
	log.Info().Msg("waiting for capture trigger")
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-trigger:
			if !ok {
				return nil
			}
			log.Info().Int("shots", p.Shots).Msg("capturing screenshots for board modelling")
			if p.Smoother != nil {
				p.Smoother.Reset()
			}
			p.step(ctx)
		}
	}
}

func (p *Pipeline) step(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := p.Step(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("board read failed")
	}
}

// Trigger is a one-slot signal: firing while a signal is already pending is
// dropped.
type Trigger struct {
	ch chan struct{}
}

// NewTrigger creates an unfired trigger.
func NewTrigger() *Trigger {
	return &Trigger{ch: make(chan struct{}, 1)}
}

// Fire queues a signal. It reports false when one was already pending.
func (t *Trigger) Fire() bool {
	select {
	case t.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// C is the channel to pass to RunTriggered.
func (t *Trigger) C() <-chan struct{} {
	return t.ch
}

// ErrStillRunning is returned by Loop.Wait when the loop outlives the timeout.
var ErrStillRunning = errors.New("pipeline: loop did not stop in time")

// Loop is a run function executing in the background.
type Loop struct {
	done chan struct{}
	err  error
}

// Go runs fn in its own goroutine.
func Go(fn func() error) *Loop {
	l := &Loop{done: make(chan struct{})}
	go func() {
		l.err = fn()
		close(l.done)
	}()
	return l
}

// Wait returns fn's error once it has returned, or ErrStillRunning after
// timeout. While the loop runs, whatever it uses (the detector) must stay open.
func (l *Loop) Wait(timeout time.Duration) error {
	select {
	case <-l.done:
		return l.err
	case <-time.After(timeout):
		return ErrStillRunning
	}
}
