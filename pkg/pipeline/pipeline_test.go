package pipeline

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/intothevoid/tftsight/pkg/capture"
	"github.com/intothevoid/tftsight/pkg/detect"
	"github.com/intothevoid/tftsight/pkg/roster"
	"github.com/intothevoid/tftsight/pkg/tally"
)

// scriptedDetector returns one canned result per call, cycling.
type scriptedDetector struct {
	mu      sync.Mutex
	results [][]detect.Detection
	errs    []error
	calls   int
}

func (d *scriptedDetector) Detect(img image.Image) ([]detect.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.calls % len(d.results)
	d.calls++
	if d.errs != nil && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return d.results[i], nil
}

func (d *scriptedDetector) Close() error { return nil }

type recordingSink struct {
	mu        sync.Mutex
	summaries []tally.Summary
	frames    []image.Image
}

func (s *recordingSink) record(sum tally.Summary, frame image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append(s.summaries, sum)
	s.frames = append(s.frames, frame)
}

// sink adapts the recorder through SinkFunc, as callers wiring a plain
// function would.
func (s *recordingSink) sink() Sink {
	return SinkFunc(s.record)
}

func (s *recordingSink) last() tally.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries[len(s.summaries)-1]
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.summaries)
}

func boardSource() capture.Source {
	return capture.SourceFunc(func(ctx context.Context) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 16, 16)), nil
	})
}

func testRoster() *roster.Roster {
	return roster.New([]string{"Vi", "Jinx"}, &roster.Meta{Champions: []roster.Champion{
		{Name: "Vi", Cost: 1, Traits: []string{"Enforcer"}},
		{Name: "Jinx", Cost: 5, Traits: []string{"Rebel"}},
	}})
}

func dets(classes ...int) []detect.Detection {
	out := make([]detect.Detection, len(classes))
	for i, c := range classes {
		out[i] = detect.Detection{Class: c, Confidence: 0.8, Box: image.Rect(0, 0, 4, 4)}
	}
	return out
}

func newPipeline(d detect.Detector, rec *recordingSink) *Pipeline {
	p := &Pipeline{
		Source:   boardSource(),
		Detector: d,
		Roster:   testRoster(),
		Pool:     roster.DefaultPool(),
		TopN:     3,
		Shots:    1,
		Interval: 5 * time.Millisecond,
	}
	if rec != nil {
		p.Sink = rec.sink()
	}
	return p
}

func TestStepMergesBurst(t *testing.T) {
	det := &scriptedDetector{results: [][]detect.Detection{
		dets(0),
		dets(0, 0, 1),
		dets(1),
	}}
	sink := &recordingSink{}
	p := newPipeline(det, sink)
	p.Shots = 3
	p.Comps = []tally.Comp{{Name: "Rebels", Units: []string{"Jinx", "Ekko"}}}

	s, err := p.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}

	if s.Total != 3 {
		t.Errorf("Total = %d, want 3 (max per champion across shots)", s.Total)
	}
	if len(s.Groups) != 2 || s.Groups[0].Top[0].Name != "Vi" || s.Groups[0].Top[0].Count != 2 {
		t.Errorf("unexpected groups %+v", s.Groups)
	}
	if s.Comp == nil || s.Comp.Name != "Rebels" || s.Comp.Matched != 1 {
		t.Errorf("unexpected comp match %+v", s.Comp)
	}
	if sink.count() != 1 {
		t.Errorf("sink updated %d times, want 1", sink.count())
	}
	if sink.frames[0] != nil {
		t.Errorf("expected no preview without annotator")
	}
}

func TestStepSkipsFailedDetections(t *testing.T) {
	det := &scriptedDetector{
		results: [][]detect.Detection{nil, dets(1)},
		errs:    []error{errors.New("inference blew up"), nil},
	}
	p := newPipeline(det, nil)
	p.Shots = 2

	s, err := p.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if s.Total != 1 {
		t.Errorf("Total = %d, want 1", s.Total)
	}
}

func TestStepAllDetectionsFail(t *testing.T) {
	det := &scriptedDetector{results: [][]detect.Detection{nil}, errs: []error{errors.New("no model")}}
	sink := &recordingSink{}
	p := newPipeline(det, sink)

	if _, err := p.Step(context.Background()); !errors.Is(err, ErrNoDetections) {
		t.Errorf("expected ErrNoDetections, got %v", err)
	}
	if sink.count() != 0 {
		t.Errorf("sink should not be updated on failure")
	}
}

func TestStepAnnotatesLastShot(t *testing.T) {
	det := &scriptedDetector{results: [][]detect.Detection{dets(0)}}
	sink := &recordingSink{}
	p := newPipeline(det, sink)

	preview := image.NewRGBA(image.Rect(0, 0, 1, 1))
	var got []detect.Detection
	p.Annotate = func(img image.Image, d []detect.Detection) (image.Image, error) {
		got = d
		return preview, nil
	}

	if _, err := p.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || sink.frames[0] != image.Image(preview) {
		t.Errorf("annotator not applied: dets=%v frame=%v", got, sink.frames[0])
	}
}

func TestRunWatchStopsOnCancel(t *testing.T) {
	det := &scriptedDetector{results: [][]detect.Detection{dets(0)}}
	sink := &recordingSink{}
	p := newPipeline(det, sink)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.RunWatch(ctx) }()

	deadline := time.After(2 * time.Second)
	for sink.count() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d updates before deadline", sink.count())
		case <-time.After(time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("RunWatch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("RunWatch did not stop after cancel")
	}
}

func TestRunWatchContinuesAfterErrors(t *testing.T) {
	det := &scriptedDetector{
		results: [][]detect.Detection{nil, dets(0)},
		errs:    []error{errors.New("flaky"), nil},
	}
	sink := &recordingSink{}
	p := newPipeline(det, sink)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go p.RunWatch(ctx)

	for sink.count() < 2 {
		if ctx.Err() != nil {
			t.Fatalf("loop stalled after errors, %d updates", sink.count())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRunWatchRejectsBadInterval(t *testing.T) {
	p := newPipeline(&scriptedDetector{results: [][]detect.Detection{nil}}, nil)
	p.Interval = 0
	if err := p.RunWatch(context.Background()); err == nil {
		t.Error("expected error for zero interval")
	}
}

func TestRunTriggered(t *testing.T) {
	det := &scriptedDetector{results: [][]detect.Detection{dets(1)}}
	sink := &recordingSink{}
	p := newPipeline(det, sink)

	trig := NewTrigger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.RunTriggered(ctx, trig.C()) }()

	if !trig.Fire() {
		t.Fatal("first Fire should be accepted")
	}
	deadline := time.After(2 * time.Second)
	for sink.count() < 1 {
		select {
		case <-deadline:
			t.Fatal("triggered step never ran")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunTriggered did not stop after cancel")
	}
}

func TestTriggerDropsWhenPending(t *testing.T) {
	trig := NewTrigger()
	if !trig.Fire() {
		t.Fatal("first Fire should succeed")
	}
	if trig.Fire() {
		t.Fatal("second Fire should be dropped while pending")
	}
	<-trig.C()
	if !trig.Fire() {
		t.Fatal("Fire should succeed once drained")
	}
}

func TestRunTriggeredResetsSmoothing(t *testing.T) {
	det := &scriptedDetector{results: [][]detect.Detection{
		dets(0, 0, 0, 0),
		dets(1),
	}}
	sink := &recordingSink{}
	p := newPipeline(det, sink)
	p.Smoother = tally.NewSmoother(0.3)

	trig := NewTrigger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.RunTriggered(ctx, trig.C())

	for want := 1; want <= 2; want++ {
		trig.Fire()
		deadline := time.After(2 * time.Second)
		for sink.count() < want {
			select {
			case <-deadline:
				t.Fatalf("triggered step %d never ran", want)
			case <-time.After(time.Millisecond):
			}
		}
	}

	// without the reset four Vi would still average above one half
	s := sink.last()
	if s.Total != 1 || len(s.Groups) != 1 || s.Groups[0].Top[0].Name != "Jinx" {
		t.Errorf("second snapshot carried history: %+v", s)
	}
}

func TestLoopWait(t *testing.T) {
	release := make(chan struct{})
	boom := errors.New("boom")
	l := Go(func() error {
		<-release
		return boom
	})

	if err := l.Wait(10 * time.Millisecond); !errors.Is(err, ErrStillRunning) {
		t.Fatalf("Wait on a busy loop = %v, want ErrStillRunning", err)
	}
	close(release)
	if err := l.Wait(time.Second); !errors.Is(err, boom) {
		t.Errorf("Wait after return = %v, want boom", err)
	}
	// the result stays available
	if err := l.Wait(time.Millisecond); !errors.Is(err, boom) {
		t.Errorf("second Wait = %v, want boom", err)
	}
}
