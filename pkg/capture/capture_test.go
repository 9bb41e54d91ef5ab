package capture

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"
)

func frame(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestBurstSkipsFailedShots(t *testing.T) {
	calls := 0
	src := SourceFunc(func(ctx context.Context) (image.Image, error) {
		calls++
		switch calls {
		case 2:
			return nil, errors.New("display busy")
		case 3:
			return image.NewRGBA(image.Rectangle{}), nil
		}
		return frame(4, 4), nil
	})

	shots, err := Burst(context.Background(), src, 4, 0)
	if err != nil {
		t.Fatalf("Burst: %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 4 grabs, got %d", calls)
	}
	if len(shots) != 2 {
		t.Errorf("expected 2 usable shots, got %d", len(shots))
	}
}

func TestBurstAllFailed(t *testing.T) {
	boom := errors.New("boom")
	src := SourceFunc(func(ctx context.Context) (image.Image, error) { return nil, boom })

	if _, err := Burst(context.Background(), src, 3, 0); !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom, got %v", err)
	}
}

func TestBurstMinimumOneShot(t *testing.T) {
	calls := 0
	src := SourceFunc(func(ctx context.Context) (image.Image, error) {
		calls++
		return frame(2, 2), nil
	})
	if _, err := Burst(context.Background(), src, 0, 0); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("expected 1 grab, got %d", calls)
	}
}

func TestBurstHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	src := SourceFunc(func(ctx context.Context) (image.Image, error) {
		calls++
		cancel()
		return frame(2, 2), nil
	})

	shots, err := Burst(ctx, src, 5, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 || len(shots) != 1 {
		t.Errorf("expected to stop after first shot, calls=%d shots=%d", calls, len(shots))
	}
}

func TestCrop(t *testing.T) {
	img := frame(100, 50)

	got, err := Crop(img, image.Rect(10, 10, 40, 30))
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 30, 20) {
		t.Errorf("Crop bounds = %v", got.Bounds())
	}

	// clipped to the source
	got, err = Crop(img, image.Rect(90, 40, 200, 200))
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Errorf("clipped Crop bounds = %v", got.Bounds())
	}

	if _, err := Crop(img, image.Rect(200, 200, 300, 300)); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("expected ErrEmptyFrame, got %v", err)
	}
}
