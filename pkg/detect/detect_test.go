package detect

import (
	"errors"
	"image"
	"reflect"
	"testing"
)

func TestNewLetterbox(t *testing.T) {
	tests := []struct {
		src              image.Rectangle
		size             int
		wantW, wantH     int
		wantPadX, wantPY int
	}{
		{image.Rect(0, 0, 1440, 720), 800, 800, 400, 0, 200},
		{image.Rect(0, 0, 720, 1440), 800, 400, 800, 200, 0},
		{image.Rect(0, 0, 1920, 1080), 640, 640, 360, 0, 140},
		{image.Rect(0, 0, 400, 400), 800, 800, 800, 0, 0},
	}
	for _, tt := range tests {
		lb := NewLetterbox(tt.src, tt.size)
		if lb.Width != tt.wantW || lb.Height != tt.wantH || lb.PadX != tt.wantPadX || lb.PadY != tt.wantPY {
			t.Errorf("NewLetterbox(%v, %d) = %dx%d pad (%d,%d), want %dx%d pad (%d,%d)",
				tt.src, tt.size, lb.Width, lb.Height, lb.PadX, lb.PadY,
				tt.wantW, tt.wantH, tt.wantPadX, tt.wantPY)
		}
	}
}

func TestLetterboxUnmap(t *testing.T) {
	src := image.Rect(560, 0, 2000, 720)
	lb := NewLetterbox(src, 800)

	// the full padded content area maps back onto the whole source
	if got := lb.Unmap(0, 200, 800, 600); got != src {
		t.Errorf("Unmap(content) = %v, want %v", got, src)
	}

	// boxes reaching into the padding are clamped
	got := lb.Unmap(-50, 0, 100, 300)
	if got.Min.X != src.Min.X || got.Min.Y != src.Min.Y {
		t.Errorf("Unmap should clamp to source, got %v", got)
	}
	if got.Max.X != 560+180 || got.Max.Y != 180 {
		t.Errorf("Unmap max = %v, want (740,180)", got.Max)
	}
}

func TestDecodeChannelMajor(t *testing.T) {
	// 2 classes, 3 anchors, laid out [1, 6, 3]
	data := []float32{
		100, 0, 50, // cx
		100, 0, 60, // cy
		20, 0, 10, // w
		40, 0, 10, // h
		0.1, 0.2, 0.5, // class 0
		0.9, 0.1, 0.3, // class 1
	}
	got, err := Decode(data, []int{1, 6, 3}, 2, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	want := []Candidate{
		{Class: 1, Score: 0.9, X1: 90, Y1: 80, X2: 110, Y2: 120},
		{Class: 0, Score: 0.5, X1: 45, Y1: 55, X2: 55, Y2: 65},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Decode = %+v, want %+v", got, want)
	}
}

func TestDecodeAnchorMajor(t *testing.T) {
	// same tensor transposed to [1, 3, 6]
	data := []float32{
		100, 100, 20, 40, 0.1, 0.9,
		0, 0, 0, 0, 0.2, 0.1,
		50, 60, 10, 10, 0.5, 0.3,
	}
	got, err := Decode(data, []int{1, 3, 6}, 2, 0.6)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Class != 1 {
		t.Fatalf("Decode = %+v, want a single class-1 candidate", got)
	}
}

func TestDecodeRejectsBadShape(t *testing.T) {
	tests := []struct {
		name string
		data []float32
		dims []int
	}{
		{"rank", make([]float32, 12), []int{6, 2}},
		{"batch", make([]float32, 12), []int{2, 6, 1}},
		{"classes", make([]float32, 21), []int{1, 7, 3}},
		{"short", make([]float32, 5), []int{1, 6, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.data, tt.dims, 2, 0.25); !errors.Is(err, ErrOutputShape) {
				t.Errorf("expected ErrOutputShape, got %v", err)
			}
		})
	}
}
