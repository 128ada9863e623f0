package render

import (
	"testing"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

func TestNewSurfacePixelDimensions(t *testing.T) {
	tests := []struct {
		name     string
		w, h     float64
		dpr      float64
		wantPW   int
		wantPH   int
		wantDPR  float64
		wantSize scene.Size
	}{
		{"unit ratio", 100, 50, 1, 100, 50, 1, scene.Size{Width: 100, Height: 50}},
		{"retina", 100, 50, 2, 200, 100, 2, scene.Size{Width: 100, Height: 50}},
		{"fractional ratio rounds up", 100, 50, 1.5, 150, 75, 1.5, scene.Size{Width: 100, Height: 50}},
		{"fractional size rounds up", 100.2, 50.7, 1, 101, 51, 1, scene.Size{Width: 100.2, Height: 50.7}},
		{"zero ratio defaults to one", 80, 40, 0, 80, 40, 1, scene.Size{Width: 80, Height: 40}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSurface(tt.w, tt.h, tt.dpr)
			if err != nil {
				t.Fatalf("NewSurface() error = %v", err)
			}
			if s.PixelWidth() != tt.wantPW || s.PixelHeight() != tt.wantPH {
				t.Errorf("pixel dims = %dx%d, want %dx%d",
					s.PixelWidth(), s.PixelHeight(), tt.wantPW, tt.wantPH)
			}
			if s.DPR() != tt.wantDPR {
				t.Errorf("DPR() = %v, want %v", s.DPR(), tt.wantDPR)
			}
			if s.Size() != tt.wantSize {
				t.Errorf("Size() = %v, want %v", s.Size(), tt.wantSize)
			}
			if s.Context() == nil {
				t.Error("Context() = nil, want drawing context")
			}
		})
	}
}

func TestNewSurfaceRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		dpr  float64
	}{
		{"zero width", 0, 100, 1},
		{"negative height", 100, -1, 1},
		{"pixel budget exceeded", 100000, 100000, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSurface(tt.w, tt.h, tt.dpr)
			if err == nil {
				t.Fatal("NewSurface() error = nil, want surface error")
			}
			if !errors.Is(err, errors.ErrCodeSurfaceFailed) {
				t.Errorf("error code = %v, want SURFACE_FAILED", errors.GetCode(err))
			}
		})
	}
}

func TestSurfaceFillAndClear(t *testing.T) {
	s, err := NewSurface(10, 10, 1)
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}

	s.Fill(scene.RGB(255, 0, 0))
	if r, _, _, a := s.Image().At(5, 5).RGBA(); r>>8 != 255 || a>>8 != 255 {
		t.Errorf("after Fill, pixel = r=%d a=%d, want 255/255", r>>8, a>>8)
	}

	s.Clear()
	if _, _, _, a := s.Image().At(5, 5).RGBA(); a != 0 {
		t.Errorf("after Clear, alpha = %d, want 0", a)
	}
}

func TestSurfaceResize(t *testing.T) {
	s, err := NewSurface(100, 50, 1)
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}

	if err := s.Resize(200, 80, 2); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if s.PixelWidth() != 400 || s.PixelHeight() != 160 {
		t.Errorf("pixel dims after resize = %dx%d, want 400x160", s.PixelWidth(), s.PixelHeight())
	}
	if s.DPR() != 2 {
		t.Errorf("DPR() after resize = %v, want 2", s.DPR())
	}

	// A failed resize keeps the previous surface intact.
	if err := s.Resize(-1, 80, 1); err == nil {
		t.Fatal("Resize(-1, ...) error = nil, want surface error")
	}
	if s.PixelWidth() != 400 || s.PixelHeight() != 160 {
		t.Errorf("pixel dims after failed resize = %dx%d, want 400x160 unchanged",
			s.PixelWidth(), s.PixelHeight())
	}
}
