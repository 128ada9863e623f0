package render

import "testing"

func TestEaseLinear(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 0.75, 1} {
		if got := EaseLinear(v); got != v {
			t.Errorf("EaseLinear(%v) = %v, want %v", v, got, v)
		}
	}
}

func TestEaseInOutCubic(t *testing.T) {
	tests := []struct {
		t, want float64
	}{
		{0, 0},
		{0.25, 0.0625},
		{0.5, 0.5},
		{0.75, 0.9375},
		{1, 1},
	}
	for _, tt := range tests {
		if got := EaseInOutCubic(tt.t); got != tt.want {
			t.Errorf("EaseInOutCubic(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestEasingByName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantOK bool
		probe  float64 // expected value at t=0.25, distinguishes the curves
	}{
		{"default", "", true, 0.0625},
		{"cubic", "cubic", true, 0.0625},
		{"css alias", "ease-in-out", true, 0.0625},
		{"linear", "linear", true, 0.25},
		{"unknown", "bounce", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ease, ok := EasingByName(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("EasingByName(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if !ok {
				if ease != nil {
					t.Errorf("EasingByName(%q) = non-nil easing for unknown name", tt.in)
				}
				return
			}
			if got := ease(0.25); got != tt.probe {
				t.Errorf("EasingByName(%q)(0.25) = %v, want %v", tt.in, got, tt.probe)
			}
		})
	}
}
