package scene

import (
	"reflect"
	"testing"
)

// numericPair builds a stable transition whose endpoints differ only in
// numeric and color attributes, so boundary checks can compare by value.
func numericPair() (Element, Element) {
	from := Element{
		Base:  Base{ID: "cell-3", Z: 2, Opacity: 1},
		Shape: ShapeBox,
		X:     100, Y: 50, Width: 50, Height: 50,
		Fill: RGB(0xe2, 0xe8, 0xf0), Stroke: RGB(0x47, 0x55, 0x69),
		StrokeWidth: 1, Label: "7", TextColor: RGB(0x0f, 0x17, 0x2a), TextSize: 14,
	}
	to := from
	to.X = 200
	to.Y = 80
	to.Width = 60
	to.StrokeWidth = 3
	to.TextSize = 16
	to.Opacity = 0.5
	to.Fill = RGB(0xfb, 0xbf, 0x24)
	return from, to
}

func TestInterpolateStableBoundaries(t *testing.T) {
	from, to := numericPair()
	tr := Transition{ID: "cell-3", State: StateStable, From: from, To: to}

	if got := Interpolate(tr, 0); !reflect.DeepEqual(got, from) {
		t.Errorf("t=0:\n got %+v\nwant %+v", got, from)
	}
	if got := Interpolate(tr, 1); !reflect.DeepEqual(got, to) {
		t.Errorf("t=1:\n got %+v\nwant %+v", got, to)
	}
}

func TestInterpolateMidpoint(t *testing.T) {
	from, to := numericPair()
	tr := Transition{ID: "cell-3", State: StateStable, From: from, To: to}

	got := Interpolate(tr, 0.5).(Element)
	if got.X != 150 {
		t.Errorf("X at t=0.5 = %g, want exactly 150", got.X)
	}
	if got.Width != 55 || got.StrokeWidth != 2 || got.TextSize != 15 {
		t.Errorf("numeric midpoints = %g/%g/%g, want 55/2/15",
			got.Width, got.StrokeWidth, got.TextSize)
	}
	if got.Opacity != 0.75 {
		t.Errorf("Opacity at t=0.5 = %g, want 0.75", got.Opacity)
	}
}

func TestInterpolateColorPerChannel(t *testing.T) {
	from, to := numericPair()
	from.Fill = RGB(0, 0, 0)
	to.Fill = RGB(100, 200, 50)
	tr := Transition{ID: "cell-3", State: StateStable, From: from, To: to}

	got := Interpolate(tr, 0.5).(Element)
	if want := RGB(50, 100, 25); got.Fill != want {
		t.Errorf("Fill at t=0.5 = %v, want %v", got.Fill, want)
	}
}

func TestInterpolateDiscreteTakesTarget(t *testing.T) {
	from, to := numericPair()
	to.Shape = ShapeCircle
	to.Label = "42"
	to.Z = 9
	tr := Transition{ID: "cell-3", State: StateStable, From: from, To: to}

	// Discrete attributes and z switch immediately, even at t=0.
	got := Interpolate(tr, 0).(Element)
	if got.Shape != ShapeCircle {
		t.Errorf("Shape at t=0 = %q, want target %q", got.Shape, ShapeCircle)
	}
	if got.Label != "42" {
		t.Errorf("Label at t=0 = %q, want target %q", got.Label, "42")
	}
	if got.Z != 9 {
		t.Errorf("Z at t=0 = %d, want target 9", got.Z)
	}
	// Numerics still start at the source.
	if got.X != from.X {
		t.Errorf("X at t=0 = %g, want source %g", got.X, from.X)
	}
}

func TestInterpolateEntering(t *testing.T) {
	_, to := numericPair()
	to.Opacity = 0.8
	tr := Transition{ID: "cell-3", State: StateEntering, To: to}

	got := Interpolate(tr, 0.25).(Element)
	if got.Opacity != 0.2 {
		t.Errorf("entering opacity at t=0.25 = %g, want 0.2", got.Opacity)
	}
	if got.X != to.X || got.Label != to.Label {
		t.Errorf("entering primitive should keep target geometry")
	}

	if got := Interpolate(tr, 1).(Element); got.Opacity != 0.8 {
		t.Errorf("entering opacity at t=1 = %g, want target's 0.8", got.Opacity)
	}
}

func TestInterpolateExiting(t *testing.T) {
	from, _ := numericPair()
	tr := Transition{ID: "cell-3", State: StateExiting, From: from}

	got := Interpolate(tr, 0.25).(Element)
	if got.Opacity != 0.75 {
		t.Errorf("exiting opacity at t=0.25 = %g, want 0.75", got.Opacity)
	}

	// Near the end the remaining sliver of opacity drops to nothing.
	if got := Interpolate(tr, 0.995); got != nil {
		t.Errorf("exiting at t=0.995 = %+v, want nil", got)
	}
	if got := Interpolate(tr, 1); got != nil {
		t.Errorf("exiting at t=1 = %+v, want nil", got)
	}
}

func TestInterpolateExitingScalesOwnOpacity(t *testing.T) {
	from, _ := numericPair()
	from.Opacity = 0.5
	tr := Transition{ID: "cell-3", State: StateExiting, From: from}

	got := Interpolate(tr, 0.5).(Element)
	if got.Opacity != 0.25 {
		t.Errorf("half-transparent exit at t=0.5 = %g, want 0.25", got.Opacity)
	}
}

func TestInterpolateKindMismatch(t *testing.T) {
	from, _ := numericPair()
	to := Annotation{
		Base: Base{ID: "cell-3", Opacity: 1},
		Form: FormBadge, X: 10, Y: 10, Text: "done",
		TextSize: 12, Color: RGB(0, 0, 0), Fill: RGB(0x34, 0xd3, 0x99),
	}
	tr := Transition{ID: "cell-3", State: StateStable, From: from, To: to}

	for _, tt := range []float64{0, 0.5, 1} {
		if got := Interpolate(tr, tt); !reflect.DeepEqual(got, to) {
			t.Errorf("kind mismatch at t=%g = %+v, want target unchanged", tt, got)
		}
	}
}

func TestInterpolateConnection(t *testing.T) {
	from := Connection{
		Base: Base{ID: "arc-compare", Opacity: 1},
		X1:   10, Y1: 100, X2: 110, Y2: 100,
		CurveOffset: -40, Color: RGB(0, 0, 0), Width: 2,
	}
	to := from
	to.X2 = 210
	to.CurveOffset = -80
	to.Width = 4
	to.ArrowEnd = true
	to.Dash = []float64{4, 4}
	tr := Transition{ID: "arc-compare", State: StateStable, From: from, To: to}

	got := Interpolate(tr, 0.5).(Connection)
	if got.X2 != 160 || got.CurveOffset != -60 || got.Width != 3 {
		t.Errorf("connection midpoint = X2 %g, offset %g, width %g; want 160/-60/3",
			got.X2, got.CurveOffset, got.Width)
	}
	if !got.ArrowEnd || !reflect.DeepEqual(got.Dash, []float64{4, 4}) {
		t.Errorf("arrowhead and dash should take target values immediately")
	}
}

func TestInterpolateAnnotation(t *testing.T) {
	from := Annotation{
		Base: Base{ID: "ptr-i", Opacity: 1},
		Form: FormBracket, X: 0, Y: 50, X2: 100,
		TextSize: 12, Color: RGB(0, 0, 0),
	}
	to := from
	to.X = 50
	to.X2 = 200
	tr := Transition{ID: "ptr-i", State: StateStable, From: from, To: to}

	got := Interpolate(tr, 0.5).(Annotation)
	if got.X != 25 || got.X2 != 150 {
		t.Errorf("bracket midpoint = %g..%g, want 25..150", got.X, got.X2)
	}
}

func TestInterpolateOverlayBinarySwitch(t *testing.T) {
	from := Overlay{
		Base: Base{ID: "attn", Opacity: 1},
		Mode: ModeHeatmap, X: 0, Y: 0, Width: 100, Height: 100,
		Values: [][]float64{{0.1}}, Stops: HeatRamp(), VMax: 1,
	}
	to := from
	to.Values = [][]float64{{0.9}}
	tr := Transition{ID: "attn", State: StateStable, From: from, To: to}

	if got := Interpolate(tr, 0.49).(Overlay); got.Values[0][0] != 0.1 {
		t.Errorf("overlay below midpoint = %v, want source values", got.Values)
	}
	if got := Interpolate(tr, 0.5).(Overlay); got.Values[0][0] != 0.9 {
		t.Errorf("overlay at midpoint = %v, want target values", got.Values)
	}
	if got := Interpolate(tr, 1).(Overlay); got.Values[0][0] != 0.9 {
		t.Errorf("overlay at t=1 = %v, want target values", got.Values)
	}
}

func TestInterpolateSceneDropsFadedExits(t *testing.T) {
	from := New(800, 600, RGB(255, 255, 255))
	from.Add(box("stays", 0, 0), box("goes", 0, 60))
	to := New(800, 600, RGB(255, 255, 255))
	to.Add(box("stays", 0, 120))

	plan := PlanTransition(from, to)

	early := InterpolateScene(plan, 0.2)
	if early.Len() != 2 {
		t.Errorf("t=0.2: %d primitives, want 2", early.Len())
	}
	late := InterpolateScene(plan, 0.999)
	if late.Len() != 1 {
		t.Errorf("t=0.999: %d primitives, want 1 (exit faded out)", late.Len())
	}
	if late.ByID("stays") == nil {
		t.Errorf("stable primitive missing from late frame")
	}
}
