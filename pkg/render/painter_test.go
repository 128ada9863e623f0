package render

import (
	"testing"

	"github.com/matzehuels/stepmotion/pkg/scene"
)

func paintScene(t *testing.T, sc *scene.Scene, dpr float64) *Surface {
	t.Helper()
	surf, err := NewSurface(sc.Width, sc.Height, dpr)
	if err != nil {
		t.Fatalf("NewSurface() error = %v", err)
	}
	if err := NewPainter(surf).Paint(sc); err != nil {
		t.Fatalf("Paint() error = %v", err)
	}
	return surf
}

func pixelAt(s *Surface, x, y int) (r, g, b uint8) {
	pr, pg, pb, _ := s.Image().At(x, y).RGBA()
	return uint8(pr >> 8), uint8(pg >> 8), uint8(pb >> 8)
}

func assertPixel(t *testing.T, s *Surface, x, y int, want scene.Color, tol int) {
	t.Helper()
	r, g, b := pixelAt(s, x, y)
	if absInt(int(r)-int(want.R)) > tol ||
		absInt(int(g)-int(want.G)) > tol ||
		absInt(int(b)-int(want.B)) > tol {
		t.Errorf("pixel (%d,%d) = #%02x%02x%02x, want %s (tolerance %d)",
			x, y, r, g, b, want.Hex(), tol)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var (
	white = scene.RGB(255, 255, 255)
	red   = scene.RGB(255, 0, 0)
	blue  = scene.RGB(0, 0, 255)
	black = scene.RGB(0, 0, 0)
)

func TestPaintBackground(t *testing.T) {
	sc := scene.New(20, 20, scene.RGB(0x12, 0x34, 0x56))
	surf := paintScene(t, sc, 1)
	assertPixel(t, surf, 5, 5, scene.RGB(0x12, 0x34, 0x56), 0)
}

func TestPaintElementShapes(t *testing.T) {
	tests := []struct {
		name       string
		shape      scene.Shape
		cornerIsBG bool // (2,2) lies outside circles and diamonds
	}{
		{"box", scene.ShapeBox, false},
		{"circle", scene.ShapeCircle, true},
		{"diamond", scene.ShapeDiamond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scene.New(40, 40, white)
			sc.Add(scene.Element{
				Base:  scene.Base{ID: "e", Opacity: 1},
				Shape: tt.shape,
				X:     0, Y: 0, Width: 40, Height: 40,
				Fill: red,
			})
			surf := paintScene(t, sc, 1)
			assertPixel(t, surf, 20, 20, red, 1)
			if tt.cornerIsBG {
				assertPixel(t, surf, 2, 2, white, 1)
			}
		})
	}
}

func TestPaintElementStroke(t *testing.T) {
	sc := scene.New(40, 40, white)
	sc.Add(scene.Element{
		Base:  scene.Base{ID: "e", Opacity: 1},
		Shape: scene.ShapeBox,
		X:     0, Y: 0, Width: 40, Height: 40,
		Fill: white, Stroke: black, StrokeWidth: 2,
	})
	surf := paintScene(t, sc, 1)

	if r, _, _ := pixelAt(surf, 20, 0); r > 100 {
		t.Errorf("top edge pixel r = %d, want stroke ink (< 100)", r)
	}
	assertPixel(t, surf, 20, 20, white, 1)
}

func TestPaintElementOpacity(t *testing.T) {
	t.Run("half transparent blends with background", func(t *testing.T) {
		sc := scene.New(40, 40, white)
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "e", Opacity: 0.5},
			Shape: scene.ShapeBox,
			X:     0, Y: 0, Width: 40, Height: 40,
			Fill: red,
		})
		surf := paintScene(t, sc, 1)
		assertPixel(t, surf, 20, 20, scene.RGB(255, 127, 127), 2)
	})

	t.Run("zero opacity is skipped", func(t *testing.T) {
		sc := scene.New(40, 40, white)
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "e", Opacity: 0},
			Shape: scene.ShapeBox,
			X:     0, Y: 0, Width: 40, Height: 40,
			Fill: red,
		})
		surf := paintScene(t, sc, 1)
		assertPixel(t, surf, 20, 20, white, 0)
	})
}

func TestPaintConnection(t *testing.T) {
	base := scene.Connection{
		Base: scene.Base{ID: "c", Opacity: 1},
		X1:   5, Y1: 20, X2: 35, Y2: 20,
		Color: black, Width: 2,
	}

	t.Run("straight line", func(t *testing.T) {
		sc := scene.New(40, 40, white)
		sc.Add(base)
		surf := paintScene(t, sc, 1)
		if r, _, _ := pixelAt(surf, 20, 20); r > 100 {
			t.Errorf("line midpoint r = %d, want ink (< 100)", r)
		}
		assertPixel(t, surf, 20, 30, white, 1)
	})

	t.Run("arrowhead widens the tip", func(t *testing.T) {
		// (27,22) sits inside the arrow triangle but outside the 2px line.
		plain := scene.New(40, 40, white)
		plain.Add(base)
		if r, _, _ := pixelAt(paintScene(t, plain, 1), 27, 22); r < 200 {
			t.Fatalf("pixel beside bare line r = %d, want background (>= 200)", r)
		}

		arrow := base
		arrow.ArrowEnd = true
		sc := scene.New(40, 40, white)
		sc.Add(arrow)
		if r, _, _ := pixelAt(paintScene(t, sc, 1), 27, 22); r > 100 {
			t.Errorf("pixel inside arrowhead r = %d, want ink (< 100)", r)
		}
	})
}

func TestPaintHeatmapCells(t *testing.T) {
	ramp := scene.Ramp{scene.RGB(0, 0, 0), scene.RGB(100, 100, 100), scene.RGB(200, 200, 200)}
	sc := scene.New(40, 20, white)
	sc.Add(scene.Overlay{
		Base: scene.Base{ID: "o", Opacity: 1},
		Mode: scene.ModeHeatmap,
		X:    0, Y: 0, Width: 40, Height: 20,
		Values: [][]float64{{0, 1}},
		Stops:  ramp,
		VMin:   0, VMax: 1,
	})
	surf := paintScene(t, sc, 1)

	assertPixel(t, surf, 10, 10, ramp[0], 1)
	assertPixel(t, surf, 30, 10, ramp[2], 1)
}

func TestPaintGridLines(t *testing.T) {
	sc := scene.New(40, 40, white)
	sc.Add(scene.Overlay{
		Base: scene.Base{ID: "o", Opacity: 1},
		Mode: scene.ModeGrid,
		X:    0, Y: 0, Width: 40, Height: 40,
		Spacing: 10,
		Line:    black,
	})
	surf := paintScene(t, sc, 1)

	if r, _, _ := pixelAt(surf, 10, 5); r > 200 {
		t.Errorf("pixel on grid line r = %d, want ink (<= 200)", r)
	}
	assertPixel(t, surf, 5, 5, white, 0)
}

func TestPaintDevicePixelRatio(t *testing.T) {
	sc := scene.New(40, 30, white)
	sc.Add(scene.Element{
		Base:  scene.Base{ID: "e", Opacity: 1},
		Shape: scene.ShapeBox,
		X:     10, Y: 10, Width: 20, Height: 10,
		Fill: red,
	})
	surf := paintScene(t, sc, 2)

	if surf.PixelWidth() != 80 || surf.PixelHeight() != 60 {
		t.Fatalf("pixel dims = %dx%d, want 80x60", surf.PixelWidth(), surf.PixelHeight())
	}
	// CSS (20,15) lands at physical (40,30).
	assertPixel(t, surf, 40, 30, red, 1)
	assertPixel(t, surf, 10, 10, white, 1)
}

func TestPaintZOrder(t *testing.T) {
	sc := scene.New(40, 40, white)
	// Added top-first; paint order must sort by z, not emission order.
	sc.Add(
		scene.Element{
			Base:  scene.Base{ID: "top", Z: 1, Opacity: 1},
			Shape: scene.ShapeBox,
			X:     10, Y: 10, Width: 20, Height: 20,
			Fill: blue,
		},
		scene.Element{
			Base:  scene.Base{ID: "bottom", Z: 0, Opacity: 1},
			Shape: scene.ShapeBox,
			X:     0, Y: 0, Width: 40, Height: 40,
			Fill: red,
		},
	)
	surf := paintScene(t, sc, 1)

	assertPixel(t, surf, 20, 20, blue, 1)
	assertPixel(t, surf, 5, 5, red, 1)
}

func TestPaintLabelInk(t *testing.T) {
	sc := scene.New(40, 40, white)
	sc.Add(scene.Element{
		Base:  scene.Base{ID: "e", Opacity: 1},
		Shape: scene.ShapeBox,
		X:     0, Y: 0, Width: 40, Height: 40,
		Fill: white, Label: "X", TextColor: black, TextSize: 14,
	})
	surf := paintScene(t, sc, 1)

	found := false
	for y := 5; y < 35 && !found; y++ {
		for x := 5; x < 35 && !found; x++ {
			if r, _, _ := pixelAt(surf, x, y); r < 128 {
				found = true
			}
		}
	}
	if !found {
		t.Error("no glyph ink found in labeled element")
	}
}

func TestCurveControl(t *testing.T) {
	tests := []struct {
		name         string
		conn         scene.Connection
		wantX, wantY float64
	}{
		{
			"straight returns midpoint",
			scene.Connection{X1: 0, Y1: 0, X2: 10, Y2: 20},
			5, 10,
		},
		{
			"negative offset bows a horizontal connection up",
			scene.Connection{X1: 0, Y1: 0, X2: 10, Y2: 0, CurveOffset: -5},
			5, -5,
		},
		{
			"positive offset bows it down",
			scene.Connection{X1: 0, Y1: 0, X2: 10, Y2: 0, CurveOffset: 5},
			5, 5,
		},
		{
			"degenerate endpoints return midpoint",
			scene.Connection{X1: 3, Y1: 4, X2: 3, Y2: 4, CurveOffset: 8},
			3, 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := CurveControl(tt.conn)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("CurveControl() = (%v, %v), want (%v, %v)", x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestArrowPoints(t *testing.T) {
	pts := ArrowPoints(10, 0, 0, 0, 1)

	if pts[0] != [2]float64{10, 0} {
		t.Errorf("tip = %v, want (10, 0)", pts[0])
	}
	// Corners sit behind the tip, mirrored across the shaft.
	if pts[1][0] >= 10 || pts[2][0] >= 10 {
		t.Errorf("corners = %v, %v, want x < tip", pts[1], pts[2])
	}
	if pts[1][0] != pts[2][0] {
		t.Errorf("corner x = %v vs %v, want symmetric", pts[1][0], pts[2][0])
	}
	if pts[1][1]+pts[2][1] > 1e-9 || pts[1][1]+pts[2][1] < -1e-9 {
		t.Errorf("corner y = %v vs %v, want mirrored", pts[1][1], pts[2][1])
	}

	// A wider line gets a longer head.
	wide := ArrowPoints(10, 0, 0, 0, 4)
	if wide[1][0] >= pts[1][0] {
		t.Errorf("width-4 corner x = %v, want further behind than width-1 (%v)", wide[1][0], pts[1][0])
	}
}
