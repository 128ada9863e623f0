package layout

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/stepmotion/pkg/scene"
)

func convolutionState() map[string]any {
	return map[string]any{
		"inputGrid": []any{
			[]any{float64(1), float64(2), float64(3)},
			[]any{float64(4), float64(5), float64(6)},
			[]any{float64(7), float64(8), float64(9)},
		},
		"kernel": []any{
			[]any{float64(1), float64(0)},
			[]any{float64(0), float64(-1)},
		},
		"outputGrid": []any{
			[]any{float64(0), float64(0)},
			[]any{float64(0), float64(0)},
		},
	}
}

func TestConvolutionGrids(t *testing.T) {
	sc := ConvolutionGrid(mkStep(convolutionState()), testSize(), nil)

	// 9 input + 4 kernel + 4 output cells.
	if got := countKind(sc, scene.KindElement); got != 17 {
		t.Errorf("cell count = %d, want 17", got)
	}
	// All three grids share one cell size: 7 columns across 564 usable
	// pixels clamps to the 56 cap.
	in := getElement(t, sc, "in-0-0")
	k := getElement(t, sc, "k-0-0")
	out := getElement(t, sc, "out-0-0")
	if in.Width != 56 || k.Width != 56 || out.Width != 56 {
		t.Errorf("cell widths = %v/%v/%v, want 56 for all grids", in.Width, k.Width, out.Width)
	}
	if !(in.X < k.X && k.X < out.X) {
		t.Error("grids should be ordered input < kernel < output")
	}
	for _, id := range []string{"in-title", "k-title", "out-title"} {
		if sc.ByID(id) == nil {
			t.Errorf("missing grid title %q", id)
		}
	}
	if got := getElement(t, sc, "in-2-2").Label; got != "9" {
		t.Errorf("in-2-2 label = %q, want 9", got)
	}
}

func TestConvolutionKernelWindow(t *testing.T) {
	theme := scene.DefaultTheme()
	sc := ConvolutionGrid(mkStep(convolutionState(),
		act("highlightKernelPosition", map[string]any{
			"row": float64(1), "col": float64(0),
			"kernelHeight": float64(2), "kernelWidth": float64(2),
		}),
	), testSize(), nil)

	p := sc.ByID("kwin")
	if p == nil {
		t.Fatal("kernel window missing")
	}
	win, ok := p.(scene.Container)
	if !ok {
		t.Fatalf("kwin is %T, want scene.Container", p)
	}
	if win.Width != 112 || win.Height != 112 {
		t.Errorf("window = %vx%v, want 112x112 (2x2 cells of 56)", win.Width, win.Height)
	}
	anchor := getElement(t, sc, "in-1-0")
	if win.X != anchor.X || win.Y != anchor.Y {
		t.Errorf("window at (%v,%v), want anchored on in-1-0 (%v,%v)", win.X, win.Y, anchor.X, anchor.Y)
	}

	// Cells under the window take the tint, others stay plain.
	tint := theme.Resolve("highlight", theme.Fill)
	if got := getElement(t, sc, "in-1-0").Fill; got != tint {
		t.Errorf("windowed cell fill = %v, want highlight", got.Hex())
	}
	if got := getElement(t, sc, "in-0-0").Fill; got != theme.Surface {
		t.Errorf("outside cell fill = %v, want surface", got.Hex())
	}
}

func TestConvolutionWriteOutputCell(t *testing.T) {
	state := convolutionState()
	before, _ := json.Marshal(state)

	sc := ConvolutionGrid(mkStep(state,
		act("writeOutputCell", map[string]any{
			"row": float64(0), "col": float64(1), "value": float64(-4),
		}),
	), testSize(), nil)

	cell := getElement(t, sc, "out-0-1")
	if cell.Label != "-4" {
		t.Errorf("out-0-1 label = %q, want -4", cell.Label)
	}
	theme := scene.DefaultTheme()
	if cell.Fill != theme.Resolve("highlight", theme.Fill) {
		t.Errorf("out-0-1 fill = %v, want highlight", cell.Fill.Hex())
	}

	// The write lands on the layout's copy, never the trace state.
	after, _ := json.Marshal(state)
	if string(before) != string(after) {
		t.Error("writeOutputCell mutated the input state")
	}
}

func TestConvolutionProductsBadge(t *testing.T) {
	sc := ConvolutionGrid(mkStep(convolutionState(),
		act("showConvolutionProducts", map[string]any{
			"row": float64(0), "col": float64(0),
			"products": []any{float64(1), float64(-5)},
			"sum":      float64(-4),
		}),
	), testSize(), nil)

	if got := getAnnotation(t, sc, "sum").Text; got != "sum = -4" {
		t.Errorf("sum badge = %q, want %q", got, "sum = -4")
	}
}

func TestConvolutionEmptyState(t *testing.T) {
	sc := ConvolutionGrid(mkStep(nil), testSize(), nil)
	if err := sc.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if sc.ByID("in-title") != nil {
		t.Error("empty grids should not emit titles")
	}
}
