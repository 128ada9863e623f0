package layout

import (
	"strconv"
	"testing"

	"github.com/matzehuels/stepmotion/pkg/scene"
)

func arrayState(values ...float64) map[string]any {
	arr := make([]any, len(values))
	for i, v := range values {
		arr[i] = v
	}
	return map[string]any{"array": arr}
}

// Seven values on an 800x600 surface: the row must come out as exactly
// seven cells with index-derived ids, and a highlight must recolor its
// cell and nothing else.
func TestLinearArrayHighlightElement(t *testing.T) {
	step := mkStep(arrayState(1, 3, 5, 7, 9, 11, 13),
		act("highlightElement", map[string]any{"index": float64(3)}))
	sc := LinearArray(step, testSize(), nil)

	if err := sc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := countKind(sc, scene.KindElement); got != 7 {
		t.Fatalf("element count = %d, want 7", got)
	}

	theme := scene.DefaultTheme()
	for i := 0; i < 7; i++ {
		cell := getElement(t, sc, "cell-"+strconv.Itoa(i))
		if i == 3 {
			if cell.Fill == theme.Fill {
				t.Error("cell-3 fill should differ from the default fill")
			}
			if cell.Fill != theme.Resolve("highlight", theme.Fill) {
				t.Errorf("cell-3 fill = %v, want highlight token", cell.Fill.Hex())
			}
			continue
		}
		if cell.Fill != theme.Fill {
			t.Errorf("cell-%d fill = %v, want default", i, cell.Fill.Hex())
		}
	}
}

// 800 wide minus 2*48 padding leaves 704; 704/7 exceeds the cell cap so
// cells clamp to 96 and the row re-centers.
func TestLinearArrayGeometry(t *testing.T) {
	sc := LinearArray(mkStep(arrayState(1, 3, 5, 7, 9, 11, 13)), testSize(), nil)

	first := getElement(t, sc, "cell-0")
	if first.Width != 96 || first.Height != 96 {
		t.Errorf("cell size = %vx%v, want 96x96", first.Width, first.Height)
	}
	// rowWidth = 7*96 + 6*6 = 708, so x0 = (800-708)/2 = 46.
	if first.X != 46 {
		t.Errorf("cell-0 x = %v, want 46", first.X)
	}
	last := getElement(t, sc, "cell-6")
	if want := 46 + 6*(96+cellGap); last.X != want {
		t.Errorf("cell-6 x = %v, want %v", last.X, want)
	}
	if first.Label != "1" || last.Label != "13" {
		t.Errorf("labels = %q..%q, want 1..13", first.Label, last.Label)
	}
	if first.SubLabel != "0" || last.SubLabel != "6" {
		t.Errorf("index sublabels = %q..%q, want 0..6", first.SubLabel, last.SubLabel)
	}
}

// Cell ids derive from array indices, so the same array yields the same
// ids no matter which actions decorate the step.
func TestLinearArrayIdentityStability(t *testing.T) {
	plain := LinearArray(mkStep(arrayState(4, 8, 15, 16)), testSize(), nil)
	decorated := LinearArray(mkStep(arrayState(4, 8, 15, 16),
		act("highlightRange", map[string]any{"from": float64(1), "to": float64(2)}),
		act("movePointer", map[string]any{"id": "mid", "to": float64(2)}),
	), testSize(), nil)

	for i := 0; i < 4; i++ {
		id := "cell-" + strconv.Itoa(i)
		if plain.ByID(id) == nil || decorated.ByID(id) == nil {
			t.Errorf("%s missing from one of the scenes", id)
		}
	}
}

func TestLinearArrayPointerStagger(t *testing.T) {
	sc := LinearArray(mkStep(arrayState(1, 2, 3, 4, 5),
		act("movePointer", map[string]any{"id": "i", "to": float64(2)}),
		act("movePointer", map[string]any{"id": "j", "to": float64(2)}),
		act("movePointer", map[string]any{"id": "lo", "to": float64(0)}),
	), testSize(), nil)

	pi := getAnnotation(t, sc, "ptr-i")
	pj := getAnnotation(t, sc, "ptr-j")
	lo := getAnnotation(t, sc, "ptr-lo")

	if pi.X != pj.X {
		t.Errorf("pointers on the same index diverge in x: %v vs %v", pi.X, pj.X)
	}
	if pj.Y != pi.Y+staggerStep {
		t.Errorf("ptr-j y = %v, want one stagger step below ptr-i (%v)", pj.Y, pi.Y+staggerStep)
	}
	if lo.Y != pi.Y {
		t.Errorf("lone pointer y = %v, want top level %v", lo.Y, pi.Y)
	}
	if pi.Form != scene.FormPointer {
		t.Errorf("pointer form = %q, want pointer", pi.Form)
	}
}

func TestLinearArrayRangesAndMarks(t *testing.T) {
	theme := scene.DefaultTheme()

	t.Run("highlightRange", func(t *testing.T) {
		sc := LinearArray(mkStep(arrayState(1, 2, 3, 4, 5),
			act("highlightRange", map[string]any{"from": float64(1), "to": float64(3), "color": "active"}),
		), testSize(), nil)
		want := theme.Resolve("active", theme.Fill)
		for i := 0; i < 5; i++ {
			cell := getElement(t, sc, "cell-"+strconv.Itoa(i))
			inRange := i >= 1 && i <= 3
			if inRange && cell.Fill != want {
				t.Errorf("cell-%d fill = %v, want active", i, cell.Fill.Hex())
			}
			if !inRange && cell.Fill != theme.Fill {
				t.Errorf("cell-%d fill = %v, want default", i, cell.Fill.Hex())
			}
		}
	})

	t.Run("dimRange", func(t *testing.T) {
		sc := LinearArray(mkStep(arrayState(1, 2, 3, 4, 5),
			act("dimRange", map[string]any{"from": float64(0), "to": float64(1)}),
		), testSize(), nil)
		if got := getElement(t, sc, "cell-0").Meta().Opacity; got != 0.35 {
			t.Errorf("dimmed opacity = %v, want 0.35", got)
		}
		if got := getElement(t, sc, "cell-4").Meta().Opacity; got != 1 {
			t.Errorf("undimmed opacity = %v, want 1", got)
		}
	})

	t.Run("markSorted", func(t *testing.T) {
		sc := LinearArray(mkStep(arrayState(1, 2, 3),
			act("markSorted", map[string]any{"indices": []any{float64(0), float64(2)}}),
		), testSize(), nil)
		want := theme.Resolve("sorted", theme.Fill)
		if got := getElement(t, sc, "cell-0").Fill; got != want {
			t.Errorf("cell-0 fill = %v, want sorted", got.Hex())
		}
		if got := getElement(t, sc, "cell-1").Fill; got != theme.Fill {
			t.Errorf("cell-1 fill = %v, want default", got.Hex())
		}
	})

	t.Run("markFound", func(t *testing.T) {
		sc := LinearArray(mkStep(arrayState(1, 2, 3),
			act("markFound", map[string]any{"index": float64(1)}),
		), testSize(), nil)
		if got := getElement(t, sc, "cell-1").Fill; got != theme.Resolve("found", theme.Fill) {
			t.Errorf("cell-1 fill = %v, want found", got.Hex())
		}
	})

	t.Run("markNotFound dims everything", func(t *testing.T) {
		sc := LinearArray(mkStep(arrayState(1, 2, 3),
			act("markNotFound", nil),
		), testSize(), nil)
		for i := 0; i < 3; i++ {
			if got := getElement(t, sc, "cell-"+strconv.Itoa(i)).Meta().Opacity; got != 0.35 {
				t.Errorf("cell-%d opacity = %v, want 0.35", i, got)
			}
		}
	})
}

func TestLinearArrayToleratesBadInput(t *testing.T) {
	t.Run("empty state", func(t *testing.T) {
		sc := LinearArray(mkStep(nil), testSize(), nil)
		if err := sc.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
		if got := countKind(sc, scene.KindElement); got != 0 {
			t.Errorf("element count = %d, want 0", got)
		}
	})

	t.Run("non-numeric array", func(t *testing.T) {
		sc := LinearArray(mkStep(map[string]any{"array": []any{"a", "b"}}), testSize(), nil)
		if got := countKind(sc, scene.KindElement); got != 0 {
			t.Errorf("element count = %d, want 0", got)
		}
	})

	t.Run("out-of-range index ignored", func(t *testing.T) {
		sc := LinearArray(mkStep(arrayState(1, 2),
			act("highlightElement", map[string]any{"index": float64(99)}),
			act("movePointer", map[string]any{"id": "p", "to": float64(-5)}),
		), testSize(), nil)
		if err := sc.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
		if sc.ByID("ptr-p") != nil {
			t.Error("out-of-range pointer was emitted")
		}
	})

	t.Run("unknown action type ignored", func(t *testing.T) {
		sc := LinearArray(mkStep(arrayState(1, 2),
			act("sparkleElements", map[string]any{"index": float64(0)}),
		), testSize(), nil)
		if got := countKind(sc, scene.KindElement); got != 2 {
			t.Errorf("element count = %d, want 2", got)
		}
	})
}
