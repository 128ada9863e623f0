package layout

import (
	"sort"
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// ===== Shared Array Geometry =====

// arrayGeom positions one row of equal-width cells, centered horizontally.
type arrayGeom struct {
	n      int
	cw, ch float64
	x0, y0 float64
}

func arrayGeometry(size scene.Size, n int, yCenter float64) arrayGeom {
	usable := size.Width - 2*padding
	cw := cellSize(usable, n, minCellSize, maxCellSize)
	rowWidth := float64(n)*cw + float64(n-1)*cellGap
	return arrayGeom{
		n:  n,
		cw: cw,
		ch: cw,
		x0: (size.Width - rowWidth) / 2,
		y0: yCenter - cw/2,
	}
}

func (g arrayGeom) x(i int) float64       { return g.x0 + float64(i)*(g.cw+cellGap) }
func (g arrayGeom) centerX(i int) float64 { return g.x(i) + g.cw/2 }
func (g arrayGeom) in(i int) bool         { return i >= 0 && i < g.n }

// cellRow emits one element per value with ids <prefix>-<i>, index
// sublabels, and per-index fill/opacity overrides.
func cellRow(sc *scene.Scene, g arrayGeom, theme scene.Theme, prefix string, values []float64, fills map[int]scene.Color, dim map[int]bool) {
	for i, v := range values {
		fill, ok := fills[i]
		if !ok {
			fill = theme.Fill
		}
		opacity := 1.0
		if dim[i] {
			opacity = 0.35
		}
		sc.Add(scene.Element{
			Base:  scene.Base{ID: prefix + "-" + strconv.Itoa(i), Opacity: opacity},
			Shape: scene.ShapeBox,
			X:     g.x(i), Y: g.y0, Width: g.cw, Height: g.ch,
			Fill: fill, Stroke: theme.Stroke, StrokeWidth: 1.5,
			Label:     formatValue(v),
			SubLabel:  strconv.Itoa(i),
			TextColor: theme.Text,
			TextSize:  labelSize,
		})
	}
}

// pointerRow emits one pointer annotation per named pointer below the
// cells, staggered so pointers sharing an index never overlap.
// Out-of-range targets are dropped.
func pointerRow(sc *scene.Scene, g arrayGeom, theme scene.Theme, ptrs map[string]int) {
	levels := staggerLevels(ptrs)
	pointerColor := theme.Resolve("pointer", theme.Stroke)
	for _, name := range sortedKeys(ptrs) {
		idx := ptrs[name]
		if !g.in(idx) {
			continue
		}
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "ptr-" + name, Z: 2, Opacity: 1},
			Form:     scene.FormPointer,
			X:        g.centerX(idx),
			Y:        g.y0 + g.ch + 14 + float64(levels[name])*staggerStep,
			Text:     name,
			TextSize: subSize,
			Color:    pointerColor,
		})
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ===== linear-array =====

// LinearArray renders a one-dimensional array with index sublabels, named
// pointers, highlight and dim ranges, and found/not-found emphasis. It
// backs searches and scans (linear search, binary search, two pointers).
func LinearArray(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	values := stateFloats(step.State, "array")
	g := arrayGeometry(size, len(values), size.Height/2)

	fills := make(map[int]scene.Color)
	dim := make(map[int]bool)
	ptrs := make(map[string]int)
	dimAll := false

	setRange := func(a trace.VisualAction, apply func(i int)) {
		from, okF := a.Int("from")
		to, okT := a.Int("to")
		if !okF || !okT {
			return
		}
		for i := from; i <= to; i++ {
			if g.in(i) {
				apply(i)
			}
		}
	}

	for _, a := range step.VisualActions {
		switch a.Type {
		case "movePointer":
			name, okN := a.String("id")
			to, okT := a.Int("to")
			if okN && okT {
				ptrs[name] = to
			}
		case "highlightElement":
			if i, ok := a.Int("index"); ok && g.in(i) {
				color, _ := a.String("color")
				fills[i] = theme.Resolve(color, theme.Resolve("highlight", theme.Fill))
			}
		case "highlightRange":
			color, _ := a.String("color")
			c := theme.Resolve(color, theme.Resolve("highlight", theme.Fill))
			setRange(a, func(i int) { fills[i] = c })
		case "dimRange":
			setRange(a, func(i int) { dim[i] = true })
		case "markSorted":
			if indices, ok := a.Ints("indices"); ok {
				c := theme.Resolve("sorted", theme.Fill)
				for _, i := range indices {
					if g.in(i) {
						fills[i] = c
					}
				}
			}
		case "markFound":
			if i, ok := a.Int("index"); ok && g.in(i) {
				fills[i] = theme.Resolve("found", theme.Fill)
			}
		case "markNotFound":
			dimAll = true
		default:
			// Unknown action types are forward compatibility, not errors.
		}
	}
	if dimAll {
		for i := range values {
			dim[i] = true
		}
	}

	cellRow(sc, g, theme, "cell", values, fills, dim)
	pointerRow(sc, g, theme, ptrs)

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}
