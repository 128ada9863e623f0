package layout

import (
	"math"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// Arc curvature grows with index distance so even adjacent-cell arcs
// clear the row, and the bend always points away from the baseline.
const (
	arcRate = 0.15
	arcBase = 18.0
)

type indexPair struct{ i, j int }

// SortingArray renders an array being sorted: the linear-array treatment
// plus compare/swap arcs, pivot and partition markers, and an auxiliary
// row for merge-style algorithms.
func SortingArray(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	values := stateFloats(step.State, "array")
	g := arrayGeometry(size, len(values), size.Height*0.42)

	fills := make(map[int]scene.Color)
	dim := make(map[int]bool)
	ptrs := make(map[string]int)
	auxFills := make(map[int]scene.Color)
	var aux []float64
	var compare, swap *indexPair
	pivot := -1
	partition := math.MinInt

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
	pair := func(a trace.VisualAction) *indexPair {
		i, okI := a.Int("i")
		j, okJ := a.Int("j")
		if !okI || !okJ || !g.in(i) || !g.in(j) {
			return nil
		}
		return &indexPair{i, j}
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
		case "compareElements":
			if p := pair(a); p != nil {
				compare = p
				c := theme.Resolve("compare", theme.Fill)
				fills[p.i], fills[p.j] = c, c
			}
		case "swapElements":
			if p := pair(a); p != nil {
				swap = p
				c := theme.Resolve("highlightAlt", theme.Fill)
				fills[p.i], fills[p.j] = c, c
			}
		case "markSorted":
			if indices, ok := a.Ints("indices"); ok {
				c := theme.Resolve("sorted", theme.Fill)
				for _, i := range indices {
					if g.in(i) {
						fills[i] = c
					}
				}
			}
		case "markPivot":
			if i, ok := a.Int("index"); ok && g.in(i) {
				pivot = i
				fills[i] = theme.Resolve("pivot", theme.Fill)
			}
		case "setPartition":
			if i, ok := a.Int("index"); ok && i >= -1 && i < g.n {
				partition = i
			}
		case "setAuxiliary":
			if vals, ok := a.Floats("array"); ok {
				// Copy before writeOutputCell edits so the action params
				// are never written through.
				aux = append([]float64(nil), vals...)
			}
		case "writeOutputCell":
			if i, ok := a.Int("index"); ok && i >= 0 && i < len(aux) {
				if v, okV := a.Float("value"); okV {
					aux[i] = v
				}
				auxFills[i] = theme.Resolve("highlight", theme.Fill)
			}
		case "highlightAuxiliary":
			if i, ok := a.Int("index"); ok && i >= 0 && i < len(aux) {
				color, _ := a.String("color")
				auxFills[i] = theme.Resolve(color, theme.Resolve("highlight", theme.Fill))
			}
		default:
		}
	}

	cellRow(sc, g, theme, "cell", values, fills, dim)
	pointerRow(sc, g, theme, ptrs)

	if compare != nil {
		sc.Add(arc(g, "arc-compare", *compare, theme.Resolve("compare", theme.Stroke), false))
	}
	if swap != nil {
		sc.Add(arc(g, "arc-swap", *swap, theme.Resolve("highlightAlt", theme.Stroke), true))
	}
	if pivot >= 0 {
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "pivot", Z: 2, Opacity: 1},
			Form:     scene.FormBadge,
			X:        g.centerX(pivot),
			Y:        g.y0 - 34,
			Text:     "pivot",
			TextSize: subSize,
			Color:    scene.RGB(0xff, 0xff, 0xff),
			Fill:     theme.Resolve("pivot", theme.Stroke),
		})
	}
	if partition != math.MinInt {
		x := g.x0 - cellGap
		if partition >= 0 {
			x = g.x(partition) + g.cw + cellGap/2
		}
		sc.Add(scene.Connection{
			Base: scene.Base{ID: "part", Z: 2, Opacity: 1},
			X1:   x, Y1: g.y0 - 16, X2: x, Y2: g.y0 + g.ch + 16,
			Color: theme.Muted, Width: 2, Dash: []float64{6, 4},
		})
	}

	if len(aux) > 0 {
		ag := arrayGeometry(size, len(aux), g.y0+g.ch+120)
		cellRow(sc, ag, theme, "aux", aux, auxFills, nil)
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}

// arc emits a curved connector between the tops of two cells. The offset
// is negative so the bow rises above the row regardless of direction.
func arc(g arrayGeom, id string, p indexPair, color scene.Color, arrows bool) scene.Connection {
	delta := math.Abs(float64(p.j - p.i))
	return scene.Connection{
		Base:        scene.Base{ID: id, Z: 3, Opacity: 1},
		X1:          g.centerX(p.i),
		Y1:          g.y0,
		X2:          g.centerX(p.j),
		Y2:          g.y0,
		CurveOffset: -(g.cw*delta*arcRate + arcBase),
		Color:       color,
		Width:       2,
		ArrowStart:  arrows,
		ArrowEnd:    arrows,
	}
}
