package layout

import (
	"fmt"
	"math"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

const neuronDiameter = 40.0

// Network renders a feedforward network: one column of neurons per layer,
// fully connected to the next, with activation values as labels and
// signal propagation highlighting the active weight fan.
func Network(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	layerSizes := stateInts(step.State, "layerSizes")
	if len(layerSizes) == 0 {
		text, kind := lastMessage(step)
		messageBanner(sc, size, theme, text, kind)
		return sc
	}
	activations := stateMatrix(step.State, "activations")

	type neuronRef struct{ layer, index int }
	active := make(map[neuronRef]float64)
	activeSet := make(map[neuronRef]bool)
	propFrom, propTo := -1, -1

	for _, a := range step.VisualActions {
		switch a.Type {
		case "activateNeuron":
			l, okL := a.Int("layer")
			i, okI := a.Int("index")
			if !okL || !okI || l < 0 || l >= len(layerSizes) || i < 0 || i >= layerSizes[l] {
				continue
			}
			ref := neuronRef{l, i}
			activeSet[ref] = true
			if v, ok := a.Float("value"); ok {
				active[ref] = v
			}
		case "propagateSignal":
			f, okF := a.Int("fromLayer")
			t, okT := a.Int("toLayer")
			if okF && okT {
				propFrom, propTo = f, t
			}
		default:
		}
	}

	// Column per layer, neurons vertically centered within each column.
	layers := len(layerSizes)
	colSpan := (size.Width - 2*padding) / math.Max(float64(layers-1), 1)
	centerY := size.Height / 2
	posOf := func(l, i int) (float64, float64) {
		n := layerSizes[l]
		spacing := math.Min((size.Height-2*padding)/math.Max(float64(n), 1), neuronDiameter+28)
		y := centerY + (float64(i)-float64(n-1)/2)*spacing
		return padding + float64(l)*colSpan, y
	}

	highlight := theme.Resolve("active", theme.Stroke)

	// Weight edges first so neurons paint over them.
	for l := 0; l < layers-1; l++ {
		for i := 0; i < layerSizes[l]; i++ {
			for j := 0; j < layerSizes[l+1]; j++ {
				x1, y1 := posOf(l, i)
				x2, y2 := posOf(l+1, j)
				color, width, opacity := theme.Muted, 1.0, 0.6
				if l == propFrom && l+1 == propTo {
					color, width, opacity = highlight, 2, 1
				}
				sc.Add(scene.Connection{
					Base: scene.Base{
						ID:      fmt.Sprintf("w-%d-%d-%d", l, i, j),
						Opacity: opacity,
					},
					X1: x1, Y1: y1, X2: x2, Y2: y2,
					Color: color, Width: width,
				})
			}
		}
	}

	for l := 0; l < layers; l++ {
		for i := 0; i < layerSizes[l]; i++ {
			x, y := posOf(l, i)
			ref := neuronRef{l, i}
			fill := theme.Fill
			label := ""
			if l < len(activations) && i < len(activations[l]) {
				label = formatValue(activations[l][i])
			}
			if activeSet[ref] {
				fill = theme.Resolve("active", theme.Fill)
				if v, ok := active[ref]; ok {
					label = formatValue(v)
				}
			}
			sc.Add(scene.Element{
				Base:  scene.Base{ID: fmt.Sprintf("n-%d-%d", l, i), Z: 1, Opacity: 1},
				Shape: scene.ShapeCircle,
				X:     x - neuronDiameter/2, Y: y - neuronDiameter/2,
				Width: neuronDiameter, Height: neuronDiameter,
				Fill: fill, Stroke: theme.Stroke, StrokeWidth: 1.5,
				Label: label, TextColor: theme.Text, TextSize: subSize,
			})
		}
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}
