package layout

import (
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// ProbabilityBars renders measurement probabilities per basis state as a
// bar chart. A collapse emphasizes the measured outcome and dims the rest.
func ProbabilityBars(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	probs := stateFloats(step.State, "probabilities")
	labels := stateStrings(step.State, "basisLabels")
	if labels == nil {
		labels = stateStrings(step.State, "labels")
	}
	outcome := -1
	for _, a := range step.VisualActions {
		switch a.Type {
		case "showProbabilities":
			if p, ok := a.Floats("probabilities"); ok {
				probs = p
			}
			if l, ok := a.Strings("labels"); ok {
				labels = l
			}
		case "collapseState":
			if o, ok := a.Int("outcome"); ok {
				outcome = o
			}
		default:
		}
	}
	if len(probs) == 0 {
		text, kind := lastMessage(step)
		messageBanner(sc, size, theme, text, kind)
		return sc
	}

	qubits, _ := stateInt(step.State, "numQubits")
	label := func(k int) string {
		if k < len(labels) {
			return labels[k]
		}
		if qubits > 0 {
			bits := strconv.FormatInt(int64(k), 2)
			for len(bits) < qubits {
				bits = "0" + bits
			}
			return "|" + bits + "⟩"
		}
		return "|" + strconv.Itoa(k) + "⟩"
	}

	n := len(probs)
	bw := cellSize(size.Width-2*padding, n, 18, 72)
	rowWidth := float64(n)*bw + float64(n-1)*cellGap
	x0 := (size.Width - rowWidth) / 2
	baseline := size.Height - padding - 44
	chartH := baseline - padding - 30
	if chartH < 40 {
		chartH = 40
	}

	sc.Add(scene.Connection{
		Base:  scene.Base{ID: "axis", Opacity: 1},
		X1:    x0 - cellGap, Y1: baseline, X2: x0 + rowWidth + cellGap, Y2: baseline,
		Color: theme.Stroke, Width: 1,
	})

	for k, p := range probs {
		x := x0 + float64(k)*(bw+cellGap)
		h := clamp01(p) * chartH
		ks := strconv.Itoa(k)

		fill := theme.Resolve("active", theme.Fill)
		opacity := 1.0
		if outcome >= 0 {
			if k == outcome {
				fill = theme.Resolve("success", fill)
			} else {
				opacity = 0.25
			}
		}
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "bar-" + ks, Z: 1, Opacity: opacity},
			Shape: scene.ShapeBox,
			X:     x, Y: baseline - h,
			Width: bw, Height: h,
			Fill: fill, Stroke: theme.Stroke, StrokeWidth: 1,
		})
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "val-" + ks, Z: 2, Opacity: opacity},
			Form:     scene.FormLabel,
			X:        x + bw/2,
			Y:        baseline - h - 12,
			Text:     formatValue(p*100) + "%",
			TextSize: subSize,
			Color:    theme.Text,
		})
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "base-" + ks, Z: 2, Opacity: opacity},
			Form:     scene.FormLabel,
			X:        x + bw/2,
			Y:        baseline + 16,
			Text:     label(k),
			TextSize: labelSize,
			Color:    theme.Text,
		})
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}
