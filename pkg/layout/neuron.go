package layout

import (
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// Neuron renders a single computational unit: input circles feeding
// weighted edges into a summation box, then an activation box, then the
// output. Backs perceptron and single-neuron traces.
func Neuron(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	inputs := stateFloats(step.State, "inputs")
	weights := stateFloats(step.State, "weights")
	bias, hasBias := stateFloat(step.State, "bias")
	actName := stateString(step.State, "activationFunction")
	output, hasOutput := stateFloat(step.State, "output")

	var weighted []float64
	showWeighted := false
	actHighlight := false

	for _, a := range step.VisualActions {
		switch a.Type {
		case "showWeightedValues":
			showWeighted = true
			if vals, ok := a.Floats("weightedInputs"); ok {
				weighted = vals
			}
		case "updateWeights":
			if vals, ok := a.Floats("weights"); ok {
				weights = vals
			}
		case "showActivationFunction":
			actHighlight = true
			if name, ok := a.String("name"); ok && name != "" {
				actName = name
			}
		default:
		}
	}

	n := len(inputs)
	if n == 0 {
		text, kind := lastMessage(step)
		messageBanner(sc, size, theme, text, kind)
		return sc
	}

	const inD = 44.0
	inX := padding + inD/2
	spacing := (size.Height - 2*padding) / float64(n)
	if spacing > inD+36 {
		spacing = inD + 36
	}
	centerY := size.Height / 2
	inY := func(i int) float64 {
		return centerY + (float64(i)-float64(n-1)/2)*spacing
	}

	sumW, sumH := 72.0, 72.0
	sumX := size.Width * 0.46
	actX := sumX + sumW + 70
	outX := actX + sumW + 90

	// Weighted edges into the summation box.
	for i := range inputs {
		label := ""
		if i < len(weights) {
			label = "w=" + formatValue(weights[i])
		}
		if showWeighted && i < len(weighted) {
			label = formatValue(weighted[i])
		}
		color := theme.Muted
		if showWeighted {
			color = theme.Resolve("active", theme.Muted)
		}
		sc.Add(scene.Connection{
			Base:  scene.Base{ID: "w-" + strconv.Itoa(i), Opacity: 1},
			X1:    inX + inD/2, Y1: inY(i),
			X2:    sumX, Y2: centerY,
			Color: color, Width: 1.5,
			Label: label, TextColor: theme.Text, TextSize: subSize,
		})
	}

	for i, v := range inputs {
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "in-" + strconv.Itoa(i), Z: 1, Opacity: 1},
			Shape: scene.ShapeCircle,
			X:     inX - inD/2, Y: inY(i) - inD/2, Width: inD, Height: inD,
			Fill: theme.Surface, Stroke: theme.Stroke, StrokeWidth: 1.5,
			Label: formatValue(v), SubLabel: "x" + strconv.Itoa(i),
			TextColor: theme.Text, TextSize: labelSize,
		})
	}

	sumLabel := "Σ"
	if hasBias {
		sumLabel = "Σ + " + formatValue(bias)
	}
	sc.Add(scene.Element{
		Base:  scene.Base{ID: "sum", Z: 1, Opacity: 1},
		Shape: scene.ShapeBox,
		X:     sumX, Y: centerY - sumH/2, Width: sumW, Height: sumH,
		Fill: theme.Fill, Stroke: theme.Stroke, StrokeWidth: 1.5,
		Label: sumLabel, TextColor: theme.Text, TextSize: labelSize,
	})

	actFill := theme.Fill
	if actHighlight {
		actFill = theme.Resolve("highlight", theme.Fill)
	}
	actLabel := "f"
	if actName != "" {
		actLabel = actName
	}
	sc.Add(scene.Connection{
		Base: scene.Base{ID: "sum-act", Opacity: 1},
		X1:   sumX + sumW, Y1: centerY, X2: actX, Y2: centerY,
		Color: theme.Stroke, Width: 1.5, ArrowEnd: true,
	})
	sc.Add(scene.Element{
		Base:  scene.Base{ID: "act", Z: 1, Opacity: 1},
		Shape: scene.ShapeBox,
		X:     actX, Y: centerY - sumH/2, Width: sumW, Height: sumH,
		Fill: actFill, Stroke: theme.Stroke, StrokeWidth: 1.5,
		Label: actLabel, TextColor: theme.Text, TextSize: labelSize,
	})

	outLabel := "?"
	outFill := theme.Surface
	if hasOutput {
		outLabel = formatValue(output)
		outFill = theme.Resolve("success", theme.Surface)
	}
	sc.Add(scene.Connection{
		Base: scene.Base{ID: "act-out", Opacity: 1},
		X1:   actX + sumW, Y1: centerY, X2: outX - inD/2, Y2: centerY,
		Color: theme.Stroke, Width: 1.5, ArrowEnd: true,
	})
	sc.Add(scene.Element{
		Base:  scene.Base{ID: "out", Z: 1, Opacity: 1},
		Shape: scene.ShapeCircle,
		X:     outX - inD/2, Y: centerY - inD/2, Width: inD, Height: inD,
		Fill: outFill, Stroke: theme.Stroke, StrokeWidth: 1.5,
		Label: outLabel, SubLabel: "y",
		TextColor: theme.Text, TextSize: labelSize,
	})

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}
