package layout

import (
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// AttentionHeatmap renders an attention weight matrix as a heatmap with
// token labels on both axes. Weights come from the step's visual actions
// when present (showAttentionWeights / showFullAttentionMatrix), falling
// back to state.attentionWeights.
func AttentionHeatmap(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	tokens := stateStrings(step.State, "tokens")
	weights := stateMatrix(step.State, "attentionWeights")
	queryRow := -1
	head := ""

	for _, a := range step.VisualActions {
		switch a.Type {
		case "showAttentionWeights", "showFullAttentionMatrix":
			if m, ok := a.FloatMatrix("weights"); ok {
				weights = m
			}
			if q, ok := a.Int("queryIdx"); ok {
				queryRow = q
			}
		case "activateHead":
			if h, ok := a.Int("head"); ok {
				head = "head " + strconv.Itoa(h)
			} else if s, ok := a.String("head"); ok {
				head = s
			}
		default:
		}
	}
	if len(weights) == 0 {
		text, kind := lastMessage(step)
		messageBanner(sc, size, theme, text, kind)
		return sc
	}

	rows := len(weights)
	cols := 0
	for _, r := range weights {
		if len(r) > cols {
			cols = len(r)
		}
	}

	// Square plot region, centered, leaving room for axis labels.
	side := size.Width - 2*padding
	if h := size.Height - 2*padding; h < side {
		side = h
	}
	x0 := (size.Width - side) / 2
	y0 := (size.Height - side) / 2

	sc.Add(scene.Overlay{
		Base: scene.Base{ID: "attn", Opacity: 1},
		Mode: scene.ModeHeatmap,
		X:    x0, Y: y0, Width: side, Height: side,
		Values: weights,
		Stops:  scene.HeatRamp(),
		VMin:   0, VMax: 1,
	})

	cellW := side / float64(cols)
	cellH := side / float64(rows)
	for j := 0; j < cols && j < len(tokens); j++ {
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "col-" + strconv.Itoa(j), Z: 1, Opacity: 1},
			Form:     scene.FormLabel,
			X:        x0 + (float64(j)+0.5)*cellW,
			Y:        y0 - 12,
			Text:     tokens[j],
			TextSize: subSize,
			Color:    theme.Text,
		})
	}
	for i := 0; i < rows && i < len(tokens); i++ {
		color := theme.Text
		if i == queryRow {
			color = theme.Resolve("highlight", theme.Text)
		}
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "row-" + strconv.Itoa(i), Z: 1, Opacity: 1},
			Form:     scene.FormLabel,
			X:        x0 - 12,
			Y:        y0 + (float64(i)+0.5)*cellH,
			Text:     tokens[i],
			TextSize: subSize,
			Color:    color,
		})
	}
	if queryRow >= 0 && queryRow < rows {
		sc.Add(scene.Container{
			Base: scene.Base{ID: "query", Z: 1, Opacity: 1},
			X:    x0, Y: y0 + float64(queryRow)*cellH,
			Width: side, Height: cellH,
			Stroke: theme.Resolve("highlight", theme.Stroke), StrokeWidth: 2,
			TextColor: theme.Text, TextSize: subSize,
		})
	}
	if head != "" {
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "head", Z: 2, Opacity: 1},
			Form:     scene.FormBadge,
			X:        x0 + side - 30,
			Y:        y0 - 12,
			Text:     head,
			TextSize: subSize,
			Color:    scene.RGB(0xff, 0xff, 0xff),
			Fill:     theme.Resolve("accent", theme.Stroke),
		})
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}
