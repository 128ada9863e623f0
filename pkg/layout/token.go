package layout

import (
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

const tokenHeight = 44.0

// TokenSequence renders a row of token pills for tokenizer traces:
// per-token highlights, a merge bracket for BPE pair merges, and an
// embedding column when a token's vector is shown.
func TokenSequence(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	tokens := stateStrings(step.State, "tokens")
	n := len(tokens)
	g := arrayGeometry(size, n, size.Height*0.4)

	fills := make(map[int]scene.Color)
	var merge *indexPair
	mergeResult := ""
	var embedding []float64
	embeddingIdx := -1

	for _, a := range step.VisualActions {
		switch a.Type {
		case "highlightToken":
			if i, ok := a.Int("index"); ok && g.in(i) {
				color, _ := a.String("color")
				fills[i] = theme.Resolve(color, theme.Resolve("highlight", theme.Fill))
			}
		case "mergeTokens":
			left, okL := a.Int("leftIndex")
			right, okR := a.Int("rightIndex")
			if okL && okR && g.in(left) && g.in(right) {
				merge = &indexPair{left, right}
				mergeResult, _ = a.String("result")
				c := theme.Resolve("active", theme.Fill)
				fills[left], fills[right] = c, c
			}
		case "showEmbedding":
			if vec, ok := a.Floats("vector"); ok {
				embedding = vec
				if i, okI := a.Int("index"); okI {
					embeddingIdx = i
				}
			}
		default:
		}
	}

	for i, tok := range tokens {
		fill, ok := fills[i]
		if !ok {
			fill = theme.Surface
		}
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "tok-" + strconv.Itoa(i), Opacity: 1},
			Shape: scene.ShapeBox,
			X:     g.x(i), Y: g.y0, Width: g.cw, Height: tokenHeight,
			Fill: fill, Stroke: theme.Stroke, StrokeWidth: 1,
			Label:     tok,
			SubLabel:  strconv.Itoa(i),
			TextColor: theme.Text,
			TextSize:  labelSize,
		})
	}

	if merge != nil {
		y := g.y0 + tokenHeight + 16
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "merge", Z: 2, Opacity: 1},
			Form:     scene.FormBracket,
			X:        g.x(merge.i),
			X2:       g.x(merge.j) + g.cw,
			Y:        y,
			Text:     mergeResult,
			TextSize: subSize,
			Color:    theme.Resolve("active", theme.Stroke),
		})
	}

	if len(embedding) > 0 {
		embeddingColumn(sc, size, theme, g, embedding, embeddingIdx)
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}

// embeddingColumn draws the shown token's vector as a stack of value
// cells on the right edge, connected to its token when the index is known.
func embeddingColumn(sc *scene.Scene, size scene.Size, theme scene.Theme, g arrayGeom, vec []float64, tokenIdx int) {
	cellH := 26.0
	x := size.Width - padding - 64
	y := g.y0 + tokenHeight + 48
	for k, v := range vec {
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "emb-" + strconv.Itoa(k), Z: 1, Opacity: 1},
			Shape: scene.ShapeBox,
			X:     x, Y: y + float64(k)*(cellH+2),
			Width: 64, Height: cellH,
			Fill: theme.Surface, Stroke: theme.Muted, StrokeWidth: 1,
			Label: formatValue(v), TextColor: theme.Text, TextSize: subSize,
		})
	}
	if g.in(tokenIdx) {
		sc.Add(scene.Connection{
			Base:  scene.Base{ID: "emb-link", Opacity: 1},
			X1:    g.centerX(tokenIdx), Y1: g.y0 + tokenHeight,
			X2:    x + 32, Y2: y,
			Color: theme.Muted, Width: 1, Dash: []float64{3, 3},
		})
	}
}
