package layout

import (
	"fmt"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// ConvolutionGrid renders the input, kernel and output grids of a 2D
// convolution side by side, with a window container tracking the kernel's
// current position over the input and a running sum badge.
func ConvolutionGrid(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	input := stateMatrix(step.State, "inputGrid")
	kernel := stateMatrix(step.State, "kernel")
	output := stateMatrix(step.State, "outputGrid")
	if len(input) == 0 && len(kernel) == 0 && len(output) == 0 {
		text, kind := lastMessage(step)
		messageBanner(sc, size, theme, text, kind)
		return sc
	}

	winRow, winCol := -1, -1
	winH, winW := len(kernel), 0
	if winH > 0 {
		winW = len(kernel[0])
	}
	outFills := make(map[[2]int]scene.Color)
	sumText := ""

	for _, a := range step.VisualActions {
		switch a.Type {
		case "highlightKernelPosition":
			r, okR := a.Int("row")
			c, okC := a.Int("col")
			if okR && okC {
				winRow, winCol = r, c
			}
			if h, ok := a.Int("kernelHeight"); ok {
				winH = h
			}
			if w, ok := a.Int("kernelWidth"); ok {
				winW = w
			}
		case "showConvolutionProducts":
			if s, ok := a.Float("sum"); ok {
				sumText = "sum = " + formatValue(s)
			}
		case "writeOutputCell":
			r, okR := a.Int("row")
			c, okC := a.Int("col")
			if !okR || !okC || r < 0 || r >= len(output) || c < 0 || c >= rowLen(output, r) {
				continue
			}
			if v, ok := a.Float("value"); ok {
				output[r][c] = v
			}
			outFills[[2]int{r, c}] = theme.Resolve("highlight", theme.Fill)
		default:
		}
	}

	// Three grids share one cell size so the kernel reads at input scale.
	maxCols := colsOf(input) + colsOf(kernel) + colsOf(output)
	gap := 70.0
	cell := cellSize(size.Width-2*padding-2*gap, maxCols, 22, 56)

	x := (size.Width - (float64(maxCols)*cell + 2*gap)) / 2
	inX := x
	kX := inX + float64(colsOf(input))*cell + gap
	outX := kX + float64(colsOf(kernel))*cell + gap
	centerY := size.Height / 2

	inFills := make(map[[2]int]scene.Color)
	if winRow >= 0 && winCol >= 0 {
		tint := theme.Resolve("highlight", theme.Fill)
		for r := winRow; r < winRow+winH; r++ {
			for c := winCol; c < winCol+winW; c++ {
				if r >= 0 && r < len(input) && c >= 0 && c < rowLen(input, r) {
					inFills[[2]int{r, c}] = tint
				}
			}
		}
	}

	grid(sc, theme, "in", input, inX, centerY, cell, inFills)
	grid(sc, theme, "k", kernel, kX, centerY, cell, nil)
	grid(sc, theme, "out", output, outX, centerY, cell, outFills)

	gridLabel(sc, theme, "in-title", "input", inX+float64(colsOf(input))*cell/2, centerY-float64(len(input))*cell/2-18)
	gridLabel(sc, theme, "k-title", "kernel", kX+float64(colsOf(kernel))*cell/2, centerY-float64(len(kernel))*cell/2-18)
	gridLabel(sc, theme, "out-title", "output", outX+float64(colsOf(output))*cell/2, centerY-float64(len(output))*cell/2-18)

	if winRow >= 0 && winCol >= 0 && len(input) > 0 {
		top := centerY - float64(len(input))*cell/2
		sc.Add(scene.Container{
			Base: scene.Base{ID: "kwin", Z: 2, Opacity: 1},
			X:    inX + float64(winCol)*cell,
			Y:    top + float64(winRow)*cell,
			Width: float64(winW) * cell, Height: float64(winH) * cell,
			Stroke: theme.Resolve("highlightAlt", theme.Stroke), StrokeWidth: 3,
			TextColor: theme.Text, TextSize: subSize,
		})
	}
	if sumText != "" {
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "sum", Z: 2, Opacity: 1},
			Form:     scene.FormBadge,
			X:        kX + float64(colsOf(kernel))*cell/2,
			Y:        centerY + float64(len(kernel))*cell/2 + 26,
			Text:     sumText,
			TextSize: subSize,
			Color:    scene.RGB(0xff, 0xff, 0xff),
			Fill:     theme.Resolve("accent", theme.Stroke),
		})
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}

func rowLen(m [][]float64, r int) int {
	if r < 0 || r >= len(m) {
		return 0
	}
	return len(m[r])
}

func colsOf(m [][]float64) int {
	cols := 0
	for _, r := range m {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return cols
}

// grid lays out one matrix as value cells with ids <prefix>-<r>-<c>,
// vertically centered on centerY.
func grid(sc *scene.Scene, theme scene.Theme, prefix string, m [][]float64, x0, centerY, cell float64, fills map[[2]int]scene.Color) {
	top := centerY - float64(len(m))*cell/2
	for r, row := range m {
		for c, v := range row {
			fill, ok := fills[[2]int{r, c}]
			if !ok {
				fill = theme.Surface
			}
			sc.Add(scene.Element{
				Base:  scene.Base{ID: fmt.Sprintf("%s-%d-%d", prefix, r, c), Opacity: 1},
				Shape: scene.ShapeBox,
				X:     x0 + float64(c)*cell, Y: top + float64(r)*cell,
				Width: cell, Height: cell,
				Fill: fill, Stroke: theme.Stroke, StrokeWidth: 1,
				Label: formatValue(v), TextColor: theme.Text, TextSize: subSize,
			})
		}
	}
}

func gridLabel(sc *scene.Scene, theme scene.Theme, id, text string, x, y float64) {
	sc.Add(scene.Annotation{
		Base:     scene.Base{ID: id, Z: 1, Opacity: 1},
		Form:     scene.FormLabel,
		X:        x,
		Y:        y,
		Text:     text,
		TextSize: subSize,
		Color:    theme.Muted,
	})
}
