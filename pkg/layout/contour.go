package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// contourResolution is the surface sample grid. Fixed so every frame
// evaluates the same cells and heatmap overlays diff cleanly.
const contourResolution = 50

// lossSurface is a closed-form objective evaluated per frame.
type lossSurface func(x, y float64) float64

// quadratic is the bowl the stock gradient-descent trace optimizes.
func quadratic(x, y float64) float64 { return x*x + 3*y*y }

func rosenbrock(x, y float64) float64 {
	a, b := 1.0, 100.0
	return (a-x)*(a-x) + b*(y-x*x)*(y-x*x)
}

// LossContour renders an optimizer's view of a 2D loss surface: a
// log-ramped heatmap of the objective, the descent trajectory, the
// current position, and the gradient arrow.
//
// Config keys: surface (quadratic | rosenbrock), xmin/xmax/ymin/ymax.
func LossContour(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	var surface lossSurface = quadratic
	if cfgString(cfg, "surface", "quadratic") == "rosenbrock" {
		surface = rosenbrock
	}
	xmin := cfgFloat(cfg, "xmin", -2)
	xmax := cfgFloat(cfg, "xmax", 2)
	ymin := cfgFloat(cfg, "ymin", -2)
	ymax := cfgFloat(cfg, "ymax", 2)
	if xmax <= xmin {
		xmin, xmax = -2, 2
	}
	if ymax <= ymin {
		ymin, ymax = -2, 2
	}

	// Square plot region, centered.
	side := size.Width - 2*padding
	if h := size.Height - 2*padding; h < side {
		side = h
	}
	px0 := (size.Width - side) / 2
	py0 := (size.Height - side) / 2
	// Parameter space to plot space; y grows upward in parameter space.
	toX := func(x float64) float64 { return px0 + (x-xmin)/(xmax-xmin)*side }
	toY := func(y float64) float64 { return py0 + (ymax-y)/(ymax-ymin)*side }

	values := make([][]float64, contourResolution)
	vmin, vmax := 0.0, 0.0
	for r := 0; r < contourResolution; r++ {
		row := make([]float64, contourResolution)
		// Row 0 is the top of the plot, the highest y.
		y := ymax - (float64(r)+0.5)/contourResolution*(ymax-ymin)
		for c := 0; c < contourResolution; c++ {
			x := xmin + (float64(c)+0.5)/contourResolution*(xmax-xmin)
			v := surface(x, y)
			row[c] = v
			if r == 0 && c == 0 {
				vmin, vmax = v, v
			}
			if v < vmin {
				vmin = v
			}
			if v > vmax {
				vmax = v
			}
		}
		values[r] = row
	}

	sc.Add(scene.Overlay{
		Base: scene.Base{ID: "surface", Opacity: 1},
		Mode: scene.ModeHeatmap,
		X:    px0, Y: py0, Width: side, Height: side,
		Values: values,
		Stops:  scene.LossRamp(),
		VMin:   vmin, VMax: vmax,
		Log: true,
	})

	params := stateFloats(step.State, "parameters")
	var gradient []float64
	var fromParams []float64
	var trajectory [][]float64
	optimizer := ""

	for _, a := range step.VisualActions {
		switch a.Type {
		case "showLandscapePosition":
			if p, ok := a.Floats("parameters"); ok {
				params = p
			}
			if gr, ok := a.Floats("gradient"); ok {
				gradient = gr
			}
		case "showGradient":
			if gr, ok := a.Floats("gradient"); ok {
				gradient = gr
			}
		case "showDescentStep":
			if p, ok := a.Floats("toParameters"); ok {
				params = p
			}
			if p, ok := a.Floats("fromParameters"); ok {
				fromParams = p
			}
		case "showTrajectory":
			trajectory = trajectory[:0]
			raw, ok := a.Params["trajectory"].([]any)
			if !ok {
				continue
			}
			for _, entry := range raw {
				m, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				if p := floatsOf(m["parameters"]); len(p) >= 2 {
					trajectory = append(trajectory, p)
				}
			}
			if o, ok := a.String("optimizer"); ok {
				optimizer = o
			}
		default:
		}
	}

	trailColor := theme.Resolve("highlightAlt", theme.Stroke)
	for k, p := range trajectory {
		if k > 0 {
			prev := trajectory[k-1]
			sc.Add(scene.Connection{
				Base:  scene.Base{ID: "seg-" + strconv.Itoa(k), Z: 1, Opacity: 0.8},
				X1:    toX(prev[0]), Y1: toY(prev[1]),
				X2:    toX(p[0]), Y2: toY(p[1]),
				Color: trailColor, Width: 1.5,
			})
		}
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "traj-" + strconv.Itoa(k), Z: 2, Opacity: 0.9},
			Shape: scene.ShapeCircle,
			X:     toX(p[0]) - 4, Y: toY(p[1]) - 4, Width: 8, Height: 8,
			Fill: trailColor, Stroke: trailColor, StrokeWidth: 1,
			TextColor: theme.Text, TextSize: subSize,
		})
	}

	if len(fromParams) >= 2 && len(params) >= 2 {
		sc.Add(scene.Connection{
			Base:  scene.Base{ID: "step", Z: 3, Opacity: 1},
			X1:    toX(fromParams[0]), Y1: toY(fromParams[1]),
			X2:    toX(params[0]), Y2: toY(params[1]),
			Color: theme.Resolve("active", theme.Stroke), Width: 2.5,
			ArrowEnd: true,
		})
	}

	if len(params) >= 2 {
		const d = 16
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "pos", Z: 4, Opacity: 1},
			Shape: scene.ShapeCircle,
			X:     toX(params[0]) - d/2, Y: toY(params[1]) - d/2,
			Width: d, Height: d,
			Fill:   theme.Resolve("active", theme.Fill),
			Stroke: scene.RGB(0xff, 0xff, 0xff), StrokeWidth: 2,
			TextColor: theme.Text, TextSize: subSize,
		})
		// Arrow points along the negative gradient, the descent direction.
		// Screen y grows downward, so the parameter-space y component flips.
		if len(gradient) >= 2 {
			gx, gy := -gradient[0], gradient[1]
			if norm := math.Hypot(gx, gy); norm > 1e-12 {
				arrow := side * 0.12
				sc.Add(scene.Connection{
					Base:  scene.Base{ID: "grad", Z: 4, Opacity: 1},
					X1:    toX(params[0]), Y1: toY(params[1]),
					X2:    toX(params[0]) + gx/norm*arrow, Y2: toY(params[1]) + gy/norm*arrow,
					Color: scene.RGB(0xff, 0xff, 0xff), Width: 2,
					ArrowEnd: true,
				})
			}
		}
	}

	if optimizer != "" {
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "optimizer", Z: 5, Opacity: 1},
			Form:     scene.FormBadge,
			X:        px0 + side - 50,
			Y:        py0 + 16,
			Text:     optimizer,
			TextSize: subSize,
			Color:    scene.RGB(0xff, 0xff, 0xff),
			Fill:     theme.Resolve("accent", theme.Stroke),
		})
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}

// floatsOf converts a []any of numbers, returning nil on any mismatch.
func floatsOf(v any) []float64 {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, e := range raw {
		f, ok := toFloat(e)
		if !ok {
			return nil
		}
		out = append(out, f)
	}
	return out
}
