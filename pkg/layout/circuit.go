package layout

import (
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

const (
	gateBox  = 36
	gateStep = 64
	ctrlDot  = 10
)

// QuantumCircuit renders qubit wires with the gate sequence laid out along
// the time axis. Gates before the current index read as applied, the
// current gate is highlighted, later gates are pending.
func QuantumCircuit(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	gates := stateMaps(step.State, "gateSequence")
	qubits, _ := stateInt(step.State, "numQubits")
	if qubits == 0 {
		for _, g := range gates {
			for _, q := range mapInts(g, "qubits") {
				if q+1 > qubits {
					qubits = q + 1
				}
			}
		}
	}
	if qubits == 0 {
		text, kind := lastMessage(step)
		messageBanner(sc, size, theme, text, kind)
		return sc
	}

	current := -1
	if c, ok := stateInt(step.State, "currentGateIndex"); ok {
		current = c
	}
	wireColor := make(map[int]scene.Color, qubits)
	type collapse struct {
		qubit   int
		outcome int
	}
	var measured *collapse
	var classical []int
	for _, a := range step.VisualActions {
		switch a.Type {
		case "applyGate":
			if k, ok := a.Int("gateIndex"); ok {
				current = k
			}
		case "highlightQubitWire":
			for _, q := range intsParam(a, "qubits") {
				wireColor[q] = theme.Resolve("active", theme.Stroke)
			}
		case "collapseState":
			q, _ := a.Int("qubit")
			out, _ := a.Int("outcome")
			measured = &collapse{qubit: q, outcome: out}
		case "showClassicalBits":
			if bits, ok := a.Ints("bits"); ok {
				classical = bits
			}
		default:
		}
	}

	wireGap := (size.Height - 2*padding) / float64(qubits+1)
	if wireGap > 90 {
		wireGap = 90
	}
	top := size.Height/2 - wireGap*float64(qubits-1)/2
	wireY := func(q int) float64 { return top + wireGap*float64(q) }
	x0 := padding + 36
	x1 := size.Width - padding
	gx := func(k int) float64 { return x0 + 30 + gateStep*float64(k) }

	for q := 0; q < qubits; q++ {
		color, highlighted := wireColor[q]
		if !highlighted {
			color = theme.Stroke
		}
		width := 1.5
		if highlighted {
			width = 2.5
		}
		sc.Add(scene.Connection{
			Base:  scene.Base{ID: "wire-" + strconv.Itoa(q), Opacity: 1},
			X1:    x0, Y1: wireY(q), X2: x1, Y2: wireY(q),
			Color: color, Width: width,
		})
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "qlbl-" + strconv.Itoa(q), Z: 1, Opacity: 1},
			Form:     scene.FormLabel,
			X:        x0 - 20,
			Y:        wireY(q),
			Text:     "q" + strconv.Itoa(q),
			TextSize: labelSize,
			Color:    theme.Text,
		})
	}

	for k, g := range gates {
		name, _ := g["gate"].(string)
		targets := mapInts(g, "qubits")
		if name == "" || len(targets) == 0 {
			continue
		}
		id := "gate-" + strconv.Itoa(k)
		target := targets[len(targets)-1]

		fill := theme.Surface
		switch {
		case k == current:
			fill = theme.Resolve("active", theme.Surface)
		case current >= 0 && k < current:
			fill = theme.Resolve("sorted", theme.Surface)
		}

		if len(targets) > 1 {
			ctrl := targets[0]
			sc.Add(scene.Connection{
				Base:  scene.Base{ID: id + "-link", Z: 1, Opacity: 1},
				X1:    gx(k), Y1: wireY(ctrl), X2: gx(k), Y2: wireY(target),
				Color: theme.Stroke, Width: 1.5,
			})
			sc.Add(scene.Element{
				Base:  scene.Base{ID: id + "-ctrl", Z: 2, Opacity: 1},
				Shape: scene.ShapeCircle,
				X:     gx(k) - ctrlDot/2, Y: wireY(ctrl) - ctrlDot/2,
				Width: ctrlDot, Height: ctrlDot,
				Fill: theme.Stroke, Stroke: theme.Stroke, StrokeWidth: 1,
			})
		}

		label := name
		if name == "SWAP" {
			label = "×"
		}
		sub := ""
		if angle, ok := mapFloat(g, "angle"); ok {
			sub = "θ=" + formatValue(angle)
		}
		sc.Add(scene.Element{
			Base:  scene.Base{ID: id, Z: 2, Opacity: 1},
			Shape: scene.ShapeBox,
			X:     gx(k) - gateBox/2, Y: wireY(target) - gateBox/2,
			Width: gateBox, Height: gateBox,
			Fill: fill, Stroke: theme.Stroke, StrokeWidth: 1.5,
			Label: label, SubLabel: sub,
			TextColor: theme.Text, TextSize: labelSize,
		})
	}

	for q, bit := range classical {
		if q >= qubits {
			break
		}
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "cbit-" + strconv.Itoa(q), Z: 3, Opacity: 1},
			Form:     scene.FormBadge,
			X:        x1 + 18,
			Y:        wireY(q),
			Text:     strconv.Itoa(bit),
			TextSize: subSize,
			Color:    scene.RGB(0xff, 0xff, 0xff),
			Fill:     theme.Resolve("info", theme.Muted),
		})
	}
	if measured != nil && measured.qubit < qubits {
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "measured", Z: 3, Opacity: 1},
			Form:     scene.FormBadge,
			X:        x1 - 30,
			Y:        wireY(measured.qubit) - 24,
			Text:     "measured |" + strconv.Itoa(measured.outcome) + "⟩",
			TextSize: subSize,
			Color:    scene.RGB(0xff, 0xff, 0xff),
			Fill:     theme.Resolve("warning", theme.Muted),
		})
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}

// mapInts reads a numeric array out of a decoded JSON object, truncating
// to ints. Missing or malformed values yield nil.
func mapInts(m map[string]any, key string) []int {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		f, ok := toFloat(item)
		if !ok {
			return nil
		}
		out = append(out, int(f))
	}
	return out
}

func mapFloat(m map[string]any, key string) (float64, bool) {
	return toFloat(m[key])
}

func intsParam(a trace.VisualAction, key string) []int {
	if vals, ok := a.Ints(key); ok {
		return vals
	}
	if v, ok := a.Int(key); ok {
		return []int{v}
	}
	return nil
}
