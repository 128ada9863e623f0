package layout

import (
	"testing"

	"github.com/matzehuels/stepmotion/pkg/scene"
)

func neuronState() map[string]any {
	return map[string]any{
		"inputs":  []any{float64(0.5), float64(-1)},
		"weights": []any{float64(0.8), float64(0.2)},
		"bias":    float64(0.1),
	}
}

func TestNeuronPipeline(t *testing.T) {
	sc := Neuron(mkStep(neuronState()), testSize(), nil)

	in0 := getElement(t, sc, "in-0")
	if in0.Label != "0.5" || in0.SubLabel != "x0" {
		t.Errorf("in-0 = %q/%q, want 0.5/x0", in0.Label, in0.SubLabel)
	}
	if got := getConnection(t, sc, "w-0").Label; got != "w=0.8" {
		t.Errorf("w-0 label = %q, want w=0.8", got)
	}
	if got := getElement(t, sc, "sum").Label; got != "Σ + 0.1" {
		t.Errorf("sum label = %q, want the bias folded in", got)
	}
	if got := getElement(t, sc, "act").Label; got != "f" {
		t.Errorf("act label = %q, want f placeholder", got)
	}
	out := getElement(t, sc, "out")
	if out.Label != "?" || out.SubLabel != "y" {
		t.Errorf("out = %q/%q, want ?/y before the output exists", out.Label, out.SubLabel)
	}

	// Stage order runs left to right.
	sum := getElement(t, sc, "sum")
	act := getElement(t, sc, "act")
	if !(in0.X < sum.X && sum.X < act.X && act.X < out.X) {
		t.Error("stages should be ordered inputs < sum < activation < output")
	}
	if !getConnection(t, sc, "sum-act").ArrowEnd || !getConnection(t, sc, "act-out").ArrowEnd {
		t.Error("stage connectors should carry arrowheads")
	}
}

func TestNeuronWeightedValues(t *testing.T) {
	theme := scene.DefaultTheme()
	sc := Neuron(mkStep(neuronState(),
		act("showWeightedValues", map[string]any{
			"weightedInputs": []any{float64(0.4), float64(-0.2)},
		}),
	), testSize(), nil)

	w0 := getConnection(t, sc, "w-0")
	if w0.Label != "0.4" {
		t.Errorf("w-0 label = %q, want the weighted value", w0.Label)
	}
	if w0.Color != theme.Resolve("active", theme.Muted) {
		t.Errorf("w-0 color = %v, want active", w0.Color.Hex())
	}
}

func TestNeuronActivationAndOutput(t *testing.T) {
	theme := scene.DefaultTheme()
	state := neuronState()
	state["activationFunction"] = "step"
	state["output"] = float64(1)

	sc := Neuron(mkStep(state,
		act("showActivationFunction", map[string]any{"name": "step"}),
	), testSize(), nil)

	actBox := getElement(t, sc, "act")
	if actBox.Label != "step" {
		t.Errorf("act label = %q, want step", actBox.Label)
	}
	if actBox.Fill != theme.Resolve("highlight", theme.Fill) {
		t.Errorf("act fill = %v, want highlight", actBox.Fill.Hex())
	}
	out := getElement(t, sc, "out")
	if out.Label != "1" {
		t.Errorf("out label = %q, want 1", out.Label)
	}
	if out.Fill != theme.Resolve("success", theme.Surface) {
		t.Errorf("out fill = %v, want success", out.Fill.Hex())
	}
}

func TestNeuronUpdateWeights(t *testing.T) {
	sc := Neuron(mkStep(neuronState(),
		act("updateWeights", map[string]any{"weights": []any{float64(0.9), float64(0.3)}}),
	), testSize(), nil)

	if got := getConnection(t, sc, "w-1").Label; got != "w=0.3" {
		t.Errorf("w-1 label = %q, want the updated weight", got)
	}
}

func TestNeuronEmptyState(t *testing.T) {
	sc := Neuron(mkStep(nil), testSize(), nil)
	if err := sc.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if sc.ByID("sum") != nil {
		t.Error("no inputs should mean no pipeline")
	}
}
