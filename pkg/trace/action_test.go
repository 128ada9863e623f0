package trace

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestVisualActionMarshalFlat(t *testing.T) {
	a := VisualAction{
		Type:   "highlightElement",
		Params: map[string]any{"index": 3, "color": "highlight"},
	}

	data, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if flat["type"] != "highlightElement" {
		t.Errorf("type = %v, want highlightElement", flat["type"])
	}
	if flat["index"] != 3.0 {
		t.Errorf("index = %v, want 3", flat["index"])
	}
	if flat["color"] != "highlight" {
		t.Errorf("color = %v, want highlight", flat["color"])
	}
	if _, nested := flat["params"]; nested {
		t.Error("params should be flattened, not nested")
	}
}

func TestVisualActionUnmarshalFlat(t *testing.T) {
	input := `{"type": "movePointer", "name": "left", "index": 2}`

	var a VisualAction
	if err := json.Unmarshal([]byte(input), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if a.Type != "movePointer" {
		t.Errorf("Type = %q, want movePointer", a.Type)
	}
	if name, _ := a.String("name"); name != "left" {
		t.Errorf("name = %q, want left", name)
	}
	if idx, _ := a.Int("index"); idx != 2 {
		t.Errorf("index = %d, want 2", idx)
	}
	if _, hasType := a.Params["type"]; hasType {
		t.Error("type should not leak into Params")
	}
}

func TestVisualActionNoParams(t *testing.T) {
	var a VisualAction
	if err := json.Unmarshal([]byte(`{"type": "clearHighlights"}`), &a); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if a.Type != "clearHighlights" {
		t.Errorf("Type = %q, want clearHighlights", a.Type)
	}
	if a.Params != nil {
		t.Errorf("Params = %v, want nil", a.Params)
	}
}

func TestVisualActionRoundTrip(t *testing.T) {
	original := VisualAction{
		Type: "showAttentionWeights",
		Params: map[string]any{
			"weights": []any{[]any{0.5, 0.5}, []any{0.25, 0.75}},
			"focus":   1.0,
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded VisualAction
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded.Type != original.Type {
		t.Errorf("Type = %q, want %q", decoded.Type, original.Type)
	}
	if !reflect.DeepEqual(decoded.Params, original.Params) {
		t.Errorf("Params = %v, want %v", decoded.Params, original.Params)
	}
}

func TestVisualActionAccessors(t *testing.T) {
	a := VisualAction{
		Type: "test",
		Params: map[string]any{
			"name":    "left",
			"index":   3.0,
			"theta":   1.5707,
			"solid":   true,
			"indices": []any{1.0, 2.0, 3.0},
			"weights": []any{0.25, 0.75},
			"labels":  []any{"the", "cat"},
			"matrix":  []any{[]any{1.0, 0.0}, []any{0.0, 1.0}},
			"mixed":   []any{1.0, "two"},
		},
	}

	if v, ok := a.String("name"); !ok || v != "left" {
		t.Errorf("String(name) = %q, %v", v, ok)
	}
	if _, ok := a.String("index"); ok {
		t.Error("String(index) should fail for numeric value")
	}

	if v, ok := a.Int("index"); !ok || v != 3 {
		t.Errorf("Int(index) = %d, %v", v, ok)
	}
	if v, ok := a.Float("theta"); !ok || v != 1.5707 {
		t.Errorf("Float(theta) = %v, %v", v, ok)
	}
	if _, ok := a.Float("name"); ok {
		t.Error("Float(name) should fail for string value")
	}
	if _, ok := a.Float("missing"); ok {
		t.Error("Float(missing) should fail")
	}

	if v, ok := a.Bool("solid"); !ok || !v {
		t.Errorf("Bool(solid) = %v, %v", v, ok)
	}

	if v, ok := a.Ints("indices"); !ok || !reflect.DeepEqual(v, []int{1, 2, 3}) {
		t.Errorf("Ints(indices) = %v, %v", v, ok)
	}
	if v, ok := a.Floats("weights"); !ok || !reflect.DeepEqual(v, []float64{0.25, 0.75}) {
		t.Errorf("Floats(weights) = %v, %v", v, ok)
	}
	if _, ok := a.Floats("mixed"); ok {
		t.Error("Floats(mixed) should reject arrays with non-numeric elements")
	}

	if v, ok := a.Strings("labels"); !ok || !reflect.DeepEqual(v, []string{"the", "cat"}) {
		t.Errorf("Strings(labels) = %v, %v", v, ok)
	}

	want := [][]float64{{1, 0}, {0, 1}}
	if v, ok := a.FloatMatrix("matrix"); !ok || !reflect.DeepEqual(v, want) {
		t.Errorf("FloatMatrix(matrix) = %v, %v", v, ok)
	}
	if _, ok := a.FloatMatrix("indices"); ok {
		t.Error("FloatMatrix(indices) should fail for 1D array")
	}
}

func TestVisualActionAccessorsNilParams(t *testing.T) {
	a := VisualAction{Type: "clearHighlights"}

	if _, ok := a.String("any"); ok {
		t.Error("String on nil params should miss")
	}
	if _, ok := a.Float("any"); ok {
		t.Error("Float on nil params should miss")
	}
	if _, ok := a.Ints("any"); ok {
		t.Error("Ints on nil params should miss")
	}
}
