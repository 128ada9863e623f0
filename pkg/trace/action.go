package trace

import "encoding/json"

// =============================================================================
// VisualAction - One Rendering Instruction
// =============================================================================

// VisualAction is a single instruction telling the renderer what to display
// for a step.
//
// Action types are an OPEN vocabulary: Type is a plain string, not a closed
// enum. Consumers must silently ignore action types they do not recognize.
//
// On the wire, an action is a flat object — the type merged with its
// parameters:
//
//	{"type": "highlightElement", "index": 3, "color": "highlight"}
//
// In Go the type is split from the parameters so actions can be matched on
// Type and their params read through the typed accessors.
type VisualAction struct {
	Type   string         // Action type identifier in camelCase (e.g., "highlightElement")
	Params map[string]any // Action-specific parameters (may be nil)
}

// MarshalJSON flattens the action into a single object with a "type" key.
func (a VisualAction) MarshalJSON() ([]byte, error) {
	flat := make(map[string]any, len(a.Params)+1)
	for k, v := range a.Params {
		if k == "type" {
			continue
		}
		flat[k] = v
	}
	flat["type"] = a.Type
	return json.Marshal(flat)
}

// UnmarshalJSON extracts "type" and treats all other keys as params.
func (a *VisualAction) UnmarshalJSON(data []byte) error {
	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	t, _ := flat["type"].(string)
	delete(flat, "type")
	a.Type = t
	if len(flat) > 0 {
		a.Params = flat
	} else {
		a.Params = nil
	}
	return nil
}

// =============================================================================
// Typed Param Accessors
// =============================================================================
//
// JSON decoding produces float64 for all numbers and []any for all arrays,
// so params need defensive conversion. Each accessor returns ok=false when
// the key is absent or the value has the wrong shape; callers treat that
// the same as the action being absent.

// String returns the string param for key.
func (a VisualAction) String(key string) (string, bool) {
	v, ok := a.Params[key].(string)
	return v, ok
}

// Float returns the numeric param for key.
func (a VisualAction) Float(key string) (float64, bool) {
	switch v := a.Params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Int returns the numeric param for key truncated to int.
func (a VisualAction) Int(key string) (int, bool) {
	f, ok := a.Float(key)
	return int(f), ok
}

// Bool returns the boolean param for key.
func (a VisualAction) Bool(key string) (bool, bool) {
	v, ok := a.Params[key].(bool)
	return v, ok
}

// Floats returns the numeric-array param for key. Arrays containing any
// non-numeric element are rejected as a whole.
func (a VisualAction) Floats(key string) ([]float64, bool) {
	raw, ok := a.Params[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]float64, len(raw))
	for i, item := range raw {
		f, ok := toFloat(item)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Ints returns the numeric-array param for key truncated to ints.
func (a VisualAction) Ints(key string) ([]int, bool) {
	fs, ok := a.Floats(key)
	if !ok {
		return nil, false
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = int(f)
	}
	return out, true
}

// FloatMatrix returns the 2D numeric-array param for key (e.g., attention
// weight matrices). All rows must be numeric arrays.
func (a VisualAction) FloatMatrix(key string) ([][]float64, bool) {
	raw, ok := a.Params[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([][]float64, len(raw))
	for i, row := range raw {
		cells, ok := row.([]any)
		if !ok {
			return nil, false
		}
		out[i] = make([]float64, len(cells))
		for j, item := range cells {
			f, ok := toFloat(item)
			if !ok {
				return nil, false
			}
			out[i][j] = f
		}
	}
	return out, true
}

// Strings returns the string-array param for key.
func (a VisualAction) Strings(key string) ([]string, bool) {
	raw, ok := a.Params[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out[i] = s
	}
	return out, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
