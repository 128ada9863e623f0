package layout

// Defensive readers over step.state. Generator output is produced
// independently of this engine, so every reader tolerates missing keys
// and wrong shapes by returning empty values. Out-of-range indices are
// the caller's job to ignore.

// toFloat widens the numeric types JSON decoding can produce.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func stateFloat(state map[string]any, key string) (float64, bool) {
	if state == nil {
		return 0, false
	}
	return toFloat(state[key])
}

func stateString(state map[string]any, key string) string {
	if state == nil {
		return ""
	}
	s, _ := state[key].(string)
	return s
}

func stateInt(state map[string]any, key string) (int, bool) {
	f, ok := stateFloat(state, key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// stateFloats reads a numeric array. Arrays containing any non-numeric
// entry are treated as absent.
func stateFloats(state map[string]any, key string) []float64 {
	if state == nil {
		return nil
	}
	raw, ok := state[key].([]any)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(raw))
	for _, v := range raw {
		f, ok := toFloat(v)
		if !ok {
			return nil
		}
		out = append(out, f)
	}
	return out
}

func stateInts(state map[string]any, key string) []int {
	fs := stateFloats(state, key)
	if fs == nil {
		return nil
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		out[i] = int(f)
	}
	return out
}

func stateStrings(state map[string]any, key string) []string {
	if state == nil {
		return nil
	}
	raw, ok := state[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// stateMatrix reads a 2D numeric array; ragged rows are allowed, any
// non-numeric cell makes the whole matrix absent.
func stateMatrix(state map[string]any, key string) [][]float64 {
	if state == nil {
		return nil
	}
	raw, ok := state[key].([]any)
	if !ok {
		return nil
	}
	out := make([][]float64, 0, len(raw))
	for _, r := range raw {
		cells, ok := r.([]any)
		if !ok {
			return nil
		}
		row := make([]float64, 0, len(cells))
		for _, v := range cells {
			f, ok := toFloat(v)
			if !ok {
				return nil
			}
			row = append(row, f)
		}
		out = append(out, row)
	}
	return out
}

// stateMaps reads a list of objects (e.g. nodes, edges, gates). Entries
// that are not objects are skipped rather than discarding the list.
func stateMaps(state map[string]any, key string) []map[string]any {
	if state == nil {
		return nil
	}
	raw, ok := state[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func stateMap(state map[string]any, key string) map[string]any {
	if state == nil {
		return nil
	}
	m, _ := state[key].(map[string]any)
	return m
}
