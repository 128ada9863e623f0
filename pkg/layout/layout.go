package layout

import (
	"math"
	"sort"
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// Func maps one trace step to a primitive scene. Implementations are pure
// and total: malformed or missing state degrades to an empty scene, never
// a panic, because trace generators evolve independently of this engine.
type Func func(step trace.Step, size scene.Size, cfg Config) *scene.Scene

// Config carries layout-specific options. Each layout owns the
// interpretation of its keys; unknown keys are ignored.
type Config map[string]any

// ===== Shared Geometry Constants =====

const (
	padding     = 48.0 // outer canvas margin
	minCellSize = 28.0
	maxCellSize = 96.0
	cellGap     = 6.0
	staggerStep = 22.0 // vertical offset per pointer stagger level
	labelSize   = 14.0
	subSize     = 11.0
)

// cellSize distributes usable width across n cells, clamped so cells stay
// readable on narrow surfaces and don't balloon on wide ones.
func cellSize(usable float64, n int, min, max float64) float64 {
	if n <= 0 {
		return max
	}
	w := usable / float64(n)
	if w < min {
		return min
	}
	if w > max {
		return max
	}
	return w
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// staggerLevels assigns a vertical level to each pointer name so pointers
// sharing an index never overlap: names targeting the same index are
// ordered lexicographically and each later one sits one level lower.
func staggerLevels(targets map[string]int) map[string]int {
	byIndex := make(map[int][]string)
	for name, idx := range targets {
		byIndex[idx] = append(byIndex[idx], name)
	}
	levels := make(map[string]int, len(targets))
	for _, names := range byIndex {
		sort.Strings(names)
		for level, name := range names {
			levels[name] = level
		}
	}
	return levels
}

// formatValue renders a numeric label the way a human would write it:
// integers without a decimal point, everything else trimmed short.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e12 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// ===== Config Helpers =====

func cfgString(cfg Config, key, def string) string {
	if v, ok := cfg[key].(string); ok && v != "" {
		return v
	}
	return def
}

func cfgFloat(cfg Config, key string, def float64) float64 {
	switch v := cfg[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func cfgInt(cfg Config, key string, def int) int {
	switch v := cfg[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

func cfgBool(cfg Config, key string, def bool) bool {
	if v, ok := cfg[key].(bool); ok {
		return v
	}
	return def
}

// ThemeFrom builds the scene theme, applying any overrides from the
// "theme" config entry. Structural keys (background, surface, fill,
// stroke, text, muted) override the base colors; every other key becomes
// a token. Values must be hex strings; anything else is ignored.
func ThemeFrom(cfg Config) scene.Theme {
	theme := scene.DefaultTheme()
	overrides, ok := cfg["theme"].(map[string]any)
	if !ok {
		return theme
	}
	for key, raw := range overrides {
		hex, ok := raw.(string)
		if !ok {
			continue
		}
		c, ok := scene.ParseHex(hex)
		if !ok {
			continue
		}
		switch key {
		case "background":
			theme.Background = c
		case "surface":
			theme.Surface = c
		case "fill":
			theme.Fill = c
		case "stroke":
			theme.Stroke = c
		case "text":
			theme.Text = c
		case "muted":
			theme.Muted = c
		default:
			theme.Tokens[key] = c
		}
	}
	return theme
}

// ===== Shared Primitive Builders =====

// messageBanner emits the "msg" badge a showMessage action produces,
// centered near the top of the canvas. kind selects the badge color via
// the theme's token table (info, success, warning, error).
func messageBanner(sc *scene.Scene, size scene.Size, theme scene.Theme, text, kind string) {
	if text == "" {
		return
	}
	fill := theme.Resolve(kind, theme.Resolve("info", theme.Muted))
	sc.Add(scene.Annotation{
		Base:     scene.Base{ID: "msg", Z: 10, Opacity: 1},
		Form:     scene.FormBadge,
		X:        size.Width / 2,
		Y:        padding / 2,
		Text:     text,
		TextSize: labelSize,
		Color:    scene.RGB(0xff, 0xff, 0xff),
		Fill:     fill,
	})
}

// lastMessage folds showMessage actions, last one wins.
func lastMessage(step trace.Step) (text, kind string) {
	for _, a := range step.VisualActions {
		if a.Type != "showMessage" {
			continue
		}
		if v, ok := a.String("text"); ok {
			text = v
		}
		if v, ok := a.String("messageType"); ok {
			kind = v
		}
	}
	return text, kind
}
