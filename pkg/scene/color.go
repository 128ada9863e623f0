package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// Color - Canonical RGB Representation
// =============================================================================

// Color is the canonical color representation used by all primitives.
// Layouts resolve named tokens and hex literals into Color once at scene
// construction time, so the interpolator only ever sees RGB channels.
type Color struct {
	R, G, B uint8
}

// RGB builds a color from channel values.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b} }

// Hex returns the color as a "#rrggbb" string.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalJSON serializes the color as its hex string.
func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.Hex())), nil
}

// UnmarshalJSON parses a "#rrggbb" or "#rgb" string.
func (c *Color) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	parsed, ok := parseHex(s)
	if !ok {
		return fmt.Errorf("invalid color %q", s)
	}
	*c = parsed
	return nil
}

// ParseHex parses "#rgb" and "#rrggbb" literals.
func ParseHex(s string) (Color, bool) {
	return parseHex(s)
}

// parseHex parses "#rgb" and "#rrggbb" forms.
func parseHex(s string) (Color, bool) {
	if !strings.HasPrefix(s, "#") {
		return Color{}, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		vals := make([]uint8, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(string(hex[i]), 16, 8)
			if err != nil {
				return Color{}, false
			}
			vals[i] = uint8(v*16 + v)
		}
		return Color{R: vals[0], G: vals[1], B: vals[2]}, true
	case 6:
		vals := make([]uint8, 3)
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
			if err != nil {
				return Color{}, false
			}
			vals[i] = uint8(v)
		}
		return Color{R: vals[0], G: vals[1], B: vals[2]}, true
	}
	return Color{}, false
}

// LerpColor interpolates between two colors per RGB channel.
// t=0 yields a exactly, t=1 yields b exactly.
func LerpColor(a, b Color, t float64) Color {
	return Color{
		R: lerpChannel(a.R, b.R, t),
		G: lerpChannel(a.G, b.G, t),
		B: lerpChannel(a.B, b.B, t),
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := math.Round(float64(a)*(1-t) + float64(b)*t)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Ramp is a 3-stop color ramp. Three stops (rather than two) keep detail
// visible at both ends of the value range: heatmap cells and loss contours
// would otherwise wash out near the extremes.
type Ramp [3]Color

// At returns the ramp color for t in [0,1]: t=0 is the first stop,
// t=0.5 the middle, t=1 the last. Values outside [0,1] are clamped.
func (r Ramp) At(t float64) Color {
	if t <= 0 {
		return r[0]
	}
	if t >= 1 {
		return r[2]
	}
	if t < 0.5 {
		return LerpColor(r[0], r[1], t*2)
	}
	return LerpColor(r[1], r[2], (t-0.5)*2)
}

// =============================================================================
// Theme - Token Resolution
// =============================================================================

// Theme maps the open color-token vocabulary used in visual actions
// (e.g. "highlight", "sorted", "visited") onto canonical colors, plus the
// structural colors every layout needs. Trace producers may also pass
// literal "#rrggbb" strings, which bypass the token table.
type Theme struct {
	Background Color // Scene background
	Surface    Color // Containers, wells, empty heatmap cells
	Fill       Color // Default element fill
	Stroke     Color // Default element stroke
	Text       Color // Primary text
	Muted      Color // Secondary text, faint wireframes

	Tokens map[string]Color // Named token vocabulary
}

// Resolve maps a color string from a visual action to a canonical color.
// Hex literals ("#1fb4aa", "#0fc") are parsed directly; known tokens come
// from the token table; anything else falls back to the given default, so
// unrecognized tokens degrade to "no effect" rather than erroring.
func (t Theme) Resolve(s string, fallback Color) Color {
	if s == "" {
		return fallback
	}
	if strings.HasPrefix(s, "#") {
		if c, ok := parseHex(s); ok {
			return c
		}
		return fallback
	}
	if c, ok := t.Tokens[s]; ok {
		return c
	}
	return fallback
}

// DefaultTheme returns the standard light theme.
//
// The token table covers the vocabulary the stock trace generators emit:
// highlight/highlightAlt for comparisons, start/visited/active for graph
// traversal, pivot/sorted/compare for sorting, plus generic status tokens.
func DefaultTheme() Theme {
	return Theme{
		Background: RGB(0xff, 0xff, 0xff),
		Surface:    RGB(0xf1, 0xf5, 0xf9),
		Fill:       RGB(0xe2, 0xe8, 0xf0),
		Stroke:     RGB(0x47, 0x55, 0x69),
		Text:       RGB(0x0f, 0x17, 0x2a),
		Muted:      RGB(0x94, 0xa3, 0xb8),
		Tokens: map[string]Color{
			"highlight":    RGB(0xfb, 0xbf, 0x24), // amber
			"highlightAlt": RGB(0xf9, 0x73, 0x16), // orange
			"active":       RGB(0x38, 0xbd, 0xf8), // sky
			"start":        RGB(0x34, 0xd3, 0x99), // emerald
			"visited":      RGB(0x81, 0x8c, 0xf8), // indigo, lightened
			"current":      RGB(0x38, 0xbd, 0xf8),
			"pivot":        RGB(0xe8, 0x79, 0xf9), // fuchsia
			"sorted":       RGB(0x34, 0xd3, 0x99),
			"compare":      RGB(0xfb, 0xbf, 0x24),
			"found":        RGB(0x34, 0xd3, 0x99),
			"success":      RGB(0x34, 0xd3, 0x99),
			"warning":      RGB(0xfb, 0x92, 0x3c),
			"error":        RGB(0xf8, 0x71, 0x71),
			"info":         RGB(0x38, 0xbd, 0xf8),
			"accent":       RGB(0x63, 0x66, 0xf1), // indigo
			"pointer":      RGB(0x0e, 0xa5, 0xe9),
			"muted":        RGB(0x94, 0xa3, 0xb8),
		},
	}
}

// HeatRamp is the 3-stop perceptual ramp used for attention heatmaps:
// near-white through indigo to deep violet.
func HeatRamp() Ramp {
	return Ramp{RGB(0xee, 0xf2, 0xff), RGB(0x81, 0x8c, 0xf8), RGB(0x4c, 0x1d, 0x95)}
}

// LossRamp is the 3-stop logarithmic-domain ramp used for loss contours:
// deep blue at the minimum through teal to warm yellow at high loss.
func LossRamp() Ramp {
	return Ramp{RGB(0x1e, 0x3a, 0x8a), RGB(0x14, 0xb8, 0xa6), RGB(0xfd, 0xe0, 0x47)}
}
