package scene

import "math"

// =============================================================================
// Primitive Kinds
// =============================================================================

// Kind identifies the concrete type of a primitive. It doubles as the
// discriminator tag in the scene's JSON form.
type Kind string

const (
	KindElement    Kind = "element"    // Box, circle or diamond with optional label
	KindConnection Kind = "connection" // Straight or curved line between two points
	KindContainer  Kind = "container"  // Grouping rectangle drawn behind its contents
	KindAnnotation Kind = "annotation" // Pointer, bracket, label or badge
	KindOverlay    Kind = "overlay"    // Grid or heatmap covering a region
)

// Shape enumerates element outlines.
type Shape string

const (
	ShapeBox     Shape = "box"
	ShapeCircle  Shape = "circle"
	ShapeDiamond Shape = "diamond"
)

// Form enumerates annotation styles.
type Form string

const (
	FormPointer Form = "pointer" // Arrow with a name, e.g. loop indices
	FormBracket Form = "bracket" // Horizontal span marker, e.g. a subarray
	FormLabel   Form = "label"   // Free-floating text
	FormBadge   Form = "badge"   // Text on a filled rounded background
)

// Mode enumerates overlay fills.
type Mode string

const (
	ModeGrid    Mode = "grid"    // Evenly spaced wireframe lines
	ModeHeatmap Mode = "heatmap" // Per-cell colors from a value matrix
)

// =============================================================================
// Primitive Interface
// =============================================================================

// Base carries the fields shared by every primitive. ID is the stable
// identity used to match primitives across consecutive scenes; primitives
// with equal IDs in two scenes are treated as the same visual object and
// interpolated into each other. Z orders painting (lower first); ties keep
// emission order.
type Base struct {
	ID      string  `json:"id"`
	Z       int     `json:"z,omitempty"`
	Opacity float64 `json:"opacity"`
}

// Primitive is the closed set of drawable objects a layout may emit.
// Implementations are plain values: copying one yields an independent
// primitive, which the interpolator relies on.
type Primitive interface {
	// Meta returns the shared identity fields.
	Meta() Base
	// Kind reports the concrete primitive kind.
	Kind() Kind
	// WithOpacity returns a copy with the given opacity.
	WithOpacity(o float64) Primitive
}

// =============================================================================
// Concrete Primitives
// =============================================================================

// Element is a labeled shape: an array cell, a graph node, a token chip,
// a neuron, a quantum gate. Position is the top-left of the bounding box
// for every shape, so interpolating between shapes stays well defined.
type Element struct {
	Base
	Shape       Shape   `json:"shape"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Fill        Color   `json:"fill"`
	Stroke      Color   `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Label       string  `json:"label,omitempty"`
	SubLabel    string  `json:"subLabel,omitempty"` // Small text under the main label
	TextColor   Color   `json:"textColor"`
	TextSize    float64 `json:"textSize"`
}

func (e Element) Meta() Base { return e.Base }

func (Element) Kind() Kind { return KindElement }

func (e Element) WithOpacity(o float64) Primitive {
	e.Opacity = o
	return e
}

// Connection is a line between two points: a graph edge, a neural weight,
// a comparison arc. CurveOffset zero draws a straight segment; a non-zero
// value bows the line through a quadratic control point offset that far
// perpendicular from the midpoint (negative bows up in screen space).
type Connection struct {
	Base
	X1          float64   `json:"x1"`
	Y1          float64   `json:"y1"`
	X2          float64   `json:"x2"`
	Y2          float64   `json:"y2"`
	CurveOffset float64   `json:"curveOffset,omitempty"`
	Color       Color     `json:"color"`
	Width       float64   `json:"width"`
	Dash        []float64 `json:"dash,omitempty"`
	ArrowStart  bool      `json:"arrowStart,omitempty"`
	ArrowEnd    bool      `json:"arrowEnd,omitempty"`
	Label       string    `json:"label,omitempty"`
	TextColor   Color     `json:"textColor"`
	TextSize    float64   `json:"textSize,omitempty"`
}

func (c Connection) Meta() Base { return c.Base }

func (Connection) Kind() Kind { return KindConnection }

func (c Connection) WithOpacity(o float64) Primitive {
	c.Opacity = o
	return c
}

// Container is a grouping rectangle drawn behind its contents: a network
// layer, a convolution patch, a circuit region. FillOpacity scales the
// fill independently of the whole primitive's opacity; zero leaves the
// container outline-only.
type Container struct {
	Base
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Fill        Color     `json:"fill"`
	FillOpacity float64   `json:"fillOpacity,omitempty"`
	Stroke      Color     `json:"stroke"`
	StrokeWidth float64   `json:"strokeWidth"`
	Dash        []float64 `json:"dash,omitempty"`
	Label       string    `json:"label,omitempty"` // Drawn above the top edge
	TextColor   Color     `json:"textColor"`
	TextSize    float64   `json:"textSize"`
}

func (c Container) Meta() Base { return c.Base }

func (Container) Kind() Kind { return KindContainer }

func (c Container) WithOpacity(o float64) Primitive {
	c.Opacity = o
	return c
}

// Annotation is explanatory chrome: a named pointer under an array cell,
// a bracket spanning a range, a status badge. X,Y anchor the annotation;
// brackets additionally use X2 for their far end.
type Annotation struct {
	Base
	Form      Form    `json:"form"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	X2        float64 `json:"x2,omitempty"` // Bracket end
	Text      string  `json:"text,omitempty"`
	TextSize  float64 `json:"textSize"`
	Color     Color   `json:"color"`
	Fill      Color   `json:"fill"`                // Badge background
	PointDown bool    `json:"pointDown,omitempty"` // Pointer arrow direction
}

func (a Annotation) Meta() Base { return a.Base }

func (Annotation) Kind() Kind { return KindAnnotation }

func (a Annotation) WithOpacity(o float64) Primitive {
	a.Opacity = o
	return a
}

// Overlay fills a region with structured content too dense for individual
// primitives: a background grid or a heatmap of matrix values. Heatmap
// cells map Values through a 3-stop ramp between VMin and VMax; Log maps
// them in logarithmic domain first, which keeps contour-style data legible
// near its minimum.
type Overlay struct {
	Base
	Mode    Mode        `json:"mode"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Spacing float64     `json:"spacing,omitempty"` // Grid line spacing
	Line    Color       `json:"line"`              // Grid line color
	Values  [][]float64 `json:"values,omitempty"`  // Heatmap rows
	Stops   Ramp        `json:"stops"`
	VMin    float64     `json:"vmin"`
	VMax    float64     `json:"vmax"`
	Log     bool        `json:"log,omitempty"`
}

func (o Overlay) Meta() Base { return o.Base }

func (Overlay) Kind() Kind { return KindOverlay }

func (o Overlay) WithOpacity(op float64) Primitive {
	o.Opacity = op
	return o
}

// ColorAt maps one heatmap value through the overlay's ramp: the value is
// normalized between VMin and VMax (in logarithmic domain when Log is set)
// and evaluated against Stops. A degenerate range maps everything to the
// middle stop. Renderers use this so raster and vector output agree on
// cell colors.
func (o Overlay) ColorAt(v float64) Color {
	span := o.VMax - o.VMin
	if span <= 0 {
		return o.Stops.At(0.5)
	}
	var t float64
	if o.Log {
		t = math.Log1p(math.Max(0, v-o.VMin)) / math.Log1p(span)
	} else {
		t = (v - o.VMin) / span
	}
	return o.Stops.At(t)
}
