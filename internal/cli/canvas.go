package cli

import (
	"math"
	"strings"

	"github.com/matzehuels/stepmotion/pkg/scene"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille-dot drawing surface for terminal frame previews.
// Each character cell packs 2x4 dots, so the drawable resolution is
// (Width*2) x (Height*4) sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set lights the dot at (x, y) in sub-pixel coordinates.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// Clear resets the canvas to empty braille cells.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws the outline of an axis-aligned rectangle.
func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// DrawEllipse draws an axis-aligned ellipse outline inscribed in the
// bounding box, sampling the parametric curve densely enough that
// adjacent dots connect at this resolution.
func (c *Canvas) DrawEllipse(x0, y0, x1, y1 int) {
	cx := float64(x0+x1) / 2
	cy := float64(y0+y1) / 2
	rx := float64(x1-x0) / 2
	ry := float64(y1-y0) / 2

	steps := 4 * (absInt(x1-x0) + absInt(y1-y0))
	if steps < 8 {
		steps = 8
	}
	prevX, prevY := int(cx+rx), int(cy)
	for i := 1; i <= steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := int(cx + rx*math.Cos(theta))
		y := int(cy + ry*math.Sin(theta))
		c.DrawLine(prevX, prevY, x, y)
		prevX, prevY = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// =============================================================================
// Scene Rendering
// =============================================================================

// DrawScene projects a scene onto the canvas. Primitives with opacity
// below the visibility threshold are skipped, which makes interpolated
// entry/exit frames read as fading even without gray levels.
func (c *Canvas) DrawScene(sc *scene.Scene) {
	const visible = 0.3

	if sc == nil || sc.Width <= 0 || sc.Height <= 0 {
		return
	}

	// Fit the scene into the sub-pixel grid preserving aspect ratio.
	pw := float64(c.Width * 2)
	ph := float64(c.Height * 4)
	scale := pw / sc.Width
	if s := ph / sc.Height; s < scale {
		scale = s
	}
	px := func(v float64) int { return int(v * scale) }

	for _, p := range sc.PaintOrder() {
		if p.Meta().Opacity < visible {
			continue
		}
		switch v := p.(type) {
		case scene.Container:
			c.DrawRect(px(v.X), px(v.Y), px(v.X+v.Width), px(v.Y+v.Height))
		case scene.Overlay:
			c.DrawRect(px(v.X), px(v.Y), px(v.X+v.Width), px(v.Y+v.Height))
		case scene.Element:
			if v.Shape == scene.ShapeCircle {
				c.DrawEllipse(px(v.X), px(v.Y), px(v.X+v.Width), px(v.Y+v.Height))
			} else {
				c.DrawRect(px(v.X), px(v.Y), px(v.X+v.Width), px(v.Y+v.Height))
			}
		case scene.Connection:
			if v.CurveOffset == 0 {
				c.DrawLine(px(v.X1), px(v.Y1), px(v.X2), px(v.Y2))
			} else {
				c.drawCurve(v, px)
			}
		case scene.Annotation:
			c.drawAnnotation(v, px)
		}
	}
}

// drawCurve approximates a bowed connection with its quadratic curve:
// the control point sits CurveOffset away from the midpoint, perpendicular
// to the chord.
func (c *Canvas) drawCurve(v scene.Connection, px func(float64) int) {
	mx := (v.X1 + v.X2) / 2
	my := (v.Y1 + v.Y2) / 2
	dx := v.X2 - v.X1
	dy := v.Y2 - v.Y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	cx := mx - dy/length*v.CurveOffset
	cy := my + dx/length*v.CurveOffset

	const segments = 16
	prevX, prevY := px(v.X1), px(v.Y1)
	for i := 1; i <= segments; i++ {
		t := float64(i) / segments
		u := 1 - t
		x := u*u*v.X1 + 2*u*t*cx + t*t*v.X2
		y := u*u*v.Y1 + 2*u*t*cy + t*t*v.Y2
		c.DrawLine(prevX, prevY, px(x), px(y))
		prevX, prevY = px(x), px(y)
	}
}

func (c *Canvas) drawAnnotation(v scene.Annotation, px func(float64) int) {
	switch v.Form {
	case scene.FormBracket:
		c.DrawLine(px(v.X), px(v.Y), px(v.X2), px(v.Y))
	case scene.FormPointer:
		// Small vertical tick at the anchor.
		tip := px(v.Y)
		tail := tip + 4
		if v.PointDown {
			tail = tip - 4
		}
		c.DrawLine(px(v.X), tail, px(v.X), tip)
	default:
		c.Set(px(v.X), px(v.Y))
	}
}
