package render

import (
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/fonts"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

const (
	// cornerRadius rounds box and container corners.
	cornerRadius = 6.0
	// pointerSize is the pointer annotation's triangle height.
	pointerSize = 7.0
	// bracketTick is the upward tick length at a bracket's ends.
	bracketTick = 6.0
	// defaultTextSize covers primitives that left TextSize unset.
	defaultTextSize = 12.0
)

// Painter draws scenes onto one surface in paint order. It owns no state
// beyond the target; per-primitive styling comes entirely from the
// scene, so one painter can draw any number of frames.
type Painter struct {
	surf *Surface
	ctx  *gg.Context
	dpr  float64
}

// NewPainter returns a painter for the surface.
func NewPainter(s *Surface) *Painter {
	return &Painter{surf: s, ctx: s.Context(), dpr: s.DPR()}
}

// Paint fills the background and draws every visible primitive in
// ascending z order. A primitive's opacity multiplies into every fill
// and stroke alpha it produces. The only error source is font loading.
func (p *Painter) Paint(sc *scene.Scene) error {
	p.surf.Fill(sc.Background)
	for _, prim := range sc.PaintOrder() {
		if prim == nil {
			continue
		}
		alpha := prim.Meta().Opacity
		if alpha <= 0 {
			continue
		}
		var err error
		switch v := prim.(type) {
		case scene.Element:
			err = p.element(v, alpha)
		case scene.Connection:
			err = p.connection(v, alpha)
		case scene.Container:
			err = p.container(v, alpha)
		case scene.Annotation:
			err = p.annotation(v, alpha)
		case scene.Overlay:
			p.overlay(v, alpha)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// ===== Primitive drawing =====

func (p *Painter) element(e scene.Element, alpha float64) error {
	p.shapePath(e)
	p.setColor(e.Fill, alpha)
	p.ctx.FillPreserve()
	if e.StrokeWidth > 0 {
		p.setStroke(e.Stroke, alpha, e.StrokeWidth, nil)
		p.ctx.Stroke()
	} else {
		p.ctx.ClearPath()
	}
	return p.elementText(e, alpha)
}

// shapePath traces the element outline. Every shape fills the same
// bounding box, which keeps cross-shape interpolation footprint-stable.
func (p *Painter) shapePath(e scene.Element) {
	switch e.Shape {
	case scene.ShapeCircle:
		r := math.Min(e.Width, e.Height) / 2
		p.ctx.DrawCircle(e.X+e.Width/2, e.Y+e.Height/2, r)
	case scene.ShapeDiamond:
		cx, cy := e.X+e.Width/2, e.Y+e.Height/2
		p.ctx.MoveTo(cx, e.Y)
		p.ctx.LineTo(e.X+e.Width, cy)
		p.ctx.LineTo(cx, e.Y+e.Height)
		p.ctx.LineTo(e.X, cy)
		p.ctx.ClosePath()
	default:
		p.ctx.DrawRoundedRectangle(e.X, e.Y, e.Width, e.Height, cornerRadius)
	}
}

func (p *Painter) elementText(e scene.Element, alpha float64) error {
	if e.Label == "" && e.SubLabel == "" {
		return nil
	}
	size := e.TextSize
	if size <= 0 {
		size = defaultTextSize
	}
	cx := e.X + e.Width/2
	cy := e.Y + e.Height/2

	if e.Label != "" {
		y := cy
		if e.SubLabel != "" {
			y = cy - size*0.45
		}
		if err := p.text(e.Label, cx, y, size, e.TextColor, alpha, false); err != nil {
			return err
		}
	}
	if e.SubLabel != "" {
		y := cy + size*0.75
		if e.Label == "" {
			y = cy
		}
		if err := p.text(e.SubLabel, cx, y, size*0.78, e.TextColor, alpha, false); err != nil {
			return err
		}
	}
	return nil
}

func (p *Painter) connection(c scene.Connection, alpha float64) error {
	width := c.Width
	if width <= 0 {
		width = 1
	}
	curved := c.CurveOffset != 0
	ctrlX, ctrlY := CurveControl(c)

	p.ctx.MoveTo(c.X1, c.Y1)
	if curved {
		p.ctx.QuadraticTo(ctrlX, ctrlY, c.X2, c.Y2)
	} else {
		p.ctx.LineTo(c.X2, c.Y2)
	}
	p.setStroke(c.Color, alpha, width, c.Dash)
	p.ctx.Stroke()
	p.ctx.SetDash()

	if c.ArrowEnd {
		fx, fy := c.X1, c.Y1
		if curved {
			fx, fy = ctrlX, ctrlY
		}
		p.arrowHead(c.X2, c.Y2, fx, fy, c.Color, alpha, width)
	}
	if c.ArrowStart {
		fx, fy := c.X2, c.Y2
		if curved {
			fx, fy = ctrlX, ctrlY
		}
		p.arrowHead(c.X1, c.Y1, fx, fy, c.Color, alpha, width)
	}

	if c.Label != "" {
		size := c.TextSize
		if size <= 0 {
			size = defaultTextSize
		}
		lx := (c.X1 + c.X2) / 2
		ly := (c.Y1 + c.Y2) / 2
		if curved {
			lx = 0.25*c.X1 + 0.5*ctrlX + 0.25*c.X2
			ly = 0.25*c.Y1 + 0.5*ctrlY + 0.25*c.Y2
		}
		return p.text(c.Label, lx, ly-size*0.9, size, c.TextColor, alpha, false)
	}
	return nil
}

func (p *Painter) container(c scene.Container, alpha float64) error {
	p.ctx.DrawRoundedRectangle(c.X, c.Y, c.Width, c.Height, cornerRadius)
	if c.FillOpacity > 0 {
		p.setColor(c.Fill, alpha*c.FillOpacity)
		p.ctx.FillPreserve()
	}
	if c.StrokeWidth > 0 {
		p.setStroke(c.Stroke, alpha, c.StrokeWidth, c.Dash)
		p.ctx.StrokePreserve()
		p.ctx.SetDash()
	}
	p.ctx.ClearPath()

	if c.Label != "" {
		size := c.TextSize
		if size <= 0 {
			size = defaultTextSize
		}
		return p.text(c.Label, c.X+c.Width/2, c.Y-size*0.8, size, c.TextColor, alpha, false)
	}
	return nil
}

func (p *Painter) annotation(a scene.Annotation, alpha float64) error {
	size := a.TextSize
	if size <= 0 {
		size = defaultTextSize
	}
	switch a.Form {
	case scene.FormPointer:
		// Apex at the anchor, base on the far side from the subject.
		baseY := a.Y + pointerSize
		textY := a.Y + pointerSize + size*0.9
		if a.PointDown {
			baseY = a.Y - pointerSize
			textY = a.Y - pointerSize - size*0.9
		}
		p.ctx.MoveTo(a.X, a.Y)
		p.ctx.LineTo(a.X-pointerSize*0.8, baseY)
		p.ctx.LineTo(a.X+pointerSize*0.8, baseY)
		p.ctx.ClosePath()
		p.setColor(a.Color, alpha)
		p.ctx.Fill()
		if a.Text == "" {
			return nil
		}
		return p.text(a.Text, a.X, textY, size, a.Color, alpha, true)

	case scene.FormBracket:
		p.setStroke(a.Color, alpha, 1.5, nil)
		p.ctx.MoveTo(a.X, a.Y-bracketTick)
		p.ctx.LineTo(a.X, a.Y)
		p.ctx.LineTo(a.X2, a.Y)
		p.ctx.LineTo(a.X2, a.Y-bracketTick)
		p.ctx.Stroke()
		if a.Text == "" {
			return nil
		}
		return p.text(a.Text, (a.X+a.X2)/2, a.Y+size*0.9, size, a.Color, alpha, false)

	case scene.FormBadge:
		if a.Text == "" {
			return nil
		}
		face, err := p.face(size, false)
		if err != nil {
			return err
		}
		p.ctx.SetFontFace(face)
		w, h := p.ctx.MeasureString(a.Text)
		w, h = w/p.dpr, h/p.dpr
		bw, bh := w+16, h+8
		p.ctx.DrawRoundedRectangle(a.X-bw/2, a.Y-bh/2, bw, bh, bh/2)
		p.setColor(a.Fill, alpha)
		p.ctx.Fill()
		return p.text(a.Text, a.X, a.Y, size, a.Color, alpha, false)

	default: // FormLabel
		if a.Text == "" {
			return nil
		}
		return p.text(a.Text, a.X, a.Y, size, a.Color, alpha, false)
	}
}

func (p *Painter) overlay(o scene.Overlay, alpha float64) {
	switch o.Mode {
	case scene.ModeGrid:
		p.grid(o, alpha)
	case scene.ModeHeatmap:
		p.heatmap(o, alpha)
	}
}

func (p *Painter) grid(o scene.Overlay, alpha float64) {
	if o.Spacing <= 0 || o.Width <= 0 || o.Height <= 0 {
		return
	}
	p.setStroke(o.Line, alpha, 1, nil)
	for x := o.X; x <= o.X+o.Width+1e-9; x += o.Spacing {
		p.ctx.DrawLine(x, o.Y, x, o.Y+o.Height)
	}
	for y := o.Y; y <= o.Y+o.Height+1e-9; y += o.Spacing {
		p.ctx.DrawLine(o.X, y, o.X+o.Width, y)
	}
	p.ctx.Stroke()
}

func (p *Painter) heatmap(o scene.Overlay, alpha float64) {
	rows := len(o.Values)
	if rows == 0 || o.Width <= 0 || o.Height <= 0 {
		return
	}
	ch := o.Height / float64(rows)
	for r, row := range o.Values {
		if len(row) == 0 {
			continue
		}
		cw := o.Width / float64(len(row))
		y := o.Y + float64(r)*ch
		for col, v := range row {
			p.setColor(o.ColorAt(v), alpha)
			// Slight overdraw avoids hairline seams between cells.
			p.ctx.DrawRectangle(o.X+float64(col)*cw, y, cw+0.5, ch+0.5)
			p.ctx.Fill()
		}
	}
}

// ===== Shared geometry =====

// CurveControl returns the quadratic control point for a connection:
// the midpoint pushed CurveOffset along the left-hand perpendicular, so
// a negative offset bows a left-to-right connection upward in screen
// space. Straight connections get their midpoint back.
func CurveControl(c scene.Connection) (x, y float64) {
	mx, my := (c.X1+c.X2)/2, (c.Y1+c.Y2)/2
	if c.CurveOffset == 0 {
		return mx, my
	}
	dx, dy := c.X2-c.X1, c.Y2-c.Y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return mx, my
	}
	return mx - dy/length*c.CurveOffset, my + dx/length*c.CurveOffset
}

// ArrowPoints returns the three corners of an arrowhead whose tip sits
// at (tipX, tipY), oriented away from (fromX, fromY) and sized by the
// line width. Raster and SVG output share this geometry.
func ArrowPoints(tipX, tipY, fromX, fromY, width float64) [3][2]float64 {
	angle := math.Atan2(tipY-fromY, tipX-fromX)
	length := 4 + 2.5*width
	a1 := angle + math.Pi - 0.45
	a2 := angle - math.Pi + 0.45
	return [3][2]float64{
		{tipX, tipY},
		{tipX + length*math.Cos(a1), tipY + length*math.Sin(a1)},
		{tipX + length*math.Cos(a2), tipY + length*math.Sin(a2)},
	}
}

func (p *Painter) arrowHead(tipX, tipY, fromX, fromY float64, c scene.Color, alpha, width float64) {
	pts := ArrowPoints(tipX, tipY, fromX, fromY, width)
	p.ctx.MoveTo(pts[0][0], pts[0][1])
	p.ctx.LineTo(pts[1][0], pts[1][1])
	p.ctx.LineTo(pts[2][0], pts[2][1])
	p.ctx.ClosePath()
	p.setColor(c, alpha)
	p.ctx.Fill()
}

// ===== Styling helpers =====

func (p *Painter) setColor(c scene.Color, alpha float64) {
	p.ctx.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}

// setStroke applies color, width and dash pattern. Widths and dash
// lengths are device-space in gg, so both scale by the pixel ratio here.
func (p *Painter) setStroke(c scene.Color, alpha, width float64, dash []float64) {
	p.setColor(c, alpha)
	p.ctx.SetLineWidth(width * p.dpr)
	if len(dash) > 0 {
		scaled := make([]float64, len(dash))
		for i, d := range dash {
			scaled[i] = d * p.dpr
		}
		p.ctx.SetDash(scaled...)
	} else {
		p.ctx.SetDash()
	}
}

// text draws s centered on (x, y). gg leaves glyphs untouched by the
// context matrix, so the face is sized in physical pixels and only the
// anchor goes through the transform.
func (p *Painter) text(s string, x, y, size float64, c scene.Color, alpha float64, bold bool) error {
	if s == "" {
		return nil
	}
	face, err := p.face(size, bold)
	if err != nil {
		return err
	}
	p.ctx.SetFontFace(face)
	p.setColor(c, alpha)
	p.ctx.DrawStringAnchored(s, x, y, 0.5, 0.35)
	return nil
}

func (p *Painter) face(size float64, bold bool) (font.Face, error) {
	pts := size * p.dpr
	var (
		face font.Face
		err  error
	)
	if bold {
		face, err = fonts.BoldFace(pts)
	} else {
		face, err = fonts.Face(pts)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load %gpt font face", pts)
	}
	return face, nil
}
