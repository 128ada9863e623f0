package sink

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/stepmotion/pkg/fonts"
	"github.com/matzehuels/stepmotion/pkg/render"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

const (
	cornerRadius    = 6.0
	pointerSize     = 7.0
	bracketTick     = 6.0
	defaultTextSize = 12.0
)

// SVGOption configures SVG rendering via [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      string
	background bool
	scale      float64
	embedFont  bool
	family     string
}

// WithTitle adds an accessible <title> element.
func WithTitle(t string) SVGOption { return func(r *svgRenderer) { r.title = t } }

// WithBackground toggles the background rect (default on). Off yields a
// transparent canvas for embedding.
func WithBackground(on bool) SVGOption { return func(r *svgRenderer) { r.background = on } }

// WithSVGScale multiplies the rendered width/height attributes while the
// viewBox keeps scene coordinates, so the document scales losslessly.
func WithSVGScale(s float64) SVGOption { return func(r *svgRenderer) { r.scale = s } }

// WithEmbeddedFont inlines the Go font as a base64 @font-face so the SVG
// renders identically without system fonts.
func WithEmbeddedFont() SVGOption { return func(r *svgRenderer) { r.embedFont = true } }

// RenderSVG serializes the scene as a standalone SVG document. Primitives
// keep their scene ids (`<g id="cell-3">`), so downstream tooling can
// address and animate individual shapes.
func RenderSVG(sc *scene.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g">`+"\n",
		sc.Width, sc.Height, sc.Width*r.scale, sc.Height*r.scale)

	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", esc(r.title))
	}
	if r.embedFont {
		fmt.Fprintf(&buf, "  <style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style>\n",
			fonts.FontFamily, fonts.RegularBase64())
	}
	if r.background {
		fmt.Fprintf(&buf, `  <rect width="%g" height="%g" fill="%s"/>`+"\n",
			sc.Width, sc.Height, sc.Background.Hex())
	}

	for _, p := range sc.PaintOrder() {
		r.primitive(&buf, p)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{background: true, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	r.family = fonts.FallbackFontFamily
	if r.embedFont {
		r.family = fonts.FontFamily
	}
	return r
}

func (r *svgRenderer) primitive(buf *bytes.Buffer, p scene.Primitive) {
	if p == nil {
		return
	}
	meta := p.Meta()
	if meta.Opacity <= 0 {
		return
	}
	if meta.Opacity != 1 {
		fmt.Fprintf(buf, `  <g id="%s" opacity="%g">`+"\n", esc(meta.ID), meta.Opacity)
	} else {
		fmt.Fprintf(buf, `  <g id="%s">`+"\n", esc(meta.ID))
	}
	switch v := p.(type) {
	case scene.Element:
		r.element(buf, v)
	case scene.Connection:
		r.connection(buf, v)
	case scene.Container:
		r.container(buf, v)
	case scene.Annotation:
		r.annotation(buf, v)
	case scene.Overlay:
		r.overlay(buf, v)
	}
	buf.WriteString("  </g>\n")
}

func (r *svgRenderer) element(buf *bytes.Buffer, e scene.Element) {
	stroke := ""
	if e.StrokeWidth > 0 {
		stroke = strokeAttrs(e.Stroke, e.StrokeWidth, nil)
	}
	switch e.Shape {
	case scene.ShapeCircle:
		radius := math.Min(e.Width, e.Height) / 2
		fmt.Fprintf(buf, `    <circle cx="%g" cy="%g" r="%g" fill="%s"%s/>`+"\n",
			e.X+e.Width/2, e.Y+e.Height/2, radius, e.Fill.Hex(), stroke)
	case scene.ShapeDiamond:
		cx, cy := e.X+e.Width/2, e.Y+e.Height/2
		fmt.Fprintf(buf, `    <polygon points="%g,%g %g,%g %g,%g %g,%g" fill="%s"%s/>`+"\n",
			cx, e.Y, e.X+e.Width, cy, cx, e.Y+e.Height, e.X, cy, e.Fill.Hex(), stroke)
	default:
		fmt.Fprintf(buf, `    <rect x="%g" y="%g" width="%g" height="%g" rx="%g" fill="%s"%s/>`+"\n",
			e.X, e.Y, e.Width, e.Height, cornerRadius, e.Fill.Hex(), stroke)
	}

	if e.Label == "" && e.SubLabel == "" {
		return
	}
	size := e.TextSize
	if size <= 0 {
		size = defaultTextSize
	}
	cx, cy := e.X+e.Width/2, e.Y+e.Height/2
	if e.Label != "" {
		y := cy
		if e.SubLabel != "" {
			y = cy - size*0.45
		}
		r.text(buf, cx, y, size, e.TextColor, e.Label, false)
	}
	if e.SubLabel != "" {
		y := cy + size*0.75
		if e.Label == "" {
			y = cy
		}
		r.text(buf, cx, y, size*0.78, e.TextColor, e.SubLabel, false)
	}
}

func (r *svgRenderer) connection(buf *bytes.Buffer, c scene.Connection) {
	width := c.Width
	if width <= 0 {
		width = 1
	}
	stroke := strokeAttrs(c.Color, width, c.Dash)
	ctrlX, ctrlY := render.CurveControl(c)
	curved := c.CurveOffset != 0

	if curved {
		fmt.Fprintf(buf, `    <path d="M %g %g Q %g %g %g %g" fill="none"%s/>`+"\n",
			c.X1, c.Y1, ctrlX, ctrlY, c.X2, c.Y2, stroke)
	} else {
		fmt.Fprintf(buf, `    <line x1="%g" y1="%g" x2="%g" y2="%g"%s/>`+"\n",
			c.X1, c.Y1, c.X2, c.Y2, stroke)
	}

	if c.ArrowEnd {
		fx, fy := c.X1, c.Y1
		if curved {
			fx, fy = ctrlX, ctrlY
		}
		r.arrow(buf, c.X2, c.Y2, fx, fy, c.Color, width)
	}
	if c.ArrowStart {
		fx, fy := c.X2, c.Y2
		if curved {
			fx, fy = ctrlX, ctrlY
		}
		r.arrow(buf, c.X1, c.Y1, fx, fy, c.Color, width)
	}

	if c.Label != "" {
		size := c.TextSize
		if size <= 0 {
			size = defaultTextSize
		}
		lx, ly := (c.X1+c.X2)/2, (c.Y1+c.Y2)/2
		if curved {
			lx = 0.25*c.X1 + 0.5*ctrlX + 0.25*c.X2
			ly = 0.25*c.Y1 + 0.5*ctrlY + 0.25*c.Y2
		}
		r.text(buf, lx, ly-size*0.9, size, c.TextColor, c.Label, false)
	}
}

func (r *svgRenderer) arrow(buf *bytes.Buffer, tipX, tipY, fromX, fromY float64, c scene.Color, width float64) {
	pts := render.ArrowPoints(tipX, tipY, fromX, fromY, width)
	fmt.Fprintf(buf, `    <polygon points="%g,%g %g,%g %g,%g" fill="%s"/>`+"\n",
		pts[0][0], pts[0][1], pts[1][0], pts[1][1], pts[2][0], pts[2][1], c.Hex())
}

func (r *svgRenderer) container(buf *bytes.Buffer, c scene.Container) {
	fill := `fill="none"`
	if c.FillOpacity > 0 {
		fill = fmt.Sprintf(`fill="%s" fill-opacity="%g"`, c.Fill.Hex(), c.FillOpacity)
	}
	stroke := ""
	if c.StrokeWidth > 0 {
		stroke = strokeAttrs(c.Stroke, c.StrokeWidth, c.Dash)
	}
	fmt.Fprintf(buf, `    <rect x="%g" y="%g" width="%g" height="%g" rx="%g" %s%s/>`+"\n",
		c.X, c.Y, c.Width, c.Height, cornerRadius, fill, stroke)

	if c.Label != "" {
		size := c.TextSize
		if size <= 0 {
			size = defaultTextSize
		}
		r.text(buf, c.X+c.Width/2, c.Y-size*0.8, size, c.TextColor, c.Label, false)
	}
}

func (r *svgRenderer) annotation(buf *bytes.Buffer, a scene.Annotation) {
	size := a.TextSize
	if size <= 0 {
		size = defaultTextSize
	}
	switch a.Form {
	case scene.FormPointer:
		baseY := a.Y + pointerSize
		textY := a.Y + pointerSize + size*0.9
		if a.PointDown {
			baseY = a.Y - pointerSize
			textY = a.Y - pointerSize - size*0.9
		}
		fmt.Fprintf(buf, `    <polygon points="%g,%g %g,%g %g,%g" fill="%s"/>`+"\n",
			a.X, a.Y, a.X-pointerSize*0.8, baseY, a.X+pointerSize*0.8, baseY, a.Color.Hex())
		if a.Text != "" {
			r.text(buf, a.X, textY, size, a.Color, a.Text, true)
		}

	case scene.FormBracket:
		fmt.Fprintf(buf, `    <path d="M %g %g L %g %g L %g %g L %g %g" fill="none"%s/>`+"\n",
			a.X, a.Y-bracketTick, a.X, a.Y, a.X2, a.Y, a.X2, a.Y-bracketTick,
			strokeAttrs(a.Color, 1.5, nil))
		if a.Text != "" {
			r.text(buf, (a.X+a.X2)/2, a.Y+size*0.9, size, a.Color, a.Text, false)
		}

	case scene.FormBadge:
		if a.Text == "" {
			return
		}
		bw := float64(utf8.RuneCountInString(a.Text))*size*0.6 + 16
		bh := size + 8
		fmt.Fprintf(buf, `    <rect x="%g" y="%g" width="%g" height="%g" rx="%g" fill="%s"/>`+"\n",
			a.X-bw/2, a.Y-bh/2, bw, bh, bh/2, a.Fill.Hex())
		r.text(buf, a.X, a.Y, size, a.Color, a.Text, false)

	default:
		if a.Text != "" {
			r.text(buf, a.X, a.Y, size, a.Color, a.Text, false)
		}
	}
}

func (r *svgRenderer) overlay(buf *bytes.Buffer, o scene.Overlay) {
	switch o.Mode {
	case scene.ModeGrid:
		if o.Spacing <= 0 || o.Width <= 0 || o.Height <= 0 {
			return
		}
		stroke := strokeAttrs(o.Line, 1, nil)
		for x := o.X; x <= o.X+o.Width+1e-9; x += o.Spacing {
			fmt.Fprintf(buf, `    <line x1="%g" y1="%g" x2="%g" y2="%g"%s/>`+"\n",
				x, o.Y, x, o.Y+o.Height, stroke)
		}
		for y := o.Y; y <= o.Y+o.Height+1e-9; y += o.Spacing {
			fmt.Fprintf(buf, `    <line x1="%g" y1="%g" x2="%g" y2="%g"%s/>`+"\n",
				o.X, y, o.X+o.Width, y, stroke)
		}

	case scene.ModeHeatmap:
		rows := len(o.Values)
		if rows == 0 || o.Width <= 0 || o.Height <= 0 {
			return
		}
		ch := o.Height / float64(rows)
		for i, row := range o.Values {
			if len(row) == 0 {
				continue
			}
			cw := o.Width / float64(len(row))
			y := o.Y + float64(i)*ch
			for col, v := range row {
				fmt.Fprintf(buf, `    <rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`+"\n",
					o.X+float64(col)*cw, y, cw, ch, o.ColorAt(v).Hex())
			}
		}
	}
}

func (r *svgRenderer) text(buf *bytes.Buffer, x, y, size float64, c scene.Color, s string, bold bool) {
	weight := ""
	if bold {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(buf, `    <text x="%g" y="%g" font-family="%s" font-size="%g" fill="%s" text-anchor="middle" dominant-baseline="central"%s>%s</text>`+"\n",
		x, y, r.family, size, c.Hex(), weight, esc(s))
}

func strokeAttrs(c scene.Color, width float64, dash []float64) string {
	s := fmt.Sprintf(` stroke="%s" stroke-width="%g"`, c.Hex(), width)
	if len(dash) > 0 {
		parts := make([]string, len(dash))
		for i, d := range dash {
			parts[i] = strconv.FormatFloat(d, 'g', -1, 64)
		}
		s += fmt.Sprintf(` stroke-dasharray="%s"`, strings.Join(parts, " "))
	}
	return s
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func esc(s string) string { return escaper.Replace(s) }
