package scene

// =============================================================================
// Interpolation
// =============================================================================

// exitEpsilon is the opacity below which an exiting primitive is dropped
// from the frame entirely instead of being painted almost-invisible.
const exitEpsilon = 0.01

// lerp interpolates linearly. Written in two-product form so t=0 yields a
// and t=1 yields b exactly, with no floating point drift.
func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Interpolate produces the primitive's appearance at progress t of its
// transition, where t=0 is the source scene and t=1 the target scene.
// It returns nil when nothing should be painted.
//
// Rules, by transition state:
//
//   - Stable: numeric attributes (position, size, line width, text size,
//     opacity, curve offset) interpolate linearly; colors interpolate per
//     RGB channel; discrete attributes (shape, dash pattern, arrowheads,
//     text and labels) and the z-index take the target value immediately.
//     Overlays do not morph cell-by-cell: the source overlay holds until
//     t=0.5, the target from then on. If the two primitives disagree on
//     kind, the target is returned unmodified.
//   - Entering: the target primitive with opacity scaled by t.
//   - Exiting: the source primitive with its own opacity scaled by 1-t,
//     or nil once that falls below exitEpsilon.
//
// Geometry extrapolates naturally for t outside [0,1] (eased timing may
// overshoot); opacity math clamps t so opacities stay within [0,1].
func Interpolate(tr Transition, t float64) Primitive {
	ct := clamp01(t)
	switch tr.State {
	case StateEntering:
		return tr.To.WithOpacity(tr.To.Meta().Opacity * ct)
	case StateExiting:
		op := tr.From.Meta().Opacity * (1 - ct)
		if op < exitEpsilon {
			return nil
		}
		return tr.From.WithOpacity(op)
	}
	if tr.From.Kind() != tr.To.Kind() {
		return tr.To
	}
	switch to := tr.To.(type) {
	case Element:
		return morphElement(tr.From.(Element), to, t, ct)
	case Connection:
		return morphConnection(tr.From.(Connection), to, t, ct)
	case Container:
		return morphContainer(tr.From.(Container), to, t, ct)
	case Annotation:
		return morphAnnotation(tr.From.(Annotation), to, t, ct)
	case Overlay:
		if ct < 0.5 {
			return tr.From
		}
		return to
	}
	return tr.To
}

// Each morph starts from the target value, so discrete fields and the
// z-index resolve to the target, then writes interpolated numerics over it.

func morphElement(a, b Element, t, ct float64) Element {
	out := b
	out.X = lerp(a.X, b.X, t)
	out.Y = lerp(a.Y, b.Y, t)
	out.Width = lerp(a.Width, b.Width, t)
	out.Height = lerp(a.Height, b.Height, t)
	out.StrokeWidth = lerp(a.StrokeWidth, b.StrokeWidth, t)
	out.TextSize = lerp(a.TextSize, b.TextSize, t)
	out.Opacity = lerp(a.Opacity, b.Opacity, ct)
	out.Fill = LerpColor(a.Fill, b.Fill, t)
	out.Stroke = LerpColor(a.Stroke, b.Stroke, t)
	out.TextColor = LerpColor(a.TextColor, b.TextColor, t)
	return out
}

func morphConnection(a, b Connection, t, ct float64) Connection {
	out := b
	out.X1 = lerp(a.X1, b.X1, t)
	out.Y1 = lerp(a.Y1, b.Y1, t)
	out.X2 = lerp(a.X2, b.X2, t)
	out.Y2 = lerp(a.Y2, b.Y2, t)
	out.CurveOffset = lerp(a.CurveOffset, b.CurveOffset, t)
	out.Width = lerp(a.Width, b.Width, t)
	out.TextSize = lerp(a.TextSize, b.TextSize, t)
	out.Opacity = lerp(a.Opacity, b.Opacity, ct)
	out.Color = LerpColor(a.Color, b.Color, t)
	out.TextColor = LerpColor(a.TextColor, b.TextColor, t)
	return out
}

func morphContainer(a, b Container, t, ct float64) Container {
	out := b
	out.X = lerp(a.X, b.X, t)
	out.Y = lerp(a.Y, b.Y, t)
	out.Width = lerp(a.Width, b.Width, t)
	out.Height = lerp(a.Height, b.Height, t)
	out.FillOpacity = lerp(a.FillOpacity, b.FillOpacity, ct)
	out.StrokeWidth = lerp(a.StrokeWidth, b.StrokeWidth, t)
	out.TextSize = lerp(a.TextSize, b.TextSize, t)
	out.Opacity = lerp(a.Opacity, b.Opacity, ct)
	out.Fill = LerpColor(a.Fill, b.Fill, t)
	out.Stroke = LerpColor(a.Stroke, b.Stroke, t)
	out.TextColor = LerpColor(a.TextColor, b.TextColor, t)
	return out
}

func morphAnnotation(a, b Annotation, t, ct float64) Annotation {
	out := b
	out.X = lerp(a.X, b.X, t)
	out.Y = lerp(a.Y, b.Y, t)
	out.X2 = lerp(a.X2, b.X2, t)
	out.TextSize = lerp(a.TextSize, b.TextSize, t)
	out.Opacity = lerp(a.Opacity, b.Opacity, ct)
	out.Color = LerpColor(a.Color, b.Color, t)
	out.Fill = LerpColor(a.Fill, b.Fill, t)
	return out
}

// InterpolateScene evaluates every transition in the plan at progress t
// and assembles the resulting frame scene. Primitives that interpolate to
// nil (faded-out exits) are omitted.
func InterpolateScene(p *Plan, t float64) *Scene {
	frame := New(p.Width, p.Height, p.Background)
	for _, tr := range p.Transitions {
		if prim := Interpolate(tr, t); prim != nil {
			frame.Add(prim)
		}
	}
	return frame
}
