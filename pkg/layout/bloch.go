package layout

import (
	"math"
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// Fixed camera for the Bloch sphere: azimuth about the vertical axis,
// then elevation about the horizontal, depth kept for front/back styling.
const (
	blochAzimuth   = 0.6
	blochElevation = 0.35
	blochSegments  = 48
)

// project maps a point on the unit sphere (z up) to screen offsets and a
// depth value; positive depth faces the viewer.
func project(x, y, z float64) (sx, sy, depth float64) {
	sinA, cosA := math.Sincos(blochAzimuth)
	x1 := x*cosA - y*sinA
	y1 := x*sinA + y*cosA

	sinB, cosB := math.Sincos(blochElevation)
	y2 := y1*cosB - z*sinB
	z2 := y1*sinB + z*cosB

	return x1, -z2, -y2
}

// BlochSphere renders a single qubit on the Bloch sphere: a wireframe of
// equator and two meridians with painter-style front/back treatment, the
// axis cross with basis labels, and the state arrow.
func BlochSphere(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	cx, cy := size.Width/2, size.Height/2
	radius := math.Min(size.Width, size.Height)/2 - padding - 20
	if radius < 40 {
		radius = 40
	}
	at := func(x, y, z float64) (float64, float64, float64) {
		sx, sy, depth := project(x, y, z)
		return cx + sx*radius, cy + sy*radius, depth
	}

	// State vector: rotateBlochSphere wins, then explicit Bloch
	// coordinates, then spherical angles, then |0>.
	bx, by, bz := 0.0, 0.0, 1.0
	stateLabel := ""
	if x, ok := stateFloat(step.State, "blochX"); ok {
		y, _ := stateFloat(step.State, "blochY")
		z, _ := stateFloat(step.State, "blochZ")
		bx, by, bz = x, y, z
	} else if theta, ok := stateFloat(step.State, "theta"); ok {
		phi, _ := stateFloat(step.State, "phi")
		bx, by, bz = sphereVec(theta, phi)
	}
	for _, a := range step.VisualActions {
		switch a.Type {
		case "rotateBlochSphere":
			theta, okT := a.Float("theta")
			phi, okP := a.Float("phi")
			if okT && okP {
				bx, by, bz = sphereVec(theta, phi)
			}
			if lbl, ok := a.String("label"); ok {
				stateLabel = lbl
			}
		default:
		}
	}

	wire := func(prefix string, point func(t float64) (float64, float64, float64)) {
		for k := 0; k < blochSegments; k++ {
			t1 := 2 * math.Pi * float64(k) / blochSegments
			t2 := 2 * math.Pi * float64(k+1) / blochSegments
			x1, y1, z1 := point(t1)
			x2, y2, z2 := point(t2)
			sx1, sy1, d1 := at(x1, y1, z1)
			sx2, sy2, d2 := at(x2, y2, z2)

			conn := scene.Connection{
				Base:  scene.Base{ID: prefix + "-" + strconv.Itoa(k), Opacity: 0.8},
				X1:    sx1, Y1: sy1, X2: sx2, Y2: sy2,
				Color: theme.Muted, Width: 1.5,
			}
			if (d1+d2)/2 < 0 {
				conn.Opacity = 0.3
				conn.Width = 1
				conn.Dash = []float64{4, 4}
			}
			sc.Add(conn)
		}
	}
	wire("eq", func(t float64) (float64, float64, float64) { return math.Cos(t), math.Sin(t), 0 })
	wire("mx", func(t float64) (float64, float64, float64) { return math.Cos(t), 0, math.Sin(t) })
	wire("my", func(t float64) (float64, float64, float64) { return 0, math.Cos(t), math.Sin(t) })

	axis := func(id string, x, y, z float64, text string) {
		sx, sy, _ := at(x*1.25, y*1.25, z*1.25)
		sc.Add(scene.Connection{
			Base:  scene.Base{ID: "ax-" + id, Z: 1, Opacity: 0.7},
			X1:    cx, Y1: cy, X2: sx, Y2: sy,
			Color: theme.Stroke, Width: 1, ArrowEnd: true,
		})
		lx, ly, _ := at(x*1.4, y*1.4, z*1.4)
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "lbl-" + id, Z: 2, Opacity: 1},
			Form:     scene.FormLabel,
			X:        lx,
			Y:        ly,
			Text:     text,
			TextSize: labelSize,
			Color:    theme.Text,
		})
	}
	axis("x", 1, 0, 0, "x")
	axis("y", 0, 1, 0, "y")
	axis("z", 0, 0, 1, "|0⟩")
	axis("z1", 0, 0, -1, "|1⟩")

	tipX, tipY, _ := at(bx, by, bz)
	sc.Add(scene.Connection{
		Base:  scene.Base{ID: "state", Z: 3, Opacity: 1},
		X1:    cx, Y1: cy, X2: tipX, Y2: tipY,
		Color: theme.Resolve("accent", theme.Stroke), Width: 3,
		ArrowEnd: true,
	})
	if stateLabel != "" {
		sc.Add(scene.Annotation{
			Base:     scene.Base{ID: "state-label", Z: 4, Opacity: 1},
			Form:     scene.FormBadge,
			X:        tipX,
			Y:        tipY - 20,
			Text:     stateLabel,
			TextSize: subSize,
			Color:    scene.RGB(0xff, 0xff, 0xff),
			Fill:     theme.Resolve("accent", theme.Stroke),
		})
	}

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}

// sphereVec converts spherical angles to Bloch coordinates: theta from
// the +z pole, phi around the equator from +x.
func sphereVec(theta, phi float64) (x, y, z float64) {
	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return sinT * cosP, sinT * sinP, cosT
}
