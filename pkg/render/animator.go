package render

import "github.com/matzehuels/stepmotion/pkg/scene"

// Animator owns the previously shown scene and the active transition
// plan, turning "show this scene next" into interpolated frames. Players
// and the GIF pipeline drive it with a monotonic t per transition;
// t >= 1 commits the target, and the next Advance plans from there.
type Animator struct {
	ease    Easing
	current *scene.Scene
	target  *scene.Scene
	plan    *scene.Plan
}

// NewAnimator returns an animator using the given easing, defaulting to
// EaseInOutCubic when nil.
func NewAnimator(ease Easing) *Animator {
	if ease == nil {
		ease = EaseInOutCubic
	}
	return &Animator{ease: ease}
}

// Current returns the last committed scene, nil before the first commit.
func (a *Animator) Current() *scene.Scene { return a.current }

// Jump commits a scene without animating into it: the next Advance
// transitions from here. Jump(nil) clears history, so the next scene
// holds still instead of cross-fading in.
func (a *Animator) Jump(s *scene.Scene) {
	a.current = s
	a.target = nil
	a.plan = nil
}

// Advance returns the frame at progress t of the transition from the
// last committed scene to next. Against a fresh animator (or after
// Jump(nil)) the scene holds still rather than fading in. The plan is
// computed once per target and reused while t sweeps 0..1. Retargeting
// before a commit restarts from the last committed scene.
func (a *Animator) Advance(next *scene.Scene, t float64) *scene.Scene {
	if next == nil {
		return nil
	}
	if a.plan == nil || a.target != next {
		if a.current == nil {
			a.plan = scene.Identity(next)
		} else {
			a.plan = scene.PlanTransition(a.current, next)
		}
		a.target = next
	}
	frame := scene.InterpolateScene(a.plan, a.ease(clamp01(t)))
	if t >= 1 {
		a.current = next
		a.target = nil
		a.plan = nil
	}
	return frame
}

// PaintFrame draws frame onto dst. Dense frames (per ShouldUseOffscreen)
// are composed on the offscreen renderer and transferred back in one
// blit when one is supplied and available; everything else paints
// directly.
func PaintFrame(frame *scene.Scene, dst *Surface, off *OffscreenRenderer) error {
	if off != nil && ShouldUseOffscreen(frame.Len()) {
		if osurf := off.Surface(); osurf != nil {
			if err := NewPainter(osurf).Paint(frame); err != nil {
				return err
			}
			off.Transfer(dst)
			return nil
		}
	}
	return NewPainter(dst).Paint(frame)
}
