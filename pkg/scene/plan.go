package scene

// =============================================================================
// Transition Planning
// =============================================================================

// TransitionState classifies how a primitive participates in a transition
// between two consecutive scenes.
type TransitionState string

const (
	// StateStable means the primitive exists in both scenes and morphs
	// from its old appearance to its new one.
	StateStable TransitionState = "stable"
	// StateEntering means the primitive only exists in the target scene
	// and fades in.
	StateEntering TransitionState = "entering"
	// StateExiting means the primitive only exists in the source scene
	// and fades out.
	StateExiting TransitionState = "exiting"
)

// Transition pairs a primitive's appearance in the source and target
// scenes. From is nil for entering primitives, To is nil for exiting ones.
type Transition struct {
	ID    string
	State TransitionState
	From  Primitive
	To    Primitive
}

// Plan is the full set of transitions between two scenes plus the canvas
// the interpolated frames will use. Canvas dimensions and background come
// from the target scene: a transition reads as movement toward the new
// step, not away from the old one.
type Plan struct {
	Width       float64
	Height      float64
	Background  Color
	Transitions []Transition
}

// PlanTransition matches primitives between two scenes by id and
// classifies each as stable, entering or exiting.
//
// Ordering is deterministic: the target scene's primitives first in their
// emission order (stable and entering interleaved as the target emitted
// them), then the source's exiting primitives in source emission order.
// Exiting primitives therefore never paint over entering ones at equal z.
func PlanTransition(from, to *Scene) *Plan {
	plan := &Plan{
		Width:      to.Width,
		Height:     to.Height,
		Background: to.Background,
	}
	fromByID := make(map[string]Primitive, len(from.Primitives))
	for _, p := range from.Primitives {
		fromByID[p.Meta().ID] = p
	}
	toIDs := to.IDs()

	for _, p := range to.Primitives {
		id := p.Meta().ID
		if old, ok := fromByID[id]; ok {
			plan.Transitions = append(plan.Transitions, Transition{
				ID: id, State: StateStable, From: old, To: p,
			})
		} else {
			plan.Transitions = append(plan.Transitions, Transition{
				ID: id, State: StateEntering, To: p,
			})
		}
	}
	for _, p := range from.Primitives {
		id := p.Meta().ID
		if !toIDs[id] {
			plan.Transitions = append(plan.Transitions, Transition{
				ID: id, State: StateExiting, From: p,
			})
		}
	}
	return plan
}

// Identity returns a plan that holds a single scene still: every primitive
// is stable with itself. Used for rendering a step without animating into
// it, and for the very first step of a trace.
func Identity(s *Scene) *Plan {
	plan := &Plan{Width: s.Width, Height: s.Height, Background: s.Background}
	for _, p := range s.Primitives {
		plan.Transitions = append(plan.Transitions, Transition{
			ID: p.Meta().ID, State: StateStable, From: p, To: p,
		})
	}
	return plan
}
