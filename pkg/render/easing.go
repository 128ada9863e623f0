package render

// Easing shapes transition progress; input and output both run 0..1.
type Easing func(t float64) float64

// EaseLinear leaves progress unshaped.
func EaseLinear(t float64) float64 { return t }

// EaseInOutCubic accelerates through the first half of a transition and
// decelerates through the second. Default for step transitions.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

// EasingByName resolves a configured easing name. The empty string
// selects the default EaseInOutCubic; unknown names report false.
func EasingByName(name string) (Easing, bool) {
	switch name {
	case "", "cubic", "ease-in-out":
		return EaseInOutCubic, true
	case "linear":
		return EaseLinear, true
	}
	return nil, false
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
