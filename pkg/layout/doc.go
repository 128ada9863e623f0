// Package layout turns trace steps into primitive scenes.
//
// A layout function ([Func]) is the only extension point of the rendering
// pipeline: it reads one [trace.Step] and emits a [scene.Scene] sized for
// the target surface. Layouts are pure and total. The same step, size and
// config always produce the same scene, the input step is never mutated,
// and malformed state degrades to an empty or partial scene instead of a
// panic, because trace generators ship independently of this engine.
//
// Identity drives animation. A layout derives each primitive's ID from
// domain identity (array index, node id, gate position), never from
// emission order, so that the transition planner can match primitives
// across consecutive steps. See [scene.PlanTransition].
//
// Layouts are looked up by name through a [Registry] owned by the caller.
// [Builtin] installs the twelve stock layouts covering arrays, graphs,
// sequence models, neural networks and quantum state.
package layout
