// Package scene defines the primitive scene model: the flat, drawable
// intermediate representation between layout functions and renderers.
//
// # Architecture
//
// Layouts translate trace steps into scenes; renderers translate scenes
// into pixels. Nothing above a scene knows about drawing backends and
// nothing below it knows about algorithms, which is what lets one layout
// drive the PNG, SVG, GIF and terminal renderers unchanged.
//
//	trace.Step --> layout --> Scene --> Plan --> frame Scenes --> renderer
//
// # Core Types
//
//   - Scene: canvas size, background, and z-ordered primitives
//   - Primitive: Element, Connection, Container, Annotation, Overlay
//   - Theme: color-token vocabulary resolved at layout time
//   - Plan / Transition: id-matched diff between consecutive scenes
//
// # Identity and Transitions
//
// Primitive ids are the contract between layouts and the animator. A
// layout must give the same visual object the same id in every step
// (cell-3 stays cell-3 while it moves); PlanTransition then classifies
// primitives as stable, entering or exiting by set-difference on ids, and
// Interpolate morphs each transition at any progress t in [0,1]. Scenes
// are plain values throughout: planning and interpolation never mutate
// their inputs.
//
// # Common Operations
//
//	from := layoutFn(stepA, size, cfg)
//	to := layoutFn(stepB, size, cfg)
//	plan := scene.PlanTransition(from, to)
//	frame := scene.InterpolateScene(plan, 0.5)
//
// Scenes marshal to a kind-tagged JSON envelope (see json.go) that
// round-trips losslessly, used both by the scene cache and the JSON
// output sink.
package scene
