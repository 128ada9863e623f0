// Package render rasterizes scenes and manages drawing surfaces.
//
// # Surfaces
//
// A [Surface] wraps a gg raster context whose physical size is
// ceil(CSS size × pixel ratio), with the transform pre-scaled so all
// drawing code works in CSS coordinates and stays sharp on high-density
// output. [SurfaceManager] owns the visible surface: it tracks size and
// pixel ratio, reacts to an optional [SizeObserver], and funnels drawing
// through [SurfaceManager.RenderOnce] and [SurfaceManager.StartLoop],
// both of which clear before invoking the frame callback.
//
// # Painting
//
// [Painter] draws a scene in ascending z order: elements, connections,
// containers, annotations and overlays, with each primitive's opacity
// multiplied into every fill and stroke it produces. [Animator] turns
// consecutive scenes into interpolated frames, and [PaintFrame] routes
// dense frames through an [OffscreenRenderer], which composes away from
// the visible surface and transfers back in a single blit.
//
// # Scheduling
//
// [FrameScheduler] abstracts frame timing: [NewTickScheduler] drives
// production loops, [ManualScheduler] fires ticks explicitly in tests.
// [NewRenderBatcher] coalesces bursts of render requests so at most one
// frame is drawn per tick, keeping only the latest request.
//
// Output encoding (SVG, PNG, GIF, JSON, DOT) lives in the sink
// subpackage.
package render
