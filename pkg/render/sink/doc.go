// Package sink provides output format renderers for scenes.
//
// # Overview
//
// A "sink" turns computed [scene.Scene] values into a final artifact.
// This package provides:
//
//   - SVG: resolution-independent vector output with stable element ids
//   - PNG: raster output via the gg painter
//   - GIF: animated output across a step sequence
//   - JSON: scene data export for external tools and caching
//   - DOT: Graphviz export of graph-family steps
//
// # Vector and raster output
//
// [RenderSVG] serializes a scene directly; every primitive keeps its
// scene id, so the SVG is scriptable:
//
//	svg := sink.RenderSVG(sc, sink.WithTitle("Bubble Sort"), sink.WithEmbeddedFont())
//
// [RenderPNG] paints the scene on a [render.Surface] and encodes the
// backing image. [WithPixelRatio] controls oversampling (default 2x).
//
// # Animation
//
// [RenderGIF] interpolates between consecutive scenes with a
// [render.Animator] and encodes the frames:
//
//	data, err := sink.RenderGIF(scenes,
//	    sink.WithFPS(30),
//	    sink.WithTransitionFrames(8),
//	    sink.WithScale(0.5),
//	)
//
// Each committed step holds on screen for a beat; transition frames in
// between run at the configured rate.
//
// # Graphviz export
//
// [ToDOT] converts a graph-family step (BFS, DFS, Dijkstra states) into
// DOT text with traversal coloring. [RenderDOTSVG] and [RenderDOTPNG] run
// Graphviz's own layout over it, which is useful when the force-free
// circle layout of the scene pipeline is not wanted.
//
// [scene.Scene]: github.com/matzehuels/stepmotion/pkg/scene.Scene
// [render.Surface]: github.com/matzehuels/stepmotion/pkg/render.Surface
// [render.Animator]: github.com/matzehuels/stepmotion/pkg/render.Animator
package sink
