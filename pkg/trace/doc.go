// Package trace provides serialization types for algorithm execution traces.
//
// This package defines the canonical wire format for step sequences: the
// contract between algorithm trace generators and the rendering engine,
// used for JSON files, API responses, caching, and cross-tool
// interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between trace producers
// and the visualization pipeline:
//
//   - [Sequence], [Step]: Serialization types (this package)
//   - pkg/layout: Maps a Step's state and actions onto visual primitives
//   - pkg/scene: Geometry and animation planning over those primitives
//
// Trace producers (in any language) emit the wire format; this package
// validates and loads it.
//
// # Core Types
//
//   - [Sequence]: A complete, validated run of an algorithm
//   - [Step]: One moment in the run (state snapshot + rendering instructions)
//   - [VisualAction]: A single rendering instruction with open-ended params
//   - [CodeHighlight]: Source line mapping for the current step
//
// # Wire Format
//
// Sequences use camelCase JSON:
//
//	{
//	  "formatVersion": 1,
//	  "algorithmId": "bubble-sort",
//	  "inputs": {"array": [5, 2, 9]},
//	  "steps": [
//	    {
//	      "index": 0,
//	      "id": "initial",
//	      "title": "Initial Array",
//	      "explanation": "We start with the unsorted array.",
//	      "state": {"array": [5, 2, 9]},
//	      "visualActions": [{"type": "highlightElement", "index": 0}],
//	      "codeHighlight": {"language": "pseudocode", "lines": [1]},
//	      "isTerminal": false
//	    }
//	  ],
//	  "generatedAt": "2025-06-01T12:00:00Z",
//	  "generatedBy": "python"
//	}
//
// Visual actions are serialized flat: the action's params are merged with
// its type into a single object. Action types are an OPEN vocabulary —
// consumers must silently ignore types they do not recognize.
//
// # Invariants
//
// [Sequence.Validate] enforces the sequence-level contract:
//
//  1. formatVersion == 1
//  2. algorithmId matches ^[a-z0-9][a-z0-9-]*$
//  3. steps is non-empty
//  4. steps[i].Index == i for all i
//  5. the last step (and only the last step) has isTerminal == true
//
// # Common Operations
//
//	seq, _ := trace.ReadSequenceFile("bubble-sort.json")  // File → Sequence
//	trace.WriteSequenceFile(seq, "out.json")              // Sequence → File
//	seq, _ := trace.Fetch(ctx, fetcher, url, false)       // URL → Sequence
//
// # Concurrency
//
// Sequences are value-semantics data: safe for concurrent reads after
// construction, not safe for concurrent mutation.
package trace
