// Package pipeline provides the core rendering pipeline for stepmotion.
//
// This package implements the complete load → scenes → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Validate the trace sequence and compute its content hash
//  2. Scenes: Run the resolved layout over every step, producing one
//     primitive scene per step
//  3. Render: Encode the scenes into the requested output formats
//     (PNG, GIF, SVG, JSON, DOT)
//
// Scene computation and artifact encoding are cached independently, keyed
// by content hashes of everything that affects their output.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	seq, err := trace.ReadSequenceFile("bubble-sort.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, seq, pipeline.Options{
//	    Formats: []string{pipeline.FormatPNG, pipeline.FormatGIF},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
//
// Run individual stages:
//
//	// Scenes only
//	scenes, err := runner.ComputeScenes(ctx, seq, opts)
//
//	// Render with existing scenes
//	artifacts, err := runner.RenderArtifacts(ctx, seq, scenes, opts)
package pipeline

import (
	"time"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/layout"
	"github.com/matzehuels/stepmotion/pkg/render"
	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultWidth is the default scene width in CSS pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default scene height in CSS pixels.
	DefaultHeight = 600.0

	// DefaultPixelRatio is the default device pixel ratio for raster output.
	DefaultPixelRatio = 2.0

	// DefaultFPS is the default animation frame rate.
	DefaultFPS = 30

	// DefaultTransitionFrames is the default number of interpolated frames
	// between consecutive steps.
	DefaultTransitionFrames = 8

	// DefaultEasing is the default easing curve for step transitions.
	DefaultEasing = "cubic"

	// DefaultGIFScale is the default GIF resolution relative to scene size.
	DefaultGIFScale = 1.0
)

// Cache TTLs per stage. Keys embed content hashes of all inputs, so
// entries never go stale; the TTL only bounds cache growth.
const (
	// TTLScene is the lifetime of cached per-step scenes.
	TTLScene = 24 * time.Hour

	// TTLArtifact is the lifetime of cached encoded artifacts.
	TTLArtifact = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatGIF  = "gif"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatGIF:  true,
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Scene options
	Layout string        `json:"layout,omitempty"` // Layout override; empty resolves via the catalog
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"`
	Config layout.Config `json:"config,omitempty"` // Layout config overlaid on the catalog entry's

	// Render options
	Formats    []string          `json:"formats,omitempty"`
	PixelRatio float64           `json:"pixel_ratio,omitempty"`
	Step       *int              `json:"step,omitempty"` // Step for single-frame formats; nil = last step
	Theme      map[string]string `json:"theme,omitempty"`

	// Animation options
	FPS              int     `json:"fps,omitempty"`
	TransitionFrames int     `json:"transition_frames,omitempty"`
	Easing           string  `json:"easing,omitempty"`
	GIFScale         float64 `json:"gif_scale,omitempty"`

	// Runtime options (not serialized)
	NoCache bool `json:"-"` // Bypass cache reads and writes for this run

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Sequence is the trace the pipeline rendered.
	Sequence *trace.Sequence

	// SequenceHash is the content hash of the sequence.
	SequenceHash string

	// LayoutName is the layout the run resolved to.
	LayoutName string

	// Scenes holds one primitive scene per step.
	Scenes []*scene.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo

	// RunID uniquely identifies this pipeline run in logs.
	RunID string
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StepCount      int
	PrimitiveCount int // Total primitives across all scenes
	FrameCount     int // Animation frames encoded (0 when not animating)
	LoadTime       time.Duration
	SceneTime      time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SceneHit    bool // Whether the per-step scenes came from cache
	ArtifactHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, gif, svg, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full
// pipeline. This method is idempotent - calling it multiple times has the
// same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetRenderDefaults()
	o.SetAnimationDefaults()

	if o.Width <= 0 || o.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"scene size must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.PixelRatio <= 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"pixel ratio must be positive, got %g", o.PixelRatio)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Layout != "" {
		if err := errors.ValidateLayoutName(o.Layout); err != nil {
			return err
		}
	}
	if _, ok := render.EasingByName(o.Easing); !ok {
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown easing %q (must be one of: linear, cubic, ease-in-out)", o.Easing)
	}
	if o.FPS <= 0 || o.FPS > 60 {
		return errors.New(errors.ErrCodeInvalidInput,
			"fps must be in [1, 60], got %d", o.FPS)
	}
	if o.TransitionFrames < 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"transition frames must be at least 1, got %d", o.TransitionFrames)
	}
	if o.GIFScale <= 0 || o.GIFScale > 4 {
		return errors.New(errors.ErrCodeInvalidInput,
			"gif scale must be in (0, 4], got %g", o.GIFScale)
	}

	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for scene computation and
// single-frame rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.PixelRatio == 0 {
		o.PixelRatio = DefaultPixelRatio
	}
}

// SetAnimationDefaults sets default values for animated output.
func (o *Options) SetAnimationDefaults() {
	if o.FPS == 0 {
		o.FPS = DefaultFPS
	}
	if o.TransitionFrames == 0 {
		o.TransitionFrames = DefaultTransitionFrames
	}
	if o.Easing == "" {
		o.Easing = DefaultEasing
	}
	if o.GIFScale == 0 {
		o.GIFScale = DefaultGIFScale
	}
}

// animating reports whether any requested format produces an animation.
func (o *Options) animating() bool {
	for _, f := range o.Formats {
		if f == FormatGIF {
			return true
		}
	}
	return false
}

// effectiveStep resolves the step index for single-frame formats.
func (o *Options) effectiveStep(seq *trace.Sequence) int {
	if o.Step != nil {
		return *o.Step
	}
	return len(seq.Steps) - 1
}
