package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/stepmotion/pkg/cache"
	"github.com/matzehuels/stepmotion/pkg/catalog"
	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/layout"
	"github.com/matzehuels/stepmotion/pkg/observability"
	"github.com/matzehuels/stepmotion/pkg/render"
	"github.com/matzehuels/stepmotion/pkg/render/sink"
	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Registry *layout.Registry
	Catalog  *catalog.Catalog
	Logger   *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The registry defaults to the built-in layouts and the catalog to the
// embedded default; both can be replaced on the returned Runner before use.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Registry: layout.Builtin(),
		Catalog:  catalog.Default(),
		Logger:   logger,
	}
}

// Execute runs the complete load → scenes → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, seq *trace.Sequence, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Sequence:  seq,
		Artifacts: make(map[string][]byte),
		RunID:     uuid.NewString(),
	}

	// Stage 1: Load. Sequences arrive validated from the read boundary;
	// re-validating here keeps API callers that construct sequences in
	// memory on the same contract.
	loadStart := time.Now()
	observability.Pipeline().OnLoadStart(ctx, seq.AlgorithmID)
	err := seq.Validate()
	observability.Pipeline().OnLoadComplete(ctx, seq.AlgorithmID, seq.AlgorithmID,
		len(seq.Steps), time.Since(loadStart), err)
	if err != nil {
		return nil, err
	}
	result.SequenceHash = seq.Hash()
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.StepCount = len(seq.Steps)

	r.Logger.Info("loaded trace",
		"algorithm", seq.AlgorithmID,
		"steps", len(seq.Steps),
		"hash", result.SequenceHash[:12])

	// Stage 2: Scenes
	sceneStart := time.Now()
	layoutName, _, _, err := r.ResolveLayout(seq, opts)
	if err != nil {
		return nil, err
	}
	result.LayoutName = layoutName

	scenes, sceneHit, err := r.ComputeScenesWithCacheInfo(ctx, seq, opts)
	if err != nil {
		return nil, err
	}
	result.Scenes = scenes
	result.Stats.SceneTime = time.Since(sceneStart)
	result.CacheInfo.SceneHit = sceneHit
	for _, sc := range scenes {
		result.Stats.PrimitiveCount += sc.Len()
	}

	r.Logger.Info("computed scenes",
		"layout", layoutName,
		"scenes", len(scenes),
		"primitives", result.Stats.PrimitiveCount,
		"duration", result.Stats.SceneTime)

	// Stage 3: Render
	renderStart := time.Now()
	if opts.animating() {
		result.Stats.FrameCount = animationFrameCount(len(scenes), opts.TransitionFrames)
	}
	artifacts, renderHit, err := r.RenderArtifactsWithCacheInfo(ctx, seq, scenes, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.ArtifactHit = renderHit

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveLayout determines which layout draws a sequence and with what
// configuration. Resolution order: explicit opts.Layout override, then the
// catalog entry for the sequence's algorithm id. The returned config merges
// the catalog entry's config, opts.Config, and opts.Theme, in that order.
func (r *Runner) ResolveLayout(seq *trace.Sequence, opts Options) (string, layout.Func, layout.Config, error) {
	name := opts.Layout
	cfg := layout.Config{}

	if name == "" {
		alg, err := r.Catalog.Get(seq.AlgorithmID)
		if err != nil {
			return "", nil, nil, errors.Wrap(errors.ErrCodeLayoutNotFound, err,
				"no layout for algorithm %q; pass an explicit layout name", seq.AlgorithmID)
		}
		name = alg.Layout
		for k, v := range alg.Config {
			cfg[k] = v
		}
	}

	fn, ok := r.Registry.Lookup(name)
	if !ok {
		return "", nil, nil, errors.New(errors.ErrCodeLayoutNotFound,
			"layout %q is not registered (available: %v)", name, r.Registry.Names())
	}

	for k, v := range opts.Config {
		cfg[k] = v
	}
	if len(opts.Theme) > 0 {
		overrides, _ := cfg["theme"].(map[string]any)
		if overrides == nil {
			overrides = make(map[string]any, len(opts.Theme))
		}
		for k, v := range opts.Theme {
			overrides[k] = v
		}
		cfg["theme"] = overrides
	}

	return name, fn, cfg, nil
}

// ComputeScenesWithCacheInfo runs the resolved layout over every step with
// caching and returns cache hit info.
func (r *Runner) ComputeScenesWithCacheInfo(ctx context.Context, seq *trace.Sequence, opts Options) ([]*scene.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	name, fn, cfg, err := r.ResolveLayout(seq, opts)
	if err != nil {
		return nil, false, err
	}

	seqHash := seq.Hash()
	cacheKey := r.Keyer.SceneKey(seqHash, cache.SceneKeyOpts{
		Layout:     name,
		Width:      opts.Width,
		Height:     opts.Height,
		ConfigHash: hashConfig(cfg),
	})

	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []*scene.Scene
			if json.Unmarshal(data, &cached) == nil && len(cached) == len(seq.Steps) {
				observability.Cache().OnCacheHit(ctx, "scene")
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	observability.Pipeline().OnLayoutStart(ctx, name, len(seq.Steps))
	start := time.Now()
	size := scene.Size{Width: opts.Width, Height: opts.Height}
	scenes := make([]*scene.Scene, len(seq.Steps))
	primitives := 0
	for i, step := range seq.Steps {
		scenes[i] = fn(step, size, cfg)
		primitives += scenes[i].Len()
	}
	observability.Pipeline().OnLayoutComplete(ctx, name, primitives, time.Since(start), nil)

	if !opts.NoCache {
		if data, err := json.Marshal(scenes); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, TTLScene)
			observability.Cache().OnCacheSet(ctx, "scene", len(data))
		}
	}

	return scenes, false, nil
}

// ComputeScenes is a convenience wrapper that discards the cache hit info.
func (r *Runner) ComputeScenes(ctx context.Context, seq *trace.Sequence, opts Options) ([]*scene.Scene, error) {
	scenes, _, err := r.ComputeScenesWithCacheInfo(ctx, seq, opts)
	return scenes, err
}

// RenderArtifactsWithCacheInfo encodes scenes into the requested formats
// with caching and returns cache hit info. The hit flag is true only when
// every requested format came from the cache.
func (r *Runner) RenderArtifactsWithCacheInfo(ctx context.Context, seq *trace.Sequence, scenes []*scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	step := opts.effectiveStep(seq)
	if step < 0 || step >= len(scenes) {
		return nil, false, errors.New(errors.ErrCodeStepOutOfRange,
			"step %d out of range [0, %d)", step, len(scenes))
	}

	seqHash := seq.Hash()
	name, _, cfg, err := r.ResolveLayout(seq, opts)
	if err != nil {
		return nil, false, err
	}
	optsHash := hashConfig(map[string]any{
		"fps":        opts.FPS,
		"transition": opts.TransitionFrames,
		"easing":     opts.Easing,
		"gif_scale":  opts.GIFScale,
		"config":     hashConfig(cfg),
	})
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(seqHash, cache.ArtifactKeyOpts{
			Format:      format,
			Layout:      name,
			Width:       opts.Width,
			Height:      opts.Height,
			PixelRatio:  opts.PixelRatio,
			Step:        step,
			OptionsHash: optsHash,
		})
	}

	if !opts.NoCache {
		artifacts := make(map[string][]byte, len(opts.Formats))
		allCached := true
		for _, format := range opts.Formats {
			if data, hit, err := r.Cache.Get(ctx, keyFor(format)); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats, len(scenes))
	start := time.Now()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := r.encode(seq, scenes, step, format, opts)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, err
		}
		artifacts[format] = data
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	if !opts.NoCache {
		for format, data := range artifacts {
			_ = r.Cache.Set(ctx, keyFor(format), data, TTLArtifact)
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, false, nil
}

// RenderArtifacts is a convenience wrapper that discards the cache hit info.
func (r *Runner) RenderArtifacts(ctx context.Context, seq *trace.Sequence, scenes []*scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderArtifactsWithCacheInfo(ctx, seq, scenes, opts)
	return artifacts, err
}

// encode produces one artifact. Single-frame formats use the scene at step;
// GIF consumes the whole scene slice.
func (r *Runner) encode(seq *trace.Sequence, scenes []*scene.Scene, step int, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		return sink.RenderPNG(scenes[step], sink.WithPixelRatio(opts.PixelRatio))
	case FormatSVG:
		return sink.RenderSVG(scenes[step],
			sink.WithTitle(seq.AlgorithmID),
			sink.WithEmbeddedFont()), nil
	case FormatJSON:
		return sink.RenderJSON(scenes[step],
			sink.WithJSONAlgorithm(seq.AlgorithmID),
			sink.WithJSONStep(step))
	case FormatGIF:
		ease, _ := render.EasingByName(opts.Easing)
		return sink.RenderGIF(scenes,
			sink.WithFPS(opts.FPS),
			sink.WithTransitionFrames(opts.TransitionFrames),
			sink.WithScale(opts.GIFScale),
			sink.WithEasing(ease))
	case FormatDOT:
		dot, err := sink.ToDOT(seq.Steps[step], sink.DOTOptions{Detailed: true})
		if err != nil {
			return nil, err
		}
		return []byte(dot), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// animationFrameCount is the number of frames an animated encode produces:
// one held frame per step plus the interpolated frames between steps.
func animationFrameCount(steps, transitionFrames int) int {
	if steps <= 1 {
		return steps
	}
	return steps + (steps-1)*transitionFrames
}

// hashConfig produces a stable hash of a config map for cache keys.
// encoding/json sorts map keys, so equal maps hash equally.
func hashConfig(cfg map[string]any) string {
	if len(cfg) == 0 {
		return ""
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
