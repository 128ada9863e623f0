package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stepmotion/pkg/httputil"
	"github.com/matzehuels/stepmotion/pkg/pipeline"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output           string   // output file (single format) or base path (multiple)
	formats          []string // output formats: png, gif, svg, json, dot
	layout           string   // layout override; empty resolves via the catalog
	width            float64  // scene width in CSS pixels
	height           float64  // scene height in CSS pixels
	pixelRatio       float64  // device pixel ratio for raster output
	step             int      // step index for single-frame formats; -1 = last
	fps              int      // animation frame rate
	transitionFrames int      // interpolated frames between steps
	easing           string   // easing curve name
	gifScale         float64  // GIF resolution relative to scene size
	theme            []string // "token=#hex" overrides
	noCache          bool     // bypass the artifact cache
	refresh          bool     // refetch remote traces
}

// renderCommand creates the render command for generating artifacts from a
// trace file or URL.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{step: -1}

	cmd := &cobra.Command{
		Use:   "render [file|url]",
		Short: "Render a trace to images, animations, or scene data",
		Long: `Render loads an algorithm trace (local JSON file or HTTP URL) and encodes
it into the requested output formats. Single-frame formats (png, svg, json,
dot) render one step (default: the last); gif renders the full animated
sequence with interpolated transitions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			fileCfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			applyRenderConfig(&opts, fileCfg)
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "formats", "f", "", "output format(s): png (default), gif, svg, json, dot (comma-separated)")
	cmd.Flags().StringVarP(&opts.layout, "layout", "l", "", "layout override (default: resolved via the catalog)")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "scene width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "scene height in pixels")
	cmd.Flags().Float64Var(&opts.pixelRatio, "pixel-ratio", 0, "device pixel ratio for raster output")
	cmd.Flags().IntVar(&opts.step, "step", -1, "step index for single-frame formats (default: last)")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "animation frame rate")
	cmd.Flags().IntVar(&opts.transitionFrames, "transition-frames", 0, "interpolated frames between steps")
	cmd.Flags().StringVar(&opts.easing, "easing", "", "easing curve: cubic (default), linear")
	cmd.Flags().Float64Var(&opts.gifScale, "gif-scale", 0, "GIF resolution relative to scene size")
	cmd.Flags().StringArrayVar(&opts.theme, "theme", nil, "theme override token=#hex (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the scene and artifact caches")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch remote traces, bypassing the HTTP cache")

	return cmd
}

// applyRenderConfig fills unset flags from the config file.
func applyRenderConfig(opts *renderOpts, cfg fileConfig) {
	if len(opts.formats) == 0 {
		opts.formats = cfg.Render.Formats
	}
	if opts.width == 0 {
		opts.width = cfg.Render.Width
	}
	if opts.height == 0 {
		opts.height = cfg.Render.Height
	}
	if opts.pixelRatio == 0 {
		opts.pixelRatio = cfg.Render.PixelRatio
	}
	if opts.fps == 0 {
		opts.fps = cfg.Render.FPS
	}
	if opts.transitionFrames == 0 {
		opts.transitionFrames = cfg.Render.TransitionFrames
	}
	if opts.easing == "" {
		opts.easing = cfg.Render.Easing
	}
	if opts.gifScale == 0 {
		opts.gifScale = cfg.Render.GIFScale
	}
	for token, hex := range cfg.Theme {
		opts.theme = append(opts.theme, token+"="+hex)
	}
}

// parseThemeFlags turns repeated "token=#hex" flags into a theme map.
// Later flags override earlier ones for the same token.
func parseThemeFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	theme := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		token, hex, ok := strings.Cut(pair, "=")
		if !ok || token == "" || hex == "" {
			return nil, fmt.Errorf("invalid theme override %q (want token=#hex)", pair)
		}
		theme[token] = hex
	}
	return theme, nil
}

// pipelineOptions converts render flags into pipeline options.
func (o *renderOpts) pipelineOptions() (pipeline.Options, error) {
	theme, err := parseThemeFlags(o.theme)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Layout:           o.layout,
		Width:            o.width,
		Height:           o.height,
		Formats:          o.formats,
		PixelRatio:       o.pixelRatio,
		FPS:              o.fps,
		TransitionFrames: o.transitionFrames,
		Easing:           o.easing,
		GIFScale:         o.gifScale,
		Theme:            theme,
		NoCache:          o.noCache,
	}
	if o.step >= 0 {
		step := o.step
		opts.Step = &step
	}
	return opts, nil
}

// runRender loads the trace, executes the pipeline, and writes artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	seq, err := c.loadTrace(ctx, input, opts.refresh)
	if err != nil {
		return err
	}
	logger.Info("loaded trace", "algorithm", seq.AlgorithmID, "steps", len(seq.Steps))

	pipeOpts, err := opts.pipelineOptions()
	if err != nil {
		return err
	}
	// Validate here so the defaulted format list is visible when naming
	// output files.
	if err := pipeOpts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner := c.newRunner(opts.noCache)
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", seq.AlgorithmID))
	spinner.Start()
	result, err := runner.Execute(ctx, seq, pipeOpts)
	spinner.Stop()
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", seq.AlgorithmID)
	printStats(result.Stats.StepCount, result.Stats.PrimitiveCount,
		result.CacheInfo.SceneHit && result.CacheInfo.ArtifactHit)

	return writeArtifacts(result.Artifacts, pipeOpts.Formats, opts.output, input)
}

// loadTrace reads a sequence from a local file or fetches it over HTTP.
func (c *CLI) loadTrace(ctx context.Context, input string, refresh bool) (*trace.Sequence, error) {
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return trace.ReadSequenceFile(input)
	}

	fetcher := newFetcher()
	return trace.Fetch(ctx, fetcher, input, refresh)
}

// newFetcher builds an HTTP fetcher with a response cache when the cache
// directory is available, and an uncached one otherwise.
func newFetcher() *httputil.Fetcher {
	dir, err := cacheDir()
	if err != nil {
		return httputil.NewFetcher(nil, nil)
	}
	hc, err := httputil.NewCache(filepath.Join(dir, "http"), 24*time.Hour)
	if err != nil {
		return httputil.NewFetcher(nil, nil)
	}
	return httputil.NewFetcher(hc, nil)
}

// writeArtifacts writes each rendered format to disk. With one format the
// output flag names the file directly; with several it is a base path that
// gets per-format extensions.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, input string) error {
	base := basePath(output, input)

	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}

		path := base + "." + format
		if output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
			path = output
		}

		out, err := openOutput(path)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it strips the extension from the input file name
// (URLs fall back to the last path segment).
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}

	name := filepath.Base(input)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}
