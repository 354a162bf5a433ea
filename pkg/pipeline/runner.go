package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/cache"
	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/observability"
	"github.com/matzehuels/hexboard/pkg/render/bindings"
	"github.com/matzehuels/hexboard/pkg/render/sink"
	"github.com/matzehuels/hexboard/pkg/shapes/hexagon"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, renderer and logger.
// Multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Renderer *hexagon.Renderer
	TTL      time.Duration // overrides cache.TTLArtifact for artifacts when set
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
		Logger:   logger,
		Renderer: hexagon.NewRenderer(),
	}
}

// RenderHexagonWithCacheInfo computes one hexagon with caching and returns
// cache hit info.
func (r *Runner) RenderHexagonWithCacheInfo(ctx context.Context, req HexagonRequest) (*HexagonResult, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.ShapeKey(req.ID, req.ShapeKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cached HexagonResult
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "shape")
			return &cached, true, nil
		}
		// If deserialization fails, fall through to recompute
	} else if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	observability.Cache().OnCacheMiss(ctx, "shape")

	start := time.Now()
	observability.Render().OnShapeStart(ctx, req.ID)
	res, err := r.computeHexagon(req)
	observability.Render().OnShapeComplete(ctx, req.ID, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLShape); err == nil {
			observability.Cache().OnCacheSet(ctx, "shape", len(data))
		}
	}
	r.Logger.Debug("computed hexagon", "id", req.ID, "duration", time.Since(start))
	return res, false, nil
}

// RenderHexagon is a convenience wrapper that calls RenderHexagonWithCacheInfo
// and discards the cache hit info.
func (r *Runner) RenderHexagon(ctx context.Context, req HexagonRequest) (*HexagonResult, error) {
	res, _, err := r.RenderHexagonWithCacheInfo(ctx, req)
	return res, err
}

func (r *Runner) computeHexagon(req HexagonRequest) (*HexagonResult, error) {
	path, err := r.Renderer.Path(req.ID, req.Size, req.Style)
	if err != nil {
		return nil, err
	}
	indicator, err := r.Renderer.IndicatorPath(req.ID, req.Size, req.Style)
	if err != nil {
		return nil, err
	}
	return &HexagonResult{
		Points:        hexagon.Points(req.Size, req.Offset, req.Rotation),
		Centroid:      hexagon.Centroid(req.Size),
		Path:          path,
		IndicatorPath: indicator,
	}, nil
}

// Render draws page in every requested format, with caching.
func (r *Runner) Render(ctx context.Context, page *board.Page, opts Options) (*Result, error) {
	if page == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "page is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	work := applyDefaultStyle(page, opts.DefaultStyle)
	if err := work.Validate(); err != nil {
		return nil, err
	}
	data, err := board.MarshalPage(work)
	if err != nil {
		return nil, fmt.Errorf("serialize page for cache key: %w", err)
	}

	result := &Result{
		Page:     work,
		PageHash: cache.Hash(data),
	}
	for _, s := range work.Shapes {
		result.Stats.ShapeCount++
		if s.Type == board.ShapeHexagon {
			result.Stats.HexagonCount++
		}
	}
	result.Stats.BindingCount = len(work.Bindings)

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Formats, result.Stats.ShapeCount)
	artifacts, hit, err := r.renderArtifacts(ctx, work, result.PageHash, opts)
	observability.Render().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = hit
	result.Stats.RenderTime = time.Since(start)

	opts.Logger.Info("rendered page",
		"page", work.ID,
		"formats", opts.Formats,
		"hexagons", result.Stats.HexagonCount,
		"cached", hit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) renderArtifacts(ctx context.Context, page *board.Page, pageHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(pageHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, page, format, r.Renderer, opts)
		if err != nil {
			return nil, false, err
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(pageHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.artifactTTL()); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

func renderFormat(ctx context.Context, page *board.Page, format string, renderer *hexagon.Renderer, opts Options) ([]byte, error) {
	sceneOpts := []sink.SVGOption{sink.WithRenderer(renderer), sink.WithLogger(opts.Logger)}
	if opts.Indicators {
		sceneOpts = append(sceneOpts, sink.WithIndicators())
	}
	if opts.Labels {
		sceneOpts = append(sceneOpts, sink.WithLabels())
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = sink.RenderSVG(page, sceneOpts...)
	case FormatPNG:
		data, err = sink.RenderPNG(page, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(sceneOpts...))
	case FormatDOT:
		data = []byte(bindings.ToDOT(page))
	case FormatBindings:
		data, err = bindings.RenderSVG(ctx, bindings.ToDOT(page))
	case FormatJSON:
		data, err = board.MarshalPage(page)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}

// applyDefaultStyle returns page with def applied to every hexagon that has
// neither a color nor a size. page itself is not modified.
func applyDefaultStyle(page *board.Page, def *style.Style) *board.Page {
	if def == nil {
		return page
	}
	out := *page
	out.Shapes = make(map[string]*board.Shape, len(page.Shapes))
	for id, s := range page.Shapes {
		if s != nil && s.Type == board.ShapeHexagon && s.Unstyled() {
			c := *s
			c.Style = *def
			s = &c
		}
		out.Shapes[id] = s
	}
	return &out
}

func (r *Runner) artifactTTL() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
