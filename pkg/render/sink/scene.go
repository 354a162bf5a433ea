package sink

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/shapes/hexagon"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

// DefaultPadding is the margin around the drawn shapes.
const DefaultPadding = 16.0

// IndicatorColor is the stroke color of indicator overlays.
const IndicatorColor = "#1e88e5"

// item is one drawable shape in shape-local coordinates.
type item struct {
	shape      *board.Shape
	resolved   style.Resolved
	outline    []geom.Point
	fill       geom.Polygon
	centerline []geom.Point
}

// toWorld maps a shape-local point onto the page.
func (it item) toWorld(p geom.Point) geom.Point {
	c := it.shape.Size.Center()
	return p.RotateAround(c, it.shape.Rotation).Add(it.shape.Point)
}

type scene struct {
	items  []item
	origin geom.Point
	size   geom.Size
}

type sceneConfig struct {
	renderer   *hexagon.Renderer
	indicators bool
	labels     bool
	padding    float64
	logger     *log.Logger
}

func defaultSceneConfig() sceneConfig {
	return sceneConfig{
		renderer: hexagon.NewRenderer(),
		padding:  DefaultPadding,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
}

func buildScene(page *board.Page, cfg sceneConfig) (scene, error) {
	var sc scene
	var world []geom.Point

	for _, sh := range page.SortedShapes() {
		if sh.Type != board.ShapeHexagon {
			cfg.logger.Debug("skipping shape", "id", sh.ID, "type", sh.Type)
			continue
		}
		resolved, err := cfg.renderer.Resolve(sh.Style)
		if err != nil {
			return scene{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "shape %s", sh.ID)
		}
		outline, err := cfg.renderer.Outline(sh.ID, sh.Size, sh.Style)
		if err != nil {
			return scene{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "shape %s", sh.ID)
		}
		it := item{shape: sh, resolved: resolved, outline: outline}
		if sh.Style.IsFilled {
			it.fill = hexagon.Points(sh.Size, 0, 0)
		}
		if cfg.indicators {
			if it.centerline, err = cfg.renderer.Centerline(sh.ID, sh.Size, sh.Style); err != nil {
				return scene{}, errors.Wrap(errors.ErrCodeInvalidStyle, err, "shape %s", sh.ID)
			}
		}
		for _, p := range outline {
			world = append(world, it.toWorld(p))
		}
		for _, p := range it.fill {
			world = append(world, it.toWorld(p))
		}
		sc.items = append(sc.items, it)
	}

	origin, size, _ := geom.Bounds(world...)
	pad := cfg.padding
	sc.origin = geom.Pt(origin.X-pad, origin.Y-pad)
	sc.size = geom.Size{W: size.W + 2*pad, H: size.H + 2*pad}
	cfg.logger.Debug("built scene", "shapes", len(sc.items), "width", sc.size.W, "height", sc.size.H)
	return sc, nil
}
