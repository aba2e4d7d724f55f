package render

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-region/internal/feature"
)

// Renderer turns feature sets into region diagram images.
type Renderer struct {
	placement Placement
	opts      Options
	logger    *zap.Logger
}

// NewRenderer creates a renderer writing images where p decides.
func NewRenderer(p Placement) *Renderer {
	return &Renderer{
		placement: p,
		opts:      DefaultOptions(),
		logger:    zap.NewNop(),
	}
}

// SetOptions replaces the diagram geometry.
func (r *Renderer) SetOptions(opts Options) {
	r.opts = opts
}

// Options returns the diagram geometry in use.
func (r *Renderer) Options() Options {
	return r.opts
}

// SetLogger sets the logger for debug messages.
func (r *Renderer) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Render draws features centered on centerID into an image maxWidth pixels
// wide and returns the path it was written to. Each arrow is filled with its
// cluster color; labels show cluster IDs when showLabels is set. Nothing is
// left at the returned path when an error is returned.
func (r *Renderer) Render(features []*feature.Feature, colors ColorLookup, centerID string, maxWidth int, showLabels bool) (string, error) {
	d, err := Layout(features, colors, centerID, maxWidth, showLabels, r.opts)
	if err != nil {
		return "", err
	}

	img, err := Rasterize(d)
	if err != nil {
		return "", err
	}

	path, err := r.placement.Path(centerID)
	if err != nil {
		return "", err
	}
	if err := writePNG(path, img); err != nil {
		return "", err
	}

	r.logger.Debug("rendered region diagram",
		zap.String("center", centerID),
		zap.Int("features", len(features)),
		zap.Bool("flipped", d.Flip),
		zap.Float64("center_x", (d.Center().X0+d.Center().X1)/2),
		zap.Float64("left_offset", d.Offsets.Left),
		zap.Float64("right_offset", d.Offsets.Right),
		zap.String("path", path))
	return path, nil
}
