package render

import (
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
	labelFontErr  error
)

const (
	legendMargin = 8
	legendSwatch = 12
	legendGap    = 12
)

func loadLabelFont() (*truetype.Font, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = truetype.Parse(goregular.TTF)
	})
	return labelFont, labelFontErr
}

func setLabelFace(dc *gg.Context, size float64) error {
	f, err := loadLabelFont()
	if err != nil {
		return fmt.Errorf("load label font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))
	return nil
}

// Rasterize draws d onto a new image, rotating it when d.Flip is set.
func Rasterize(d *Diagram) (image.Image, error) {
	if d.Width <= 0 || d.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", d.Width, d.Height)
	}

	dc := gg.NewContext(d.Width, d.Height)
	dc.SetColor(Background)
	dc.Clear()

	// Axis through the track.
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(1)
	dc.DrawLine(d.X(d.Extent.End), d.TrackY(), d.X(d.Extent.Start), d.TrackY())
	dc.Stroke()

	hasLabels := false
	for _, g := range d.Glyphs {
		drawArrow(dc, d.Arrow(g), g)
		hasLabels = hasLabels || g.Label != ""
	}

	if hasLabels {
		if err := setLabelFace(dc, d.opts.LabelSize); err != nil {
			return nil, err
		}
		top := d.TrackY() - float64(d.Height)*d.opts.TrackHeight/2
		for _, g := range d.Glyphs {
			if g.Label == "" {
				continue
			}
			x := (g.X0 + g.X1) / 2
			dc.Push()
			dc.RotateAbout(gg.Radians(-d.opts.LabelAngle), x, top)
			dc.SetColor(Foreground)
			dc.DrawStringAnchored(g.Label, x, top-4, 0, 0)
			dc.Pop()
		}
	}

	img := dc.Image()
	if d.Flip {
		img = Rotate180(img)
	}
	if len(d.Legend) > 0 {
		return drawLegend(img, d)
	}
	return img, nil
}

// drawLegend lays swatches out in a single row along the top edge, dropping
// entries that do not fit the page width.
func drawLegend(img image.Image, d *Diagram) (image.Image, error) {
	dc := gg.NewContextForImage(img)
	if err := setLabelFace(dc, d.opts.LabelSize*0.8); err != nil {
		return nil, err
	}

	x := float64(legendMargin)
	y := float64(legendMargin)
	for _, e := range d.Legend {
		textWidth, _ := dc.MeasureString(e.Label)
		next := x + legendSwatch + 4 + textWidth
		if next > float64(d.Width-legendMargin) {
			break
		}
		dc.DrawRectangle(x, y, legendSwatch, legendSwatch)
		dc.SetColor(e.Color)
		dc.Fill()
		dc.SetColor(Foreground)
		dc.DrawStringAnchored(e.Label, x+legendSwatch+4, y+legendSwatch/2, 0, 0.35)
		x = next + legendGap
	}
	return dc.Image(), nil
}

func drawArrow(dc *gg.Context, outline []gg.Point, g Glyph) {
	for i, p := range outline {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
	dc.ClosePath()
	dc.SetColor(g.Fill)
	dc.FillPreserve()
	dc.SetColor(g.Border)
	dc.SetLineWidth(borderWidth(g))
	dc.Stroke()
}

func borderWidth(g Glyph) float64 {
	if g.Center {
		return 3
	}
	return 1
}

// Rotate180 returns img turned upside down.
func Rotate180(img image.Image) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.RotateAbout(gg.Radians(180), w/2, h/2)
	dc.DrawImage(img, 0, 0)
	return dc.Image()
}
