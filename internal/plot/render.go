// Package plot renders comparison charts of record sets to PNG.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Veraticus/aneurisk/internal/common"
)

// Options controls the raster export.
type Options struct {
	// Width and Height are in inches.
	Width  float64
	Height float64
	DPI    int
}

// DefaultOptions returns a 6x4 inch image at 96 DPI.
func DefaultOptions() Options {
	return Options{Width: 6, Height: 4, DPI: 96}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.DPI <= 0 {
		o.DPI = d.DPI
	}
	return o
}

// Pixels returns the image size in pixels.
func (o Options) Pixels() (int, int) {
	o = o.withDefaults()
	return int(o.Width * float64(o.DPI)), int(o.Height * float64(o.DPI))
}

// seriesColors is the series color cycle, matching the terminal styles.
var seriesColors = []color.NRGBA{
	{R: 0x5E, G: 0x81, B: 0xAC, A: 0xFF},
	{R: 0xBF, G: 0x61, B: 0x6A, A: 0xFF},
	{R: 0xA3, G: 0xBE, B: 0x8C, A: 0xFF},
	{R: 0xEB, G: 0xCB, B: 0x8B, A: 0xFF},
	{R: 0x66, G: 0x66, B: 0x66, A: 0xFF},
}

func seriesColor(i int, alpha uint8) color.Color {
	c := seriesColors[i%len(seriesColors)]
	c.A = alpha
	return c
}

// WritePNG draws p onto a raster canvas and encodes it as PNG.
func WritePNG(w io.Writer, p *gonumplot.Plot, opts Options) error {
	opts = opts.withDefaults()
	canvas := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opts.Width)*vg.Inch, vg.Length(opts.Height)*vg.Inch),
		vgimg.UseDPI(opts.DPI),
	)
	p.Draw(draw.New(canvas))

	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// Save writes p as a PNG file, creating the parent directory if needed.
func Save(p *gonumplot.Plot, path string, opts Options) error {
	if filepath.Ext(path) != ".png" {
		return fmt.Errorf("%w: plot output %q must end in .png", common.ErrInvalidConfig, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WritePNG(f, p, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
