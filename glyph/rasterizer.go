// Package glyph turns a short text string into a flat cloud of 3D points by
// drawing it on an offscreen grayscale surface and sampling the lit pixels.
package glyph

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	// ErrSurface means no drawable surface or font face could be created.
	ErrSurface = errors.New("glyph: cannot obtain drawing surface")
	// ErrNoLitPixels means the text rendered to an empty mask.
	ErrNoLitPixels = errors.New("glyph: text produced no lit pixels")
)

type Options struct {
	Width     int     // surface width in pixels
	Height    int     // surface height in pixels
	FontSize  float64 // points at 72 DPI, i.e. pixels
	Stride    int     // sample every Stride-th pixel on both axes
	Threshold uint8   // minimum luminance of a lit pixel (exclusive)
	Scale     float32 // world units per pixel
	Font      []byte  // TTF/OTF data; nil selects the bold Go font
}

func DefaultOptions() Options {
	return Options{
		Width:     400,
		Height:    200,
		FontSize:  80,
		Stride:    2,
		Threshold: 128,
		Scale:     0.15,
	}
}

// Rasterizer caches one point cloud per distinct text for its lifetime.
type Rasterizer struct {
	mu    sync.Mutex
	opts  Options
	face  font.Face
	cache map[string][]float32
}

func NewRasterizer(opts Options) (*Rasterizer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrSurface, opts.Width, opts.Height)
	}
	if opts.Stride <= 0 {
		opts.Stride = 1
	}
	data := opts.Font
	if data == nil {
		data = gobold.TTF
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse font: %v", ErrSurface, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create face: %v", ErrSurface, err)
	}

	return &Rasterizer{
		opts:  opts,
		face:  face,
		cache: make(map[string][]float32),
	}, nil
}

// Close releases the font face.
func (r *Rasterizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.face.Close()
}

// Rasterize returns the flat xyz points of text, centred on the origin with
// y pointing up. The returned slice is shared with the cache; do not modify it.
func (r *Rasterizer) Rasterize(text string) ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pts, ok := r.cache[text]; ok {
		return pts, nil
	}

	mask := r.draw(text)
	pts := r.sample(mask)
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoLitPixels, text)
	}
	r.cache[text] = pts
	return pts, nil
}

// draw renders white text centred on a black surface.
func (r *Rasterizer) draw(text string) *image.Gray {
	w, h := r.opts.Width, r.opts.Height
	img := image.NewGray(image.Rect(0, 0, w, h))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: r.face,
	}
	m := r.face.Metrics()
	adv := d.MeasureString(text)

	// Horizontal centre on the advance, vertical centre on the ascent/descent box.
	x := fixed.I(w)/2 - adv/2
	y := fixed.I(h)/2 + (m.Ascent-m.Descent)/2
	d.Dot = fixed.Point26_6{X: x, Y: y}
	d.DrawString(text)
	return img
}

func (r *Rasterizer) sample(img *image.Gray) []float32 {
	w, h := r.opts.Width, r.opts.Height
	halfW, halfH := float32(w)/2, float32(h)/2
	scale := r.opts.Scale

	var pts []float32
	for y := 0; y < h; y += r.opts.Stride {
		for x := 0; x < w; x += r.opts.Stride {
			if img.GrayAt(x, y).Y <= r.opts.Threshold {
				continue
			}
			pts = append(pts,
				(float32(x)-halfW)*scale,
				-(float32(y)-halfH)*scale,
				0,
			)
		}
	}
	return pts
}
