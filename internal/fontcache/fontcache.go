// Package fontcache measures text with OpenType faces from golang.org/x/image.
//
// A Cache owns one parsed font, one face per requested size and a bounded
// table of per-string layouts. It satisfies retained.TextMeasurer and is
// safe for concurrent use, so one cache can serve several engines.
package fontcache

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Bundled face names.
const (
	FaceRegular = "goregular"
	FaceMono    = "gomono"
)

const (
	DefaultCapacity = 1024
	DefaultDPI      = 72
)

// ErrUnknownFace is returned for a face name that is not bundled.
var ErrUnknownFace = errors.New("fontcache: unknown face")

// Options selects the font and sizes the cache.
type Options struct {
	// Face is a bundled face name. Ignored when Path is set.
	Face string
	// Path loads a TrueType or OpenType file instead of a bundled face.
	Path string
	// DPI used to scale point sizes. Zero means DefaultDPI.
	DPI float64
	// Capacity is the number of layouts kept before the table is cleared.
	// Zero means DefaultCapacity.
	Capacity int
}

// Measurement holds the metrics of a single line of text.
type Measurement struct {
	Width   float32
	Height  float32
	Ascent  float32
	Descent float32
}

// Stats reports cache activity.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Clears  uint64
	Entries int
	Faces   int
}

type layoutKey struct {
	text string
	size float32
}

type layout struct {
	advances []float32
	width    float32
}

// Cache measures text and memoizes the results.
type Cache struct {
	mu       sync.Mutex
	font     *opentype.Font
	dpi      float64
	capacity int
	faces    map[float32]font.Face
	layouts  map[layoutKey]layout
	stats    Stats
}

// New parses the selected font and returns an empty cache.
func New(opts Options) (*Cache, error) {
	data, err := fontData(opts)
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fontcache: parse font: %w", err)
	}

	c := &Cache{
		font:     f,
		dpi:      opts.DPI,
		capacity: opts.Capacity,
		faces:    make(map[float32]font.Face),
		layouts:  make(map[layoutKey]layout),
	}
	if c.dpi <= 0 {
		c.dpi = DefaultDPI
	}
	if c.capacity <= 0 {
		c.capacity = DefaultCapacity
	}
	return c, nil
}

func fontData(opts Options) ([]byte, error) {
	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("fontcache: read font: %w", err)
		}
		return data, nil
	}
	switch opts.Face {
	case "", FaceRegular:
		return goregular.TTF, nil
	case FaceMono:
		return gomono.TTF, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFace, opts.Face)
	}
}

// Layout returns the advance of every code point of text at size and the
// total width. The returned slice is shared with the cache and must not be
// modified.
func (c *Cache) Layout(text string, size float32) ([]float32, float32) {
	if text == "" || size <= 0 {
		return nil, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	key := layoutKey{text: text, size: size}
	if l, ok := c.layouts[key]; ok {
		c.stats.Hits++
		return l.advances, l.width
	}
	c.stats.Misses++

	face, err := c.face(size)
	if err != nil {
		return nil, 0
	}
	l := measure(face, text)

	// A full table is dropped as a whole.
	if len(c.layouts) >= c.capacity {
		clear(c.layouts)
		c.stats.Clears++
	}
	c.layouts[key] = l
	return l.advances, l.width
}

// Measure returns the width and vertical metrics of a line of text.
func (c *Cache) Measure(text string, size float32) (Measurement, error) {
	_, width := c.Layout(text, size)

	c.mu.Lock()
	defer c.mu.Unlock()
	face, err := c.face(size)
	if err != nil {
		return Measurement{}, err
	}
	m := face.Metrics()
	return Measurement{
		Width:   width,
		Height:  toFloat(m.Height),
		Ascent:  toFloat(m.Ascent),
		Descent: toFloat(m.Descent),
	}, nil
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.stats
	s.Entries = len(c.layouts)
	s.Faces = len(c.faces)
	return s
}

// Close releases every face. The cache can still be used afterwards; faces
// are recreated on demand.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var errs []error
	for size, f := range c.faces {
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("fontcache: close face %v: %w", size, err))
		}
		delete(c.faces, size)
	}
	clear(c.layouts)
	return errors.Join(errs...)
}

// face returns the face for size, creating it if needed. c.mu must be held.
func (c *Cache) face(size float32) (font.Face, error) {
	if f, ok := c.faces[size]; ok {
		return f, nil
	}
	if size <= 0 {
		return nil, fmt.Errorf("fontcache: invalid size %v", size)
	}
	f, err := opentype.NewFace(c.font, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     c.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("fontcache: face at size %v: %w", size, err)
	}
	c.faces[size] = f
	return f, nil
}

// measure lays out text one code point at a time. Kerning with the previous
// code point is folded into the current advance. Code points without a glyph
// take the advance of U+FFFD.
func measure(face font.Face, text string) layout {
	advances := make([]float32, 0, len(text))
	var total fixed.Int26_6
	prev := rune(-1)
	for _, r := range text {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			adv, _ = face.GlyphAdvance('\uFFFD')
		}
		if prev >= 0 {
			adv += face.Kern(prev, r)
		}
		advances = append(advances, toFloat(adv))
		total += adv
		prev = r
	}
	return layout{advances: advances, width: toFloat(total)}
}

func toFloat(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
