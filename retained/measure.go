package retained

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// approxCellWidth is the width of one terminal cell as a fraction of the
// font size. It is used when no TextMeasurer is configured.
const approxCellWidth = 0.55

// approxWidth estimates the advance of text from character cell widths.
// Wide (East Asian) characters count as two cells.
func approxWidth(text string, size float32) float32 {
	return float32(runewidth.StringWidth(text)) * size * approxCellWidth
}

// textWidth returns the width of the widest line of text.
func (s *State) textWidth(text string, size float32) float32 {
	var widest float32
	for _, line := range strings.Split(text, "\n") {
		if w := s.lineWidth(line, size); w > widest {
			widest = w
		}
	}
	return widest
}

func (s *State) lineWidth(line string, size float32) float32 {
	if line == "" {
		return 0
	}
	if s.measurer == nil {
		return approxWidth(line, size)
	}
	_, w := s.measurer.Layout(line, size)
	return w
}

// prefixWidth returns the advance of the first n code points of line.
func (s *State) prefixWidth(line string, n int, size float32) float32 {
	if n <= 0 || line == "" {
		return 0
	}
	if s.measurer == nil {
		return approxWidth(line[:byteOffset(line, n)], size)
	}
	advances, total := s.measurer.Layout(line, size)
	if n >= len(advances) {
		return total
	}
	var w float32
	for _, a := range advances[:n] {
		w += a
	}
	return w
}

// MeasureText returns the width of text at size using the configured
// measurer, or the cell-width estimate when there is none.
func (s *State) MeasureText(text string, size float32) float32 {
	return s.textWidth(text, s.fontSize(size))
}
