package retained

// ============================================================================
// Text Box Scrolling
// ============================================================================

// innerBounds returns the content box of a text box.
func (s *State) innerBounds(tb *TextBox) Bounds {
	return tb.Rect.Inset(s.settings.TextPadding)
}

func (s *State) lineHeight(tb *TextBox) float32 {
	return tb.FontSize * s.settings.LineHeight
}

// maxScrollX is the largest horizontal offset: content width minus inner
// width, never negative.
func (s *State) maxScrollX(tb *TextBox) float32 {
	m := tb.ContentWidth - s.innerBounds(tb).Width
	if m < 0 {
		return 0
	}
	return m
}

// maxScrollY is the largest vertical offset, computed from the line count
// and the line height.
func (s *State) maxScrollY(tb *TextBox) float32 {
	content := float32(lineCount(tb.Text)) * s.lineHeight(tb)
	m := content - s.innerBounds(tb).Height
	if m < 0 {
		return 0
	}
	return m
}

// MaxScroll returns the scroll bounds of a text box.
func (s *State) MaxScroll(id WidgetID) (x, y float32) {
	tb, ok := s.nodes[id].(*TextBox)
	if !ok {
		return 0, 0
	}
	return s.maxScrollX(tb), s.maxScrollY(tb)
}

// clampScroll keeps both offsets inside their bounds; axes whose overflow
// policy does not scroll are reset to zero.
func (s *State) clampScroll(tb *TextBox) {
	if tb.OverflowX.scrolls() {
		tb.ScrollX = clampf(tb.ScrollX, 0, s.maxScrollX(tb))
	} else {
		tb.ScrollX = 0
	}
	if tb.OverflowY.scrolls() {
		tb.ScrollY = clampf(tb.ScrollY, 0, s.maxScrollY(tb))
	} else {
		tb.ScrollY = 0
	}
}

// applyScrollPolicy runs after a text mutation. Auto scrolls to the end of
// the content, Scroll keeps the user's offset clamped into bounds, Hidden
// and Visible do not scroll.
func (s *State) applyScrollPolicy(tb *TextBox) {
	switch tb.OverflowX {
	case OverflowAuto:
		tb.ScrollX = s.maxScrollX(tb)
	case OverflowScroll:
		tb.ScrollX = clampf(tb.ScrollX, 0, s.maxScrollX(tb))
	default:
		tb.ScrollX = 0
	}
	if tb.OverflowY.scrolls() {
		s.revealCaretLine(tb)
	} else {
		tb.ScrollY = 0
	}
}

// revealCaret scrolls an auto-overflow text box just enough to keep the
// caret's trailing edge visible. Other policies only clamp.
func (s *State) revealCaret(tb *TextBox) {
	if tb.OverflowX == OverflowAuto {
		inner := s.innerBounds(tb)
		x := s.caretOffset(tb)
		if x-tb.ScrollX > inner.Width {
			tb.ScrollX = x - inner.Width
		}
		if x < tb.ScrollX {
			tb.ScrollX = x
		}
	}
	if tb.OverflowY.scrolls() {
		s.revealCaretLine(tb)
	}
	s.clampScroll(tb)
}

// revealCaretLine scrolls vertically so the caret's line is visible.
func (s *State) revealCaretLine(tb *TextBox) {
	line, _ := caretLineCol(tb.Text, tb.Caret)
	lh := s.lineHeight(tb)
	top := float32(line) * lh
	bottom := top + lh
	inner := s.innerBounds(tb)
	if bottom-tb.ScrollY > inner.Height {
		tb.ScrollY = bottom - inner.Height
	}
	if top < tb.ScrollY {
		tb.ScrollY = top
	}
	tb.ScrollY = clampf(tb.ScrollY, 0, s.maxScrollY(tb))
}

// caretOffset returns the caret's x offset within its line, in content
// coordinates.
func (s *State) caretOffset(tb *TextBox) float32 {
	line, col := currentLine(tb.Text, tb.Caret)
	return s.prefixWidth(line, col, tb.FontSize)
}

// CaretPosition returns the caret's position relative to the text box's
// inner box, with scrolling applied.
func (s *State) CaretPosition(id WidgetID) (x, y float32, ok bool) {
	tb, found := s.nodes[id].(*TextBox)
	if !found {
		return 0, 0, false
	}
	line, _ := caretLineCol(tb.Text, tb.Caret)
	x = s.caretOffset(tb) - tb.ScrollX
	y = float32(line)*s.lineHeight(tb) - tb.ScrollY
	return x, y, true
}

// ============================================================================
// Scrollbar
// ============================================================================

// hasScrollbar reports whether the horizontal scrollbar is present: the
// policy allows scrolling and the content is wider than the inner box.
func (s *State) hasScrollbar(tb *TextBox) bool {
	return tb.OverflowX.scrolls() && tb.ContentWidth > s.innerBounds(tb).Width
}

// scrollbarTrack returns the drag region along the bottom inner edge.
func (s *State) scrollbarTrack(tb *TextBox) Bounds {
	inner := s.innerBounds(tb)
	h := s.settings.ScrollbarThickness
	if h > inner.Height {
		h = inner.Height
	}
	return Bounds{X: inner.X, Y: inner.Y + inner.Height - h, Width: inner.Width, Height: h}
}

func (s *State) scrollbarContains(tb *TextBox, x, y float32) bool {
	return s.hasScrollbar(tb) && s.scrollbarTrack(tb).Contains(x, y)
}

// thumbWidth is proportional to the visible fraction of the content.
func (s *State) thumbWidth(tb *TextBox) float32 {
	inner := s.innerBounds(tb).Width
	if tb.ContentWidth <= 0 {
		return inner
	}
	w := inner * inner / tb.ContentWidth
	if w < s.settings.MinThumbWidth {
		w = s.settings.MinThumbWidth
	}
	if w > inner {
		w = inner
	}
	return w
}

// ScrollbarThumb returns the thumb rect of a text box's horizontal
// scrollbar, if the scrollbar is present.
func (s *State) ScrollbarThumb(id WidgetID) (Bounds, bool) {
	tb, ok := s.nodes[id].(*TextBox)
	if !ok || !s.hasScrollbar(tb) {
		return Bounds{}, false
	}
	track := s.scrollbarTrack(tb)
	thumb := s.thumbWidth(tb)
	travel := track.Width - thumb
	var x float32
	if m := s.maxScrollX(tb); m > 0 && travel > 0 {
		x = tb.ScrollX / m * travel
	}
	return Bounds{X: track.X + x, Y: track.Y, Width: thumb, Height: track.Height}, true
}

// dragScrollbar maps the cursor x onto the scroll offset of the text box
// owning the scrollbar slot. The thumb is centered under the cursor and the
// result is clamped, so a cursor outside the track pins the offset to an
// end. Focus is not required.
func (s *State) dragScrollbar(in *InputFrame) {
	id := s.active[ChannelScrollbar]
	if id == "" || !in.MouseDown {
		return
	}
	tb, ok := s.nodes[id].(*TextBox)
	if !ok || !tb.Enabled || !s.hasScrollbar(tb) {
		return
	}
	track := s.scrollbarTrack(tb)
	thumb := s.thumbWidth(tb)
	travel := track.Width - thumb
	if travel <= 0 {
		tb.ScrollX = 0
		return
	}
	ratio := clampf((in.CursorX-track.X-thumb/2)/travel, 0, 1)
	tb.ScrollX = clampf(ratio*s.maxScrollX(tb), 0, s.maxScrollX(tb))
}

// ============================================================================
// Wheel
// ============================================================================

// wheelTarget returns the enabled text box under the cursor, or the
// focused one.
func (s *State) wheelTarget() *TextBox {
	var target *TextBox
	s.forEachReverse(func(_ WidgetID, n Node) bool {
		if tb, ok := n.(*TextBox); ok && tb.Enabled && tb.Hovered {
			target = tb
			return false
		}
		return true
	})
	if target != nil {
		return target
	}
	if tb, ok := s.nodes[s.focused].(*TextBox); ok && tb.Enabled {
		return tb
	}
	return nil
}

// applyWheel scrolls the wheel target. Vertical deltas scroll vertically
// when the box has vertical room; the dominant horizontal delta (or the
// vertical one when it was not used) scrolls horizontally unless a
// scrollbar drag is in progress.
func (s *State) applyWheel(in *InputFrame) {
	if in.ScrollX == 0 && in.ScrollY == 0 {
		return
	}
	tb := s.wheelTarget()
	if tb == nil {
		return
	}
	dx := in.ScrollX * s.settings.WheelSpeed
	dy := in.ScrollY * s.settings.WheelSpeed

	usedY := false
	if dy != 0 && tb.OverflowY.scrolls() {
		if maxY := s.maxScrollY(tb); maxY > 0 {
			tb.ScrollY = clampf(tb.ScrollY+dy, 0, maxY)
			usedY = true
		}
	}

	if s.active[ChannelScrollbar] != "" || !tb.OverflowX.scrolls() {
		return
	}
	var delta float32
	switch {
	case dx != 0 && abs32(dx) >= abs32(dy):
		delta = dx
	case !usedY:
		delta = dy
	}
	if delta != 0 {
		tb.ScrollX = clampf(tb.ScrollX+delta, 0, s.maxScrollX(tb))
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
