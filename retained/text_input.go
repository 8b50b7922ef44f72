package retained

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================================
// Text Phase
// ============================================================================

// textPhase routes focus, applies editing keys and text to the focused
// text box, then handles scrollbar drags and wheel scrolling.
func (s *State) textPhase(in *InputFrame) {
	if in.PressEdge {
		s.focused = ""
		s.forEachReverse(func(id WidgetID, n Node) bool {
			if tb, ok := n.(*TextBox); ok && tb.Enabled && tb.Hovered {
				s.focused = id
				return false
			}
			return true
		})
	}

	var focused *TextBox
	s.forEach(func(id WidgetID, n Node) {
		tb, ok := n.(*TextBox)
		if !ok {
			return
		}
		tb.Focused = id == s.focused && tb.Enabled
		if tb.Focused {
			focused = tb
		}
		tb.Pressed = in.MouseDown && tb.Enabled &&
			(s.active[ChannelScrollbar] == id || (tb.Hovered && tb.Focused))
	})
	if focused == nil {
		s.focused = ""
	} else {
		s.editFocused(s.focused, focused, in)
	}

	s.dragScrollbar(in)
	s.applyWheel(in)
}

// editFocused applies the frame's clipboard requests, text and editing
// keys to the focused text box. Operations apply in a fixed order: copy,
// paste, typed text, enter, backspace, delete, then caret movement.
func (s *State) editFocused(id WidgetID, tb *TextBox, in *InputFrame) {
	changed := false
	moved := false

	if in.Copy {
		s.copyText(tb.Text)
	}
	if in.Paste {
		if s.insertText(tb, sanitizePaste(s.readClipboard())) {
			changed = true
		}
	}
	if in.Text != "" {
		if s.insertText(tb, sanitizeTyped(in.Text)) {
			changed = true
		}
	}
	if in.Keys.Has(KeyEnter) {
		if s.insertText(tb, "\n") {
			changed = true
		}
	}
	if in.Keys.Has(KeyBackspace) && backspace(tb) {
		changed = true
	}
	if in.Keys.Has(KeyDelete) && deleteForward(tb) {
		changed = true
	}
	if in.Keys.Has(KeyLeft) {
		moved = moveCaret(tb, -1) || moved
	}
	if in.Keys.Has(KeyRight) {
		moved = moveCaret(tb, 1) || moved
	}
	if in.Keys.Has(KeyUp) {
		moved = moveCaretVertical(tb, -1) || moved
	}
	if in.Keys.Has(KeyDown) {
		moved = moveCaretVertical(tb, 1) || moved
	}

	switch {
	case changed:
		tb.Changed = true
		tb.ContentWidth = s.textWidth(tb.Text, tb.FontSize)
		s.applyScrollPolicy(tb)
		s.events.Push(TextBoxChanged{ID: id, Text: tb.Text})
	case moved:
		s.revealCaret(tb)
	}
}

// ============================================================================
// Editing primitives
// ============================================================================
//
// The caret is a code-point index. Every mutation converts it to a byte
// offset by enumerating code points before touching the string.

// insertText inserts text at the caret and advances the caret by the number
// of inserted code points.
func (s *State) insertText(tb *TextBox, text string) bool {
	if text == "" {
		return false
	}
	at := byteOffset(tb.Text, tb.Caret)
	tb.Text = tb.Text[:at] + text + tb.Text[at:]
	tb.Caret += utf8.RuneCountInString(text)
	return true
}

// backspace removes the code point before the caret.
func backspace(tb *TextBox) bool {
	if tb.Caret <= 0 {
		return false
	}
	start := byteOffset(tb.Text, tb.Caret-1)
	end := byteOffset(tb.Text, tb.Caret)
	tb.Text = tb.Text[:start] + tb.Text[end:]
	tb.Caret--
	return true
}

// deleteForward removes the code point at the caret.
func deleteForward(tb *TextBox) bool {
	if tb.Caret >= runeCount(tb.Text) {
		return false
	}
	start := byteOffset(tb.Text, tb.Caret)
	end := byteOffset(tb.Text, tb.Caret+1)
	tb.Text = tb.Text[:start] + tb.Text[end:]
	return true
}

// moveCaret moves the caret by delta code points, clamped to the text.
func moveCaret(tb *TextBox, delta int) bool {
	next := tb.Caret + delta
	if next < 0 {
		next = 0
	}
	if n := runeCount(tb.Text); next > n {
		next = n
	}
	if next == tb.Caret {
		return false
	}
	tb.Caret = next
	return true
}

// moveCaretVertical moves the caret to the same column of the adjacent
// line, clamping the column to that line's length. The caret stays put on
// the first line (up) or the last line (down).
func moveCaretVertical(tb *TextBox, delta int) bool {
	line, col := caretLineCol(tb.Text, tb.Caret)
	target := line + delta
	if target < 0 || target >= lineCount(tb.Text) {
		return false
	}
	next := caretFromLineCol(tb.Text, target, col)
	if next == tb.Caret {
		return false
	}
	tb.Caret = next
	return true
}

// byteOffset converts a code-point index to a byte offset. Indices past the
// end map to len(s).
func byteOffset(s string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	i := 0
	for off := range s {
		if i == runeIndex {
			return off
		}
		i++
	}
	return len(s)
}

func runeCount(s string) int {
	return utf8.RuneCountInString(s)
}

// caretLineCol converts a code-point index to a (line, column) pair, using
// '\n' as the line delimiter.
func caretLineCol(s string, caret int) (line, col int) {
	i := 0
	for _, r := range s {
		if i == caret {
			break
		}
		if r == '\n' {
			line++
			col = 0
		} else {
			col++
		}
		i++
	}
	return line, col
}

// caretFromLineCol converts a (line, column) pair back to a code-point
// index, clamping the column to the line's length.
func caretFromLineCol(s string, line, col int) int {
	cur, c, i := 0, 0, 0
	for _, r := range s {
		if cur == line {
			if c == col || r == '\n' {
				return i
			}
			c++
		} else if r == '\n' {
			cur++
		}
		i++
	}
	return i
}

func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// currentLine returns the text of the caret's line and the caret's column.
func currentLine(s string, caret int) (string, int) {
	line, col := caretLineCol(s, caret)
	lines := strings.Split(s, "\n")
	if line >= len(lines) {
		return "", 0
	}
	return lines[line], col
}

// sanitizeTyped strips every control character from typed text.
func sanitizeTyped(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// sanitizePaste normalizes line endings and strips control characters
// other than '\n'.
func sanitizePaste(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		if r != '\n' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
}

// ============================================================================
// Clipboard
// ============================================================================

// copyText writes text to the system clipboard and the internal buffer.
func (s *State) copyText(text string) {
	s.clipFallback = text
	if s.clipboard == nil {
		return
	}
	if err := s.clipboard.WriteText(text); err != nil {
		s.logger.Debug("clipboard write failed", "err", err)
	}
}

// readClipboard reads the system clipboard, falling back to the internal
// buffer when there is no clipboard or the read fails.
func (s *State) readClipboard() string {
	if s.clipboard == nil {
		return s.clipFallback
	}
	text, err := s.clipboard.ReadText()
	if err != nil {
		s.logger.Debug("clipboard read failed, using internal buffer", "err", err)
		return s.clipFallback
	}
	return text
}

// ============================================================================
// Text box setters
// ============================================================================

// SetText replaces a text box's content out of band. The caret is clamped,
// the content width remeasured and the scroll offsets re-clamped. No event
// is queued.
func (s *State) SetText(id WidgetID, text string) {
	tb, ok := s.nodes[id].(*TextBox)
	if !ok || tb.Text == text {
		return
	}
	tb.Text = text
	if n := runeCount(text); tb.Caret > n {
		tb.Caret = n
	}
	tb.ContentWidth = s.textWidth(text, tb.FontSize)
	tb.Changed = true
	s.clampScroll(tb)
}

// SetCaret moves a text box's caret, clamped to [0, len].
func (s *State) SetCaret(id WidgetID, caret int) {
	tb, ok := s.nodes[id].(*TextBox)
	if !ok {
		return
	}
	if caret < 0 {
		caret = 0
	}
	if n := runeCount(tb.Text); caret > n {
		caret = n
	}
	tb.Caret = caret
	s.revealCaret(tb)
}

// SetOverflow changes a text box's overflow policy and re-clamps its
// scroll offsets.
func (s *State) SetOverflow(id WidgetID, x, y Overflow) {
	tb, ok := s.nodes[id].(*TextBox)
	if !ok {
		return
	}
	tb.OverflowX, tb.OverflowY = x, y
	s.clampScroll(tb)
}

// Focus gives keyboard focus to an enabled text box. Other ids are ignored.
func (s *State) Focus(id WidgetID) {
	tb, ok := s.nodes[id].(*TextBox)
	if !ok || !tb.Enabled {
		return
	}
	if prev, ok := s.nodes[s.focused].(*TextBox); ok {
		prev.Focused = false
	}
	s.focused = id
	tb.Focused = true
}

// Blur clears keyboard focus.
func (s *State) Blur() {
	if tb, ok := s.nodes[s.focused].(*TextBox); ok {
		tb.Focused = false
	}
	s.focused = ""
}

// ClipboardBuffer returns the internal fallback clipboard content.
func (s *State) ClipboardBuffer() string { return s.clipFallback }
