package retained

// Key is one of the discrete editing keys reported in an InputFrame.
type Key uint16

const (
	KeyBackspace Key = 1 << iota
	KeyDelete
	KeyEnter
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

// KeySet is a set of keys pressed during one frame.
type KeySet uint16

// Has reports whether k was pressed.
func (s KeySet) Has(k Key) bool { return s&KeySet(k) != 0 }

// With returns the set with k added.
func (s KeySet) With(k Key) KeySet { return s | KeySet(k) }

// Keys builds a set from the given keys.
func Keys(keys ...Key) KeySet {
	var s KeySet
	for _, k := range keys {
		s = s.With(k)
	}
	return s
}

// InputFrame is the raw input accumulated since the previous frame.
type InputFrame struct {
	// Cursor position in window coordinates.
	CursorX, CursorY float32

	// MouseDown is the current state of the primary button.
	MouseDown bool
	// PressEdge is true on the frame the button went down.
	PressEdge bool
	// ReleaseEdge is true on the frame the button went up.
	ReleaseEdge bool

	// Scroll deltas in pixels. Positive values scroll toward the end of
	// the content (right, down).
	ScrollX, ScrollY float32

	// Text is committed text input (already IME-resolved).
	Text string
	Keys KeySet

	Copy  bool
	Paste bool
}

// PointerInput builds a frame for a cursor position and button state,
// deriving the press and release edges from the previous button state.
func PointerInput(x, y float32, wasDown, down bool) InputFrame {
	return InputFrame{
		CursorX:     x,
		CursorY:     y,
		MouseDown:   down,
		PressEdge:   down && !wasDown,
		ReleaseEdge: !down && wasDown,
	}
}
