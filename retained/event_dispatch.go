package retained

// ============================================================================
// Hit Testing and Activation
// ============================================================================

// Channel identifies an interaction channel. Each channel has one
// activation slot holding the id of the widget that owns the current
// pointer interaction on that channel.
type Channel int

const (
	ChannelButton Channel = iota
	ChannelCheckbox
	ChannelRadio
	ChannelSlider
	ChannelComboBox
	ChannelScrollbar

	channelCount
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case ChannelButton:
		return "button"
	case ChannelCheckbox:
		return "checkbox"
	case ChannelRadio:
		return "radio"
	case ChannelSlider:
		return "slider"
	case ChannelComboBox:
		return "combo_box"
	case ChannelScrollbar:
		return "scrollbar"
	default:
		return "unknown"
	}
}

// hoverPhase recomputes the hovered flag of every widget.
//
// Interactive widgets are tested in reverse paint order and only the
// topmost hit is hovered. An enabled open combo box whose expanded region
// contains the cursor is modal: it is the only hovered widget.
func (s *State) hoverPhase(in *InputFrame) {
	x, y := in.CursorX, in.CursorY

	s.forEach(func(_ WidgetID, n Node) {
		if st := interaction(n); st != nil {
			st.Hovered = false
		}
		switch n := n.(type) {
		case *ComboBox:
			n.HoveredItem = -1
		case *Container:
			n.Hovered = false
		}
	})

	if _, overlay := s.openComboAt(x, y); overlay != nil {
		overlay.Hovered = true
		overlay.HoveredItem = overlay.itemAt(x, y)
		return
	}

	s.forEach(func(_ WidgetID, n Node) {
		if c, ok := n.(*Container); ok {
			c.Hovered = c.Enabled() && c.Visible() && c.Rect.Contains(x, y)
		}
	})

	if _, hit := s.hitTest(x, y); hit != nil {
		interaction(hit).Hovered = true
	}
}

// openComboAt returns the topmost enabled open combo box whose expanded
// region contains the point.
func (s *State) openComboAt(x, y float32) (WidgetID, *ComboBox) {
	var (
		foundID WidgetID
		found   *ComboBox
	)
	s.forEachReverse(func(id WidgetID, n Node) bool {
		c, ok := n.(*ComboBox)
		if ok && c.Enabled && c.IsOpen && c.expandedContains(x, y) {
			foundID, found = id, c
			return false
		}
		return true
	})
	return foundID, found
}

// hitTest returns the topmost enabled interactive widget containing the
// point, or nil.
func (s *State) hitTest(x, y float32) (WidgetID, Node) {
	var (
		foundID WidgetID
		found   Node
	)
	s.forEachReverse(func(id WidgetID, n Node) bool {
		st := interaction(n)
		if st == nil || !st.Enabled {
			return true
		}
		if n.Bounds().Contains(x, y) {
			foundID, found = id, n
			return false
		}
		return true
	})
	return foundID, found
}

// HitTest returns the id of the widget that would be hovered at the point,
// honoring open combo box overlays. It does not modify state.
func (s *State) HitTest(x, y float32) (WidgetID, bool) {
	if id, c := s.openComboAt(x, y); c != nil {
		return id, true
	}
	id, n := s.hitTest(x, y)
	return id, n != nil
}

// eligible reports whether n can be captured by channel ch at the cursor.
func (s *State) eligible(ch Channel, n Node) bool {
	switch n := n.(type) {
	case *Button:
		return ch == ChannelButton
	case *Checkbox:
		return ch == ChannelCheckbox
	case *RadioButton:
		return ch == ChannelRadio
	case *Slider:
		return ch == ChannelSlider
	case *ComboBox:
		return ch == ChannelComboBox
	case *TextBox:
		return ch == ChannelScrollbar && s.scrollbarContains(n, s.cursorX, s.cursorY)
	case *Label, *Container:
		return false
	default:
		return false
	}
}

// activationPhase captures press-time ownership. On a press edge every
// channel's slot is set to the topmost hovered eligible widget, or emptied
// when there is none. Slots persist until the release phase.
func (s *State) activationPhase(in *InputFrame) {
	if !in.PressEdge {
		return
	}
	for ch := Channel(0); ch < channelCount; ch++ {
		s.active[ch] = ""
		s.forEachReverse(func(id WidgetID, n Node) bool {
			st := interaction(n)
			if st == nil || !st.Enabled || !st.Hovered {
				return true
			}
			if s.eligible(ch, n) {
				s.active[ch] = id
				return false
			}
			return true
		})
	}
}

// releasePhase empties every activation slot once the button is up.
func (s *State) releasePhase(in *InputFrame) {
	if !in.ReleaseEdge && in.MouseDown {
		return
	}
	for ch := range s.active {
		s.active[ch] = ""
	}
}
