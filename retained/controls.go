package retained

import "math"

// Per-kind interaction state machines: Button, Checkbox, RadioButton,
// Slider and ComboBox. They run in the interact phase, after hover and
// activation are final for the frame.

// interactionPhase clears the per-frame flags of every node and then lets
// each interactive node consume the current hover, activation and drag
// state.
func (s *State) interactionPhase(in *InputFrame) {
	s.forEach(func(_ WidgetID, n Node) {
		clearFrameFlags(n)
	})
	s.forEach(func(id WidgetID, n Node) {
		switch n := n.(type) {
		case *Button:
			s.resolveButton(id, n, in)
		case *Checkbox:
			s.resolveCheckbox(id, n, in)
		case *RadioButton:
			s.resolveRadio(id, n, in)
		case *Slider:
			s.resolveSlider(id, n, in)
		case *ComboBox:
			s.resolveComboBox(id, n, in)
		case *TextBox, *Label, *Container:
			// Text boxes are handled by the text phase.
		}
	})
}

// ============================================================================
// Button
// ============================================================================

func (s *State) resolveButton(id WidgetID, b *Button, in *InputFrame) {
	active := s.active[ChannelButton] == id
	b.Pressed = in.MouseDown && active
	if in.ReleaseEdge && active && b.Hovered {
		b.Clicked = true
		s.events.Push(ButtonClicked{ID: id})
	}
}

// SetButtonText overrides the button's text. Later declarations do not
// replace the override until ClearButtonText is called.
func (s *State) SetButtonText(id WidgetID, text string) {
	if b, ok := s.nodes[id].(*Button); ok {
		b.overrideText = &text
	}
}

// ClearButtonText removes the text override.
func (s *State) ClearButtonText(id WidgetID) {
	if b, ok := s.nodes[id].(*Button); ok {
		b.overrideText = nil
	}
}

// ============================================================================
// Checkbox
// ============================================================================

func (s *State) resolveCheckbox(id WidgetID, c *Checkbox, in *InputFrame) {
	active := s.active[ChannelCheckbox] == id
	c.Pressed = in.MouseDown && active
	if in.ReleaseEdge && active && c.Hovered {
		c.Checked = !c.Checked
		c.Changed = true
		s.events.Push(CheckboxChanged{ID: id, Checked: c.Checked})
	}
}

// SetChecked sets the checked state out of band. The checkbox is marked
// changed only if the state actually flips.
func (s *State) SetChecked(id WidgetID, checked bool) {
	c, ok := s.nodes[id].(*Checkbox)
	if !ok || c.Checked == checked {
		return
	}
	c.Checked = checked
	c.Changed = true
}

// ============================================================================
// Radio
// ============================================================================

func (s *State) resolveRadio(id WidgetID, r *RadioButton, in *InputFrame) {
	active := s.active[ChannelRadio] == id
	r.Pressed = in.MouseDown && active
	if in.ReleaseEdge && active && r.Hovered && !r.Selected {
		s.selectRadio(id, r)
		s.events.Push(RadioButtonChanged{ID: id, Group: r.Group})
	}
}

// selectRadio selects r and deselects every other radio in its group.
func (s *State) selectRadio(id WidgetID, r *RadioButton) {
	r.Selected = true
	r.Changed = true
	s.deselectGroup(id, r.Group)
}

// deselectGroup clears Selected on every radio sharing group, except keep.
func (s *State) deselectGroup(keep WidgetID, group string) {
	s.forEach(func(id WidgetID, n Node) {
		if id == keep {
			return
		}
		if r, ok := n.(*RadioButton); ok && r.Group == group && r.Selected {
			r.Selected = false
		}
	})
}

// SetRadioSelected selects a radio button out of band, deselecting the
// rest of its group. Selecting an already selected radio is a no-op.
func (s *State) SetRadioSelected(id WidgetID) {
	r, ok := s.nodes[id].(*RadioButton)
	if !ok || r.Selected {
		return
	}
	s.selectRadio(id, r)
}

// SelectedInGroup returns the selected member of group, if any.
func (s *State) SelectedInGroup(group string) (WidgetID, bool) {
	for _, id := range s.order {
		if r, ok := s.nodes[id].(*RadioButton); ok && r.Group == group && r.Selected {
			return id, true
		}
	}
	return "", false
}

// ============================================================================
// Slider
// ============================================================================

func (s *State) resolveSlider(id WidgetID, sl *Slider, in *InputFrame) {
	active := s.active[ChannelSlider] == id
	sl.Pressed = in.MouseDown && active
	if !active || !in.MouseDown {
		return
	}
	if s.setSliderValue(sl, s.sliderValueAt(sl, in.CursorX)) {
		s.events.Push(SliderChanged{ID: id, Value: sl.Value})
	}
}

// sliderTrack returns the inner span of the track: the rect inset by the
// thumb radius (half the height, capped at half the width).
func sliderTrack(sl *Slider) (left, right float32) {
	r := sl.Rect
	inset := r.Height / 2
	if inset > r.Width/2 {
		inset = r.Width / 2
	}
	return r.X + inset, r.X + r.Width - inset
}

// sliderValueAt maps a cursor x to a slider value.
func (s *State) sliderValueAt(sl *Slider, x float32) float32 {
	left, right := sliderTrack(sl)
	span := right - left
	var ratio float32
	if span > 0 {
		ratio = (clampf(x, left, right) - left) / span
	}
	return sl.Min + ratio*(sl.Max-sl.Min)
}

// quantize rounds v to the nearest step multiple relative to Min and
// clamps it into [Min, Max].
func (s *State) quantize(sl *Slider, v float32) float32 {
	v = clampf(v, sl.Min, sl.Max)
	if sl.Step > 0 {
		steps := math.Round(float64((v - sl.Min) / sl.Step))
		v = sl.Min + float32(steps)*sl.Step
		v = clampf(v, sl.Min, sl.Max)
	}
	return v
}

// setSliderValue stores the quantized value and marks the slider changed
// if it moved by more than the epsilon.
func (s *State) setSliderValue(sl *Slider, v float32) bool {
	v = s.quantize(sl, v)
	if float32(math.Abs(float64(v-sl.Value))) <= s.settings.SliderEpsilon {
		return false
	}
	sl.Value = v
	sl.Changed = true
	return true
}

// SetSliderValue sets a slider's value out of band. The value is rounded
// to the step and clamped into range; a change within the epsilon does not
// mark the slider changed.
func (s *State) SetSliderValue(id WidgetID, v float32) {
	if sl, ok := s.nodes[id].(*Slider); ok {
		s.setSliderValue(sl, v)
	}
}

// ============================================================================
// ComboBox
// ============================================================================

func (s *State) resolveComboBox(id WidgetID, c *ComboBox, in *InputFrame) {
	active := s.active[ChannelComboBox] == id
	c.Pressed = in.MouseDown && active
	if !in.ReleaseEdge {
		return
	}
	if !active {
		// Click-outside dismissal.
		c.IsOpen = false
		return
	}
	if !c.IsOpen {
		if c.Hovered && c.Rect.Contains(in.CursorX, in.CursorY) {
			c.IsOpen = true
		}
		return
	}
	if i := c.HoveredItem; i >= 0 && i < len(c.Items) {
		if i != c.SelectedIndex {
			c.SelectedIndex = i
			c.Changed = true
			s.events.Push(ComboBoxChanged{ID: id, Index: i, Text: c.Items[i]})
		}
	}
	c.IsOpen = false
	c.HoveredItem = -1
}

// SetComboSelected selects an item out of band. Indices past the end clamp
// to the last item; the box is marked changed only if the index moved.
func (s *State) SetComboSelected(id WidgetID, index int) {
	c, ok := s.nodes[id].(*ComboBox)
	if !ok {
		return
	}
	index = clampIndex(index, len(c.Items))
	if index != c.SelectedIndex {
		c.SelectedIndex = index
		c.Changed = true
	}
}

// SetComboOpen opens or closes a combo box out of band. Disabled boxes
// stay closed.
func (s *State) SetComboOpen(id WidgetID, open bool) {
	c, ok := s.nodes[id].(*ComboBox)
	if !ok || (open && !c.Enabled) {
		return
	}
	c.IsOpen = open
	if !open {
		c.HoveredItem = -1
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
