package retained

// Declaration specs for the Upsert* build calls. Disabled is inverted so
// that the zero value declares an enabled widget.

// ButtonSpec declares a button.
type ButtonSpec struct {
	Rect      Bounds
	Disabled  bool
	Text      string
	FontSize  float32
	TextColor uint32
}

// CheckboxSpec declares a checkbox. Checked is only used when the node is
// created; afterwards the checked state belongs to the node.
type CheckboxSpec struct {
	Rect     Bounds
	Disabled bool
	Text     string
	Checked  bool
}

// RadioSpec declares a radio button. Selected is only used on creation.
type RadioSpec struct {
	Rect     Bounds
	Disabled bool
	Text     string
	Group    string
	Selected bool
}

// SliderSpec declares a slider. Value is only used on creation; a changed
// range re-clamps the current value.
type SliderSpec struct {
	Rect     Bounds
	Disabled bool
	Min, Max float32
	Value    float32
	Step     float32
}

// TextBoxSpec declares a text box. Text is only used on creation.
type TextBoxSpec struct {
	Rect        Bounds
	Disabled    bool
	Text        string
	Placeholder string
	FontSize    float32
	OverflowX   Overflow
	OverflowY   Overflow
}

// ComboBoxSpec declares a combo box. Selected is only used on creation.
type ComboBoxSpec struct {
	Rect     Bounds
	Disabled bool
	Items    []string
	Selected int
}

// LabelSpec declares a static label.
type LabelSpec struct {
	Rect     Bounds
	Text     string
	FontSize float32
}

// ContainerSpec declares a container.
type ContainerSpec struct {
	Rect Bounds
}

// UpsertButton declares a button and returns its response.
func (s *State) UpsertButton(id WidgetID, spec ButtonSpec) Response {
	b, _ := upsertNode(s, id, func() *Button { return &Button{} })
	b.Rect = spec.Rect
	b.Text = spec.Text
	b.FontSize = s.fontSize(spec.FontSize)
	b.TextColor = spec.TextColor
	s.applyEnabled(id, b, !spec.Disabled)
	return responseOf(b)
}

// UpsertCheckbox declares a checkbox and returns its response.
func (s *State) UpsertCheckbox(id WidgetID, spec CheckboxSpec) Response {
	c, _ := upsertNode(s, id, func() *Checkbox {
		return &Checkbox{Checked: spec.Checked}
	})
	c.Rect = spec.Rect
	c.Text = spec.Text
	s.applyEnabled(id, c, !spec.Disabled)
	return responseOf(c)
}

// UpsertRadioButton declares a radio button and returns its response.
// A radio created selected deselects the rest of its group.
func (s *State) UpsertRadioButton(id WidgetID, spec RadioSpec) Response {
	r, fresh := upsertNode(s, id, func() *RadioButton {
		return &RadioButton{Selected: spec.Selected}
	})
	r.Rect = spec.Rect
	r.Text = spec.Text
	if r.Group != spec.Group {
		r.Group = spec.Group
		if r.Selected {
			s.deselectGroup(id, r.Group)
		}
	}
	if fresh && r.Selected {
		s.deselectGroup(id, r.Group)
	}
	s.applyEnabled(id, r, !spec.Disabled)
	return responseOf(r)
}

// UpsertSlider declares a slider and returns its response.
func (s *State) UpsertSlider(id WidgetID, spec SliderSpec) Response {
	sl, fresh := upsertNode(s, id, func() *Slider { return &Slider{} })
	sl.Rect = spec.Rect
	sl.Min, sl.Max = spec.Min, spec.Max
	if sl.Max < sl.Min {
		sl.Max = sl.Min
	}
	sl.Step = spec.Step
	if sl.Step < 0 {
		sl.Step = 0
	}
	if fresh {
		sl.Value = s.quantize(sl, spec.Value)
	} else {
		s.setSliderValue(sl, sl.Value)
	}
	s.applyEnabled(id, sl, !spec.Disabled)
	return responseOf(sl)
}

// UpsertTextBox declares a text box and returns its response.
func (s *State) UpsertTextBox(id WidgetID, spec TextBoxSpec) Response {
	tb, fresh := upsertNode(s, id, func() *TextBox {
		return &TextBox{Text: spec.Text}
	})
	size := s.fontSize(spec.FontSize)
	remeasure := fresh || tb.FontSize != size
	tb.Rect = spec.Rect
	tb.Placeholder = spec.Placeholder
	tb.FontSize = size
	tb.OverflowX = spec.OverflowX
	tb.OverflowY = spec.OverflowY
	if fresh {
		tb.Caret = runeCount(tb.Text)
	}
	if remeasure {
		tb.ContentWidth = s.textWidth(tb.Text, tb.FontSize)
	}
	s.clampScroll(tb)
	s.applyEnabled(id, tb, !spec.Disabled)
	return responseOf(tb)
}

// UpsertComboBox declares a combo box and returns its response. Fewer
// items than before re-clamp the selection, marking the box changed only
// if the index actually moved.
func (s *State) UpsertComboBox(id WidgetID, spec ComboBoxSpec) Response {
	c, fresh := upsertNode(s, id, func() *ComboBox {
		return &ComboBox{SelectedIndex: spec.Selected, HoveredItem: -1}
	})
	c.Rect = spec.Rect
	c.Items = append(c.Items[:0], spec.Items...)
	idx := clampIndex(c.SelectedIndex, len(c.Items))
	if idx != c.SelectedIndex {
		c.SelectedIndex = idx
		if !fresh {
			c.Changed = true
		}
	}
	if c.HoveredItem >= len(c.Items) {
		c.HoveredItem = -1
	}
	s.applyEnabled(id, c, !spec.Disabled)
	return responseOf(c)
}

// UpsertLabel declares a label.
func (s *State) UpsertLabel(id WidgetID, spec LabelSpec) Response {
	l, _ := upsertNode(s, id, func() *Label { return &Label{} })
	l.Rect = spec.Rect
	l.Text = spec.Text
	l.FontSize = s.fontSize(spec.FontSize)
	return responseOf(l)
}

// UpsertContainer declares a container. Out-of-band overrides set with
// SetContainerVisible, SetEnabled and SetContainerBackground survive.
func (s *State) UpsertContainer(id WidgetID, spec ContainerSpec) Response {
	c, _ := upsertNode(s, id, func() *Container { return &Container{} })
	c.Rect = spec.Rect
	return responseOf(c)
}

// SetContainerVisible overrides a container's visibility.
func (s *State) SetContainerVisible(id WidgetID, visible bool) {
	if c, ok := s.nodes[id].(*Container); ok {
		c.visible = &visible
		if !visible {
			c.Hovered = false
		}
	}
}

// SetContainerBackground overrides a container's background color.
func (s *State) SetContainerBackground(id WidgetID, rgba uint32) {
	if c, ok := s.nodes[id].(*Container); ok {
		c.background = &rgba
	}
}

// ClearContainerBackground removes the background override.
func (s *State) ClearContainerBackground(id WidgetID) {
	if c, ok := s.nodes[id].(*Container); ok {
		c.background = nil
	}
}

func (s *State) fontSize(size float32) float32 {
	if size <= 0 {
		return s.settings.DefaultFontSize
	}
	return size
}

// clampIndex clamps i into [0, n-1]; an empty list clamps to 0.
func clampIndex(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
