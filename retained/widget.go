// Package retained provides the retained-state core of the widget system.
//
// Each frame the application declares its widgets through Upsert* calls
// keyed by stable string ids. The State reconciles those declarations into
// persistent nodes, turns raw pointer and keyboard input into per-widget
// interaction flags, and queues semantic events for application code.
//
// A frame runs in strict phases:
//   - hover: hit test every enabled widget against the cursor
//   - activate: capture press-time ownership per interaction channel
//   - interact: run the per-kind state machines
//   - text: focus routing, editing, clipboard and scrolling
//   - release: clear activation slots on a release edge
//
// Pruning happens at the end of the build pass, after all phases.
//
// State is not safe for concurrent use; drive it from one goroutine.
package retained

// WidgetID uniquely identifies a widget across frames.
// IDs are supplied by the caller and must be stable between build passes.
type WidgetID string

// WidgetKind identifies the type of a node.
type WidgetKind string

const (
	KindButton    WidgetKind = "button"
	KindCheckbox  WidgetKind = "checkbox"
	KindRadio     WidgetKind = "radio"
	KindSlider    WidgetKind = "slider"
	KindTextBox   WidgetKind = "text_box"
	KindComboBox  WidgetKind = "combo_box"
	KindLabel     WidgetKind = "label"
	KindContainer WidgetKind = "container"
)

// Kinds lists every widget kind in declaration order.
var Kinds = []WidgetKind{
	KindButton,
	KindCheckbox,
	KindRadio,
	KindSlider,
	KindTextBox,
	KindComboBox,
	KindLabel,
	KindContainer,
}

// Overflow controls how a text box handles content wider (or taller) than
// its inner box.
type Overflow int

const (
	OverflowVisible Overflow = iota
	OverflowHidden
	OverflowScroll
	OverflowAuto
)

// String returns the lower-case name used in config and scenario files.
func (o Overflow) String() string {
	switch o {
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	case OverflowAuto:
		return "auto"
	default:
		return "visible"
	}
}

// ParseOverflow maps a name to an Overflow. Unknown names map to visible.
func ParseOverflow(s string) Overflow {
	switch s {
	case "hidden":
		return OverflowHidden
	case "scroll":
		return OverflowScroll
	case "auto":
		return OverflowAuto
	default:
		return OverflowVisible
	}
}

// scrolls reports whether the policy allows the content to be scrolled.
func (o Overflow) scrolls() bool {
	return o == OverflowScroll || o == OverflowAuto
}

// Bounds is an axis-aligned rectangle in window coordinates.
type Bounds struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// Contains checks if a point is within the bounds.
func (b Bounds) Contains(x, y float32) bool {
	return x >= b.X && x < b.X+b.Width &&
		y >= b.Y && y < b.Y+b.Height
}

// LocalPoint converts window coordinates to coordinates relative to the bounds.
func (b Bounds) LocalPoint(x, y float32) (localX, localY float32) {
	return x - b.X, y - b.Y
}

// Inset shrinks the bounds by d on every side. Never returns negative sizes.
func (b Bounds) Inset(d float32) Bounds {
	out := Bounds{X: b.X + d, Y: b.Y + d, Width: b.Width - 2*d, Height: b.Height - 2*d}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// Interaction holds the flags shared by every interactive kind.
type Interaction struct {
	Rect    Bounds
	Enabled bool
	Hovered bool
	Pressed bool
}

// Node is a widget node. The set of implementations is closed: *Button,
// *Checkbox, *RadioButton, *Slider, *TextBox, *ComboBox, *Label and
// *Container.
type Node interface {
	Kind() WidgetKind
	Bounds() Bounds
	node()
}

// Button is a clickable push button.
type Button struct {
	Interaction

	// Text is the label given by the most recent declaration.
	Text string
	// overrideText, when set, replaces Text until cleared.
	overrideText *string

	FontSize  float32
	TextColor uint32
	Clicked   bool
}

// DisplayText returns the override text if set, else the declared text.
func (b *Button) DisplayText() string {
	if b.overrideText != nil {
		return *b.overrideText
	}
	return b.Text
}

// Checkbox is a two-state toggle with a label.
type Checkbox struct {
	Interaction
	Text    string
	Checked bool
	Changed bool
}

// RadioButton is one member of a mutually exclusive group.
type RadioButton struct {
	Interaction
	Text     string
	Group    string
	Selected bool
	Changed  bool
}

// Slider selects a value in [Min, Max] by dragging.
type Slider struct {
	Interaction
	Min, Max float32
	Value    float32
	Step     float32 // 0 means continuous
	Changed  bool
}

// Ratio returns the value as a fraction of the range.
func (s *Slider) Ratio() float32 {
	if s.Max == s.Min {
		return 0
	}
	return (s.Value - s.Min) / (s.Max - s.Min)
}

// TextBox is an editable text field.
type TextBox struct {
	Interaction

	Text        string
	Placeholder string
	// Caret is a code-point offset into Text.
	Caret int

	ScrollX, ScrollY float32
	// ContentWidth is the measured advance of Text at FontSize.
	ContentWidth float32

	OverflowX Overflow
	OverflowY Overflow
	FontSize  float32

	Focused bool
	Changed bool
}

// ComboBox is a drop-down list of strings.
type ComboBox struct {
	Interaction
	Items         []string
	SelectedIndex int
	IsOpen        bool
	// HoveredItem is the index under the cursor while open, -1 otherwise.
	HoveredItem int
	Changed     bool
}

// SelectedText returns the text of the selected item, or "".
func (c *ComboBox) SelectedText() string {
	if c.SelectedIndex >= 0 && c.SelectedIndex < len(c.Items) {
		return c.Items[c.SelectedIndex]
	}
	return ""
}

// ItemBounds returns the rect of dropdown item i. Items stack directly
// below the closed box, one row per item at the box's own height.
func (c *ComboBox) ItemBounds(i int) Bounds {
	r := c.Rect
	return Bounds{X: r.X, Y: r.Y + r.Height*float32(i+1), Width: r.Width, Height: r.Height}
}

// expandedContains reports whether the point hits the box or, while open,
// any of its items.
func (c *ComboBox) expandedContains(x, y float32) bool {
	if c.Rect.Contains(x, y) {
		return true
	}
	if !c.IsOpen {
		return false
	}
	return c.itemAt(x, y) >= 0
}

func (c *ComboBox) itemAt(x, y float32) int {
	for i := range c.Items {
		if c.ItemBounds(i).Contains(x, y) {
			return i
		}
	}
	return -1
}

// Label is static text. It never takes part in hit testing.
type Label struct {
	Rect     Bounds
	Text     string
	FontSize float32
}

// Container is a layout box (div). Its visibility, enabled state and
// background can be overridden out of band; declarations never clobber
// an override.
type Container struct {
	Rect    Bounds
	Hovered bool

	visible    *bool
	enabled    *bool
	background *uint32
}

// Visible reports the effective visibility (default true).
func (c *Container) Visible() bool {
	return c.visible == nil || *c.visible
}

// Enabled reports the effective enabled state (default true).
func (c *Container) Enabled() bool {
	return c.enabled == nil || *c.enabled
}

// Background returns the override background color, if any.
func (c *Container) Background() (uint32, bool) {
	if c.background == nil {
		return 0, false
	}
	return *c.background, true
}

func (*Button) Kind() WidgetKind      { return KindButton }
func (*Checkbox) Kind() WidgetKind    { return KindCheckbox }
func (*RadioButton) Kind() WidgetKind { return KindRadio }
func (*Slider) Kind() WidgetKind      { return KindSlider }
func (*TextBox) Kind() WidgetKind     { return KindTextBox }
func (*ComboBox) Kind() WidgetKind    { return KindComboBox }
func (*Label) Kind() WidgetKind       { return KindLabel }
func (*Container) Kind() WidgetKind   { return KindContainer }

func (n *Button) Bounds() Bounds      { return n.Rect }
func (n *Checkbox) Bounds() Bounds    { return n.Rect }
func (n *RadioButton) Bounds() Bounds { return n.Rect }
func (n *Slider) Bounds() Bounds      { return n.Rect }
func (n *TextBox) Bounds() Bounds     { return n.Rect }
func (n *ComboBox) Bounds() Bounds    { return n.Rect }
func (n *Label) Bounds() Bounds       { return n.Rect }
func (n *Container) Bounds() Bounds   { return n.Rect }

func (*Button) node()      {}
func (*Checkbox) node()    {}
func (*RadioButton) node() {}
func (*Slider) node()      {}
func (*TextBox) node()     {}
func (*ComboBox) node()    {}
func (*Label) node()       {}
func (*Container) node()   {}

// interaction returns the shared interaction flags of n, or nil for the
// non-interactive kinds.
func interaction(n Node) *Interaction {
	switch n := n.(type) {
	case *Button:
		return &n.Interaction
	case *Checkbox:
		return &n.Interaction
	case *RadioButton:
		return &n.Interaction
	case *Slider:
		return &n.Interaction
	case *TextBox:
		return &n.Interaction
	case *ComboBox:
		return &n.Interaction
	case *Label, *Container:
		return nil
	default:
		panic("retained: unknown node type")
	}
}

// clearFrameFlags resets the flags recomputed every frame.
func clearFrameFlags(n Node) {
	switch n := n.(type) {
	case *Button:
		n.Pressed = false
		n.Clicked = false
	case *Checkbox:
		n.Pressed = false
		n.Changed = false
	case *RadioButton:
		n.Pressed = false
		n.Changed = false
	case *Slider:
		n.Pressed = false
		n.Changed = false
	case *TextBox:
		n.Pressed = false
		n.Changed = false
	case *ComboBox:
		n.Pressed = false
		n.Changed = false
	case *Label, *Container:
	}
}

// resetInteraction clears every transient flag of a node that was just
// disabled.
func resetInteraction(n Node) {
	if in := interaction(n); in != nil {
		in.Hovered = false
		in.Pressed = false
	}
	clearFrameFlags(n)
	switch n := n.(type) {
	case *ComboBox:
		n.IsOpen = false
		n.HoveredItem = -1
	case *TextBox:
		n.Focused = false
	case *Container:
		n.Hovered = false
	}
}
