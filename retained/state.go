package retained

import (
	"fmt"
	"io"
	"log/slog"
	"math"
)

// TextMeasurer lays out a run of text at a font size, returning the advance
// of every code point and the total width in pixels.
type TextMeasurer interface {
	Layout(text string, size float32) (advances []float32, width float32)
}

// Clipboard is the system clipboard surface.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// Settings tunes geometry and thresholds used by the state machines.
type Settings struct {
	// Padding between a text box's rect and its inner content box.
	TextPadding float32
	// ScrollbarThickness is the height of the horizontal scrollbar track.
	ScrollbarThickness float32
	// MinThumbWidth is the smallest scrollbar thumb width.
	MinThumbWidth float32
	// LineHeight is a multiplier applied to the font size.
	LineHeight float32
	// DefaultFontSize is used when a declaration leaves the size at zero.
	DefaultFontSize float32
	// WheelSpeed multiplies scroll deltas.
	WheelSpeed float32
	// SliderEpsilon is the smallest value change that counts as a change.
	SliderEpsilon float32
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		TextPadding:        4,
		ScrollbarThickness: 6,
		MinThumbWidth:      16,
		LineHeight:         1.2,
		DefaultFontSize:    14,
		WheelSpeed:         1,
		SliderEpsilon:      1e-6,
	}
}

// Option configures a State.
type Option func(*State)

// WithMeasurer sets the font/layout collaborator. Without one, widths are
// estimated from character cell widths.
func WithMeasurer(m TextMeasurer) Option {
	return func(s *State) { s.measurer = m }
}

// WithClipboard sets the system clipboard. Without one, copy and paste use
// the internal buffer only.
func WithClipboard(c Clipboard) Option {
	return func(s *State) { s.clipboard = c }
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSettings overrides the default settings.
func WithSettings(cfg Settings) Option {
	return func(s *State) { s.settings = cfg }
}

// State owns the widget store, the activation and focus slots and the event
// queue. It is the single value mutated across frames.
type State struct {
	nodes map[WidgetID]Node
	order []WidgetID
	seen  map[WidgetID]struct{}

	active  [channelCount]WidgetID
	focused WidgetID

	events EventQueue

	// Pointer state of the frame being processed.
	cursorX, cursorY float32
	mouseDown        bool
	frame            uint64

	measurer     TextMeasurer
	clipboard    Clipboard
	clipFallback string

	settings Settings
	logger   *slog.Logger
}

// New creates an empty State.
func New(opts ...Option) *State {
	s := &State{
		nodes:    make(map[WidgetID]Node),
		seen:     make(map[WidgetID]struct{}),
		settings: DefaultSettings(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the active settings.
func (s *State) Settings() Settings { return s.settings }

// Events returns the event queue.
func (s *State) Events() *EventQueue { return &s.events }

// Frame returns the number of input frames processed so far.
func (s *State) Frame() uint64 { return s.frame }

// Order returns widget ids in paint order (first declared first).
func (s *State) Order() []WidgetID {
	out := make([]WidgetID, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of widgets in the store.
func (s *State) Len() int { return len(s.nodes) }

// Node returns the node stored under id.
func (s *State) Node(id WidgetID) (Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// FocusedID returns the id of the focused text box, or "".
func (s *State) FocusedID() WidgetID { return s.focused }

// ActiveID returns the id occupying the channel's activation slot, or "".
func (s *State) ActiveID(ch Channel) WidgetID {
	if ch < 0 || ch >= channelCount {
		return ""
	}
	return s.active[ch]
}

// ============================================================================
// Frame phases
// ============================================================================

// phase is one ordered step of input processing. Later phases observe the
// fully updated state of earlier ones.
type phase struct {
	name string
	run  func(s *State, in *InputFrame)
}

var phases = [...]phase{
	{"hover", (*State).hoverPhase},
	{"activate", (*State).activationPhase},
	{"interact", (*State).interactionPhase},
	{"text", (*State).textPhase},
	{"release", (*State).releasePhase},
}

// ProcessInput applies one input frame to the retained state, updating
// interaction flags and queueing events.
func (s *State) ProcessInput(in InputFrame) {
	s.frame++
	s.cursorX, s.cursorY = in.CursorX, in.CursorY
	s.mouseDown = in.MouseDown
	for _, p := range phases {
		p.run(s, &in)
	}
}

// RunFrame processes input against the previous frame's rects, then runs
// a full build pass: build declares the current widgets and everything not
// declared is pruned.
func (s *State) RunFrame(in InputFrame, build func(s *State)) []WidgetID {
	s.ProcessInput(in)
	s.BeginBuildPass()
	if build != nil {
		build(s)
	}
	return s.PruneUnseenWidgets()
}

// ============================================================================
// Responses
// ============================================================================

// Response is a snapshot of a widget's interaction state. Fields that do
// not apply to the widget's kind are zero.
type Response struct {
	Kind    WidgetKind `json:"kind"`
	Enabled bool       `json:"enabled"`
	Hovered bool       `json:"hovered,omitempty"`
	Pressed bool       `json:"pressed,omitempty"`
	Clicked bool       `json:"clicked,omitempty"`
	Changed bool       `json:"changed,omitempty"`

	Checked  bool    `json:"checked,omitempty"`
	Selected bool    `json:"selected,omitempty"`
	Value    float32 `json:"value,omitempty"`

	Text    string `json:"text,omitempty"`
	Caret   int    `json:"caret,omitempty"`
	Focused bool   `json:"focused,omitempty"`

	SelectedIndex int    `json:"selected_index,omitempty"`
	SelectedText  string `json:"selected_text,omitempty"`
	IsOpen        bool   `json:"open,omitempty"`
	HoveredItem   int    `json:"hovered_item,omitempty"`
}

// Response returns the live response of id. Unknown ids return the zero
// Response.
func (s *State) Response(id WidgetID) Response {
	n, ok := s.nodes[id]
	if !ok {
		return Response{}
	}
	return responseOf(n)
}

func responseOf(n Node) Response {
	r := Response{Kind: n.Kind()}
	if in := interaction(n); in != nil {
		r.Enabled = in.Enabled
		r.Hovered = in.Hovered
		r.Pressed = in.Pressed
	}
	switch n := n.(type) {
	case *Button:
		r.Clicked = n.Clicked
		r.Changed = n.Clicked
		r.Text = n.DisplayText()
	case *Checkbox:
		r.Changed = n.Changed
		r.Checked = n.Checked
		r.Text = n.Text
	case *RadioButton:
		r.Changed = n.Changed
		r.Selected = n.Selected
		r.Text = n.Text
	case *Slider:
		r.Changed = n.Changed
		r.Value = n.Value
	case *TextBox:
		r.Changed = n.Changed
		r.Text = n.Text
		r.Caret = n.Caret
		r.Focused = n.Focused
	case *ComboBox:
		r.Changed = n.Changed
		r.SelectedIndex = n.SelectedIndex
		r.SelectedText = n.SelectedText()
		r.IsOpen = n.IsOpen
		r.HoveredItem = n.HoveredItem
	case *Label:
		r.Text = n.Text
	case *Container:
		r.Enabled = n.Enabled()
		r.Hovered = n.Hovered
	}
	return r
}

// checkBookkeeping panics if the order and the node map disagree. This can
// only happen through a bug in this package.
func (s *State) checkBookkeeping() {
	if len(s.order) != len(s.nodes) {
		panic(fmt.Sprintf("retained: order has %d ids, store has %d nodes", len(s.order), len(s.nodes)))
	}
	for _, id := range s.order {
		if _, ok := s.nodes[id]; !ok {
			panic(fmt.Sprintf("retained: id %q in order but not in store", id))
		}
	}
	for ch, id := range s.active {
		if id == "" {
			continue
		}
		if _, ok := s.nodes[id]; !ok {
			panic(fmt.Sprintf("retained: channel %s holds pruned id %q", Channel(ch), id))
		}
	}
}
