// Package scenario loads scripted input sessions from YAML and plays them
// back against an engine. A scenario is a list of frames; each frame carries
// the raw input for that frame and the widgets the build pass declares.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/agiangrant/ctdcore/retained"
)

// CurrentVersion is the newest scenario format this package understands.
const CurrentVersion = "v1.1.0"

var (
	ErrNoFrames           = errors.New("scenario has no frames")
	ErrUnknownKind        = errors.New("unknown widget kind")
	ErrUnknownKey         = errors.New("unknown key")
	ErrUnknownAction      = errors.New("unknown action")
	ErrInvalidWidget      = errors.New("invalid widget")
	ErrUnsupportedVersion = errors.New("unsupported scenario version")
)

// Scenario is a scripted session.
type Scenario struct {
	Version string  `yaml:"version,omitempty"`
	Name    string  `yaml:"name,omitempty"`
	Frames  []Frame `yaml:"frames"`
}

// Frame is one input frame plus the build pass that follows it. A frame
// that omits widgets declares the same widgets as the frame before it.
type Frame struct {
	Input   Input    `yaml:"input,omitempty"`
	Widgets []Widget `yaml:"widgets,omitempty"`
	Actions []Action `yaml:"actions,omitempty"`
	// Repeat runs the frame this many times (default once).
	Repeat int `yaml:"repeat,omitempty"`
}

// Input is the raw input of a frame. The cursor keeps its previous position
// when x or y is omitted; press and release edges are derived from the
// previous frame's button state.
type Input struct {
	X       *float32 `yaml:"x,omitempty"`
	Y       *float32 `yaml:"y,omitempty"`
	Down    bool     `yaml:"down,omitempty"`
	ScrollX float32  `yaml:"scroll_x,omitempty"`
	ScrollY float32  `yaml:"scroll_y,omitempty"`
	Text    string   `yaml:"text,omitempty"`
	Keys    []string `yaml:"keys,omitempty,flow"`
	Copy    bool     `yaml:"copy,omitempty"`
	Paste   bool     `yaml:"paste,omitempty"`
}

// Widget is one build call. Which fields apply depends on Kind.
type Widget struct {
	ID       string    `yaml:"id"`
	Kind     string    `yaml:"kind"`
	Rect     []float32 `yaml:"rect,flow"`
	Disabled bool      `yaml:"disabled,omitempty"`
	Text     string    `yaml:"text,omitempty"`
	FontSize float32   `yaml:"font_size,omitempty"`

	Checked  bool   `yaml:"checked,omitempty"`
	Group    string `yaml:"group,omitempty"`
	Selected bool   `yaml:"selected,omitempty"`

	Min   float32 `yaml:"min,omitempty"`
	Max   float32 `yaml:"max,omitempty"`
	Value float32 `yaml:"value,omitempty"`
	Step  float32 `yaml:"step,omitempty"`

	Placeholder string `yaml:"placeholder,omitempty"`
	OverflowX   string `yaml:"overflow_x,omitempty"`
	OverflowY   string `yaml:"overflow_y,omitempty"`

	Items []string `yaml:"items,omitempty,flow"`
	Index int      `yaml:"index,omitempty"`
}

// Action is an out-of-band state change applied after the frame's build
// calls.
type Action struct {
	Op      string  `yaml:"op"`
	ID      string  `yaml:"id,omitempty"`
	Text    string  `yaml:"text,omitempty"`
	Value   float32 `yaml:"value,omitempty"`
	Index   int     `yaml:"index,omitempty"`
	Checked bool    `yaml:"checked,omitempty"`
	Enabled bool    `yaml:"enabled,omitempty"`
	Open    bool    `yaml:"open,omitempty"`
}

var keyNames = map[string]retained.Key{
	"backspace": retained.KeyBackspace,
	"delete":    retained.KeyDelete,
	"enter":     retained.KeyEnter,
	"left":      retained.KeyLeft,
	"right":     retained.KeyRight,
	"up":        retained.KeyUp,
	"down":      retained.KeyDown,
}

var kinds = map[string]retained.WidgetKind{
	"button":    retained.KindButton,
	"checkbox":  retained.KindCheckbox,
	"radio":     retained.KindRadio,
	"slider":    retained.KindSlider,
	"text_box":  retained.KindTextBox,
	"textbox":   retained.KindTextBox,
	"combo_box": retained.KindComboBox,
	"combobox":  retained.KindComboBox,
	"label":     retained.KindLabel,
	"container": retained.KindContainer,
	"div":       retained.KindContainer,
}

var actions = map[string]bool{
	"focus":           true,
	"blur":            true,
	"set_enabled":     true,
	"remove":          true,
	"set_text":        true,
	"set_caret":       true,
	"set_checked":     true,
	"set_value":       true,
	"set_selected":    true,
	"select_radio":    true,
	"open_combo":      true,
	"set_button_text": true,
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Parse decodes and validates a scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoFrames
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the version, every widget declaration, key name and
// action.
func (sc *Scenario) Validate() error {
	if err := checkVersion(sc.Version); err != nil {
		return err
	}
	if len(sc.Frames) == 0 {
		return ErrNoFrames
	}
	var errs []error
	for i, f := range sc.Frames {
		for _, k := range f.Input.Keys {
			if _, ok := keyNames[strings.ToLower(k)]; !ok {
				errs = append(errs, fmt.Errorf("frame %d: %w %q", i, ErrUnknownKey, k))
			}
		}
		for _, w := range f.Widgets {
			if err := w.validate(); err != nil {
				errs = append(errs, fmt.Errorf("frame %d: %w", i, err))
			}
		}
		for _, a := range f.Actions {
			if !actions[a.Op] {
				errs = append(errs, fmt.Errorf("frame %d: %w %q", i, ErrUnknownAction, a.Op))
			} else if a.Op != "blur" && a.ID == "" {
				errs = append(errs, fmt.Errorf("frame %d: action %s needs an id", i, a.Op))
			}
		}
		if f.Repeat < 0 {
			errs = append(errs, fmt.Errorf("frame %d: negative repeat %d", i, f.Repeat))
		}
	}
	return errors.Join(errs...)
}

func (w Widget) validate() error {
	if w.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidWidget)
	}
	if _, ok := kinds[w.Kind]; !ok {
		return fmt.Errorf("widget %q: %w %q", w.ID, ErrUnknownKind, w.Kind)
	}
	if len(w.Rect) != 0 && len(w.Rect) != 4 {
		return fmt.Errorf("%w: %q rect needs [x, y, width, height], got %v", ErrInvalidWidget, w.ID, w.Rect)
	}
	return nil
}

// checkVersion accepts an empty version or any version with the same
// major number that is not newer than CurrentVersion.
func checkVersion(v string) error {
	if v == "" {
		return nil
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if semver.Major(v) != semver.Major(CurrentVersion) || semver.Compare(v, CurrentVersion) > 0 {
		return fmt.Errorf("%w: %s (supported up to %s)", ErrUnsupportedVersion, v, CurrentVersion)
	}
	return nil
}

// WidgetKind returns the widget kind a declaration builds.
func (w Widget) WidgetKind() retained.WidgetKind {
	return kinds[w.Kind]
}

func (w Widget) bounds() retained.Bounds {
	if len(w.Rect) != 4 {
		return retained.Bounds{}
	}
	return retained.Bounds{X: w.Rect[0], Y: w.Rect[1], Width: w.Rect[2], Height: w.Rect[3]}
}

// declare issues the build call for w.
func (w Widget) declare(s *retained.State) {
	id := retained.WidgetID(w.ID)
	rect := w.bounds()
	switch kinds[w.Kind] {
	case retained.KindButton:
		s.UpsertButton(id, retained.ButtonSpec{Rect: rect, Disabled: w.Disabled, Text: w.Text, FontSize: w.FontSize})
	case retained.KindCheckbox:
		s.UpsertCheckbox(id, retained.CheckboxSpec{Rect: rect, Disabled: w.Disabled, Text: w.Text, Checked: w.Checked})
	case retained.KindRadio:
		s.UpsertRadioButton(id, retained.RadioSpec{Rect: rect, Disabled: w.Disabled, Text: w.Text, Group: w.Group, Selected: w.Selected})
	case retained.KindSlider:
		s.UpsertSlider(id, retained.SliderSpec{Rect: rect, Disabled: w.Disabled, Min: w.Min, Max: w.Max, Value: w.Value, Step: w.Step})
	case retained.KindTextBox:
		s.UpsertTextBox(id, retained.TextBoxSpec{
			Rect:        rect,
			Disabled:    w.Disabled,
			Text:        w.Text,
			Placeholder: w.Placeholder,
			FontSize:    w.FontSize,
			OverflowX:   retained.ParseOverflow(w.OverflowX),
			OverflowY:   retained.ParseOverflow(w.OverflowY),
		})
	case retained.KindComboBox:
		s.UpsertComboBox(id, retained.ComboBoxSpec{Rect: rect, Disabled: w.Disabled, Items: w.Items, Selected: w.Index})
	case retained.KindLabel:
		s.UpsertLabel(id, retained.LabelSpec{Rect: rect, Text: w.Text, FontSize: w.FontSize})
	case retained.KindContainer:
		s.UpsertContainer(id, retained.ContainerSpec{Rect: rect})
	}
}

// apply performs an out-of-band change.
func (a Action) apply(s *retained.State) {
	id := retained.WidgetID(a.ID)
	switch a.Op {
	case "focus":
		s.Focus(id)
	case "blur":
		s.Blur()
	case "set_enabled":
		s.SetEnabled(id, a.Enabled)
	case "remove":
		s.Remove(id)
	case "set_text":
		s.SetText(id, a.Text)
	case "set_caret":
		s.SetCaret(id, a.Index)
	case "set_checked":
		s.SetChecked(id, a.Checked)
	case "set_value":
		s.SetSliderValue(id, a.Value)
	case "set_selected":
		s.SetComboSelected(id, a.Index)
	case "select_radio":
		s.SetRadioSelected(id)
	case "open_combo":
		s.SetComboOpen(id, a.Open)
	case "set_button_text":
		if a.Text == "" {
			s.ClearButtonText(id)
		} else {
			s.SetButtonText(id, a.Text)
		}
	}
}

// keys converts validated key names into a set.
func (in Input) keys() retained.KeySet {
	var set retained.KeySet
	for _, k := range in.Keys {
		set = set.With(keyNames[strings.ToLower(k)])
	}
	return set
}
