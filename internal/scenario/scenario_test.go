package scenario

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/agiangrant/ctdcore"
	"github.com/agiangrant/ctdcore/internal/clipboard"
	"github.com/agiangrant/ctdcore/retained"
)

func newEngine(t *testing.T) *ctdcore.Engine {
	t.Helper()
	e, err := ctdcore.NewEngine(ctdcore.DefaultConfig(), ctdcore.WithClipboard(&clipboard.Memory{}))
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "empty", data: "", want: ErrNoFrames},
		{name: "no frames", data: "frames: []", want: ErrNoFrames},
		{name: "unknown kind", data: "frames:\n  - widgets: [{id: a, kind: knob}]", want: ErrUnknownKind},
		{name: "missing id", data: "frames:\n  - widgets: [{kind: button}]", want: ErrInvalidWidget},
		{name: "short rect", data: "frames:\n  - widgets: [{id: a, kind: button, rect: [1, 2]}]", want: ErrInvalidWidget},
		{name: "unknown key", data: "frames:\n  - input: {keys: [escape]}", want: ErrUnknownKey},
		{name: "unknown action", data: "frames:\n  - actions: [{op: explode, id: a}]", want: ErrUnknownAction},
		{name: "newer major", data: "version: v2.0.0\nframes: [{}]", want: ErrUnsupportedVersion},
		{name: "newer minor", data: "version: v1.9.0\nframes: [{}]", want: ErrUnsupportedVersion},
		{name: "not semver", data: "version: banana\nframes: [{}]", want: ErrUnsupportedVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("frames:\n  - widgets: [{id: a, kind: button, colour: red}]")); err == nil {
		t.Error("Parse() accepted an unknown field")
	}
}

func TestParseAcceptsVersions(t *testing.T) {
	for _, v := range []string{"", "v1.0.0", "1.0.0", CurrentVersion} {
		if err := checkVersion(v); err != nil {
			t.Errorf("checkVersion(%q) = %v", v, err)
		}
	}
}

func TestValidateActionNeedsID(t *testing.T) {
	if _, err := Parse([]byte("frames:\n  - actions: [{op: focus}]")); err == nil {
		t.Error("Parse() accepted a focus action without an id")
	}
	if _, err := Parse([]byte("frames:\n  - actions: [{op: blur}]")); err != nil {
		t.Errorf("Parse() rejected blur: %v", err)
	}
}

func TestRunForm(t *testing.T) {
	sc, err := Load(filepath.Join("testdata", "form.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	res, err := sc.Run(context.Background(), newEngine(t))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Frames != len(sc.Frames) {
		t.Errorf("Frames = %d, want %d", res.Frames, len(sc.Frames))
	}

	want := []Record{
		{Event: "CheckboxChanged", ID: "agree", Detail: "checked=true"},
		{Event: "SliderChanged", ID: "volume", Detail: "value=50"},
		{Event: "TextBoxChanged", ID: "name", Detail: `text="hi"`},
		{Event: "TextBoxChanged", ID: "name", Detail: `text="h"`},
		{Event: "ComboBoxChanged", ID: "size", Detail: `index=2 text="L"`},
		{Event: "ButtonClicked", ID: "ok"},
	}
	if len(res.Events) != len(want) {
		t.Fatalf("Events = %+v, want %d events", res.Events, len(want))
	}
	var last uint64
	for i, got := range res.Events {
		if got.Event != want[i].Event || got.ID != want[i].ID || got.Detail != want[i].Detail {
			t.Errorf("Events[%d] = %+v, want %+v", i, got, want[i])
		}
		if got.Frame <= last {
			t.Errorf("Events[%d].Frame = %d, not after %d", i, got.Frame, last)
		}
		last = got.Frame
	}

	size, ok := res.Final.Get("size")
	if !ok || size.SelectedIndex != 2 || size.IsOpen {
		t.Errorf("final combo = %+v", size)
	}
	name, _ := res.Final.Get("name")
	if name.Text != "h" || name.Focused {
		t.Errorf("final text box = %+v", name)
	}
}

func TestRunActionsAndRepeat(t *testing.T) {
	sc, err := Parse([]byte(`
frames:
  - widgets:
      - {id: a, kind: radio, group: g, rect: [0, 0, 10, 10], selected: true}
      - {id: b, kind: radio, group: g, rect: [0, 20, 10, 10]}
      - {id: t, kind: text_box, rect: [0, 40, 100, 20]}
    actions:
      - {op: select_radio, id: b}
      - {op: set_text, id: t, text: preset}
  - repeat: 3
  - widgets:
      - {id: t, kind: text_box, rect: [0, 40, 100, 20]}
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	res, err := sc.Run(context.Background(), newEngine(t))
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.Frames != 5 {
		t.Errorf("Frames = %d, want 5", res.Frames)
	}
	if len(res.Events) != 0 {
		t.Errorf("setters produced events: %+v", res.Events)
	}
	wantRemoved := []retained.WidgetID{"a", "b"}
	if len(res.Removed) != 2 || res.Removed[0] != wantRemoved[0] || res.Removed[1] != wantRemoved[1] {
		t.Errorf("Removed = %v, want %v", res.Removed, wantRemoved)
	}
	if w, _ := res.Final.Get("t"); w.Text != "preset" {
		t.Errorf("text = %q, want preset", w.Text)
	}
}

func TestRunCanceled(t *testing.T) {
	sc, err := Parse([]byte("frames: [{}, {}]"))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sc.Run(ctx, newEngine(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
