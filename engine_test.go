package ctdcore

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/agiangrant/ctdcore/internal/clipboard"
	"github.com/agiangrant/ctdcore/internal/fontcache"
	"github.com/agiangrant/ctdcore/retained"
)

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	opts = append([]EngineOption{WithClipboard(&clipboard.Memory{})}, opts...)
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text.LineHeight = -1
	if _, err := NewEngine(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewEngine() error = %v, want ErrInvalidConfig", err)
	}
}

func TestEngineSettingsFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text.Padding = 9
	e, err := NewEngine(cfg, WithClipboard(&clipboard.Memory{}))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if got := e.State().Settings().TextPadding; got != 9 {
		t.Errorf("TextPadding = %v, want 9", got)
	}
}

func TestEngineFrame(t *testing.T) {
	e := newTestEngine(t)
	withCancel := true
	build := func(s *retained.State) {
		s.UpsertButton("ok", retained.ButtonSpec{Rect: retained.Bounds{Width: 80, Height: 24}, Text: "OK"})
		if withCancel {
			s.UpsertButton("cancel", retained.ButtonSpec{Rect: retained.Bounds{Y: 30, Width: 80, Height: 24}})
		}
	}

	res := e.Frame(retained.InputFrame{}, build)
	if !slices.Equal(res.Delta.Added, []retained.WidgetID{"ok", "cancel"}) {
		t.Errorf("Added = %v", res.Delta.Added)
	}

	e.Frame(retained.PointerInput(10, 10, false, true), build)
	res = e.Frame(retained.PointerInput(10, 10, true, false), build)
	if len(res.Events) != 1 || retained.EventName(res.Events[0]) != "ButtonClicked" {
		t.Fatalf("Events = %v, want one ButtonClicked", res.Events)
	}
	if !slices.Contains(res.Delta.Changed, "ok") {
		t.Errorf("Changed = %v, want ok", res.Delta.Changed)
	}
	if e.State().Events().Len() != 0 {
		t.Error("Frame left events in the queue")
	}

	withCancel = false
	res = e.Frame(retained.InputFrame{CursorX: 500, CursorY: 500}, build)
	if !slices.Equal(res.Removed, []retained.WidgetID{"cancel"}) {
		t.Errorf("Removed = %v", res.Removed)
	}
	if !slices.Equal(res.Delta.Removed, []retained.WidgetID{"cancel"}) {
		t.Errorf("Delta.Removed = %v", res.Delta.Removed)
	}
	if res.Frame != 4 {
		t.Errorf("Frame = %d, want 4", res.Frame)
	}

	res = e.Frame(retained.InputFrame{CursorX: 500, CursorY: 500}, build)
	if !res.Delta.IsEmpty() {
		t.Errorf("idle frame produced %+v", res.Delta)
	}
}

func TestEngineBuildConsumesEvents(t *testing.T) {
	e := newTestEngine(t)
	clicks := 0
	build := func(s *retained.State) {
		s.UpsertButton("ok", retained.ButtonSpec{Rect: retained.Bounds{Width: 80, Height: 24}})
		if _, ok := retained.Take[retained.ButtonClicked](s.Events(), "ok"); ok {
			clicks++
		}
	}
	e.Frame(retained.InputFrame{}, build)
	e.Frame(retained.PointerInput(5, 5, false, true), build)
	res := e.Frame(retained.PointerInput(5, 5, true, false), build)
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if len(res.Events) != 0 {
		t.Errorf("consumed event also returned: %v", res.Events)
	}
}

func TestEngineTextUsesFontCache(t *testing.T) {
	e := newTestEngine(t)
	build := func(s *retained.State) {
		s.UpsertTextBox("name", retained.TextBoxSpec{
			Rect:      retained.Bounds{Width: 60, Height: 24},
			OverflowX: retained.OverflowAuto,
		})
	}
	e.Frame(retained.InputFrame{}, build)
	e.State().Focus("name")
	e.Frame(retained.InputFrame{Text: "a fairly long line of text"}, build)

	if e.Fonts().Stats().Misses == 0 {
		t.Error("text box did not measure through the font cache")
	}
	if maxX, _ := e.State().MaxScroll("name"); maxX <= 0 {
		t.Errorf("MaxScroll = %v, want overflow", maxX)
	}
}

func TestEngineSharedFontCache(t *testing.T) {
	fonts, err := fontcache.New(fontcache.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer fonts.Close()
	a := newTestEngine(t, WithFontCache(fonts))
	b := newTestEngine(t, WithFontCache(fonts))
	if a.Fonts() != b.Fonts() {
		t.Error("engines do not share the cache")
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
	if _, w := fonts.Layout("still usable", 14); w <= 0 {
		t.Error("shared cache unusable after an engine closed")
	}
}

func TestEngineLogging(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Log.Level = "debug"
	e, err := NewEngine(cfg, WithClipboard(&clipboard.Memory{}), WithLogWriter(&buf))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	e.Frame(retained.InputFrame{}, func(s *retained.State) {
		s.UpsertLabel("l", retained.LabelSpec{Text: "x"})
	})
	e.Frame(retained.InputFrame{}, nil)
	out := buf.String()
	for _, want := range []string{"engine ready", "pruned widgets", "component=retained"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSnapshotAndDiff(t *testing.T) {
	s := retained.New()
	s.UpsertCheckbox("c", retained.CheckboxSpec{Rect: retained.Bounds{Width: 10, Height: 10}, Text: "Agree"})
	s.UpsertLabel("l", retained.LabelSpec{Text: "hi"})
	before := TakeSnapshot(s)

	s.SetChecked("c", true)
	s.Remove("l")
	s.UpsertSlider("v", retained.SliderSpec{Max: 1})
	after := TakeSnapshot(s)

	d := Diff(before, after)
	if !slices.Equal(d.Added, []retained.WidgetID{"v"}) ||
		!slices.Equal(d.Removed, []retained.WidgetID{"l"}) ||
		!slices.Equal(d.Changed, []retained.WidgetID{"c"}) {
		t.Errorf("Diff() = %+v", d)
	}

	w, ok := after.Get("c")
	if !ok || !w.Checked || w.Kind != retained.KindCheckbox {
		t.Errorf("Get(c) = %+v, %v", w, ok)
	}

	data, err := after.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}
	for _, want := range []string{`"id":"c"`, `"kind":"checkbox"`, `"checked":true`, `"bounds":{"x":0`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("ToJSON() = %s, missing %s", data, want)
		}
	}
}
