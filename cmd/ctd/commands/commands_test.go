package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agiangrant/ctdcore"
	"github.com/agiangrant/ctdcore/internal/clipboard"
	"github.com/agiangrant/ctdcore/internal/scenario"
	"github.com/agiangrant/ctdcore/retained"
)

var formScenario = filepath.Join("..", "..", "..", "internal", "scenario", "testdata", "form.yaml")

// run executes the command tree with a throwaway config file so the
// nearest ctd.toml never leaks into a test.
func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), ctdcore.ConfigFile)
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}
	var out, errOut bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", path}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestReplayJSON(t *testing.T) {
	out, err := run(t, "", "replay", "--json", formScenario, formScenario)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	var results []scenario.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i, res := range results {
		if len(res.Events) != 6 {
			t.Errorf("results[%d] has %d events, want 6", i, len(res.Events))
		}
		if w, ok := res.Final.Get("agree"); !ok || !w.Checked {
			t.Errorf("results[%d] agree = %+v", i, w)
		}
	}
}

func TestReplayTables(t *testing.T) {
	out, err := run(t, "", "replay", formScenario)
	if err != nil {
		t.Fatalf("replay error: %v", err)
	}
	for _, want := range []string{"form", "ButtonClicked", "ComboBoxChanged", "WIDGET", "checked=true"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "", "replay", "--events-only", formScenario)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "BOUNDS") {
		t.Errorf("--events-only printed the widget table:\n%s", out)
	}
}

func TestReplayErrors(t *testing.T) {
	if _, err := run(t, "", "replay"); err == nil {
		t.Error("replay without files succeeded")
	}
	if _, err := run(t, "", "replay", "missing.yaml"); err == nil {
		t.Error("replay of a missing file succeeded")
	}
	if _, err := run(t, "", "--log-level", "loud", "replay", formScenario); err == nil {
		t.Error("invalid --log-level accepted")
	}
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "[text]\npadding = 7\n", "config")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	for _, want := range []string{"# source:", "padding = 7", "[font]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "", "--font", "gomono", "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "gomono") {
		t.Errorf("--font override not applied:\n%s", out)
	}
}

func TestInitWritesReplayableFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "project")
	if _, err := run(t, "", "init", "--dir", dir); err != nil {
		t.Fatalf("init error: %v", err)
	}
	if _, err := ctdcore.LoadConfig(filepath.Join(dir, ctdcore.ConfigFile)); err != nil {
		t.Errorf("written config does not load: %v", err)
	}
	if _, err := run(t, "", "init", "--dir", dir); err == nil {
		t.Error("init overwrote an existing config without --force")
	}
	if _, err := run(t, "", "init", "--dir", dir, "--force"); err != nil {
		t.Errorf("init --force error: %v", err)
	}

	sc, err := scenario.Load(filepath.Join(dir, sampleScenarioFile))
	if err != nil {
		t.Fatalf("sample scenario invalid: %v", err)
	}
	e, err := ctdcore.NewEngine(ctdcore.DefaultConfig(), ctdcore.WithClipboard(&clipboard.Memory{}))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	res, err := sc.Run(ctx, e)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ev := range res.Events {
		names = append(names, ev.Event)
	}
	want := "CheckboxChanged,TextBoxChanged,ButtonClicked"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("sample events = %s, want %s", got, want)
	}
}

func newTestDemo(t *testing.T) *demoModel {
	t.Helper()
	e, err := ctdcore.NewEngine(ctdcore.DefaultConfig(), ctdcore.WithClipboard(&clipboard.Memory{}))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { e.Close() })
	return newDemoModel(e)
}

func clickCell(m *demoModel, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
}

func TestDemoTypingAndSubmit(t *testing.T) {
	m := newTestDemo(t)
	s := m.engine.State()

	clickCell(m, 5, 8)
	if s.FocusedID() != "name" {
		t.Fatalf("focused = %q, want name", s.FocusedID())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Adx")})
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if got := s.Response("name").Text; got != "Ada" {
		t.Fatalf("name = %q, want Ada", got)
	}
	if view := m.View(); !strings.Contains(view, "Ada|") {
		t.Errorf("view does not show the caret:\n%s", view)
	}

	clickCell(m, 3, 10)
	if !strings.HasPrefix(m.status, "Submitted") || !strings.Contains(m.status, `name="Ada"`) {
		t.Errorf("status = %q", m.status)
	}
	if len(m.log) == 0 || m.log[len(m.log)-1] != "submit" {
		t.Errorf("log = %v", m.log)
	}
}

func TestDemoReset(t *testing.T) {
	m := newTestDemo(t)
	s := m.engine.State()
	if s.Response("reset").Enabled {
		t.Fatal("reset enabled on an empty form")
	}
	clickCell(m, 3, 2)
	if !s.Response("subscribe").Checked {
		t.Fatal("checkbox not toggled")
	}
	if !s.Response("reset").Enabled {
		t.Fatal("reset still disabled")
	}
	clickCell(m, 16, 10)
	if s.Response("subscribe").Checked {
		t.Error("reset did not clear the checkbox")
	}
	if m.status != "Form reset." {
		t.Errorf("status = %q", m.status)
	}
}

func TestDemoKeysAndWheel(t *testing.T) {
	m := newTestDemo(t)
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Error("esc did not quit")
	}
	in, _ := m.keyInput(tea.KeyMsg{Type: tea.KeyCtrlV})
	if !in.Paste {
		t.Error("ctrl+v did not paste")
	}
	in = m.mouseInput(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown, Shift: true})
	if in.ScrollX != cellHeight || in.ScrollY != 0 {
		t.Errorf("shift+wheel = (%v, %v), want horizontal", in.ScrollX, in.ScrollY)
	}
	if in.PressEdge {
		t.Error("wheel produced a press edge")
	}
}

func TestVisibleText(t *testing.T) {
	tests := []struct {
		text    string
		caret   int
		width   int
		focused bool
		want    string
	}{
		{"hello", 5, 10, false, "hello"},
		{"hello", 5, 10, true, "hello|"},
		{"hello world", 11, 6, true, "world|"},
		{"hello world", 0, 6, true, "|hello"},
		{"あいう", 3, 4, true, "う|"},
	}
	for _, tt := range tests {
		if got := visibleText(tt.text, tt.caret, tt.width, tt.focused); got != tt.want {
			t.Errorf("visibleText(%q, %d, %d) = %q, want %q", tt.text, tt.caret, tt.width, got, tt.want)
		}
	}
}

func TestWidgetState(t *testing.T) {
	w := ctdcore.WidgetSnapshot{ID: "c", Response: retained.Response{Kind: retained.KindComboBox, Enabled: true, SelectedIndex: 1, SelectedText: "M", IsOpen: true}}
	if got := widgetState(w); got != `1:"M" open` {
		t.Errorf("widgetState() = %q", got)
	}
	w = ctdcore.WidgetSnapshot{ID: "b", Response: retained.Response{Kind: retained.KindButton, Text: "OK"}}
	if got := widgetState(w); got != `disabled "OK"` {
		t.Errorf("widgetState() = %q", got)
	}
}
