package clipboard

import (
	"errors"
	"testing"
)

func TestMemory(t *testing.T) {
	var m Memory
	if got, err := m.ReadText(); err != nil || got != "" {
		t.Fatalf("ReadText() on empty = %q, %v", got, err)
	}
	for _, text := range []string{"hello", "multi\nline", "あいう", ""} {
		if err := m.WriteText(text); err != nil {
			t.Fatalf("WriteText(%q) error: %v", text, err)
		}
		if got, _ := m.ReadText(); got != text {
			t.Errorf("ReadText() = %q, want %q", got, text)
		}
	}
}

func TestNewWithoutSystem(t *testing.T) {
	if _, ok := New(false).(*Memory); !ok {
		t.Error("New(false) did not return a memory clipboard")
	}
}

func TestNewWithSystem(t *testing.T) {
	c := New(true)
	switch c.(type) {
	case System:
		if !(System{}).Available() {
			t.Error("New(true) returned an unavailable system clipboard")
		}
	case *Memory:
		if (System{}).Available() {
			t.Error("New(true) fell back although the system clipboard is available")
		}
	default:
		t.Errorf("New(true) returned %T", c)
	}
}

func TestSystemUnsupported(t *testing.T) {
	s := System{}
	if s.Available() {
		t.Skip("system clipboard available")
	}
	if err := s.WriteText("x"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("WriteText() error = %v, want ErrUnsupported", err)
	}
	if _, err := s.ReadText(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ReadText() error = %v, want ErrUnsupported", err)
	}
}
