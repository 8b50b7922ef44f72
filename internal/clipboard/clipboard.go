// Package clipboard provides the clipboard collaborators used by text boxes:
// the operating system clipboard and an in-process buffer.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	sysclip "github.com/atotto/clipboard"
)

// ErrUnsupported is returned by System when the platform has no usable
// clipboard (for example Linux without xclip, xsel or wl-clipboard).
var ErrUnsupported = errors.New("clipboard: system clipboard unavailable")

// Clipboard reads and writes plain text.
type Clipboard interface {
	WriteText(text string) error
	ReadText() (string, error)
}

// New returns the system clipboard when useSystem is set and the platform
// supports it, otherwise an in-memory clipboard.
func New(useSystem bool) Clipboard {
	if useSystem {
		if s := (System{}); s.Available() {
			return s
		}
	}
	return &Memory{}
}

// System is the operating system clipboard.
type System struct{}

// Available reports whether the platform clipboard can be used.
func (System) Available() bool {
	return !sysclip.Unsupported
}

func (s System) WriteText(text string) error {
	if !s.Available() {
		return ErrUnsupported
	}
	if err := sysclip.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

func (s System) ReadText() (string, error) {
	if !s.Available() {
		return "", ErrUnsupported
	}
	text, err := sysclip.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	return text, nil
}

// Memory is an in-process clipboard. The zero value is empty and ready to
// use.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *Memory) ReadText() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, nil
}
