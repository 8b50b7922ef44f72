package ctdcore

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/agiangrant/ctdcore/internal/clipboard"
	"github.com/agiangrant/ctdcore/internal/fontcache"
	"github.com/agiangrant/ctdcore/retained"
)

const version = "0.2.0"

// Version returns the library version.
func Version() string {
	return version
}

// Engine wires a retained.State to its collaborators: the font cache used
// for text measurement, the clipboard and the logger.
type Engine struct {
	config Config
	state  *retained.State
	fonts  *fontcache.Cache
	clip   clipboard.Clipboard
	logger *slog.Logger

	ownsFonts bool

	// For retained mode: track previous frame
	lastFrame Snapshot
}

// EngineOption customizes NewEngine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	fonts     *fontcache.Cache
	clip      clipboard.Clipboard
	logWriter io.Writer
	logger    *slog.Logger
}

// WithFontCache shares an existing font cache. The engine does not close it.
func WithFontCache(c *fontcache.Cache) EngineOption {
	return func(o *engineOptions) { o.fonts = c }
}

// WithClipboard replaces the clipboard selected by the config.
func WithClipboard(c clipboard.Clipboard) EngineOption {
	return func(o *engineOptions) { o.clip = c }
}

// WithLogWriter sends log output to w using the configured level and
// format. Without it, logs are discarded.
func WithLogWriter(w io.Writer) EngineOption {
	return func(o *engineOptions) { o.logWriter = w }
}

// WithLogger uses l as is, ignoring the [log] section.
func WithLogger(l *slog.Logger) EngineOption {
	return func(o *engineOptions) { o.logger = l }
}

// NewEngine creates a new engine with the given configuration
func NewEngine(config Config, opts ...EngineOption) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		if o.logWriter == nil {
			logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
		} else {
			l, err := NewLogger(config.Log, o.logWriter)
			if err != nil {
				return nil, err
			}
			logger = l
		}
	}

	e := &Engine{
		config: config,
		fonts:  o.fonts,
		clip:   o.clip,
		logger: logger,
	}
	if e.fonts == nil {
		fonts, err := fontcache.New(fontcache.Options{
			Face:     config.Font.Face,
			Path:     config.Font.Path,
			DPI:      config.Font.DPI,
			Capacity: config.Font.CacheCapacity,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize font cache: %w", err)
		}
		e.fonts = fonts
		e.ownsFonts = true
	}
	if e.clip == nil {
		e.clip = clipboard.New(config.Clipboard.System)
	}

	e.state = retained.New(
		retained.WithSettings(config.Settings()),
		retained.WithMeasurer(e.fonts),
		retained.WithClipboard(e.clip),
		retained.WithLogger(logger.With("component", "retained")),
	)
	logger.Debug("engine ready",
		"face", config.Font.Face, "clipboard", fmt.Sprintf("%T", e.clip))
	return e, nil
}

// State returns the retained state driven by the engine.
func (e *Engine) State() *retained.State { return e.state }

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.config }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Fonts returns the font cache used for measurement.
func (e *Engine) Fonts() *fontcache.Cache { return e.fonts }

// FrameResult is the outcome of one engine frame.
type FrameResult struct {
	Frame uint64
	// Events left in the queue after the build callback ran.
	Events []retained.Event
	// Widgets pruned because the build did not declare them.
	Removed []retained.WidgetID
	// Differences from the previous frame's snapshot.
	Delta Delta
}

// Frame processes one input frame, runs build and returns the events the
// build left unconsumed together with what changed since the last frame.
// This is the primary API - one call per frame
func (e *Engine) Frame(in retained.InputFrame, build func(s *retained.State)) FrameResult {
	removed := e.state.RunFrame(in, build)
	snap := TakeSnapshot(e.state)
	res := FrameResult{
		Frame:   e.state.Frame(),
		Events:  e.state.Events().DrainAll(),
		Removed: removed,
		Delta:   Diff(e.lastFrame, snap),
	}
	e.lastFrame = snap
	if !res.Delta.IsEmpty() || len(res.Events) > 0 {
		e.logger.Debug("frame",
			"frame", res.Frame,
			"events", len(res.Events),
			"added", len(res.Delta.Added),
			"removed", len(res.Delta.Removed),
			"changed", len(res.Delta.Changed))
	}
	return res
}

// Snapshot returns the state captured at the end of the last frame.
func (e *Engine) Snapshot() Snapshot {
	return e.lastFrame
}

// Close releases the font cache if the engine created it.
func (e *Engine) Close() error {
	if !e.ownsFonts {
		return nil
	}
	return e.fonts.Close()
}
