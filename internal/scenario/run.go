package scenario

import (
	"context"
	"fmt"

	"github.com/agiangrant/ctdcore"
	"github.com/agiangrant/ctdcore/retained"
)

// Record is one event observed during playback.
type Record struct {
	Frame  uint64            `json:"frame"`
	Event  string            `json:"event"`
	ID     retained.WidgetID `json:"id"`
	Detail string            `json:"detail,omitempty"`
}

// Result is the outcome of a playback.
type Result struct {
	Name    string              `json:"name"`
	Frames  int                 `json:"frames"`
	Events  []Record            `json:"events"`
	Removed []retained.WidgetID `json:"removed,omitempty"`
	Final   ctdcore.Snapshot    `json:"final"`
}

// Run plays the scenario against e and collects every event the frames
// produce. The context is checked between frames.
func (sc *Scenario) Run(ctx context.Context, e *ctdcore.Engine) (*Result, error) {
	res := &Result{Name: sc.Name}
	var (
		x, y    float32
		down    bool
		widgets []Widget
	)
	for i, f := range sc.Frames {
		if f.Widgets != nil {
			widgets = f.Widgets
		}
		if f.Input.X != nil {
			x = *f.Input.X
		}
		if f.Input.Y != nil {
			y = *f.Input.Y
		}
		build := func(s *retained.State) {
			for _, w := range widgets {
				w.declare(s)
			}
			for _, a := range f.Actions {
				a.apply(s)
			}
		}
		for rep, reps := 0, max(f.Repeat, 1); rep < reps; rep++ {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("frame %d: %w", i, err)
			}
			in := retained.PointerInput(x, y, down, f.Input.Down)
			in.ScrollX = f.Input.ScrollX
			in.ScrollY = f.Input.ScrollY
			in.Text = f.Input.Text
			in.Keys = f.Input.keys()
			in.Copy = f.Input.Copy
			in.Paste = f.Input.Paste
			down = f.Input.Down

			fr := e.Frame(in, build)
			res.Frames++
			res.Removed = append(res.Removed, fr.Removed...)
			for _, ev := range fr.Events {
				res.Events = append(res.Events, Record{
					Frame:  fr.Frame,
					Event:  retained.EventName(ev),
					ID:     ev.WidgetID(),
					Detail: detail(ev),
				})
			}
		}
	}
	res.Final = e.Snapshot()
	e.Logger().Info("scenario finished",
		"name", sc.Name, "frames", res.Frames, "events", len(res.Events))
	return res, nil
}

func detail(ev retained.Event) string {
	switch ev := ev.(type) {
	case retained.ButtonClicked:
		return ""
	case retained.CheckboxChanged:
		return fmt.Sprintf("checked=%t", ev.Checked)
	case retained.RadioButtonChanged:
		return fmt.Sprintf("group=%s", ev.Group)
	case retained.SliderChanged:
		return fmt.Sprintf("value=%g", ev.Value)
	case retained.TextBoxChanged:
		return fmt.Sprintf("text=%q", ev.Text)
	case retained.ComboBoxChanged:
		return fmt.Sprintf("index=%d text=%q", ev.Index, ev.Text)
	default:
		return ""
	}
}
