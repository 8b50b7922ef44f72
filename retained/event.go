package retained

// ============================================================================
// Event Types
// ============================================================================

// Event is a semantic event produced while applying an input frame.
// The set of implementations is closed: ButtonClicked, CheckboxChanged,
// RadioButtonChanged, SliderChanged, TextBoxChanged and ComboBoxChanged.
type Event interface {
	// WidgetID returns the id of the widget that produced the event.
	WidgetID() WidgetID
	event()
}

// ButtonClicked is pushed on the release edge of a click on a button.
type ButtonClicked struct {
	ID WidgetID
}

// CheckboxChanged carries the new checked state.
type CheckboxChanged struct {
	ID      WidgetID
	Checked bool
}

// RadioButtonChanged is pushed for the newly selected member of a group.
type RadioButtonChanged struct {
	ID    WidgetID
	Group string
}

// SliderChanged carries the new slider value.
type SliderChanged struct {
	ID    WidgetID
	Value float32
}

// TextBoxChanged carries the text after the mutation.
type TextBoxChanged struct {
	ID   WidgetID
	Text string
}

// ComboBoxChanged carries the newly selected index and its text.
type ComboBoxChanged struct {
	ID    WidgetID
	Index int
	Text  string
}

func (e ButtonClicked) WidgetID() WidgetID      { return e.ID }
func (e CheckboxChanged) WidgetID() WidgetID    { return e.ID }
func (e RadioButtonChanged) WidgetID() WidgetID { return e.ID }
func (e SliderChanged) WidgetID() WidgetID      { return e.ID }
func (e TextBoxChanged) WidgetID() WidgetID     { return e.ID }
func (e ComboBoxChanged) WidgetID() WidgetID    { return e.ID }

func (ButtonClicked) event()      {}
func (CheckboxChanged) event()    {}
func (RadioButtonChanged) event() {}
func (SliderChanged) event()      {}
func (TextBoxChanged) event()     {}
func (ComboBoxChanged) event()    {}

// EventName returns a short name for the event's variant.
func EventName(e Event) string {
	switch e.(type) {
	case ButtonClicked:
		return "ButtonClicked"
	case CheckboxChanged:
		return "CheckboxChanged"
	case RadioButtonChanged:
		return "RadioButtonChanged"
	case SliderChanged:
		return "SliderChanged"
	case TextBoxChanged:
		return "TextBoxChanged"
	case ComboBoxChanged:
		return "ComboBoxChanged"
	default:
		return "Unknown"
	}
}

// ============================================================================
// Event Queue
// ============================================================================

// EventQueue is a FIFO buffer of events. Events are appended during input
// processing and consumed by application code.
type EventQueue struct {
	events []Event
}

// Push appends an event.
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// PopFront removes and returns the oldest event.
func (q *EventQueue) PopFront() (Event, bool) {
	if len(q.events) == 0 {
		return nil, false
	}
	e := q.events[0]
	q.events[0] = nil
	q.events = q.events[1:]
	return e, true
}

// DrainAll removes and returns every queued event in order.
func (q *EventQueue) DrainAll() []Event {
	out := q.events
	q.events = nil
	return out
}

// Peek returns a copy of the queued events without consuming them.
func (q *EventQueue) Peek() []Event {
	out := make([]Event, len(q.events))
	copy(out, q.events)
	return out
}

// TakeIf removes and returns the first event matching pred. The relative
// order of the remaining events is preserved.
func (q *EventQueue) TakeIf(pred func(Event) bool) (Event, bool) {
	for i, e := range q.events {
		if pred(e) {
			q.removeAt(i)
			return e, true
		}
	}
	return nil, false
}

// TakeIfMap removes the first event for which extract reports true and
// returns the extracted value.
func TakeIfMap[T any](q *EventQueue, extract func(Event) (T, bool)) (T, bool) {
	for i, e := range q.events {
		if v, ok := extract(e); ok {
			q.removeAt(i)
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Take removes and returns the first event of type T produced by id.
//
//	if ev, ok := retained.Take[retained.SliderChanged](q, "volume"); ok {
//		setVolume(ev.Value)
//	}
func Take[T Event](q *EventQueue, id WidgetID) (T, bool) {
	return TakeIfMap(q, func(e Event) (T, bool) {
		if t, ok := e.(T); ok && e.WidgetID() == id {
			return t, true
		}
		var zero T
		return zero, false
	})
}

func (q *EventQueue) removeAt(i int) {
	copy(q.events[i:], q.events[i+1:])
	q.events[len(q.events)-1] = nil
	q.events = q.events[:len(q.events)-1]
}

// removeWidget drops every queued event produced by id.
func (q *EventQueue) removeWidget(id WidgetID) int {
	kept := q.events[:0]
	removed := 0
	for _, e := range q.events {
		if e.WidgetID() == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(q.events); i++ {
		q.events[i] = nil
	}
	q.events = kept
	return removed
}
