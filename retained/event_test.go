package retained

import "testing"

func TestEventQueueFIFO(t *testing.T) {
	var q EventQueue
	q.Push(ButtonClicked{ID: "a"})
	q.Push(CheckboxChanged{ID: "b", Checked: true})
	q.Push(ButtonClicked{ID: "c"})

	if q.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", q.Len())
	}
	want := []WidgetID{"a", "b", "c"}
	for _, id := range want {
		e, ok := q.PopFront()
		if !ok || e.WidgetID() != id {
			t.Fatalf("PopFront() = %v, %v, want %s", e, ok, id)
		}
	}
	if _, ok := q.PopFront(); ok {
		t.Error("PopFront() on empty queue returned an event")
	}
}

func TestEventQueueTake(t *testing.T) {
	var q EventQueue
	q.Push(ButtonClicked{ID: "save"})
	q.Push(SliderChanged{ID: "vol", Value: 3})
	q.Push(ButtonClicked{ID: "cancel"})
	q.Push(SliderChanged{ID: "vol", Value: 4})

	if _, ok := Take[ButtonClicked](&q, "vol"); ok {
		t.Error("Take matched an event of another type")
	}
	ev, ok := Take[SliderChanged](&q, "vol")
	if !ok || ev.Value != 3 {
		t.Fatalf("Take[SliderChanged] = %+v, %v, want the oldest", ev, ok)
	}

	got, ok := TakeIfMap(&q, func(e Event) (string, bool) {
		if b, ok := e.(ButtonClicked); ok && b.ID == "cancel" {
			return string(b.ID), true
		}
		return "", false
	})
	if !ok || got != "cancel" {
		t.Errorf("TakeIfMap = %q, %v", got, ok)
	}

	e, ok := q.TakeIf(func(e Event) bool { _, ok := e.(SliderChanged); return ok })
	if !ok || e.(SliderChanged).Value != 4 {
		t.Errorf("TakeIf = %v, %v", e, ok)
	}

	rest := q.DrainAll()
	if len(rest) != 1 || rest[0].WidgetID() != "save" {
		t.Errorf("DrainAll() = %v, want [save]", rest)
	}
	if q.Len() != 0 {
		t.Errorf("Len() = %d after DrainAll", q.Len())
	}
}

func TestEventQueuePeekDoesNotConsume(t *testing.T) {
	var q EventQueue
	q.Push(TextBoxChanged{ID: "t", Text: "x"})
	peeked := q.Peek()
	peeked[0] = nil
	if q.Len() != 1 {
		t.Fatalf("Len() = %d after Peek", q.Len())
	}
	if e, _ := q.PopFront(); e == nil {
		t.Error("Peek result aliases the queue")
	}
}

func TestEventQueueRemoveWidget(t *testing.T) {
	var q EventQueue
	q.Push(ButtonClicked{ID: "a"})
	q.Push(ButtonClicked{ID: "b"})
	q.Push(ComboBoxChanged{ID: "a", Index: 1})
	q.Push(RadioButtonChanged{ID: "c", Group: "g"})

	if n := q.removeWidget("a"); n != 2 {
		t.Errorf("removeWidget(a) = %d, want 2", n)
	}
	rest := q.DrainAll()
	if len(rest) != 2 || rest[0].WidgetID() != "b" || rest[1].WidgetID() != "c" {
		t.Errorf("remaining = %v, want [b c]", rest)
	}
}

func TestEventName(t *testing.T) {
	tests := []struct {
		e    Event
		want string
	}{
		{ButtonClicked{}, "ButtonClicked"},
		{CheckboxChanged{}, "CheckboxChanged"},
		{RadioButtonChanged{}, "RadioButtonChanged"},
		{SliderChanged{}, "SliderChanged"},
		{TextBoxChanged{}, "TextBoxChanged"},
		{ComboBoxChanged{}, "ComboBoxChanged"},
	}
	for _, tt := range tests {
		if got := EventName(tt.e); got != tt.want {
			t.Errorf("EventName(%T) = %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestEventOrderAcrossWidgets(t *testing.T) {
	s := newTestState()
	s.UpsertCheckbox("c", CheckboxSpec{Rect: rect(0, 0, 20, 20)})
	s.UpsertButton("b", ButtonSpec{Rect: rect(0, 30, 100, 20)})

	click(s, 5, 5)
	click(s, 5, 35)
	click(s, 5, 5)

	names := []string{}
	for _, e := range s.Events().DrainAll() {
		names = append(names, EventName(e))
	}
	want := []string{"CheckboxChanged", "ButtonClicked", "CheckboxChanged"}
	if len(names) != len(want) {
		t.Fatalf("events = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, names[i], want[i])
		}
	}
}
