package ctdcore

import (
	"encoding/json"
	"fmt"

	"github.com/agiangrant/ctdcore/retained"
)

// WidgetSnapshot is the observable state of one widget.
type WidgetSnapshot struct {
	ID     retained.WidgetID `json:"id"`
	Bounds retained.Bounds   `json:"bounds"`
	retained.Response
}

// Snapshot lists every widget in paint order.
type Snapshot []WidgetSnapshot

// TakeSnapshot captures the current state of s.
func TakeSnapshot(s *retained.State) Snapshot {
	ids := s.Order()
	snap := make(Snapshot, 0, len(ids))
	for _, id := range ids {
		n, ok := s.Node(id)
		if !ok {
			continue
		}
		snap = append(snap, WidgetSnapshot{
			ID:       id,
			Bounds:   n.Bounds(),
			Response: s.Response(id),
		})
	}
	return snap
}

// Get returns the snapshot of id.
func (s Snapshot) Get(id retained.WidgetID) (WidgetSnapshot, bool) {
	for _, w := range s {
		if w.ID == id {
			return w, true
		}
	}
	return WidgetSnapshot{}, false
}

// ToJSON serializes the snapshot.
func (s Snapshot) ToJSON() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// Delta is the difference between two snapshots.
type Delta struct {
	Added   []retained.WidgetID `json:"added,omitempty"`
	Removed []retained.WidgetID `json:"removed,omitempty"`
	Changed []retained.WidgetID `json:"changed,omitempty"`
}

// IsEmpty returns true if there are no changes
func (d Delta) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff compares two snapshots. Added and Changed follow next's paint
// order, Removed follows prev's.
func Diff(prev, next Snapshot) Delta {
	before := make(map[retained.WidgetID]WidgetSnapshot, len(prev))
	for _, w := range prev {
		before[w.ID] = w
	}
	var d Delta
	seen := make(map[retained.WidgetID]struct{}, len(next))
	for _, w := range next {
		seen[w.ID] = struct{}{}
		old, ok := before[w.ID]
		switch {
		case !ok:
			d.Added = append(d.Added, w.ID)
		case old != w:
			d.Changed = append(d.Changed, w.ID)
		}
	}
	for _, w := range prev {
		if _, ok := seen[w.ID]; !ok {
			d.Removed = append(d.Removed, w.ID)
		}
	}
	return d
}
