package retained

// ============================================================================
// Widget Store
// ============================================================================
//
// Nodes are addressed by caller-supplied ids, not by position in a tree, so
// reconciliation needs no diff: a declaration either finds its node or
// creates it, and anything not declared during a build pass is pruned.

// upsertNode returns the node stored under id if it has type T. Otherwise
// it constructs a node with create, replacing any node of another kind in
// place (its paint-order position is kept, its interaction history is not).
// fresh reports whether the node was just constructed.
func upsertNode[T Node](s *State, id WidgetID, create func() T) (n T, fresh bool) {
	s.seen[id] = struct{}{}

	old, exists := s.nodes[id]
	if exists {
		if t, ok := old.(T); ok {
			return t, false
		}
	}

	n = create()
	if !exists {
		s.order = append(s.order, id)
	} else {
		s.logger.Debug("widget kind replaced",
			"id", id, "from", old.Kind(), "to", n.Kind())
		s.releaseSlots(id)
	}
	s.nodes[id] = n
	return n, true
}

// BeginBuildPass starts a build pass. Every widget must be declared again
// before PruneUnseenWidgets or it is removed.
func (s *State) BeginBuildPass() {
	clear(s.seen)
}

// PruneUnseenWidgets removes every widget not declared since the last
// BeginBuildPass, together with any activation or focus slot and any
// queued event referencing it. It returns the removed ids in paint order.
func (s *State) PruneUnseenWidgets() []WidgetID {
	var removed []WidgetID
	kept := s.order[:0]
	for _, id := range s.order {
		if _, ok := s.seen[id]; ok {
			kept = append(kept, id)
			continue
		}
		removed = append(removed, id)
	}
	for i := len(kept); i < len(s.order); i++ {
		s.order[i] = ""
	}
	s.order = kept

	dropped := 0
	for _, id := range removed {
		delete(s.nodes, id)
		s.releaseSlots(id)
		dropped += s.events.removeWidget(id)
	}
	if len(removed) > 0 {
		s.logger.Debug("pruned widgets",
			"count", len(removed), "events_dropped", dropped, "frame", s.frame)
	}

	s.checkBookkeeping()
	return removed
}

// Remove deletes a widget immediately, outside of a build pass.
func (s *State) Remove(id WidgetID) bool {
	if _, ok := s.nodes[id]; !ok {
		return false
	}
	delete(s.nodes, id)
	delete(s.seen, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.releaseSlots(id)
	s.events.removeWidget(id)
	return true
}

// releaseSlots empties every activation slot and the focus slot holding id.
func (s *State) releaseSlots(id WidgetID) {
	for ch := range s.active {
		if s.active[ch] == id {
			s.active[ch] = ""
		}
	}
	if s.focused == id {
		s.focused = ""
	}
}

// SetEnabled enables or disables a widget out of band. Disabling clears its
// hover, press and changed flags and empties any slot that points at it.
// Unknown ids are ignored.
func (s *State) SetEnabled(id WidgetID, enabled bool) {
	n, ok := s.nodes[id]
	if !ok {
		return
	}
	if c, ok := n.(*Container); ok {
		c.enabled = &enabled
		if !enabled {
			c.Hovered = false
		}
		return
	}
	s.applyEnabled(id, n, enabled)
}

// applyEnabled sets the enabled flag of an interactive node, resetting its
// interaction state on a transition to disabled.
func (s *State) applyEnabled(id WidgetID, n Node, enabled bool) {
	in := interaction(n)
	if in == nil {
		return
	}
	wasEnabled := in.Enabled
	in.Enabled = enabled
	if enabled {
		return
	}
	if wasEnabled {
		resetInteraction(n)
	}
	s.releaseSlots(id)
}

// forEach calls fn for every node in paint order.
func (s *State) forEach(fn func(id WidgetID, n Node)) {
	for _, id := range s.order {
		fn(id, s.nodes[id])
	}
}

// forEachReverse calls fn for every node from topmost to bottom-most until
// fn returns false.
func (s *State) forEachReverse(fn func(id WidgetID, n Node) bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		if !fn(id, s.nodes[id]) {
			return
		}
	}
}
