package main

// version is one full diff result from one request/response round. The
// segment sequence itself is fixed once created; only accepted flags (and
// insert text, via edits on the latest version) change afterwards.
type version struct {
	Original string
	Segments []segment
}

// editHistory is the linear, append-only version log of one editing session.
// Current is a cursor into the log; -1 means no version yet. Only the latest
// version accepts decision changes, older ones stay browsable read-only.
type editHistory struct {
	Versions []version
	Current  int
}

func newEditHistory() *editHistory {
	return &editHistory{Current: -1}
}

func (h *editHistory) Len() int {
	return len(h.Versions)
}

func (h *editHistory) Empty() bool {
	return len(h.Versions) == 0
}

// Append records a new version and moves the cursor to it.
func (h *editHistory) Append(v version) {
	h.Versions = append(h.Versions, v)
	h.Current = len(h.Versions) - 1
}

// CurrentVersion returns the version under the cursor, or nil when empty.
func (h *editHistory) CurrentVersion() *version {
	if h.Current < 0 || h.Current >= len(h.Versions) {
		return nil
	}
	return &h.Versions[h.Current]
}

func (h *editHistory) LatestVersion() *version {
	if len(h.Versions) == 0 {
		return nil
	}
	return &h.Versions[len(h.Versions)-1]
}

// OnLatest reports whether the cursor points at the newest version.
func (h *editHistory) OnLatest() bool {
	return len(h.Versions) > 0 && h.Current == len(h.Versions)-1
}

// Navigate moves the cursor by delta, clamped to the log bounds. Out-of-range
// moves are ignored.
func (h *editHistory) Navigate(delta int) bool {
	if len(h.Versions) == 0 {
		return false
	}
	next := h.Current + delta
	if next < 0 || next >= len(h.Versions) {
		return false
	}
	h.Current = next
	return true
}

// SetAccepted applies an accept or reject decision to the unit's segments in
// the version under the cursor. Decisions are only allowed on the latest
// version; anywhere else the call is a no-op.
func (h *editHistory) SetAccepted(unit renderUnit, accepted bool) bool {
	if !h.OnLatest() || !unit.Interactive {
		return false
	}
	segments := h.Versions[h.Current].Segments
	for _, idx := range unit.indices() {
		if idx < 0 || idx >= len(segments) {
			return false
		}
		if !segments[idx].changeable() {
			return false
		}
	}
	for _, idx := range unit.indices() {
		segments[idx].Accepted = accepted
	}
	return true
}

// SetInsertText replaces the text of an insert segment on the latest
// version. Equal and delete text never changes.
func (h *editHistory) SetInsertText(index int, text string) bool {
	if !h.OnLatest() {
		return false
	}
	segments := h.Versions[h.Current].Segments
	if index < 0 || index >= len(segments) || segments[index].Kind != segmentInsert {
		return false
	}
	segments[index].Text = text
	return true
}

// Clear discards all versions and resets the cursor. Called after a
// successful apply so no state leaks into the next session.
func (h *editHistory) Clear() {
	h.Versions = nil
	h.Current = -1
}
