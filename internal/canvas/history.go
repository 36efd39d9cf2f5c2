package canvas

import (
	"cmp"
	"slices"
)

// PixelChange is one recorded write to a single cell.
type PixelChange struct {
	Index  uint32
	Before Color
	After  Color
}

// Stroke is the set of changes made during one drawing session.
type Stroke []PixelChange

// Dedup returns the stroke sorted by index with a single change per cell.
// Each merged change keeps the first Before and the last After, so replaying
// it in either direction is exact.
func (s Stroke) Dedup() Stroke {
	if len(s) == 0 {
		return nil
	}
	sorted := slices.Clone(s)
	slices.SortStableFunc(sorted, func(a, b PixelChange) int {
		return cmp.Compare(a.Index, b.Index)
	})
	out := sorted[:1]
	for _, ch := range sorted[1:] {
		last := &out[len(out)-1]
		if ch.Index == last.Index {
			last.After = ch.After
			continue
		}
		out = append(out, ch)
	}
	return slices.Clip(out)
}

// History is a linear undo/redo log of strokes.
type History struct {
	done      []Stroke
	undone    []Stroke
	pending   Stroke
	recording bool
}

// Begin opens a new pending stroke. New edits invalidate the redo stack.
func (h *History) Begin() {
	h.undone = nil
	h.pending = nil
	h.recording = true
}

// Recording reports whether a stroke is open.
func (h *History) Recording() bool { return h.recording }

// Record appends a change to the pending stroke. It is ignored when no
// stroke is open.
func (h *History) Record(ch PixelChange) {
	if !h.recording {
		return
	}
	h.pending = append(h.pending, ch)
}

// Commit closes the pending stroke, deduplicates it and pushes it onto the
// undo stack. Empty strokes are discarded; the return value reports whether
// anything was pushed.
func (h *History) Commit() bool {
	s := h.pending.Dedup()
	h.pending = nil
	h.recording = false
	if len(s) == 0 {
		return false
	}
	h.Push(s)
	return true
}

// Push appends a completed stroke to the undo stack.
func (h *History) Push(s Stroke) {
	h.done = append(h.done, s)
}

// Undo restores the most recent stroke's Before values into pix.
func (h *History) Undo(pix []Color) bool {
	if len(h.done) == 0 {
		return false
	}
	s := h.done[len(h.done)-1]
	h.done = h.done[:len(h.done)-1]
	for _, ch := range s {
		pix[ch.Index] = ch.Before
	}
	h.undone = append(h.undone, s)
	return true
}

// Redo reapplies the most recently undone stroke's After values into pix.
func (h *History) Redo(pix []Color) bool {
	if len(h.undone) == 0 {
		return false
	}
	s := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	for _, ch := range s {
		pix[ch.Index] = ch.After
	}
	h.done = append(h.done, s)
	return true
}

// Clear drops both stacks and any pending stroke.
func (h *History) Clear() {
	h.done = nil
	h.undone = nil
	h.pending = nil
	h.recording = false
}

// CanUndo reports whether Undo would do anything.
func (h *History) CanUndo() bool { return len(h.done) > 0 }

// CanRedo reports whether Redo would do anything.
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (h *History) Depth() (done, undone int) { return len(h.done), len(h.undone) }
