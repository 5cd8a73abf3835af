package session

import "github.com/piwi3910/CircuitSizer/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the room list at a point in time.
type Snapshot struct {
	Rooms []model.Room `json:"rooms"`
	Label string       `json:"label"` // Human-readable description (e.g. "Add Cozinha")
}

// History manages undo/redo stacks of room list snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// restoreHistory rebuilds a History from persisted stacks.
func restoreHistory(undo, redo []Snapshot) *History {
	h := NewHistory()
	h.undoStack = undo
	h.redoStack = redo
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	return h
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// Call it before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo stack
// under the popped label. It returns false when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	current.Label = last.Label
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent redo snapshot and pushes current onto the undo
// stack under the popped label. It returns false when there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	current.Label = last.Label
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// MakeSnapshot creates a snapshot holding a deep copy of rooms.
func MakeSnapshot(rooms []model.Room, label string) Snapshot {
	return Snapshot{
		Rooms: model.CloneRooms(rooms),
		Label: label,
	}
}
