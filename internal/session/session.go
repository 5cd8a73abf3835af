// Package session holds the caller-owned room list that accumulates between
// dimensioning runs, with undo/redo and persistence in a key-value store.
package session

import (
	"fmt"
	"sync"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

// Session is an accumulating room list. It is safe for concurrent use.
// Rooms returns copies, so a dimensioning run never sees later edits.
type Session struct {
	mu      sync.Mutex
	id      string
	rooms   []model.Room
	history *History
}

// New creates an empty session.
func New(id string) *Session {
	return &Session{
		id:      id,
		history: NewHistory(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Rooms returns a deep copy of the current room list.
func (s *Session) Rooms() []model.Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.CloneRooms(s.rooms)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Add validates r and appends it to the room list.
func (s *Session) Add(r model.Room) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("invalid room %q: %w", r.Name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Push(MakeSnapshot(s.rooms, "Add "+r.Name))
	s.rooms = append(s.rooms, r.Clone())
	return nil
}

// Clear empties the room list. It can be undone.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rooms) == 0 {
		return
	}
	s.history.Push(MakeSnapshot(s.rooms, "Clear"))
	s.rooms = nil
}

// Undo reverts the last change. It returns the label of the undone change
// and false when there is nothing to undo.
func (s *Session) Undo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Undo(MakeSnapshot(s.rooms, ""))
	if !ok {
		return "", false
	}
	s.rooms = snap.Rooms
	return snap.Label, true
}

// Redo reapplies the last undone change and returns its label.
func (s *Session) Redo() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.history.Redo(MakeSnapshot(s.rooms, ""))
	if !ok {
		return "", false
	}
	s.rooms = snap.Rooms
	return snap.Label, true
}

// CanUndo reports whether there is a change to undo.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether there is an undone change to redo.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// state is the persisted form of a session.
type state struct {
	ID    string       `json:"id"`
	Rooms []model.Room `json:"rooms"`
	Undo  []Snapshot   `json:"undo,omitempty"`
	Redo  []Snapshot   `json:"redo,omitempty"`
}

func (s *Session) snapshotState() state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state{
		ID:    s.id,
		Rooms: model.CloneRooms(s.rooms),
		Undo:  append([]Snapshot(nil), s.history.undoStack...),
		Redo:  append([]Snapshot(nil), s.history.redoStack...),
	}
}

func fromState(st state) *Session {
	return &Session{
		id:      st.ID,
		rooms:   st.Rooms,
		history: restoreHistory(st.Undo, st.Redo),
	}
}
