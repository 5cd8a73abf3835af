package session

import (
	"testing"

	"github.com/piwi3910/CircuitSizer/internal/model"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxDepth != defaultMaxDepth {
		t.Errorf("expected maxDepth %d, got %d", defaultMaxDepth, h.maxDepth)
	}
	if h.CanUndo() {
		t.Error("new history should not be undoable")
	}
	if h.CanRedo() {
		t.Error("new history should not be redoable")
	}
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory()

	h.Push(MakeSnapshot(nil, "empty"))
	rooms1 := []model.Room{model.NewRoom("Sala", 3, 4, 127, 127)}
	h.Push(MakeSnapshot(rooms1, "one room"))

	rooms2 := append(model.CloneRooms(rooms1), model.NewRoom("Cozinha", 3, 3, 127, 127))
	current := MakeSnapshot(rooms2, "two rooms")

	restored, ok := h.Undo(current)
	if !ok {
		t.Fatal("undo should succeed")
	}
	if len(restored.Rooms) != 1 || restored.Label != "one room" {
		t.Fatalf("unexpected snapshot after undo: %d rooms, label %q", len(restored.Rooms), restored.Label)
	}
	if !h.CanRedo() {
		t.Fatal("should be able to redo after undo")
	}

	redone, ok := h.Redo(restored)
	if !ok {
		t.Fatal("redo should succeed")
	}
	if len(redone.Rooms) != 2 {
		t.Errorf("expected 2 rooms after redo, got %d", len(redone.Rooms))
	}
	if redone.Label != "one room" {
		t.Errorf("expected redo label %q, got %q", "one room", redone.Label)
	}

	again, ok := h.Undo(redone)
	if !ok {
		t.Fatal("undo after redo should succeed")
	}
	if again.Label != "one room" {
		t.Errorf("expected undo label %q after redo, got %q", "one room", again.Label)
	}
}

func TestHistoryPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(nil, "a"))
	h.Undo(MakeSnapshot(nil, "b"))
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}
	h.Push(MakeSnapshot(nil, "c"))
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestHistoryMaxDepth(t *testing.T) {
	h := NewHistory()
	for i := 0; i < defaultMaxDepth+10; i++ {
		h.Push(MakeSnapshot(nil, "step"))
	}
	if len(h.undoStack) != defaultMaxDepth {
		t.Errorf("expected undo stack capped at %d, got %d", defaultMaxDepth, len(h.undoStack))
	}
}

func TestMakeSnapshotDeepCopies(t *testing.T) {
	r := model.NewRoom("Banheiro", 2, 2, 127, 127)
	r.Device = &model.Device{Name: "Chuveiro", PowerW: 5500, Voltage: 220}
	rooms := []model.Room{r}

	snap := MakeSnapshot(rooms, "copy")
	rooms[0].Name = "changed"
	rooms[0].Device.PowerW = 1

	if snap.Rooms[0].Name != "Banheiro" {
		t.Errorf("snapshot name changed to %q", snap.Rooms[0].Name)
	}
	if snap.Rooms[0].Device.PowerW != 5500 {
		t.Errorf("snapshot device power changed to %.0f", snap.Rooms[0].Device.PowerW)
	}
}
