// Package history implements snapshot-stack undo/redo over the
// annotation object list. Snapshots are full clones; every non-trivial
// mutation records the pre-mutation state and clears redo.
package history

import "github.com/example/snapmark/internal/annotation"

// Status strings surfaced on the editor's status line.
const (
	StatusUndoApplied = "undo applied"
	StatusUndoEmpty   = "undo stack empty"
	StatusRedoApplied = "redo applied"
	StatusRedoEmpty   = "redo stack empty"
)

// Stacks holds the undo and redo snapshot stacks for one session.
type Stacks struct {
	undo [][]annotation.Object
	redo [][]annotation.Object
}

// New returns empty stacks.
func New() *Stacks {
	return &Stacks{}
}

// Record pushes a pre-mutation snapshot to undo and clears redo. It is
// called before the mutation takes effect; selection changes and
// viewport moves never record.
func (s *Stacks) Record(snapshot []annotation.Object) {
	s.undo = append(s.undo, snapshot)
	s.redo = nil
}

// Undo pops the most recent snapshot, moving the current state onto
// redo. It reports the restored snapshot and a status string; ok is
// false when the undo stack is empty.
func (s *Stacks) Undo(current []annotation.Object) (restored []annotation.Object, status string, ok bool) {
	if len(s.undo) == 0 {
		return nil, StatusUndoEmpty, false
	}
	restored = s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, current)
	return restored, StatusUndoApplied, true
}

// Redo is the mirror of Undo.
func (s *Stacks) Redo(current []annotation.Object) (restored []annotation.Object, status string, ok bool) {
	if len(s.redo) == 0 {
		return nil, StatusRedoEmpty, false
	}
	restored = s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, current)
	return restored, StatusRedoApplied, true
}

// DropLastSnapshot removes the most recent undo snapshot. It exists
// for operations that record eagerly and then fail to mutate.
func (s *Stacks) DropLastSnapshot() {
	if len(s.undo) > 0 {
		s.undo = s.undo[:len(s.undo)-1]
	}
}

// UndoDepth returns how many snapshots can be undone.
func (s *Stacks) UndoDepth() int { return len(s.undo) }

// RedoDepth returns how many snapshots can be redone.
func (s *Stacks) RedoDepth() int { return len(s.redo) }

// Clear drops both stacks; used when a session's capture changes.
func (s *Stacks) Clear() {
	s.undo = nil
	s.redo = nil
}
