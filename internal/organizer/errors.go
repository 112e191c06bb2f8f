package organizer

import (
	"errors"
	"fmt"
)

// Planning and revert failures. These are expected outcomes the CLI turns into
// specific user-facing messages, not internal faults.
var (
	// ErrNoRecords means the folder has no child folders to order.
	ErrNoRecords = errors.New("folder has no child folders")

	// ErrNoTimestampedRecords means no child folder title contains a
	// recognizable timestamp.
	ErrNoTimestampedRecords = errors.New("no child folder has a timestamp in its title")

	// ErrInvalidBackup means no usable snapshot exists for the folder.
	ErrInvalidBackup = errors.New("backup snapshot is missing or malformed")

	// ErrParentMissing means the folder itself no longer exists in the tree.
	ErrParentMissing = errors.New("parent folder no longer exists")

	// ErrNothingToRestore means no snapshot entry matches a current child.
	ErrNothingToRestore = errors.New("no backup entry matches the current children")
)

// RetrievalError wraps a failure to read from the external bookmark tree.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("retrieving folder records: %v", e.Err) }
func (e *RetrievalError) Unwrap() error { return e.Err }

// PersistenceError wraps a failure to write the safety backup. A reorder must
// not proceed past this error.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persisting backup: %v", e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// MutationError reports a move rejected by the external store during reorder.
// Moved counts the instructions already committed before the failure, so the
// caller can warn about a partially reordered folder.
type MutationError struct {
	Instruction MoveInstruction
	Moved       int
	Err         error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("moving record %s to position %d (after %d successful moves): %v",
		e.Instruction.RecordID, e.Instruction.Position, e.Moved, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }
