package organizer

import (
	"context"
	"time"
)

// FolderRecord is a transient, immutable copy of one node in the external
// bookmark tree. Position is the zero-based rank among the node's siblings;
// the external store keeps sibling positions contiguous.
type FolderRecord struct {
	ID       string
	Title    string
	ParentID string
	Position int
	URL      string // non-empty for leaf bookmarks; folders carry none
	AddedAt  time.Time
	Children []FolderRecord // populated by FullTree only
}

// IsBookmark reports whether the record is a leaf bookmark rather than a folder.
func (r FolderRecord) IsBookmark() bool { return r.URL != "" }

// MoveInstruction relocates one record to a specific parent and position.
// Instructions are ephemeral: produced by the ordering planner or the revert
// procedure and consumed immediately by the tree's Move.
type MoveInstruction struct {
	RecordID string
	ParentID string
	Position int
}

// FolderTree is the external hierarchical bookmark store. Moves are the sole
// mutation primitive; the store renumbers sibling positions so they stay
// contiguous after every move.
type FolderTree interface {
	// FullTree returns the root records with Children populated recursively.
	FullTree(ctx context.Context) ([]FolderRecord, error)

	// Children returns the ordered child records of parentID.
	Children(ctx context.Context, parentID string) ([]FolderRecord, error)

	// Resolve returns the record with the given ID, or nil if it does not exist.
	Resolve(ctx context.Context, id string) (*FolderRecord, error)

	// Move relocates a record. The record is removed from its current slot and
	// inserted at the instruction's position (clamped to the sibling count).
	Move(ctx context.Context, move MoveInstruction) error
}
