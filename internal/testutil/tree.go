package testutil

import (
	"context"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/bookmarks"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// NewTestTree creates a new in-memory folder tree for testing.
func NewTestTree() *bookmarks.MemoryTree {
	return bookmarks.NewMemoryTree()
}

// FlakyTree wraps a FolderTree and rejects moves for selected records.
// Reads pass through untouched.
type FlakyTree struct {
	Inner   organizer.FolderTree
	MoveErr error           // returned for rejected moves
	Reject  map[string]bool // record IDs whose moves fail
}

func (f *FlakyTree) FullTree(ctx context.Context) ([]organizer.FolderRecord, error) {
	return f.Inner.FullTree(ctx)
}

func (f *FlakyTree) Children(ctx context.Context, parentID string) ([]organizer.FolderRecord, error) {
	return f.Inner.Children(ctx, parentID)
}

func (f *FlakyTree) Resolve(ctx context.Context, id string) (*organizer.FolderRecord, error) {
	return f.Inner.Resolve(ctx, id)
}

func (f *FlakyTree) Move(ctx context.Context, m organizer.MoveInstruction) error {
	if f.Reject[m.RecordID] {
		return f.MoveErr
	}
	return f.Inner.Move(ctx, m)
}

var _ organizer.FolderTree = (*FlakyTree)(nil)
