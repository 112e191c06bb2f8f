package bookmarks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// MemoryTree is an in-memory implementation of the FolderTree interface with
// the same move semantics as the SQLite store: remove, clamp, insert,
// contiguous sibling positions. Safe for concurrent use. Useful for testing.
type MemoryTree struct {
	mu       sync.RWMutex
	nodes    map[string]*memoryNode
	children map[string][]string // parent ID -> ordered child IDs; "" holds roots
}

type memoryNode struct {
	id      string
	title   string
	url     string
	parent  string
	addedAt time.Time
}

// NewMemoryTree creates a new empty in-memory tree.
func NewMemoryTree() *MemoryTree {
	return &MemoryTree{
		nodes:    make(map[string]*memoryNode),
		children: make(map[string][]string),
	}
}

// AddFolder appends a folder at the end of parentID's children.
func (t *MemoryTree) AddFolder(parentID, id, title string) {
	t.add(&memoryNode{id: id, title: title, parent: parentID})
}

// AddBookmark appends a leaf bookmark at the end of parentID's children.
func (t *MemoryTree) AddBookmark(parentID, id, title, url string) {
	t.add(&memoryNode{id: id, title: title, url: url, parent: parentID})
}

func (t *MemoryTree) add(n *memoryNode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nodes[n.id] = n
	t.children[n.parent] = append(t.children[n.parent], n.id)
}

// FullTree returns the root records with Children populated recursively.
func (t *MemoryTree) FullTree(_ context.Context) ([]organizer.FolderRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.assemble(""), nil
}

// assemble builds records for parentID's children recursively. Callers hold the lock.
func (t *MemoryTree) assemble(parentID string) []organizer.FolderRecord {
	ids := t.children[parentID]
	records := make([]organizer.FolderRecord, 0, len(ids))
	for pos, id := range ids {
		rec := t.record(id, pos)
		rec.Children = t.assemble(id)
		records = append(records, rec)
	}
	return records
}

// Children returns the ordered child records of parentID.
func (t *MemoryTree) Children(_ context.Context, parentID string) ([]organizer.FolderRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := t.children[parentID]
	records := make([]organizer.FolderRecord, 0, len(ids))
	for pos, id := range ids {
		records = append(records, t.record(id, pos))
	}
	return records, nil
}

// Resolve returns the record with the given ID, or nil if it does not exist.
func (t *MemoryTree) Resolve(_ context.Context, id string) (*organizer.FolderRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil, nil
	}

	rec := t.record(id, t.position(n))
	return &rec, nil
}

// Move relocates a record: it is removed from its current slot and inserted
// at the instruction's position in the target parent, clamped to the sibling
// count after removal.
func (t *MemoryTree) Move(_ context.Context, m organizer.MoveInstruction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[m.RecordID]
	if !ok {
		return fmt.Errorf("record not found: %s", m.RecordID)
	}

	// Remove from the old parent.
	old := t.children[n.parent]
	for i, id := range old {
		if id == m.RecordID {
			t.children[n.parent] = append(old[:i:i], old[i+1:]...)
			break
		}
	}

	// Insert into the new parent at the clamped position.
	siblings := t.children[m.ParentID]
	pos := m.Position
	if pos < 0 {
		pos = 0
	}
	if pos > len(siblings) {
		pos = len(siblings)
	}

	updated := make([]string, 0, len(siblings)+1)
	updated = append(updated, siblings[:pos]...)
	updated = append(updated, m.RecordID)
	updated = append(updated, siblings[pos:]...)
	t.children[m.ParentID] = updated
	n.parent = m.ParentID

	return nil
}

// record builds a FolderRecord copy for a node. Callers hold the lock.
func (t *MemoryTree) record(id string, pos int) organizer.FolderRecord {
	n := t.nodes[id]
	return organizer.FolderRecord{
		ID:       n.id,
		Title:    n.title,
		ParentID: n.parent,
		Position: pos,
		URL:      n.url,
		AddedAt:  n.addedAt,
	}
}

// position finds a node's index among its siblings. Callers hold the lock.
func (t *MemoryTree) position(n *memoryNode) int {
	for i, id := range t.children[n.parent] {
		if id == n.id {
			return i
		}
	}
	return 0
}

// Compile-time check that MemoryTree implements the FolderTree interface
var _ organizer.FolderTree = (*MemoryTree)(nil)
