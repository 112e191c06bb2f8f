package organizer

import (
	"context"
	"sort"
)

// OrganizerService coordinates the ordering engine, the backup store, and the
// external bookmark tree to perform reorder and revert operations on one
// folder level at a time.
//
// Moves are applied strictly in the order emitted, each awaited to completion
// before the next is issued: every instruction's target position assumes the
// prior moves have already landed in the store. The service must not be
// invoked concurrently for the same parent; mutual exclusion is the caller's
// responsibility.
type OrganizerService struct {
	tree    FolderTree
	backups *BackupStore
	logger  Logger
}

// NewOrganizerService creates a new OrganizerService with the provided dependencies.
func NewOrganizerService(tree FolderTree, backups *BackupStore, logger Logger) *OrganizerService {
	return &OrganizerService{
		tree:    tree,
		backups: backups,
		logger:  logger,
	}
}

// ReorderResult summarizes an applied (or attempted) reorder.
type ReorderResult struct {
	Planned  int  // instructions the plan contained
	Moved    int  // instructions committed by the external store
	BackedUp bool // whether a safety snapshot was written
}

// Preview computes the move plan for parentID without saving a backup or
// mutating the tree.
func (s *OrganizerService) Preview(ctx context.Context, parentID string) (*ReorderPlan, error) {
	if err := s.checkParent(ctx, parentID); err != nil {
		return nil, err
	}

	folders, err := s.folderChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}

	return ComputeReorder(folders)
}

// Reorder plans and applies a reorder of parentID's folder children, newest
// timestamp first. The pre-move ordering is saved to the backup store before
// any move is issued; a backup write failure aborts the whole operation. A
// rejected move aborts the remaining sequence and surfaces a MutationError
// carrying the partial moved count.
func (s *OrganizerService) Reorder(ctx context.Context, parentID string) (*ReorderResult, error) {
	if err := s.checkParent(ctx, parentID); err != nil {
		return nil, err
	}

	folders, err := s.folderChildren(ctx, parentID)
	if err != nil {
		return nil, err
	}

	plan, err := ComputeReorder(folders)
	if err != nil {
		return nil, err
	}

	if plan.Moved == 0 {
		s.logger.Info("folder already ordered", "parent", parentID)
		return &ReorderResult{}, nil
	}

	entries := make([]SnapshotEntry, len(folders))
	for i, f := range folders {
		entries[i] = SnapshotEntry{RecordID: f.ID, Position: f.Position}
	}
	if err := s.backups.Save(ctx, parentID, entries); err != nil {
		return nil, err
	}

	for i, instr := range plan.Instructions {
		if err := s.tree.Move(ctx, instr); err != nil {
			s.logger.Error("move rejected", "parent", parentID, "record", instr.RecordID, "position", instr.Position, "error", err)
			return &ReorderResult{Planned: plan.Moved, Moved: i, BackedUp: true},
				&MutationError{Instruction: instr, Moved: i, Err: err}
		}
	}

	s.logger.Info("reorder applied", "parent", parentID, "moved", plan.Moved)
	return &ReorderResult{Planned: plan.Moved, Moved: plan.Moved, BackedUp: true}, nil
}

// Revert restores the ordering saved for parentID. Snapshot entries whose
// record no longer exists among the current children are silently dropped.
// Surviving moves are attempted independently in ascending recorded-position
// order: a rejected move is logged and skipped, never aborting the remaining
// moves. Partial restoration is preferred over none. Returns the number of
// records actually moved back.
//
// dec is required when backups are encrypted; pass nil otherwise.
func (s *OrganizerService) Revert(ctx context.Context, parentID string, dec DecryptionContext) (int, error) {
	snap, ok := s.backups.Load(ctx, parentID, dec)
	if !ok {
		return 0, ErrInvalidBackup
	}
	if !validEntries(snap.Entries) {
		return 0, ErrInvalidBackup
	}

	if err := s.checkParent(ctx, parentID); err != nil {
		return 0, err
	}

	children, err := s.tree.Children(ctx, parentID)
	if err != nil {
		return 0, &RetrievalError{Err: err}
	}
	present := make(map[string]bool, len(children))
	for _, c := range children {
		present[c.ID] = true
	}

	var surviving []SnapshotEntry
	for _, e := range snap.Entries {
		if present[e.RecordID] {
			surviving = append(surviving, e)
		}
	}
	if len(surviving) == 0 {
		return 0, ErrNothingToRestore
	}

	sort.SliceStable(surviving, func(i, j int) bool {
		return surviving[i].Position < surviving[j].Position
	})

	restored := 0
	for _, e := range surviving {
		instr := MoveInstruction{RecordID: e.RecordID, ParentID: parentID, Position: e.Position}
		if err := s.tree.Move(ctx, instr); err != nil {
			s.logger.Warn("revert move skipped", "parent", parentID, "record", e.RecordID, "position", e.Position, "error", err)
			continue
		}
		restored++
	}

	s.logger.Info("revert finished", "parent", parentID, "restored", restored, "entries", len(surviving))
	return restored, nil
}

// HasBackup reports whether a snapshot is stored for parentID.
func (s *OrganizerService) HasBackup(ctx context.Context, parentID string) bool {
	return s.backups.Exists(ctx, parentID)
}

// checkParent verifies the parent still exists before operating on it.
func (s *OrganizerService) checkParent(ctx context.Context, parentID string) error {
	parent, err := s.tree.Resolve(ctx, parentID)
	if err != nil {
		return &RetrievalError{Err: err}
	}
	if parent == nil {
		return ErrParentMissing
	}
	return nil
}

// folderChildren fetches the children of parentID with leaf bookmarks
// filtered out; ordering operates on folders only.
func (s *OrganizerService) folderChildren(ctx context.Context, parentID string) ([]FolderRecord, error) {
	children, err := s.tree.Children(ctx, parentID)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	var folders []FolderRecord
	for _, c := range children {
		if c.IsBookmark() {
			continue
		}
		folders = append(folders, c)
	}
	return folders, nil
}

// validEntries checks the snapshot invariants: non-negative positions and
// unique record IDs.
func validEntries(entries []SnapshotEntry) bool {
	if len(entries) == 0 {
		return false
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.RecordID == "" || e.Position < 0 || seen[e.RecordID] {
			return false
		}
		seen[e.RecordID] = true
	}
	return true
}
