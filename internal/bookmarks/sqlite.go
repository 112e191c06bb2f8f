package bookmarks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// SQLiteTree implements the FolderTree interface over the nodes table.
// Sibling positions are zero-based and contiguous within a parent; Move
// renumbers them inside a single transaction so they stay that way.
type SQLiteTree struct {
	db *sql.DB
}

// NewSQLiteTree creates a SQLiteTree over an opened, migrated database.
func NewSQLiteTree(db *sql.DB) *SQLiteTree {
	return &SQLiteTree{db: db}
}

const nodeColumns = "id, parent_id, position, title, url, added_at"

// scanNode reads one node row into a FolderRecord.
func scanNode(scan func(dest ...any) error) (organizer.FolderRecord, error) {
	var rec organizer.FolderRecord
	var addedAt sql.NullTime
	if err := scan(&rec.ID, &rec.ParentID, &rec.Position, &rec.Title, &rec.URL, &addedAt); err != nil {
		return rec, err
	}
	if addedAt.Valid {
		rec.AddedAt = addedAt.Time
	}
	return rec, nil
}

// FullTree returns the root records with Children populated recursively.
func (t *SQLiteTree) FullTree(ctx context.Context) ([]organizer.FolderRecord, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes ORDER BY parent_id, position`)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	byParent := map[string][]organizer.FolderRecord{}
	for rows.Next() {
		rec, err := scanNode(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		byParent[rec.ParentID] = append(byParent[rec.ParentID], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	var attach func(parentID string) []organizer.FolderRecord
	attach = func(parentID string) []organizer.FolderRecord {
		children := byParent[parentID]
		for i := range children {
			children[i].Children = attach(children[i].ID)
		}
		return children
	}

	return attach(""), nil
}

// Children returns the ordered child records of parentID.
func (t *SQLiteTree) Children(ctx context.Context, parentID string) ([]organizer.FolderRecord, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE parent_id = ? ORDER BY position`, parentID)
	if err != nil {
		return nil, fmt.Errorf("querying children of %s: %w", parentID, err)
	}
	defer rows.Close()

	var children []organizer.FolderRecord
	for rows.Next() {
		rec, err := scanNode(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning child: %w", err)
		}
		children = append(children, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating children: %w", err)
	}
	return children, nil
}

// Resolve returns the record with the given ID, or nil if it does not exist.
func (t *SQLiteTree) Resolve(ctx context.Context, id string) (*organizer.FolderRecord, error) {
	row := t.db.QueryRowContext(ctx,
		`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	rec, err := scanNode(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolving node %s: %w", id, err)
	}
	return &rec, nil
}

// Move relocates a record to the instruction's parent and position. The
// target position is clamped to the sibling count; sibling positions in both
// the old and new parent are renumbered to stay contiguous. The whole
// operation commits atomically.
func (t *SQLiteTree) Move(ctx context.Context, m organizer.MoveInstruction) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var oldParent string
	var oldPos int
	err = tx.QueryRowContext(ctx,
		`SELECT parent_id, position FROM nodes WHERE id = ?`, m.RecordID).Scan(&oldParent, &oldPos)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("record not found: %s", m.RecordID)
		}
		return fmt.Errorf("locating record %s: %w", m.RecordID, err)
	}

	// Sibling count in the target parent, not counting the record itself.
	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nodes WHERE parent_id = ? AND id != ?`, m.ParentID, m.RecordID).Scan(&count)
	if err != nil {
		return fmt.Errorf("counting siblings: %w", err)
	}

	newPos := m.Position
	if newPos < 0 {
		newPos = 0
	}
	if newPos > count {
		newPos = count
	}

	if m.ParentID == oldParent && newPos == oldPos {
		return tx.Commit()
	}

	// Park the moved row outside the position range, close the gap it leaves,
	// open a slot at the target, then land the row.
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET position = -1 WHERE id = ?`, m.RecordID); err != nil {
		return fmt.Errorf("parking record: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET position = position - 1 WHERE parent_id = ? AND position > ?`,
		oldParent, oldPos); err != nil {
		return fmt.Errorf("closing gap: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET position = position + 1 WHERE parent_id = ? AND position >= ? AND id != ?`,
		m.ParentID, newPos, m.RecordID); err != nil {
		return fmt.Errorf("opening slot: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE nodes SET parent_id = ?, position = ? WHERE id = ?`,
		m.ParentID, newPos, m.RecordID); err != nil {
		return fmt.Errorf("placing record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing move: %w", err)
	}
	return nil
}

// Create appends a record at the end of its parent's children.
func (t *SQLiteTree) Create(ctx context.Context, rec organizer.FolderRecord) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM nodes WHERE parent_id = ?`, rec.ParentID).Scan(&count); err != nil {
		return fmt.Errorf("counting siblings: %w", err)
	}

	var addedAt any
	if !rec.AddedAt.IsZero() {
		addedAt = rec.AddedAt
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO nodes (id, parent_id, position, title, url, added_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ParentID, count, rec.Title, rec.URL, addedAt); err != nil {
		return fmt.Errorf("inserting node %s: %w", rec.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}
	return nil
}

// Clear removes every node. Used by fresh imports.
func (t *SQLiteTree) Clear(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return fmt.Errorf("clearing nodes: %w", err)
	}
	return nil
}

// Compile-time check that SQLiteTree implements the FolderTree interface
var _ organizer.FolderTree = (*SQLiteTree)(nil)
