package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// Operation is one recorded mutating CLI invocation.
type Operation struct {
	ID        int64
	Operation string
	ParentID  string
	Moved     int64
	CreatedAt time.Time
}

// OperationLog records mutating operations so `bfo history` can show what
// happened and when.
type OperationLog struct {
	db    *sql.DB
	clock organizer.Clock
}

// NewOperationLog creates an OperationLog over the given database.
func NewOperationLog(db *sql.DB, clock organizer.Clock) *OperationLog {
	return &OperationLog{db: db, clock: clock}
}

// Record stores one operation and returns its auto-increment ID.
func (l *OperationLog) Record(ctx context.Context, operation, parentID string, moved int) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO operations (operation, parent_id, moved, created_at) VALUES (?, ?, ?, ?)`,
		operation, parentID, moved, l.clock.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("recording operation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading operation id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit operations, newest first.
func (l *OperationLog) Recent(ctx context.Context, limit int) ([]*Operation, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, operation, parent_id, moved, created_at FROM operations ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.ID, &op.Operation, &op.ParentID, &op.Moved, &op.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	return ops, nil
}
