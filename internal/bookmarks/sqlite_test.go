package bookmarks_test

import (
	"context"
	"testing"
	"time"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/bookmarks"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/config"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/database"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// newSQLiteTree opens a migrated in-memory database seeded with a parent and
// three folder children a, b, c.
func newSQLiteTree(t *testing.T) *bookmarks.SQLiteTree {
	t.Helper()

	db, err := database.Open(config.StoreConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tree := bookmarks.NewSQLiteTree(db)
	ctx := context.Background()
	for _, rec := range []organizer.FolderRecord{
		{ID: "p", Title: "parent"},
		{ID: "a", ParentID: "p", Title: "alpha"},
		{ID: "b", ParentID: "p", Title: "beta"},
		{ID: "c", ParentID: "p", Title: "gamma"},
	} {
		if err := tree.Create(ctx, rec); err != nil {
			t.Fatalf("seeding %s: %v", rec.ID, err)
		}
	}
	return tree
}

func TestSQLiteTree(t *testing.T) {
	t.Run("create appends at the end of the parent", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)

		children, err := tree.Children(context.Background(), "p")
		if err != nil {
			t.Fatalf("Children() error = %v", err)
		}
		assertOrder(t, order(t, tree, "p"), []string{"a", "b", "c"})
		for i, c := range children {
			if c.Position != i {
				t.Errorf("Position of %s = %d, want %d", c.ID, c.Position, i)
			}
		}
	})

	t.Run("resolve returns the record or nil", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)
		ctx := context.Background()

		rec, err := tree.Resolve(ctx, "b")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if rec == nil || rec.Position != 1 || rec.ParentID != "p" {
			t.Errorf("record = %+v, want position 1 under p", rec)
		}

		rec, err = tree.Resolve(ctx, "ghost")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if rec != nil {
			t.Errorf("Resolve(ghost) = %+v, want nil", rec)
		}
	})

	t.Run("move renumbers siblings contiguously", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)
		ctx := context.Background()

		err := tree.Move(ctx, organizer.MoveInstruction{RecordID: "a", ParentID: "p", Position: 2})
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		assertOrder(t, order(t, tree, "p"), []string{"b", "c", "a"})

		children, err := tree.Children(ctx, "p")
		if err != nil {
			t.Fatalf("Children() error = %v", err)
		}
		for i, c := range children {
			if c.Position != i {
				t.Errorf("Position of %s = %d, want %d", c.ID, c.Position, i)
			}
		}
	})

	t.Run("move to the same slot is a no-op", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)

		err := tree.Move(context.Background(), organizer.MoveInstruction{RecordID: "b", ParentID: "p", Position: 1})
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		assertOrder(t, order(t, tree, "p"), []string{"a", "b", "c"})
	})

	t.Run("move position is clamped to the sibling count", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)

		err := tree.Move(context.Background(), organizer.MoveInstruction{RecordID: "a", ParentID: "p", Position: 50})
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		assertOrder(t, order(t, tree, "p"), []string{"b", "c", "a"})
	})

	t.Run("move across parents renumbers both sides", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)
		ctx := context.Background()

		if err := tree.Create(ctx, organizer.FolderRecord{ID: "q", Title: "other"}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		err := tree.Move(ctx, organizer.MoveInstruction{RecordID: "b", ParentID: "q", Position: 0})
		if err != nil {
			t.Fatalf("Move() error = %v", err)
		}

		assertOrder(t, order(t, tree, "p"), []string{"a", "c"})
		assertOrder(t, order(t, tree, "q"), []string{"b"})

		children, err := tree.Children(ctx, "p")
		if err != nil {
			t.Fatalf("Children() error = %v", err)
		}
		for i, c := range children {
			if c.Position != i {
				t.Errorf("Position of %s = %d, want %d after the gap closed", c.ID, c.Position, i)
			}
		}
	})

	t.Run("moving an unknown record fails", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)

		err := tree.Move(context.Background(), organizer.MoveInstruction{RecordID: "ghost", ParentID: "p", Position: 0})
		if err == nil {
			t.Error("Move() error = nil, want record not found")
		}
	})

	t.Run("full tree nests children and keeps added_at", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)
		ctx := context.Background()

		added := time.Date(2024, 11, 2, 8, 0, 0, 0, time.UTC)
		err := tree.Create(ctx, organizer.FolderRecord{
			ID: "link", ParentID: "a", Title: "a link", URL: "https://example.com", AddedAt: added,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		roots, err := tree.FullTree(ctx)
		if err != nil {
			t.Fatalf("FullTree() error = %v", err)
		}
		if len(roots) != 1 || roots[0].ID != "p" {
			t.Fatalf("roots = %v, want the single parent", roots)
		}
		link := roots[0].Children[0].Children[0]
		if link.ID != "link" || !link.IsBookmark() {
			t.Fatalf("nested bookmark missing: %+v", link)
		}
		if !link.AddedAt.Equal(added) {
			t.Errorf("AddedAt = %v, want %v", link.AddedAt, added)
		}
	})

	t.Run("clear empties the store", func(t *testing.T) {
		t.Parallel()
		tree := newSQLiteTree(t)
		ctx := context.Background()

		if err := tree.Clear(ctx); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		roots, err := tree.FullTree(ctx)
		if err != nil {
			t.Fatalf("FullTree() error = %v", err)
		}
		if len(roots) != 0 {
			t.Errorf("roots = %v, want empty after clear", roots)
		}
	})
}
