package organizer_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/testutil"
)

// records builds folder records under parent "p" with positions matching the
// slice order.
func records(titles ...string) []organizer.FolderRecord {
	recs := make([]organizer.FolderRecord, len(titles))
	for i, title := range titles {
		recs[i] = organizer.FolderRecord{
			ID:       fmt.Sprintf("rec-%d", i),
			Title:    title,
			ParentID: "p",
			Position: i,
		}
	}
	return recs
}

func TestComputeReorder(t *testing.T) {
	t.Run("sorts newest first and moves the rest", func(t *testing.T) {
		t.Parallel()
		recs := records(
			"saved-2025-01-01T00:00:00Z",
			"saved-2025-12-31T23:59:59Z",
			"saved-2025-06-15T12:00:00Z",
		)

		plan, err := organizer.ComputeReorder(recs)
		if err != nil {
			t.Fatalf("ComputeReorder() error = %v", err)
		}

		wantOrder := []string{"rec-1", "rec-2", "rec-0"}
		for i, want := range wantOrder {
			if plan.Target[i].ID != want {
				t.Errorf("Target[%d] = %s, want %s", i, plan.Target[i].ID, want)
			}
		}

		// All three records change position.
		if plan.Moved != 3 {
			t.Errorf("Moved = %d, want 3", plan.Moved)
		}
	})

	t.Run("empty input fails with NoRecords", func(t *testing.T) {
		t.Parallel()
		_, err := organizer.ComputeReorder(nil)
		if !errors.Is(err, organizer.ErrNoRecords) {
			t.Errorf("ComputeReorder(nil) error = %v, want ErrNoRecords", err)
		}
	})

	t.Run("no timestamped records fails", func(t *testing.T) {
		t.Parallel()
		_, err := organizer.ComputeReorder(records("news", "work", "recipes"))
		if !errors.Is(err, organizer.ErrNoTimestampedRecords) {
			t.Errorf("ComputeReorder() error = %v, want ErrNoTimestampedRecords", err)
		}
	})

	t.Run("already sorted input yields zero moves", func(t *testing.T) {
		t.Parallel()
		recs := records(
			"saved-2025-12-31T23:59:59Z",
			"saved-2025-06-15T12:00:00Z",
			"saved-2025-01-01T00:00:00Z",
			"untimestamped",
		)

		plan, err := organizer.ComputeReorder(recs)
		if err != nil {
			t.Fatalf("ComputeReorder() error = %v", err)
		}
		if plan.Moved != 0 {
			t.Errorf("Moved = %d, want 0", plan.Moved)
		}
		if len(plan.Instructions) != 0 {
			t.Errorf("Instructions = %v, want none", plan.Instructions)
		}
	})

	t.Run("equal timestamps keep their original relative order", func(t *testing.T) {
		t.Parallel()
		recs := records(
			"a-2025-06-15T12:00:00Z",
			"b-2025-06-15T12:00:00Z",
			"c-2025-06-15T12:00:00Z",
		)

		plan, err := organizer.ComputeReorder(recs)
		if err != nil {
			t.Fatalf("ComputeReorder() error = %v", err)
		}
		if plan.Moved != 0 {
			t.Errorf("Moved = %d, want 0 (stable sort must not disturb ties)", plan.Moved)
		}
	})

	t.Run("untimestamped records go last, order unchanged", func(t *testing.T) {
		t.Parallel()
		recs := records(
			"zebra",
			"saved-2025-01-01T00:00:00Z",
			"apple",
			"saved-2025-12-31T23:59:59Z",
		)

		plan, err := organizer.ComputeReorder(recs)
		if err != nil {
			t.Fatalf("ComputeReorder() error = %v", err)
		}

		wantOrder := []string{"rec-3", "rec-1", "rec-0", "rec-2"}
		for i, want := range wantOrder {
			if plan.Target[i].ID != want {
				t.Errorf("Target[%d] = %s, want %s", i, plan.Target[i].ID, want)
			}
		}
	})

	t.Run("instructions are in ascending target order", func(t *testing.T) {
		t.Parallel()
		recs := records(
			"saved-2025-01-01T00:00:00Z",
			"x",
			"saved-2025-12-31T23:59:59Z",
			"y",
		)

		plan, err := organizer.ComputeReorder(recs)
		if err != nil {
			t.Fatalf("ComputeReorder() error = %v", err)
		}
		for i := 1; i < len(plan.Instructions); i++ {
			if plan.Instructions[i-1].Position >= plan.Instructions[i].Position {
				t.Fatalf("instructions out of order: %v", plan.Instructions)
			}
		}
		if plan.Moved != len(plan.Instructions) {
			t.Errorf("Moved = %d, want len(Instructions) = %d", plan.Moved, len(plan.Instructions))
		}
	})

	t.Run("applying the instructions produces the target order", func(t *testing.T) {
		t.Parallel()
		titles := []string{
			"keep",
			"saved-2025-03-01T00:00:00Z",
			"also keep",
			"saved-2025-09-01T00:00:00Z",
			"saved-2025-01-01T00:00:00Z",
		}

		tree := testutil.NewTestTree()
		tree.AddFolder("", "p", "parent")
		for i, title := range titles {
			tree.AddFolder("p", fmt.Sprintf("rec-%d", i), title)
		}

		ctx := context.Background()
		children, err := tree.Children(ctx, "p")
		if err != nil {
			t.Fatalf("Children() error = %v", err)
		}

		plan, err := organizer.ComputeReorder(children)
		if err != nil {
			t.Fatalf("ComputeReorder() error = %v", err)
		}

		// Each move fully committed before the next is issued.
		for _, instr := range plan.Instructions {
			if err := tree.Move(ctx, instr); err != nil {
				t.Fatalf("Move(%v) error = %v", instr, err)
			}
		}

		after, err := tree.Children(ctx, "p")
		if err != nil {
			t.Fatalf("Children() error = %v", err)
		}
		for i := range plan.Target {
			if after[i].ID != plan.Target[i].ID {
				t.Errorf("after[%d] = %s, want %s", i, after[i].ID, plan.Target[i].ID)
			}
		}
	})
}
