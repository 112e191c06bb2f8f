package organizer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/encryption"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/testutil"
)

func TestBackupStore(t *testing.T) {
	entries := []organizer.SnapshotEntry{
		{RecordID: "a", Position: 0},
		{RecordID: "b", Position: 1},
		{RecordID: "c", Position: 2},
	}

	t.Run("save then load round-trips the entries", func(t *testing.T) {
		t.Parallel()
		clock := testutil.FixedClock()
		store := organizer.NewBackupStore(testutil.NewTestKV(), clock, nil, organizer.NewNopLogger())
		ctx := context.Background()

		if err := store.Save(ctx, "p", entries); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		snap, ok := store.Load(ctx, "p", nil)
		if !ok {
			t.Fatal("Load() ok = false, want true")
		}
		if !snap.CreatedAt.Equal(clock.Now()) {
			t.Errorf("CreatedAt = %v, want %v", snap.CreatedAt, clock.Now())
		}
		if len(snap.Entries) != len(entries) {
			t.Fatalf("got %d entries, want %d", len(snap.Entries), len(entries))
		}
		for i, e := range entries {
			if snap.Entries[i] != e {
				t.Errorf("Entries[%d] = %v, want %v", i, snap.Entries[i], e)
			}
		}
	})

	t.Run("save overwrites the prior snapshot", func(t *testing.T) {
		t.Parallel()
		clock := testutil.FixedClock()
		store := organizer.NewBackupStore(testutil.NewTestKV(), clock, nil, organizer.NewNopLogger())
		ctx := context.Background()

		if err := store.Save(ctx, "p", entries); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		first := clock.Now()
		clock.Advance(time.Hour)

		replacement := []organizer.SnapshotEntry{{RecordID: "z", Position: 0}}
		if err := store.Save(ctx, "p", replacement); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		snap, ok := store.Load(ctx, "p", nil)
		if !ok {
			t.Fatal("Load() ok = false, want true")
		}
		if len(snap.Entries) != 1 || snap.Entries[0].RecordID != "z" {
			t.Errorf("Entries = %v, want the replacement only", snap.Entries)
		}
		if !snap.CreatedAt.After(first) {
			t.Errorf("CreatedAt = %v, want fresh stamp after %v", snap.CreatedAt, first)
		}
	})

	t.Run("snapshots for different parents are independent", func(t *testing.T) {
		t.Parallel()
		store := organizer.NewBackupStore(testutil.NewTestKV(), testutil.FixedClock(), nil, organizer.NewNopLogger())
		ctx := context.Background()

		if err := store.Save(ctx, "p1", entries); err != nil {
			t.Fatalf("Save(p1) error = %v", err)
		}
		if err := store.Save(ctx, "p2", entries[:1]); err != nil {
			t.Fatalf("Save(p2) error = %v", err)
		}

		snap, ok := store.Load(ctx, "p1", nil)
		if !ok || len(snap.Entries) != 3 {
			t.Errorf("Load(p1) = %v, %v; want 3 entries", snap, ok)
		}
		snap, ok = store.Load(ctx, "p2", nil)
		if !ok || len(snap.Entries) != 1 {
			t.Errorf("Load(p2) = %v, %v; want 1 entry", snap, ok)
		}
	})

	t.Run("missing snapshot loads as absent and exists false", func(t *testing.T) {
		t.Parallel()
		store := organizer.NewBackupStore(testutil.NewTestKV(), testutil.FixedClock(), nil, organizer.NewNopLogger())
		ctx := context.Background()

		if _, ok := store.Load(ctx, "nope", nil); ok {
			t.Error("Load() ok = true, want false")
		}
		if store.Exists(ctx, "nope") {
			t.Error("Exists() = true, want false")
		}
	})

	t.Run("read failures are swallowed as absent", func(t *testing.T) {
		t.Parallel()
		kv := &testutil.FailingKV{Inner: testutil.NewTestKV(), GetErr: errors.New("disk gone")}
		store := organizer.NewBackupStore(kv, testutil.FixedClock(), nil, organizer.NewNopLogger())
		ctx := context.Background()

		if _, ok := store.Load(ctx, "p", nil); ok {
			t.Error("Load() ok = true, want false on read failure")
		}
		if store.Exists(ctx, "p") {
			t.Error("Exists() = true, want false on read failure")
		}
	})

	t.Run("write failure is a PersistenceError", func(t *testing.T) {
		t.Parallel()
		kv := &testutil.FailingKV{Inner: testutil.NewTestKV(), SetErr: errors.New("quota exceeded")}
		store := organizer.NewBackupStore(kv, testutil.FixedClock(), nil, organizer.NewNopLogger())

		err := store.Save(context.Background(), "p", entries)
		var perr *organizer.PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("Save() error = %v, want PersistenceError", err)
		}
	})

	t.Run("encrypted snapshots round-trip through unlock", func(t *testing.T) {
		t.Parallel()
		enc := encryption.NewTestEncryptor()
		store := organizer.NewBackupStore(testutil.NewTestKV(), testutil.FixedClock(), enc, organizer.NewNopLogger())
		ctx := context.Background()

		if err := store.Save(ctx, "p", entries); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		// Without an unlocked key the snapshot is unreadable.
		if _, ok := store.Load(ctx, "p", nil); ok {
			t.Error("Load() without decryption context ok = true, want false")
		}
		// But it still exists.
		if !store.Exists(ctx, "p") {
			t.Error("Exists() = false, want true")
		}

		dec, err := enc.Unlock("")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		snap, ok := store.Load(ctx, "p", dec)
		if !ok {
			t.Fatal("Load() with decryption context ok = false, want true")
		}
		if len(snap.Entries) != len(entries) {
			t.Fatalf("got %d entries, want %d", len(snap.Entries), len(entries))
		}
	})
}

func TestPreferences(t *testing.T) {
	t.Run("set then get round-trips", func(t *testing.T) {
		t.Parallel()
		prefs := organizer.NewPreferences(testutil.NewTestKV())
		ctx := context.Background()

		if err := prefs.Set(ctx, organizer.PrefDateFormat, organizer.LayoutDayFirst); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		got, ok := prefs.Get(ctx, organizer.PrefDateFormat)
		if !ok || got != organizer.LayoutDayFirst {
			t.Errorf("Get() = %q, %v; want %q, true", got, ok, organizer.LayoutDayFirst)
		}
	})

	t.Run("missing preference yields ok false", func(t *testing.T) {
		t.Parallel()
		prefs := organizer.NewPreferences(testutil.NewTestKV())

		if _, ok := prefs.Get(context.Background(), "unset"); ok {
			t.Error("Get() ok = true, want false")
		}
	})

	t.Run("set preserves other preferences", func(t *testing.T) {
		t.Parallel()
		prefs := organizer.NewPreferences(testutil.NewTestKV())
		ctx := context.Background()

		if err := prefs.Set(ctx, "one", "1"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		if err := prefs.Set(ctx, "two", "2"); err != nil {
			t.Fatalf("Set() error = %v", err)
		}

		all, err := prefs.All(ctx)
		if err != nil {
			t.Fatalf("All() error = %v", err)
		}
		if all["one"] != "1" || all["two"] != "2" {
			t.Errorf("All() = %v, want both preferences", all)
		}
	})
}
