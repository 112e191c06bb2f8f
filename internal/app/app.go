package app

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/bookmarks"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/config"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/database"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/encryption"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/kvstore"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// App is the application layer between the CLI and OrganizerService. It
// constructs all dependencies from config, exposes high-level operations, and
// manages the DB lifecycle on Close.
type App struct {
	cfg       *config.Config
	db        *sql.DB
	tree      *bookmarks.SQLiteTree
	kv        organizer.KeyValue
	backups   *organizer.BackupStore
	prefs     *organizer.Preferences
	encryptor organizer.Encryptor
	service   *organizer.OrganizerService
	ops       *database.OperationLog
	logger    organizer.Logger
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Reorder", "Revert");
// it stamps every log line of this invocation.
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, operation string) (*App, error) {
	db, err := database.Open(cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("opening bookmark store: %w", err)
	}

	kv, err := kvstore.NewStoreFromConfig(ctx, cfg.Backups)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating backups store: %w", err)
	}

	encryptor, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	clock := organizer.RealClock{}
	tree := bookmarks.NewSQLiteTree(db)
	backups := organizer.NewBackupStore(kv, clock, encryptor, logger)

	return &App{
		cfg:       cfg,
		db:        db,
		tree:      tree,
		kv:        kv,
		backups:   backups,
		prefs:     organizer.NewPreferences(kv),
		encryptor: encryptor,
		service:   organizer.NewOrganizerService(tree, backups, logger),
		ops:       database.NewOperationLog(db, clock),
		logger:    logger,
		logFile:   logFile,
	}, nil
}

// Preview computes the move plan for a folder without mutating anything.
func (a *App) Preview(ctx context.Context, parentID string) (*organizer.ReorderPlan, error) {
	return a.service.Preview(ctx, parentID)
}

// Reorder applies a timestamp reorder to a folder and records the operation.
// The operation is recorded even when the move sequence fails partway, so the
// history reflects the partial mutation.
func (a *App) Reorder(ctx context.Context, parentID string) (*organizer.ReorderResult, error) {
	result, err := a.service.Reorder(ctx, parentID)

	if result != nil && (err == nil || result.Moved > 0) {
		if _, recErr := a.ops.Record(ctx, "Reorder", parentID, result.Moved); recErr != nil {
			a.logger.Warn("recording operation failed", "error", recErr)
		}
	}

	return result, err
}

// Revert restores a folder's saved ordering and records the operation.
// dec is required when backups are encrypted; pass nil otherwise.
func (a *App) Revert(ctx context.Context, parentID string, dec organizer.DecryptionContext) (int, error) {
	restored, err := a.service.Revert(ctx, parentID, dec)
	if err != nil {
		return restored, err
	}

	if _, recErr := a.ops.Record(ctx, "Revert", parentID, restored); recErr != nil {
		a.logger.Warn("recording operation failed", "error", recErr)
	}
	return restored, nil
}

// Import loads a Firefox bookmarks export file into the tree store.
// When fresh is true, existing nodes are cleared first.
func (a *App) Import(ctx context.Context, path string, fresh bool) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening export file: %w", err)
	}
	defer f.Close()

	importer := bookmarks.NewImporter(a.tree, organizer.UUIDGenerator{}, a.logger)
	count, err := importer.Import(ctx, f, fresh)
	if err != nil {
		return count, fmt.Errorf("importing bookmarks: %w", err)
	}

	if _, recErr := a.ops.Record(ctx, "Import", "", count); recErr != nil {
		a.logger.Warn("recording operation failed", "error", recErr)
	}
	return count, nil
}

// FullTree returns the whole bookmark tree.
func (a *App) FullTree(ctx context.Context) ([]organizer.FolderRecord, error) {
	return a.tree.FullTree(ctx)
}

// Resolve returns the record with the given ID, or nil if it does not exist.
func (a *App) Resolve(ctx context.Context, id string) (*organizer.FolderRecord, error) {
	return a.tree.Resolve(ctx, id)
}

// Backups returns all stored snapshots keyed by parent ID.
func (a *App) Backups(ctx context.Context) (map[string]organizer.Snapshot, error) {
	return a.backups.List(ctx)
}

// HasBackup reports whether a snapshot is stored for parentID.
func (a *App) HasBackup(ctx context.Context, parentID string) bool {
	return a.service.HasBackup(ctx, parentID)
}

// History returns up to limit recorded operations, newest first.
func (a *App) History(ctx context.Context, limit int) ([]*database.Operation, error) {
	return a.ops.Recent(ctx, limit)
}

// DateFormat returns the configured display layout for timestamps, falling
// back to the ISO layout when none is set.
func (a *App) DateFormat(ctx context.Context) string {
	if layout, ok := a.prefs.Get(ctx, organizer.PrefDateFormat); ok {
		return layout
	}
	return organizer.LayoutISO
}

// SetDateFormat stores the display layout preference. The layout must be one
// of the supported values; the formatter itself still falls back silently at
// render time.
func (a *App) SetDateFormat(ctx context.Context, layout string) error {
	switch layout {
	case organizer.LayoutISO, organizer.LayoutDayFirst, organizer.LayoutMonthFirst:
	default:
		return fmt.Errorf("unsupported layout %q (use %q, %q, or %q)",
			layout, organizer.LayoutISO, organizer.LayoutDayFirst, organizer.LayoutMonthFirst)
	}
	return a.prefs.Set(ctx, organizer.PrefDateFormat, layout)
}

// Preferences returns every stored preference.
func (a *App) Preferences(ctx context.Context) (map[string]string, error) {
	return a.prefs.All(ctx)
}

// Encryptor exposes the configured encryptor, or nil when backups are plaintext.
func (a *App) Encryptor() organizer.Encryptor {
	return a.encryptor
}

// BackupsEncrypted reports whether stored backups need an unlocked key to revert.
func (a *App) BackupsEncrypted() bool {
	return a.encryptor != nil && a.encryptor.IsConfigured()
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var firstErr error

	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
