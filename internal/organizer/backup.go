package organizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Keys the store occupies in the KeyValue collaborator. All snapshots live in
// one document under backupsKey; display preferences live under preferencesKey.
const (
	backupsKey     = "backups"
	preferencesKey = "preferences"
)

// SnapshotEntry records one child's position before a reorder.
type SnapshotEntry struct {
	RecordID string `json:"record_id"`
	Position int    `json:"position"`
}

// Snapshot is the saved pre-reorder ordering for one parent folder. Exactly
// one of Entries and Payload is set: Payload carries the age-encrypted entries
// JSON when backup encryption is configured.
type Snapshot struct {
	CreatedAt time.Time       `json:"created_at"`
	Entries   []SnapshotEntry `json:"entries,omitempty"`
	Payload   []byte          `json:"payload,omitempty"`
}

// BackupStore persists pre-reorder snapshots keyed by parent folder ID, as a
// thin schema over the KeyValue collaborator. A new save for a parent
// overwrites the prior snapshot; there is no history stack, so only the most
// recent reorder per parent is revertible.
type BackupStore struct {
	kv        KeyValue
	clock     Clock
	encryptor Encryptor // nil or unconfigured means plaintext entries
	logger    Logger
}

// NewBackupStore creates a BackupStore over the given KeyValue collaborator.
// encryptor may be nil when backups are stored in plaintext.
func NewBackupStore(kv KeyValue, clock Clock, encryptor Encryptor, logger Logger) *BackupStore {
	return &BackupStore{
		kv:        kv,
		clock:     clock,
		encryptor: encryptor,
		logger:    logger,
	}
}

// Save stores a snapshot of entries for parentID, stamping a fresh creation
// time and overwriting any prior snapshot for that parent. A failure here is
// fatal to the reorder the snapshot was guarding: no reorder may proceed
// without a committed backup.
func (s *BackupStore) Save(ctx context.Context, parentID string, entries []SnapshotEntry) error {
	backups, err := s.readBackups(ctx)
	if err != nil {
		return &PersistenceError{Err: err}
	}

	snap := Snapshot{CreatedAt: s.clock.Now()}

	if s.encryptor != nil && s.encryptor.IsConfigured() {
		raw, err := json.Marshal(entries)
		if err != nil {
			return &PersistenceError{Err: fmt.Errorf("encoding entries: %w", err)}
		}
		payload, err := s.encryptor.Encrypt(raw)
		if err != nil {
			return &PersistenceError{Err: fmt.Errorf("encrypting entries: %w", err)}
		}
		snap.Payload = payload
	} else {
		snap.Entries = entries
	}

	backups[parentID] = snap

	data, err := json.Marshal(backups)
	if err != nil {
		return &PersistenceError{Err: fmt.Errorf("encoding backups: %w", err)}
	}
	if err := s.kv.Set(ctx, backupsKey, data); err != nil {
		return &PersistenceError{Err: err}
	}

	s.logger.Debug("backup saved", "parent", parentID, "entries", len(entries))
	return nil
}

// Load returns the snapshot saved for parentID with Entries decrypted and
// populated. It returns ok=false both when no snapshot exists and when the
// underlying read (or decryption) fails; callers treat "can't read" the same
// as "nothing to restore". dec is only consulted for encrypted snapshots and
// may be nil otherwise.
func (s *BackupStore) Load(ctx context.Context, parentID string, dec DecryptionContext) (*Snapshot, bool) {
	backups, err := s.readBackups(ctx)
	if err != nil {
		s.logger.Warn("backup read failed", "parent", parentID, "error", err)
		return nil, false
	}

	snap, ok := backups[parentID]
	if !ok {
		return nil, false
	}

	if len(snap.Payload) > 0 {
		if dec == nil {
			s.logger.Warn("backup is encrypted and no key was unlocked", "parent", parentID)
			return nil, false
		}
		raw, err := dec.Decrypt(snap.Payload)
		if err != nil {
			s.logger.Warn("backup decryption failed", "parent", parentID, "error", err)
			return nil, false
		}
		if err := json.Unmarshal(raw, &snap.Entries); err != nil {
			s.logger.Warn("backup payload is malformed", "parent", parentID, "error", err)
			return nil, false
		}
		snap.Payload = nil
	}

	return &snap, true
}

// Exists reports whether a snapshot is stored for parentID. Read failures are
// swallowed as false, matching Load.
func (s *BackupStore) Exists(ctx context.Context, parentID string) bool {
	backups, err := s.readBackups(ctx)
	if err != nil {
		return false
	}
	_, ok := backups[parentID]
	return ok
}

// List returns all stored snapshots keyed by parent ID. Encrypted snapshots
// are returned as-is, with Payload set and Entries empty.
func (s *BackupStore) List(ctx context.Context) (map[string]Snapshot, error) {
	backups, err := s.readBackups(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading backups: %w", err)
	}
	return backups, nil
}

// readBackups loads the backups document, mapping a missing key to an empty map.
func (s *BackupStore) readBackups(ctx context.Context) (map[string]Snapshot, error) {
	data, err := s.kv.Get(ctx, backupsKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return map[string]Snapshot{}, nil
		}
		return nil, err
	}

	backups := map[string]Snapshot{}
	if err := json.Unmarshal(data, &backups); err != nil {
		return nil, fmt.Errorf("decoding backups: %w", err)
	}
	return backups, nil
}
