package bookmarks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/organizer"
)

// Node types in a Firefox bookmarks backup export.
const (
	exportTypeContainer = "text/x-moz-place-container"
	exportTypePlace     = "text/x-moz-place"
	exportTypeSeparator = "text/x-moz-place-separator"
)

// exportNode is one node of a Firefox bookmarks JSON export.
type exportNode struct {
	GUID      string       `json:"guid"`
	Title     string       `json:"title"`
	Type      string       `json:"type"`
	URI       string       `json:"uri,omitempty"`
	DateAdded int64        `json:"dateAdded"` // microseconds since the Unix epoch
	Children  []exportNode `json:"children,omitempty"`
}

// Importer loads a Firefox bookmarks backup export into the tree store.
// Node IDs come from the export's GUIDs; nodes without one get a generated ID.
type Importer struct {
	tree   *SQLiteTree
	idgen  organizer.IDGenerator
	logger organizer.Logger
}

// NewImporter creates an Importer writing into the given tree.
func NewImporter(tree *SQLiteTree, idgen organizer.IDGenerator, logger organizer.Logger) *Importer {
	return &Importer{tree: tree, idgen: idgen, logger: logger}
}

// Import parses a bookmarks export from r and inserts its nodes. The export's
// synthetic root is skipped: its children (menu, toolbar, unfiled, mobile)
// become root folders here. Separators are dropped. When fresh is true the
// store is cleared first. Returns the number of nodes inserted.
func (im *Importer) Import(ctx context.Context, r io.Reader, fresh bool) (int, error) {
	var root exportNode
	if err := json.NewDecoder(r).Decode(&root); err != nil {
		return 0, fmt.Errorf("parsing bookmarks export: %w", err)
	}
	if root.Type != exportTypeContainer {
		return 0, fmt.Errorf("export root is not a folder (type %q)", root.Type)
	}

	if fresh {
		if err := im.tree.Clear(ctx); err != nil {
			return 0, err
		}
	}

	count := 0
	for _, child := range root.Children {
		n, err := im.insert(ctx, child, "")
		if err != nil {
			return count, err
		}
		count += n
	}

	im.logger.Info("import finished", "nodes", count)
	return count, nil
}

// insert writes one export node and its descendants under parentID.
func (im *Importer) insert(ctx context.Context, n exportNode, parentID string) (int, error) {
	switch n.Type {
	case exportTypeContainer, exportTypePlace:
	case exportTypeSeparator:
		return 0, nil
	default:
		im.logger.Warn("skipping unknown node type", "type", n.Type, "title", n.Title)
		return 0, nil
	}

	id := n.GUID
	if id == "" {
		id = im.idgen.New()
	}

	rec := organizer.FolderRecord{
		ID:       id,
		Title:    n.Title,
		ParentID: parentID,
	}
	if n.Type == exportTypePlace {
		rec.URL = n.URI
	}
	if n.DateAdded > 0 {
		rec.AddedAt = time.UnixMicro(n.DateAdded).UTC()
	}

	if err := im.tree.Create(ctx, rec); err != nil {
		return 0, err
	}

	count := 1
	for _, child := range n.Children {
		inserted, err := im.insert(ctx, child, id)
		if err != nil {
			return count, err
		}
		count += inserted
	}
	return count, nil
}
