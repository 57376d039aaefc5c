package schema

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store persists compiled descriptors in a SQLite database so later processes
// skip XSD parsing. Entries are keyed by document type and invalidated when
// the source XSD mtime changes. The payload is an opaque JSON blob; a row
// that fails to decode is treated as absent and rebuilt.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the descriptor store at path.
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open descriptor store %s: %w", path, err)
	}
	ddl := `
	CREATE TABLE IF NOT EXISTS descriptors (
		doc_type  TEXT PRIMARY KEY,
		xsd_mtime INTEGER NOT NULL,
		compiled  JSON NOT NULL
	);
	`
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create descriptor table: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the stored descriptor for docType if one exists and its
// recorded XSD mtime matches. A stale or undecodable row yields (nil, false).
func (s *Store) Load(docType string, xsdMtime int64) (*Descriptor, bool) {
	var mtime int64
	var blob []byte
	row := s.db.QueryRow("SELECT xsd_mtime, compiled FROM descriptors WHERE doc_type = ?", docType)
	if err := row.Scan(&mtime, &blob); err != nil {
		return nil, false
	}
	if mtime != xsdMtime {
		return nil, false
	}
	var desc Descriptor
	if err := json.Unmarshal(blob, &desc); err != nil {
		return nil, false
	}
	if desc.DocType == "" || len(desc.Fields) == 0 {
		return nil, false
	}
	return &desc, true
}

// Save upserts the compiled descriptor for docType.
func (s *Store) Save(docType string, xsdMtime int64, desc *Descriptor) error {
	blob, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("encode descriptor %s: %w", docType, err)
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO descriptors (doc_type, xsd_mtime, compiled) VALUES (?, ?, ?)",
		docType, xsdMtime, blob,
	)
	if err != nil {
		return fmt.Errorf("save descriptor %s: %w", docType, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
