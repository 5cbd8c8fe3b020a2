package docstore

import (
	"fmt"
	"time"

	"crawshaw.io/sqlite"

	"github.com/ragstack/ragserve/internal/vector"
)

// SQLiteSnapshot stores the document sequence in a SQLite database. The
// semantics match the JSON backend: every Save replaces all rows.
type SQLiteSnapshot struct {
	conn   *sqlite.Conn
	dbPath string
}

// NewSQLiteSnapshot opens (or creates) the database at dbPath and ensures
// the documents table exists.
func NewSQLiteSnapshot(dbPath string) (*SQLiteSnapshot, error) {
	conn, err := sqlite.OpenConn(dbPath, sqlite.SQLITE_OPEN_CREATE|sqlite.SQLITE_OPEN_READWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	s := &SQLiteSnapshot{conn: conn, dbPath: dbPath}
	if err := s.createTable(); err != nil {
		s.conn.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return s, nil
}

// createTable creates the documents table if it doesn't exist. The seq
// column preserves insertion order across save/load cycles.
func (s *SQLiteSnapshot) createTable() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		text TEXT NOT NULL,
		embedding BLOB,
		timestamp INTEGER NOT NULL
	);`

	return s.exec(createTableSQL)
}

// exec prepares and steps a statement that takes no parameters.
func (s *SQLiteSnapshot) exec(sql string) error {
	stmt, err := s.conn.Prepare(sql)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Reset()

	if _, err := stmt.Step(); err != nil {
		return fmt.Errorf("failed to execute statement: %w", err)
	}

	return nil
}

// Load reads all documents in insertion order.
func (s *SQLiteSnapshot) Load() ([]Document, bool, error) {
	selectSQL := `SELECT id, text, embedding, timestamp FROM documents ORDER BY seq;`

	stmt, err := s.conn.Prepare(selectSQL)
	if err != nil {
		return nil, false, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Reset()

	var docs []Document
	for {
		hasRow, err := stmt.Step()
		if err != nil {
			return nil, false, fmt.Errorf("failed to execute select statement: %w", err)
		}
		if !hasRow {
			break
		}

		doc := Document{
			ID:        stmt.ColumnText(0),
			Text:      stmt.ColumnText(1),
			Timestamp: time.Unix(0, stmt.ColumnInt64(3)),
		}

		if n := stmt.ColumnLen(2); n > 0 {
			embeddingBytes := make([]byte, n)
			stmt.ColumnBytes(2, embeddingBytes)

			embedding, err := vector.BytesToFloat32Slice(embeddingBytes)
			if err != nil {
				return nil, false, fmt.Errorf("failed to decode embedding for document %s: %w", doc.ID, err)
			}
			doc.Embedding = embedding
		}

		docs = append(docs, doc)
	}

	return docs, len(docs) > 0, nil
}

// Save replaces all rows with the given document sequence.
func (s *SQLiteSnapshot) Save(docs []Document) error {
	if err := s.exec("BEGIN;"); err != nil {
		return err
	}

	if err := s.saveAll(docs); err != nil {
		// Best effort rollback; the original error is the one that matters
		s.exec("ROLLBACK;")
		return err
	}

	return s.exec("COMMIT;")
}

func (s *SQLiteSnapshot) saveAll(docs []Document) error {
	if err := s.exec("DELETE FROM documents;"); err != nil {
		return err
	}

	insertSQL := `INSERT INTO documents (id, text, embedding, timestamp) VALUES (?, ?, ?, ?);`
	stmt, err := s.conn.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Reset()

	for _, doc := range docs {
		// Parameter indices in sqlite are 1-based
		stmt.BindText(1, doc.ID)
		stmt.BindText(2, doc.Text)
		if doc.Embedding != nil {
			embeddingBytes, err := vector.Float32SliceToBytes(doc.Embedding)
			if err != nil {
				return fmt.Errorf("failed to encode embedding for document %s: %w", doc.ID, err)
			}
			stmt.BindBytes(3, embeddingBytes)
		} else {
			stmt.BindNull(3)
		}
		stmt.BindInt64(4, doc.Timestamp.UnixNano())

		if _, err := stmt.Step(); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
		if err := stmt.Reset(); err != nil {
			return fmt.Errorf("failed to reset insert statement: %w", err)
		}
	}

	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteSnapshot) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
