// Package history keeps a sqlite index of finished exports, one row per
// written schematic. Recording is fire-and-forget: a conversion run never
// blocks on the index, and the files on disk remain the source of truth.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

// Export is one finished conversion.
type Export struct {
	Path          string
	Format        string
	Width         int
	Height        int
	Depth         int
	Blocks        int
	PaletteDigest string
	Source        string
	Duration      time.Duration
}

type Index struct {
	db *sql.DB

	ch   chan Export
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

func OpenSQLite(path string) (*Index, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Index{
		db: db,
		// Small buffer: a run writes a handful of rows at most.
		ch: make(chan Export, 64),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	// WAL is much faster for append-style workloads.
	// NORMAL is a decent durability/perf tradeoff for a secondary index.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			format TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			depth INTEGER NOT NULL,
			blocks INTEGER NOT NULL,
			palette_digest TEXT NOT NULL,
			source TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Index) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// Record queues one export row. Drops the row instead of blocking when the
// writer falls behind.
func (s *Index) Record(e Export) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- e:
	default:
	}
}

// Recent returns the newest n exports, newest first.
func (s *Index) Recent(n int) ([]Export, error) {
	if n <= 0 {
		n = 10
	}
	rows, err := s.db.Query(
		`SELECT path,format,width,height,depth,blocks,palette_digest,source,duration_ms
		 FROM exports ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Export
	for rows.Next() {
		var e Export
		var ms int64
		if err := rows.Scan(&e.Path, &e.Format, &e.Width, &e.Height, &e.Depth,
			&e.Blocks, &e.PaletteDigest, &e.Source, &ms); err != nil {
			return nil, err
		}
		e.Duration = time.Duration(ms) * time.Millisecond
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Index) loop() {
	insert, err := s.db.Prepare(`INSERT INTO exports(path,format,width,height,depth,blocks,palette_digest,source,duration_ms,created_at)
		VALUES(?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		// Drain so senders never block on a broken writer.
		for range s.ch {
		}
		return
	}
	defer insert.Close()

	for e := range s.ch {
		_, _ = insert.Exec(
			e.Path,
			e.Format,
			e.Width,
			e.Height,
			e.Depth,
			e.Blocks,
			e.PaletteDigest,
			e.Source,
			e.Duration.Milliseconds(),
			time.Now().UTC().Format(time.RFC3339Nano),
		)
	}
}
