package phrasetable

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/happyhackingspace/werger/decoder"
	"github.com/happyhackingspace/werger/internal/modelfile"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Compile builds a SQLite phrase table at dst from the text table at
// src. The source digest is stored alongside the phrases; when dst
// already matches it the rebuild is skipped unless force is set.
func Compile(src, dst string, force bool) error {
	f, err := modelfile.Open(src)
	if err != nil {
		return fmt.Errorf("open phrase table: %w", err)
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	t, err := Read(io.TeeReader(f, h), 0)
	if err != nil {
		return fmt.Errorf("read phrase table %s: %w", src, err)
	}
	digest := hex.EncodeToString(h.Sum(nil))

	if !force {
		if cur, err := readMeta(dst, "digest"); err == nil && cur == digest {
			slog.Info("Compiled table is up to date", "path", dst, "digest", digest[:12])
			return nil
		}
	}

	start := time.Now()
	if err := writeDB(dst, t, digest); err != nil {
		return fmt.Errorf("write compiled table %s: %w", dst, err)
	}
	slog.Info("Phrase table compiled",
		"path", dst,
		"sources", t.Size(),
		"digest", digest[:12],
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

func readMeta(path, key string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", err
	}
	defer func() { _ = db.Close() }()

	var value string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	return value, err
}

func writeDB(path string, t *Table, digest string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmts := []string{
		`DROP TABLE IF EXISTS phrases`,
		`DROP TABLE IF EXISTS meta`,
		`CREATE TABLE meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`CREATE TABLE phrases (source TEXT NOT NULL, target TEXT NOT NULL, logprob REAL NOT NULL)`,
		`CREATE INDEX phrases_source ON phrases (source, logprob DESC, target ASC)`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}

	ins, err := tx.Prepare(`INSERT INTO phrases (source, target, logprob) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = ins.Close() }()
	for _, src := range slices.Sorted(maps.Keys(t.entries)) {
		for _, p := range t.entries[src] {
			if _, err := ins.Exec(src, p.Text, p.Logprob); err != nil {
				return err
			}
		}
	}

	meta := map[string]string{
		"schema":  schemaVersion,
		"digest":  digest,
		"created": time.Now().UTC().Format(time.RFC3339),
	}
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES (?, ?)`, key, meta[key]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DB is a compiled phrase table. Lookups query SQLite on demand, so
// large tables decode without being resident in memory. The handle is
// safe for concurrent readers.
type DB struct {
	db       *sql.DB
	contains *sql.Stmt
	lookup   *sql.Stmt
}

// OpenDB opens a compiled phrase table, serving the k best candidates
// per lookup. k <= 0 serves all.
func OpenDB(path string, k int) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open compiled table: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open compiled table: %w", err)
	}

	var schema string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = 'schema'`).Scan(&schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s is not a compiled phrase table: %w", path, err)
	}
	if schema != schemaVersion {
		_ = db.Close()
		return nil, fmt.Errorf("%s: unsupported schema version %s", path, schema)
	}

	contains, err := db.Prepare(`SELECT 1 FROM phrases WHERE source = ? LIMIT 1`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	q := `SELECT target, logprob FROM phrases WHERE source = ? ORDER BY logprob DESC, target ASC`
	if k > 0 {
		q += fmt.Sprintf(" LIMIT %d", k)
	}
	lookup, err := db.Prepare(q)
	if err != nil {
		_ = contains.Close()
		_ = db.Close()
		return nil, err
	}
	slog.Debug("Compiled phrase table opened", "path", path)
	return &DB{db: db, contains: contains, lookup: lookup}, nil
}

// Contains reports whether the table has translations for span. Query
// failures are logged and read as misses.
func (d *DB) Contains(span []string) bool {
	var one int
	if err := d.contains.QueryRow(strings.Join(span, " ")).Scan(&one); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("Phrase table query failed", "error", err)
		}
		return false
	}
	return true
}

// Lookup returns the candidate translations for span, best first.
func (d *DB) Lookup(span []string) []decoder.Phrase {
	rows, err := d.lookup.Query(strings.Join(span, " "))
	if err != nil {
		slog.Error("Phrase table query failed", "error", err)
		return nil
	}
	defer func() { _ = rows.Close() }()

	var ps []decoder.Phrase
	for rows.Next() {
		var p decoder.Phrase
		if err := rows.Scan(&p.Text, &p.Logprob); err != nil {
			slog.Error("Phrase table scan failed", "error", err)
			return nil
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("Phrase table query failed", "error", err)
		return nil
	}
	return ps
}

// Close releases the database handle.
func (d *DB) Close() error {
	return errors.Join(d.contains.Close(), d.lookup.Close(), d.db.Close())
}
