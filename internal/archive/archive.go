// Package archive keeps a local history of sent bulletins so past
// cycles can be inspected and pruned. History is best-effort: a write
// failure never blocks a send.
package archive

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Alonhaliva/ISV-Newsletter-silicon-wadi-bot/internal/feed"
	_ "modernc.org/sqlite"
)

type Archive struct {
	db   *sql.DB
	path string
}

func Open(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening archive db: %w", err)
	}
	db.SetMaxOpenConns(1)

	a := &Archive{db: db, path: dbPath}
	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) init() error {
	_, err := a.db.Exec(`
		CREATE TABLE IF NOT EXISTS cycles (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			ran_at          DATETIME NOT NULL,
			article_count   INTEGER NOT NULL,
			recipient_count INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_cycles_ran_at ON cycles(ran_at DESC);

		CREATE TABLE IF NOT EXISTS cycle_articles (
			cycle_id INTEGER NOT NULL REFERENCES cycles(id) ON DELETE CASCADE,
			title    TEXT NOT NULL,
			link     TEXT NOT NULL,
			source   TEXT NOT NULL,
			score    INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_cycle_articles_cycle ON cycle_articles(cycle_id);
	`)
	if err != nil {
		return fmt.Errorf("initializing archive schema: %w", err)
	}
	return nil
}

func (a *Archive) Close() error {
	return a.db.Close()
}

// Record stores one completed cycle and its digest.
func (a *Archive) Record(ranAt time.Time, articles []feed.Article, recipients int) error {
	tx, err := a.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO cycles (ran_at, article_count, recipient_count) VALUES (?, ?, ?)`,
		ranAt.UTC(), len(articles), recipients,
	)
	if err != nil {
		return fmt.Errorf("recording cycle: %w", err)
	}
	cycleID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO cycle_articles (cycle_id, title, link, source, score) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, art := range articles {
		if _, err := stmt.Exec(cycleID, art.Title, art.Link, art.Source, art.Score); err != nil {
			return fmt.Errorf("recording article: %w", err)
		}
	}

	return tx.Commit()
}

// Prune deletes cycles older than the given age and returns how many
// were removed.
func (a *Archive) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()

	if _, err := a.db.Exec(
		`DELETE FROM cycle_articles WHERE cycle_id IN (SELECT id FROM cycles WHERE ran_at < ?)`,
		cutoff,
	); err != nil {
		return 0, err
	}

	res, err := a.db.Exec(`DELETE FROM cycles WHERE ran_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns cycle count, archived article count, and db file size.
func (a *Archive) Stats() (cycles int, articles int, size int64, err error) {
	if err = a.db.QueryRow(`SELECT COUNT(*) FROM cycles`).Scan(&cycles); err != nil {
		return 0, 0, 0, err
	}
	if err = a.db.QueryRow(`SELECT COUNT(*) FROM cycle_articles`).Scan(&articles); err != nil {
		return 0, 0, 0, err
	}
	info, err := os.Stat(a.path)
	if err != nil {
		return cycles, articles, 0, err
	}
	return cycles, articles, info.Size(), nil
}

// LastRun returns when the most recent cycle ran, or the zero time for
// an empty archive.
func (a *Archive) LastRun() (time.Time, error) {
	var last sql.NullTime
	err := a.db.QueryRow(`SELECT ran_at FROM cycles ORDER BY ran_at DESC LIMIT 1`).Scan(&last)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if !last.Valid {
		return time.Time{}, nil
	}
	return last.Time, nil
}
