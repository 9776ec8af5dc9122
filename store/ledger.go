package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	_ "modernc.org/sqlite"
)

// RoundRecord is one row of the rounds table.
type RoundRecord struct {
	Round      int
	Games      int
	Turns      int
	Unfinished int
	InitMs     int64
	PlayMs     int64
	TallyMs    int64
}

// GenomeRecord is one genome's result in a round.
type GenomeRecord struct {
	Round       int
	Rank        int
	Stem        string
	Personality string
	Games       int
	Losses      int
	Objective   float64
	HandValue   float64
	Confidence  float64
}

// Ledger appends round results to a SQLite database. Every process that
// opens it gets its own run id.
type Ledger struct {
	db    *sql.DB
	RunID string
	once  sync.Once
}

// OpenLedger opens or creates the ledger at path and registers a new run.
func OpenLedger(ctx context.Context, path, session string, seed int64) (*Ledger, error) {
	if path == "" {
		return nil, errors.New("empty ledger path")
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

	if err := initPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	l := &Ledger{db: db, RunID: uuid.NewString()}
	_, err = db.ExecContext(ctx,
		`INSERT INTO runs (run_id, session, seed, started_at) VALUES (?, ?, ?, ?)`,
		l.RunID, session, seed, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "register run")
	}
	return l, nil
}

func initPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return errors.Wrap(err, p)
		}
	}
	return nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			session TEXT NOT NULL,
			seed INTEGER NOT NULL,
			started_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			run_id TEXT NOT NULL REFERENCES runs(run_id),
			round INTEGER NOT NULL,
			games INTEGER NOT NULL,
			turns INTEGER NOT NULL,
			unfinished INTEGER NOT NULL,
			init_ms INTEGER NOT NULL,
			play_ms INTEGER NOT NULL,
			tally_ms INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (run_id, round)
		);`,
		`CREATE TABLE IF NOT EXISTS genome_stats (
			run_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			rank INTEGER NOT NULL,
			stem TEXT NOT NULL,
			personality TEXT NOT NULL,
			games INTEGER NOT NULL,
			losses INTEGER NOT NULL,
			objective REAL NOT NULL,
			hand_value REAL NOT NULL,
			confidence REAL NOT NULL,
			PRIMARY KEY (run_id, round, stem),
			FOREIGN KEY (run_id, round) REFERENCES rounds(run_id, round)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_genome_stats_stem ON genome_stats(stem);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return errors.Wrap(err, "init ledger schema")
		}
	}
	return nil
}

// RecordRound stores a round and the results of its genomes in one
// transaction.
func (l *Ledger) RecordRound(ctx context.Context, r RoundRecord, genomes []GenomeRecord) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO rounds
			(run_id, round, games, turns, unfinished, init_ms, play_ms, tally_ms, recorded_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.RunID, r.Round, r.Games, r.Turns, r.Unfinished, r.InitMs, r.PlayMs, r.TallyMs,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrapf(err, "record round %d", r.Round)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO genome_stats
			(run_id, round, rank, stem, personality, games, losses, objective, hand_value, confidence)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, g := range genomes {
		if _, err := stmt.ExecContext(ctx,
			l.RunID, r.Round, g.Rank, g.Stem, g.Personality, g.Games, g.Losses,
			g.Objective, g.HandValue, g.Confidence); err != nil {
			return errors.Wrapf(err, "record genome %s", g.Stem)
		}
	}
	return tx.Commit()
}

// Top returns the best ranked genomes of personality in a round of this run.
func (l *Ledger) Top(ctx context.Context, round int, personality string, limit int) ([]GenomeRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT round, rank, stem, personality, games, losses, objective, hand_value, confidence
			FROM genome_stats
			WHERE run_id = ? AND round = ? AND personality = ?
			ORDER BY rank ASC
			LIMIT ?`,
		l.RunID, round, personality, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GenomeRecord
	for rows.Next() {
		var g GenomeRecord
		if err := rows.Scan(&g.Round, &g.Rank, &g.Stem, &g.Personality, &g.Games, &g.Losses,
			&g.Objective, &g.HandValue, &g.Confidence); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Rounds returns how many rounds this run has recorded.
func (l *Ledger) Rounds(ctx context.Context) (int, error) {
	var n int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rounds WHERE run_id = ?`, l.RunID).Scan(&n)
	return n, err
}

// Close closes the database. It is safe to call more than once.
func (l *Ledger) Close() error {
	var err error
	l.once.Do(func() {
		err = l.db.Close()
	})
	return err
}
