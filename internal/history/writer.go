// Package history persists candles to SQLite so that recorded sessions
// can seed playback sources or backfill a chart on startup.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"candlechart/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

const (
	defaultBatchSize  = 100
	defaultFlushDelay = 200 * time.Millisecond
)

// WriterConfig configures the SQLite writer.
type WriterConfig struct {
	DBPath string // path to SQLite database file, e.g. "data/candles.db"
}

// Writer is a single-goroutine SQLite writer with transaction batching.
type Writer struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for health checks.
func (w *Writer) DB() *sql.DB { return w.db }

// NewWriter opens the database, enables WAL mode and creates the schema.
func NewWriter(cfg WriterConfig) (*Writer, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}

	// Single writer, single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := createSchema(db); err != nil {
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	log.Printf("[history] opened database at %s", cfg.DBPath)
	return &Writer{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS candles (
			symbol TEXT    NOT NULL,
			ts     INTEGER NOT NULL,
			open   REAL    NOT NULL,
			high   REAL    NOT NULL,
			low    REAL    NOT NULL,
			close  REAL    NOT NULL,
			volume REAL,
			PRIMARY KEY (symbol, ts)
		);
	`)
	return err
}

// Record is one candle tagged with the symbol it belongs to.
type Record struct {
	Symbol string
	Candle model.Candle
}

// Run reads records from recordCh and inserts them in batched
// transactions. Flushes every defaultBatchSize records or every
// defaultFlushDelay, whichever comes first. Blocks until ctx is
// cancelled or recordCh is closed.
func (w *Writer) Run(ctx context.Context, recordCh <-chan Record) {
	batch := make([]Record, 0, defaultBatchSize)
	timer := time.NewTimer(defaultFlushDelay)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		start := time.Now()
		if err := w.insertBatch(batch); err != nil {
			log.Printf("[history] batch insert error: %v", err)
		} else {
			log.Printf("[history] committed %d candles in %v", len(batch), time.Since(start))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case rec, ok := <-recordCh:
			if !ok {
				flush()
				return
			}
			batch = append(batch, rec)
			if len(batch) >= defaultBatchSize {
				flush()
				timer.Reset(defaultFlushDelay)
			}

		case <-timer.C:
			flush()
			timer.Reset(defaultFlushDelay)
		}
	}
}

// WriteCandles inserts candles for a symbol in one transaction.
// Existing rows with the same (symbol, ts) are replaced, so rewriting
// a forming candle is safe.
func (w *Writer) WriteCandles(symbol string, candles []model.Candle) error {
	recs := make([]Record, len(candles))
	for i, c := range candles {
		recs[i] = Record{Symbol: symbol, Candle: c}
	}
	return w.insertBatch(recs)
}

func (w *Writer) insertBatch(recs []Record) error {
	tx, err := w.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO candles (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, rec := range recs {
		c := rec.Candle
		var vol any
		if c.Volume != nil {
			vol = *c.Volume
		}
		if _, err := stmt.Exec(rec.Symbol, c.TS, c.Open, c.High, c.Low, c.Close, vol); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// LastTimestamp returns the newest stored candle timestamp for a
// symbol, in milliseconds. Returns 0 if no candles exist.
func (w *Writer) LastTimestamp(symbol string) (int64, error) {
	var ts sql.NullInt64
	err := w.db.QueryRow(
		`SELECT MAX(ts) FROM candles WHERE symbol = ?`, symbol,
	).Scan(&ts)
	if err != nil {
		return 0, err
	}
	if !ts.Valid {
		return 0, nil
	}
	return ts.Int64, nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}
