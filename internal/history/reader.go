package history

import (
	"database/sql"
	"fmt"
	"log"

	"candlechart/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// Reader provides read-only access to recorded candles for backfill
// and playback seeding.
type Reader struct {
	db *sql.DB
}

// NewReader opens a SQLite connection for reading.
func NewReader(dbPath string) (*Reader, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite open reader: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)

	log.Printf("[history] opened %s for reading", dbPath)
	return &Reader{db: db}, nil
}

// ReadCandles reads all candles for a symbol with ts > afterTS,
// ordered by timestamp ascending for correct replay order.
func (r *Reader) ReadCandles(symbol string, afterTS int64) ([]model.Candle, error) {
	rows, err := r.db.Query(`
		SELECT ts, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND ts > ?
		ORDER BY ts ASC
	`, symbol, afterTS)
	if err != nil {
		return nil, fmt.Errorf("sqlite query candles: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// ReadRange reads candles for a symbol within [fromTS, toTS],
// ordered by timestamp ascending.
func (r *Reader) ReadRange(symbol string, fromTS, toTS int64) ([]model.Candle, error) {
	rows, err := r.db.Query(`
		SELECT ts, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND ts >= ? AND ts <= ?
		ORDER BY ts ASC
	`, symbol, fromTS, toTS)
	if err != nil {
		return nil, fmt.Errorf("sqlite query range: %w", err)
	}
	defer rows.Close()

	return scanCandles(rows)
}

// Symbols returns all distinct symbols present in the database.
func (r *Reader) Symbols() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT symbol FROM candles ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("sqlite query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("sqlite scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

func scanCandles(rows *sql.Rows) ([]model.Candle, error) {
	var candles []model.Candle
	for rows.Next() {
		var c model.Candle
		var vol sql.NullFloat64
		if err := rows.Scan(&c.TS, &c.Open, &c.High, &c.Low, &c.Close, &vol); err != nil {
			return nil, fmt.Errorf("sqlite scan candle: %w", err)
		}
		if vol.Valid {
			v := vol.Float64
			c.Volume = &v
		}
		candles = append(candles, c)
	}
	return candles, rows.Err()
}

// Close closes the reader.
func (r *Reader) Close() error {
	return r.db.Close()
}
