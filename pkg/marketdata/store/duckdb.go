// Package store persists downloaded bar series to DuckDB so runs can be
// replayed offline without refetching from a provider.
package store

import (
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/rxtech-lab/trendline/internal/types"
	"github.com/rxtech-lab/trendline/pkg/errors"
)

// BarStore is a DuckDB-backed bar archive.
type BarStore struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// Open opens (or creates) a bar store at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*BarStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to open DuckDB connection", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			id TEXT,
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to create market_data table", err)
	}

	return &BarStore{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// SaveBars writes a bar series inside a single transaction. Existing rows
// for the same symbol and time range are replaced so re-downloading a window
// is idempotent.
func (s *BarStore) SaveBars(bars []types.MarketData) error {
	if s.db == nil {
		return errors.New(errors.ErrCodeStoreClosed, "bar store is closed")
	}

	if len(bars) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to begin transaction", err)
	}

	deleteQuery := s.sq.
		Delete("market_data").
		Where(squirrel.Eq{"symbol": bars[0].Symbol}).
		Where(squirrel.GtOrEq{"time": bars[0].Time}).
		Where(squirrel.LtOrEq{"time": bars[len(bars)-1].Time})

	deleteSQL, deleteArgs, err := deleteQuery.ToSql()
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to build delete query", err)
	}

	if _, err := tx.Exec(deleteSQL, deleteArgs...); err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to clear existing bars", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO market_data (id, time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()

		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to prepare insert statement", err)
	}
	defer stmt.Close()

	for _, bar := range bars {
		_, err := stmt.Exec(
			uuid.New().String(),
			bar.Time,
			bar.Symbol,
			bar.Open,
			bar.High,
			bar.Low,
			bar.Close,
			bar.Volume,
		)
		if err != nil {
			tx.Rollback()

			return errors.Wrap(errors.ErrCodeWriteFailed, "failed to insert bar", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(errors.ErrCodeWriteFailed, "failed to commit transaction", err)
	}

	return nil
}

// LoadBars reads the stored bars for symbol within [start, end], ordered
// ascending by time.
func (s *BarStore) LoadBars(symbol string, start time.Time, end time.Time) ([]types.MarketData, error) {
	if s.db == nil {
		return nil, errors.New(errors.ErrCodeStoreClosed, "bar store is closed")
	}

	query := s.sq.
		Select("time", "symbol", "open", "high", "low", "close", "volume").
		From("market_data").
		Where(squirrel.Eq{"symbol": symbol}).
		Where(squirrel.GtOrEq{"time": start}).
		Where(squirrel.LtOrEq{"time": end}).
		OrderBy("time ASC")

	querySQL, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build select query", err)
	}

	rows, err := s.db.Query(querySQL, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	var bars []types.MarketData

	for rows.Next() {
		var bar types.MarketData
		if err := rows.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan bar row", err)
		}

		bar.Time = bar.Time.UTC()
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate bar rows", err)
	}

	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "no stored bars for symbol %s in the requested window", symbol)
	}

	return bars, nil
}

// Close releases the underlying database connection.
func (s *BarStore) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil

	return err
}
