// Package store persists normalized odds and prediction records to
// sqlite. Each save call writes one fixture's batch in a single
// transaction tagged with a batch id, so a failed run never leaves a
// fixture half-written.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"football-data-collector/internal/markets"
	"football-data-collector/internal/odds"
	"football-data-collector/internal/predictions"
)

// Store handles odds and prediction persistence
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at dbPath
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS odds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id TEXT NOT NULL,
		fixture_id INTEGER NOT NULL,
		bookmaker_id INTEGER NOT NULL,
		bookmaker_name TEXT NOT NULL,
		market_id INTEGER,
		market_name TEXT NOT NULL,
		market TEXT NOT NULL,
		selection_id INTEGER,
		selection_name TEXT NOT NULL,
		selection TEXT NOT NULL,
		value REAL NOT NULL,
		implied_probability REAL NOT NULL,
		live INTEGER NOT NULL DEFAULT 0,
		captured_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS predictions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id TEXT NOT NULL,
		prediction_id INTEGER NOT NULL,
		fixture_id INTEGER NOT NULL,
		type_id INTEGER,
		type_name TEXT NOT NULL,
		developer_name TEXT NOT NULL,
		selection TEXT NOT NULL,
		probability REAL NOT NULL,
		bookmaker INTEGER,
		fair_odd REAL,
		odd REAL,
		stake REAL,
		is_value INTEGER NOT NULL DEFAULT 0,
		captured_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_odds_fixture ON odds(fixture_id);
	CREATE INDEX IF NOT EXISTS idx_odds_market ON odds(fixture_id, market);
	CREATE INDEX IF NOT EXISTS idx_predictions_fixture ON predictions(fixture_id);
	`

	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveOdds writes one batch of odds records in a transaction and
// returns the batch id.
func (s *Store) SaveOdds(records []odds.Record) (string, error) {
	batchID := uuid.NewString()
	if len(records) == 0 {
		return batchID, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("starting odds batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO odds (batch_id, fixture_id, bookmaker_id, bookmaker_name,
			market_id, market_name, market, selection_id, selection_name,
			selection, value, implied_probability, live, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing odds insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.Exec(batchID, r.FixtureID, r.BookmakerID, r.BookmakerName,
			r.MarketID, r.MarketName, string(r.Market), r.SelectionID, r.SelectionName,
			r.Selection, r.Value, r.ImpliedProbability, r.Live, r.CapturedAt)
		if err != nil {
			return "", fmt.Errorf("inserting odds record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing odds batch: %w", err)
	}
	return batchID, nil
}

// SavePredictions writes one batch of prediction records in a
// transaction and returns the batch id.
func (s *Store) SavePredictions(records []predictions.Record) (string, error) {
	batchID := uuid.NewString()
	if len(records) == 0 {
		return batchID, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("starting predictions batch: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO predictions (batch_id, prediction_id, fixture_id, type_id,
			type_name, developer_name, selection, probability, bookmaker,
			fair_odd, odd, stake, is_value, captured_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing predictions insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range records {
		_, err := stmt.Exec(batchID, r.PredictionID, r.FixtureID, r.TypeID,
			r.TypeName, r.DeveloperName, r.Selection, r.Probability, r.Bookmaker,
			r.FairOdd, r.Odd, r.Stake, r.IsValue, now)
		if err != nil {
			return "", fmt.Errorf("inserting prediction record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing predictions batch: %w", err)
	}
	return batchID, nil
}

// OddsByFixture retrieves the stored odds for a fixture, most recent
// capture first.
func (s *Store) OddsByFixture(fixtureID int) ([]odds.Record, error) {
	rows, err := s.db.Query(`
		SELECT fixture_id, bookmaker_id, bookmaker_name, market_id, market_name,
			market, selection_id, selection_name, selection, value,
			implied_probability, live, captured_at
		FROM odds
		WHERE fixture_id = ?
		ORDER BY captured_at DESC, id
	`, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("querying odds: %w", err)
	}
	defer rows.Close()

	var records []odds.Record
	for rows.Next() {
		var r odds.Record
		var market string
		if err := rows.Scan(&r.FixtureID, &r.BookmakerID, &r.BookmakerName,
			&r.MarketID, &r.MarketName, &market, &r.SelectionID, &r.SelectionName,
			&r.Selection, &r.Value, &r.ImpliedProbability, &r.Live, &r.CapturedAt); err != nil {
			return nil, fmt.Errorf("scanning odds row: %w", err)
		}
		r.Market = markets.Market(market)
		records = append(records, r)
	}

	return records, rows.Err()
}

// PredictionsByFixture retrieves the stored predictions for a fixture
func (s *Store) PredictionsByFixture(fixtureID int) ([]predictions.Record, error) {
	rows, err := s.db.Query(`
		SELECT prediction_id, fixture_id, type_id, type_name, developer_name,
			selection, probability, bookmaker, fair_odd, odd, stake, is_value
		FROM predictions
		WHERE fixture_id = ?
		ORDER BY captured_at DESC, id
	`, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("querying predictions: %w", err)
	}
	defer rows.Close()

	var records []predictions.Record
	for rows.Next() {
		var r predictions.Record
		if err := rows.Scan(&r.PredictionID, &r.FixtureID, &r.TypeID, &r.TypeName,
			&r.DeveloperName, &r.Selection, &r.Probability, &r.Bookmaker,
			&r.FairOdd, &r.Odd, &r.Stake, &r.IsValue); err != nil {
			return nil, fmt.Errorf("scanning prediction row: %w", err)
		}
		records = append(records, r)
	}

	return records, rows.Err()
}

// FixtureIDs returns the distinct fixture ids present in either table
func (s *Store) FixtureIDs() ([]int, error) {
	rows, err := s.db.Query(`
		SELECT fixture_id FROM odds
		UNION
		SELECT fixture_id FROM predictions
		ORDER BY fixture_id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying fixture ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning fixture id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
