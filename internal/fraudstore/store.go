// Package fraudstore persists flagged card transactions for the fraud
// verification agent in a local SQLite database.
package fraudstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

const defaultBusyTimeout = 5 * time.Second

// Case is one flagged transaction awaiting customer verification.
type Case struct {
	ID                 int64
	Username           string
	SecurityIdentifier string
	CardEnding         string
	Merchant           string
	Amount             string
	Timestamp          string
	Location           string
	SecurityQuestion   string
	SecurityAnswer     string
	Status             string
	Notes              string
}

// NotFoundError indicates a requested record does not exist.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

// IsNotFound returns true when err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// Options describes parameters for opening a fraud-case store.
type Options struct {
	DBPath   string // Path to the database file (defaults to bank_fraud.db)
	ReadOnly bool   // Open database in read-only mode
	NoSeed   bool   // Skip seeding the demo case into an empty table
}

// Store provides access to the fraud-case database.
type Store struct {
	db *sql.DB
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS fraud_cases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT COLLATE NOCASE,
		security_identifier TEXT,
		card_ending TEXT,
		merchant TEXT,
		amount TEXT,
		timestamp TEXT,
		location TEXT,
		security_question TEXT,
		security_answer TEXT,
		status TEXT,
		notes TEXT
	)`,
}

// seedCase is the demo record inserted into an empty table so the agent has
// something to verify out of the box.
var seedCase = Case{
	Username:           "Samuel",
	SecurityIdentifier: "8812",
	CardEnding:         "2424",
	Merchant:           "Amazon",
	Amount:             "$1,250.00",
	Timestamp:          "2024-08-01 14:23:55",
	Location:           "New York, USA",
	SecurityQuestion:   "What is your pet's name?",
	SecurityAnswer:     "Shiro",
	Status:             "pending_review",
}

// Open initialises the fraud-case store at opts.DBPath.
func Open(opts Options) (*Store, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = "bank_fraud.db"
	}
	dsn := dbPath
	if opts.ReadOnly {
		dsn = fmt.Sprintf("file:%s?mode=ro", dbPath)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("fraudstore: open sqlite store: %w", err)
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := applyPragmas(ctx, db, opts.ReadOnly); err != nil {
		db.Close()
		return nil, err
	}
	if !opts.ReadOnly {
		if err := applySchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		if !opts.NoSeed {
			if err := seedIfEmpty(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(ctx context.Context, db *sql.DB, readOnly bool) error {
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", int(defaultBusyTimeout.Milliseconds())),
		"PRAGMA foreign_keys = ON",
	}
	if !readOnly {
		pragmas = append(pragmas,
			"PRAGMA journal_mode = WAL",
			"PRAGMA synchronous = NORMAL",
		)
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("fraudstore: apply %s: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("fraudstore: apply schema: %w", err)
		}
	}
	return nil
}

func seedIfEmpty(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fraud_cases").Scan(&count); err != nil {
		return fmt.Errorf("fraudstore: count cases: %w", err)
	}
	if count > 0 {
		return nil
	}
	log.Printf("[FraudStore] Seeding database with demo case")
	return insertCase(ctx, db, seedCase)
}

func insertCase(ctx context.Context, db *sql.DB, c Case) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO fraud_cases (
			username, security_identifier, card_ending, merchant,
			amount, timestamp, location, security_question,
			security_answer, status, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Username, c.SecurityIdentifier, c.CardEnding, c.Merchant,
		c.Amount, c.Timestamp, c.Location, c.SecurityQuestion,
		c.SecurityAnswer, c.Status, c.Notes)
	if err != nil {
		return fmt.Errorf("fraudstore: insert case: %w", err)
	}
	return nil
}

// InsertCase adds a flagged transaction.
func (s *Store) InsertCase(ctx context.Context, c Case) error {
	return insertCase(ctx, s.db, c)
}

// GetCaseByUsername retrieves the first case on file for the given customer.
// Matching is case-insensitive via the column collation.
func (s *Store) GetCaseByUsername(ctx context.Context, username string) (*Case, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, security_identifier, card_ending, merchant,
			amount, timestamp, location, security_question,
			security_answer, status, notes
		FROM fraud_cases WHERE username = ? LIMIT 1`, username)

	var c Case
	err := row.Scan(&c.ID, &c.Username, &c.SecurityIdentifier, &c.CardEnding,
		&c.Merchant, &c.Amount, &c.Timestamp, &c.Location,
		&c.SecurityQuestion, &c.SecurityAnswer, &c.Status, &c.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, NotFoundError{Entity: "fraud case", Key: username}
	}
	if err != nil {
		return nil, fmt.Errorf("fraudstore: get case: %w", err)
	}
	return &c, nil
}

// UpdateCaseStatus sets the status and notes of a case.
func (s *Store) UpdateCaseStatus(ctx context.Context, caseID int64, status, notes string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE fraud_cases SET status = ?, notes = ? WHERE id = ?",
		status, notes, caseID)
	if err != nil {
		return fmt.Errorf("fraudstore: update case: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("fraudstore: update case: %w", err)
	}
	if affected == 0 {
		return NotFoundError{Entity: "fraud case", Key: fmt.Sprintf("%d", caseID)}
	}
	return nil
}
