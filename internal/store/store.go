// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists completed business plans in a local SQLite
// database so earlier runs can be listed, re-read, and exported.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/plan-engine/pkg/types"
)

const dbFile = "plans.db"

// ErrNotFound is returned when no plan has the requested ID.
var ErrNotFound = errors.New("plan not found")

// Store manages the plan history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// New opens or creates the database at stateDir/plans.db and creates the
// schema if it does not exist.
func New(cfg types.StoreConfig) (*Store, error) {
	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir = "state"
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	dbPath := filepath.Join(stateDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			topic TEXT,
			model TEXT,
			created_at TEXT NOT NULL,
			valid_sections INTEGER NOT NULL,
			total_sections INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plan_sections (
			plan_id TEXT NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			criteria TEXT NOT NULL,
			content TEXT NOT NULL,
			valid INTEGER NOT NULL,
			calls INTEGER NOT NULL,
			PRIMARY KEY (plan_id, position)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_created_at ON plans(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save writes a completed plan and its sections in one transaction.
// Saving a plan with an existing ID replaces it.
func (s *Store) Save(ctx context.Context, plan *types.BusinessPlan) error {
	if plan.ID == "" {
		return errors.New("plan has no ID")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, plan.ID); err != nil {
		return fmt.Errorf("clearing existing plan: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO plans (id, topic, model, created_at, valid_sections, total_sections)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.Topic, plan.Model,
		plan.CreatedAt.UTC().Format(time.RFC3339Nano),
		plan.ValidCount(), len(plan.Sections))
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}

	for i, sec := range plan.Sections {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO plan_sections (plan_id, position, name, criteria, content, valid, calls)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			plan.ID, i, sec.Name, strings.Join(sec.Criteria, "\n"), sec.Text,
			boolToInt(sec.Valid), sec.Calls)
		if err != nil {
			return fmt.Errorf("inserting section %q: %w", sec.Name, err)
		}
	}

	return tx.Commit()
}

// Summary describes one stored plan for listings.
type Summary struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic,omitempty"`
	Model         string    `json:"model"`
	CreatedAt     time.Time `json:"created_at"`
	ValidSections int       `json:"valid_sections"`
	TotalSections int       `json:"total_sections"`
}

// List returns stored plans, most recent first, capped at the configured
// maximum.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, topic, model, created_at, valid_sections, total_sections
		 FROM plans ORDER BY created_at DESC LIMIT ?`, s.maxResults)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var created string
		if err := rows.Scan(&sum.ID, &sum.Topic, &sum.Model, &created, &sum.ValidSections, &sum.TotalSections); err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		sum.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for %s: %w", sum.ID, err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Get loads a stored plan with its sections in generation order.
func (s *Store) Get(ctx context.Context, id string) (*types.BusinessPlan, error) {
	plan := &types.BusinessPlan{ID: id}
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT topic, model, created_at FROM plans WHERE id = ?`, id,
	).Scan(&plan.Topic, &plan.Model, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", id, err)
	}
	plan.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at for %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, criteria, content, valid, calls
		 FROM plan_sections WHERE plan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading sections for %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var sec types.SectionResult
		var criteria string
		var valid int
		if err := rows.Scan(&sec.Name, &criteria, &sec.Text, &valid, &sec.Calls); err != nil {
			return nil, fmt.Errorf("scanning section row: %w", err)
		}
		sec.Criteria = strings.Split(criteria, "\n")
		sec.Valid = valid != 0
		plan.Sections = append(plan.Sections, sec)
	}
	return plan, rows.Err()
}

// Delete removes a stored plan and its sections.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting plan %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
