/*
Package sqlite persists saved loan scenarios and their extra payments.

KEY TABLES:

	scenarios:      One row per saved loan; settings stored as JSON
	extra_payments: Identified extra payments, ordered by position

Amounts are stored as decimal text so they round-trip exactly.

CONCURRENCY:

	Uses sync.RWMutex for thread-safety. Extra payment edits run inside a
	database transaction under the write lock.

USAGE:

	store, err := sqlite.New("./data/loans.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/loan-amortizer/pkg/loans"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// ErrScenarioNotFound is returned when a scenario id is unknown.
var ErrScenarioNotFound = errors.New("scenario not found")

// Scenario is a saved loan together with its extra payments.
type Scenario struct {
	ID            string                      `json:"id"`
	Name          string                      `json:"name"`
	Loan          loans.LoanConfig            `json:"loan"`
	Insurance     loans.InsuranceConfig       `json:"insurance"`
	Strategy      loans.ExtraPaymentStrategy  `json:"strategy"`
	FirstPayment  *loans.FirstPaymentOverride `json:"firstPayment,omitempty"`
	ExtraPayments []loans.ExtraPayment        `json:"extraPayments"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// ScheduleRequest builds the generator input for the scenario.
func (sc Scenario) ScheduleRequest() loans.ScheduleRequest {
	payments := make([]loans.PeriodPayment, 0, len(sc.ExtraPayments))
	for _, payment := range sc.ExtraPayments {
		payments = append(payments, loans.PeriodPayment{Period: payment.Period, Amount: payment.Amount})
	}
	return loans.ScheduleRequest{
		Loan:          sc.Loan,
		ExtraPayments: payments,
		Insurance:     sc.Insurance,
		Strategy:      sc.Strategy,
		FirstPayment:  sc.FirstPayment,
	}
}

// settings is the JSON document stored in scenarios.settings_json.
type settings struct {
	Loan         loans.LoanConfig            `json:"loan"`
	Insurance    loans.InsuranceConfig       `json:"insurance"`
	Strategy     loans.ExtraPaymentStrategy  `json:"strategy"`
	FirstPayment *loans.FirstPaymentOverride `json:"firstPayment,omitempty"`
}

// Store implements scenario persistence using SQLite.
type Store struct {
	db         *sql.DB
	mu         sync.RWMutex
	maxPeriods int
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across queries.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// SetMaxPeriods sets the longest loan term the store accepts. It should match
// the limit of the schedule generator serving the scenarios; values below one
// use constants.DefaultMaxPeriods.
func (s *Store) SetMaxPeriods(maxPeriods int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxPeriods = maxPeriods
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		settings_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS extra_payments (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		period INTEGER NOT NULL,
		amount TEXT NOT NULL,
		position INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_extra_payments_scenario
		ON extra_payments(scenario_id, position);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateScenario validates and stores a new scenario. An empty id is replaced
// by a fresh one; extra payments without ids receive one as well.
func (s *Store) CreateScenario(ctx context.Context, sc *Scenario) error {
	s.mu.RLock()
	maxPeriods := s.maxPeriods
	s.mu.RUnlock()

	if err := validateScenario(sc, maxPeriods); err != nil {
		return err
	}

	set := loans.NewExtraPaymentSet(sc.Loan.TotalPeriods)
	for _, payment := range sc.ExtraPayments {
		if payment.ID == "" {
			if _, err := set.Add(payment.Period, payment.Amount); err != nil {
				return err
			}
			continue
		}
		if err := set.Restore(payment); err != nil {
			return err
		}
	}

	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Second)
	sc.CreatedAt = now
	sc.UpdatedAt = now
	sc.ExtraPayments = set.List()

	settingsJSON, err := json.Marshal(settings{
		Loan:         sc.Loan,
		Insurance:    sc.Insurance,
		Strategy:     sc.Strategy,
		FirstPayment: sc.FirstPayment,
	})
	if err != nil {
		return fmt.Errorf("failed to encode scenario settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO scenarios (id, name, settings_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		sc.ID, sc.Name, string(settingsJSON), now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert scenario: %w", err)
	}
	if err := insertExtraPayments(ctx, tx, sc.ID, sc.ExtraPayments); err != nil {
		return err
	}
	return tx.Commit()
}

// GetScenario returns the scenario with the given id.
func (s *Store) GetScenario(ctx context.Context, id string) (*Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getScenario(ctx, s.db, id)
}

// ListScenarios returns every scenario, newest first.
func (s *Store) ListScenarios(ctx context.Context) ([]Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, settings_json, created_at, updated_at FROM scenarios ORDER BY created_at DESC, name")
	if err != nil {
		return nil, err
	}

	scenarios := []Scenario{}
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		scenarios = append(scenarios, *sc)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range scenarios {
		payments, err := loadExtraPayments(ctx, s.db, scenarios[i].ID)
		if err != nil {
			return nil, err
		}
		scenarios[i].ExtraPayments = payments
	}
	return scenarios, nil
}

// DeleteScenario removes a scenario and its extra payments.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrScenarioNotFound
	}
	return nil
}

// UpdateExtraPayments loads the extra payments of a scenario into a
// loans.ExtraPaymentSet, applies fn and stores the result. Nothing is stored
// when fn fails.
func (s *Store) UpdateExtraPayments(ctx context.Context, scenarioID string, fn func(*loans.ExtraPaymentSet) error) (*Scenario, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sc, err := getScenario(ctx, tx, scenarioID)
	if err != nil {
		return nil, err
	}

	set := loans.NewExtraPaymentSet(sc.Loan.TotalPeriods)
	if err := set.Restore(sc.ExtraPayments...); err != nil {
		return nil, fmt.Errorf("stored extra payments are invalid: %w", err)
	}
	if err := fn(set); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM extra_payments WHERE scenario_id = ?", scenarioID); err != nil {
		return nil, fmt.Errorf("failed to clear extra payments: %w", err)
	}
	sc.ExtraPayments = set.List()
	if err := insertExtraPayments(ctx, tx, scenarioID, sc.ExtraPayments); err != nil {
		return nil, err
	}

	sc.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	if _, err := tx.ExecContext(ctx, "UPDATE scenarios SET updated_at = ? WHERE id = ?",
		sc.UpdatedAt.Format(time.RFC3339), scenarioID); err != nil {
		return nil, fmt.Errorf("failed to touch scenario: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sc, nil
}

func validateScenario(sc *Scenario, maxPeriods int) error {
	if sc.Loan.Frequency == "" {
		sc.Loan.Frequency = loans.Monthly
	}
	if sc.Strategy == "" {
		sc.Strategy = loans.Auto
	}
	if err := loans.ValidateScheduleRequest(loans.ScheduleRequest{
		Loan:         sc.Loan,
		Insurance:    sc.Insurance,
		Strategy:     sc.Strategy,
		FirstPayment: sc.FirstPayment,
	}, maxPeriods); err != nil {
		return err
	}
	if sc.Name == "" {
		sc.Name = "Untitled loan"
	}
	return nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getScenario(ctx context.Context, q querier, id string) (*Scenario, error) {
	row := q.QueryRowContext(ctx,
		"SELECT id, name, settings_json, created_at, updated_at FROM scenarios WHERE id = ?", id)
	sc, err := scanScenario(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScenarioNotFound
	}
	if err != nil {
		return nil, err
	}

	sc.ExtraPayments, err = loadExtraPayments(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func scanScenario(row scanner) (*Scenario, error) {
	var sc Scenario
	var settingsJSON, createdAt, updatedAt string
	if err := row.Scan(&sc.ID, &sc.Name, &settingsJSON, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var st settings
	if err := json.Unmarshal([]byte(settingsJSON), &st); err != nil {
		return nil, fmt.Errorf("failed to decode settings of scenario %s: %w", sc.ID, err)
	}
	sc.Loan = st.Loan
	sc.Insurance = st.Insurance
	sc.Strategy = st.Strategy
	sc.FirstPayment = st.FirstPayment

	var err error
	if sc.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at of scenario %s: %w", sc.ID, err)
	}
	if sc.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at of scenario %s: %w", sc.ID, err)
	}
	return &sc, nil
}

func loadExtraPayments(ctx context.Context, q querier, scenarioID string) ([]loans.ExtraPayment, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT id, period, amount FROM extra_payments WHERE scenario_id = ? ORDER BY position", scenarioID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := []loans.ExtraPayment{}
	for rows.Next() {
		var payment loans.ExtraPayment
		var amount string
		if err := rows.Scan(&payment.ID, &payment.Period, &amount); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q for extra payment %s: %w", amount, payment.ID, err)
		}
		payment.Amount = value.InexactFloat64()
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func insertExtraPayments(ctx context.Context, tx *sql.Tx, scenarioID string, payments []loans.ExtraPayment) error {
	for position, payment := range payments {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO extra_payments (id, scenario_id, period, amount, position) VALUES (?, ?, ?, ?, ?)",
			payment.ID, scenarioID, payment.Period, decimal.NewFromFloat(payment.Amount).String(), position,
		)
		if err != nil {
			return fmt.Errorf("failed to insert extra payment %s: %w", payment.ID, err)
		}
	}
	return nil
}
