package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" database/sql driver
	_ "modernc.org/sqlite"             // registers "sqlite" database/sql driver

	"github.com/harshj20/taskflow/pkg/types"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLStore persists executions relationally via sqlx.DB, against either
// Postgres (driverName "pgx") or embedded sqlite (driverName "sqlite").
// Every mutating method runs inside one transaction.
type SQLStore struct {
	db *sqlx.DB
}

// driverForDSN picks the database/sql driver name from a DSN's scheme, so
// callers only need to configure one field (config.StoreDSN).
func driverForDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "pgx"
	}
	return "sqlite"
}

// OpenSQLStore opens dsn, runs goose migrations, and returns a ready SQLStore.
func OpenSQLStore(dsn string, maxOpenConns int) (*SQLStore, error) {
	driver := driverForDSN(dsn)

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(gooseDialect(driver)); err != nil {
		return nil, fmt.Errorf("store: goose dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func gooseDialect(driver string) string {
	if driver == "pgx" {
		return "postgres"
	}
	return "sqlite3"
}

func (s *SQLStore) Close() error { return s.db.Close() }

func (s *SQLStore) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTransaction, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrTransaction, err)
	}
	return nil
}

func (s *SQLStore) CreateWorkflow(ctx context.Context, we *types.WorkflowExecution) error {
	specJSON, err := json.Marshal(we.Spec)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, rebind(s.db, `
			INSERT INTO workflow_executions (id, spec, status, progress, created_at, started_at, completed_at, error_message, results)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			we.ID, string(specJSON), string(we.Status), we.Progress, we.CreatedAt, we.StartedAt, we.CompletedAt, we.ErrorMessage, nullableJSON(we.Results))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransaction, err)
		}
		return nil
	})
}

func (s *SQLStore) UpdateWorkflowStatus(ctx context.Context, id string, status types.Status, progress float64, errMsg string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		var startedAt *time.Time
		if status == types.StatusRunning {
			now := time.Now()
			startedAt = &now
		}
		res, err := tx.ExecContext(ctx, rebind(s.db, `
			UPDATE workflow_executions
			SET status = ?, progress = ?, error_message = ?,
			    started_at = COALESCE(started_at, ?)
			WHERE id = ?`),
			string(status), progress, errMsg, startedAt, id)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransaction, err)
		}
		return checkRowsAffected(res, id)
	})
}

func (s *SQLStore) CompleteWorkflow(ctx context.Context, id string, status types.Status, results map[string]interface{}, errMsg string) error {
	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, rebind(s.db, `
			UPDATE workflow_executions
			SET status = ?, results = ?, error_message = ?, completed_at = ?, progress = 1.0
			WHERE id = ?`),
			string(status), string(resultsJSON), errMsg, time.Now(), id)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransaction, err)
		}
		return checkRowsAffected(res, id)
	})
}

type workflowRow struct {
	ID           string         `db:"id"`
	Spec         string         `db:"spec"`
	Status       string         `db:"status"`
	Progress     float64        `db:"progress"`
	CreatedAt    time.Time      `db:"created_at"`
	StartedAt    sql.NullTime   `db:"started_at"`
	CompletedAt  sql.NullTime   `db:"completed_at"`
	ErrorMessage string         `db:"error_message"`
	Results      sql.NullString `db:"results"`
}

func (r workflowRow) toExecution() (*types.WorkflowExecution, error) {
	we := &types.WorkflowExecution{
		ID:           r.ID,
		Status:       types.Status(r.Status),
		Progress:     r.Progress,
		CreatedAt:    r.CreatedAt,
		ErrorMessage: r.ErrorMessage,
	}
	if err := json.Unmarshal([]byte(r.Spec), &we.Spec); err != nil {
		return nil, fmt.Errorf("store: decode spec: %w", err)
	}
	if r.StartedAt.Valid {
		we.StartedAt = &r.StartedAt.Time
	}
	if r.CompletedAt.Valid {
		we.CompletedAt = &r.CompletedAt.Time
	}
	if r.Results.Valid && r.Results.String != "" {
		if err := json.Unmarshal([]byte(r.Results.String), &we.Results); err != nil {
			return nil, fmt.Errorf("store: decode results: %w", err)
		}
	}
	return we, nil
}

func (s *SQLStore) GetWorkflow(ctx context.Context, id string) (*types.WorkflowExecution, error) {
	var row workflowRow
	err := s.db.GetContext(ctx, &row, rebind(s.db, `SELECT * FROM workflow_executions WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: workflow %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return row.toExecution()
}

func (s *SQLStore) ListInFlightWorkflows(ctx context.Context) ([]types.WorkflowExecution, error) {
	var rows []workflowRow
	err := s.db.SelectContext(ctx, &rows, rebind(s.db, `SELECT * FROM workflow_executions WHERE status IN (?, ?)`),
		string(types.StatusPending), string(types.StatusRunning))
	if err != nil {
		return nil, err
	}
	out := make([]types.WorkflowExecution, 0, len(rows))
	for _, r := range rows {
		we, err := r.toExecution()
		if err != nil {
			return nil, err
		}
		out = append(out, *we)
	}
	return out, nil
}

func (s *SQLStore) CreateNode(ctx context.Context, ne *types.NodeExecution) error {
	inputsJSON, err := json.Marshal(ne.ResolvedInputs)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, rebind(s.db, `
			INSERT INTO node_executions (id, workflow_id, node_id, tool, resolved_inputs, outputs, status, started_at, completed_at, error_message, isolation_handle, retry_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			ne.ID, ne.WorkflowID, ne.NodeID, ne.Tool, string(inputsJSON), nullableJSON(ne.Outputs),
			string(ne.Status), ne.StartedAt, ne.CompletedAt, ne.ErrorMessage, ne.IsolationHandle, ne.RetryCount)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransaction, err)
		}
		return nil
	})
}

func (s *SQLStore) UpdateNode(ctx context.Context, ne *types.NodeExecution) error {
	outputsJSON, err := json.Marshal(ne.Outputs)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, rebind(s.db, `
			UPDATE node_executions
			SET outputs = ?, status = ?, started_at = ?, completed_at = ?, error_message = ?, isolation_handle = ?, retry_count = ?
			WHERE id = ?`),
			string(outputsJSON), string(ne.Status), ne.StartedAt, ne.CompletedAt, ne.ErrorMessage, ne.IsolationHandle, ne.RetryCount, ne.ID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransaction, err)
		}
		return checkRowsAffected(res, ne.ID)
	})
}

type nodeRow struct {
	ID              string         `db:"id"`
	WorkflowID      string         `db:"workflow_id"`
	NodeID          string         `db:"node_id"`
	Tool            string         `db:"tool"`
	ResolvedInputs  sql.NullString `db:"resolved_inputs"`
	Outputs         sql.NullString `db:"outputs"`
	Status          string         `db:"status"`
	StartedAt       sql.NullTime   `db:"started_at"`
	CompletedAt     sql.NullTime   `db:"completed_at"`
	ErrorMessage    string         `db:"error_message"`
	IsolationHandle string         `db:"isolation_handle"`
	RetryCount      int            `db:"retry_count"`
}

func (r nodeRow) toExecution() (*types.NodeExecution, error) {
	ne := &types.NodeExecution{
		ID:              r.ID,
		WorkflowID:      r.WorkflowID,
		NodeID:          r.NodeID,
		Tool:            r.Tool,
		Status:          types.Status(r.Status),
		ErrorMessage:    r.ErrorMessage,
		IsolationHandle: r.IsolationHandle,
		RetryCount:      r.RetryCount,
	}
	if r.ResolvedInputs.Valid && r.ResolvedInputs.String != "" {
		if err := json.Unmarshal([]byte(r.ResolvedInputs.String), &ne.ResolvedInputs); err != nil {
			return nil, fmt.Errorf("store: decode resolved_inputs: %w", err)
		}
	}
	if r.Outputs.Valid && r.Outputs.String != "" {
		if err := json.Unmarshal([]byte(r.Outputs.String), &ne.Outputs); err != nil {
			return nil, fmt.Errorf("store: decode outputs: %w", err)
		}
	}
	if r.StartedAt.Valid {
		ne.StartedAt = &r.StartedAt.Time
	}
	if r.CompletedAt.Valid {
		ne.CompletedAt = &r.CompletedAt.Time
	}
	return ne, nil
}

func (s *SQLStore) ListNodes(ctx context.Context, workflowID string) ([]types.NodeExecution, error) {
	var rows []nodeRow
	err := s.db.SelectContext(ctx, &rows, rebind(s.db, `SELECT * FROM node_executions WHERE workflow_id = ? ORDER BY rowid`), workflowID)
	if err != nil {
		return nil, err
	}
	out := make([]types.NodeExecution, 0, len(rows))
	for _, r := range rows {
		ne, err := r.toExecution()
		if err != nil {
			return nil, err
		}
		out = append(out, *ne)
	}
	return out, nil
}

func (s *SQLStore) ListInFlightNodes(ctx context.Context) ([]types.NodeExecution, error) {
	var rows []nodeRow
	err := s.db.SelectContext(ctx, &rows, rebind(s.db, `SELECT * FROM node_executions WHERE status IN (?, ?)`),
		string(types.StatusPending), string(types.StatusRunning))
	if err != nil {
		return nil, err
	}
	out := make([]types.NodeExecution, 0, len(rows))
	for _, r := range rows {
		ne, err := r.toExecution()
		if err != nil {
			return nil, err
		}
		out = append(out, *ne)
	}
	return out, nil
}

func (s *SQLStore) RecordErrorSignature(ctx context.Context, sig types.ErrorSignature) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, rebind(s.db, `
			INSERT INTO error_signatures (hash, tool, error_type, message, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (hash) DO NOTHING`),
			sig.Hash, sig.Tool, sig.ErrorType, sig.Message, sig.CreatedAt)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransaction, err)
		}
		return nil
	})
}

func rebind(db *sqlx.DB, query string) string {
	return db.Rebind(query)
}

func nullableJSON(v map[string]interface{}) interface{} {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return string(b)
}

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransaction, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
