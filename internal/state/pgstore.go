package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shaiso/hicflow/internal/domain"
)

// PgStore — ledger в Postgres. Используется в инсталляциях, где
// состояния задач нескольких запусков должны быть видны центрально
// (общий планировщик, мониторинг).
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPool создаёт пул соединений по DSN.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 5
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// NewPgStore создаёт PgStore и гарантирует существование схемы.
func NewPgStore(ctx context.Context, pool *pgxpool.Pool) (*PgStore, error) {
	s := &PgStore{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureSchema создаёт таблицу ledger'а, если её ещё нет.
func (s *PgStore) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS hicflow_tasks (
			group_name TEXT NOT NULL,
			task_id    TEXT NOT NULL,
			role       TEXT NOT NULL,
			state      TEXT NOT NULL,
			exit_code  INT  NOT NULL DEFAULT 0,
			handle     TEXT NOT NULL DEFAULT '',
			error      TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (group_name, task_id)
		)
	`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Record записывает состояние задачи (upsert).
func (s *PgStore) Record(ctx context.Context, rec TaskRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}

	query := `
		INSERT INTO hicflow_tasks (group_name, task_id, role, state, exit_code, handle, error, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (group_name, task_id) DO UPDATE SET
			role = EXCLUDED.role,
			state = EXCLUDED.state,
			exit_code = EXCLUDED.exit_code,
			handle = EXCLUDED.handle,
			error = EXCLUDED.error,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query,
		rec.Group,
		string(rec.TaskID),
		string(rec.Role),
		string(rec.State),
		rec.ExitCode,
		rec.Handle,
		rec.Error,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert task record: %w", err)
	}
	return nil
}

// Get возвращает запись задачи или ErrNotFound.
func (s *PgStore) Get(ctx context.Context, group string, id domain.TaskID) (*TaskRecord, error) {
	query := `
		SELECT group_name, task_id, role, state, exit_code, handle, error, updated_at
		FROM hicflow_tasks
		WHERE group_name = $1 AND task_id = $2
	`
	rec, err := scanRecord(s.pool.QueryRow(ctx, query, group, string(id)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select task record: %w", err)
	}
	return rec, nil
}

// List возвращает все записи группы.
func (s *PgStore) List(ctx context.Context, group string) ([]TaskRecord, error) {
	query := `
		SELECT group_name, task_id, role, state, exit_code, handle, error, updated_at
		FROM hicflow_tasks
		WHERE group_name = $1
		ORDER BY task_id
	`
	rows, err := s.pool.Query(ctx, query, group)
	if err != nil {
		return nil, fmt.Errorf("select task records: %w", err)
	}
	defer rows.Close()

	var recs []TaskRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task record: %w", err)
		}
		recs = append(recs, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task records: %w", err)
	}
	return recs, nil
}

// scanRecord читает одну строку результата в TaskRecord.
func scanRecord(row pgx.Row) (*TaskRecord, error) {
	var rec TaskRecord
	var taskID, role, taskState string
	err := row.Scan(&rec.Group, &taskID, &role, &taskState,
		&rec.ExitCode, &rec.Handle, &rec.Error, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.TaskID = domain.TaskID(taskID)
	rec.Role = domain.TaskRole(role)
	rec.State = domain.TaskState(taskState)
	return &rec, nil
}
