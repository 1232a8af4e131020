package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lingualabs/lingua-api/internal/platform/logger"
	"github.com/lingualabs/lingua-api/internal/store"
	"github.com/lingualabs/lingua-api/internal/task"
)

// TaskFactory reconstructs executable tasks from their persisted form.
type TaskFactory interface {
	CreateTask(id uuid.UUID, taskType string, payload []byte, status task.TaskStatus) (task.Task, error)
}

// PostgresTaskStore implements the task.TaskStore interface using PostgreSQL.
// Tasks loaded from the database are rebuilt through the configured factory
// so that recovered tasks can actually execute.
type PostgresTaskStore struct {
	db      store.DBTX
	factory TaskFactory
}

var _ task.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgresTaskStore.
func NewPostgresTaskStore(db store.DBTX, factory TaskFactory) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	return &PostgresTaskStore{
		db:      db,
		factory: factory,
	}
}

// SaveTask persists a task to the database.
func (s *PostgresTaskStore) SaveTask(ctx context.Context, t task.Task) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO tasks (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		t.ID(),
		t.Type(),
		t.Payload(),
		t.Status(),
		now,
		now,
	)
	if err != nil {
		log.Error("failed to save task",
			"task_id", t.ID(),
			"task_type", t.Type(),
			"error", err)
		return fmt.Errorf("failed to save task to database: %w", err)
	}

	return nil
}

// UpdateTaskStatus updates the status of a task in the database.
// An unknown task ID is treated as a no-op.
func (s *PostgresTaskStore) UpdateTaskStatus(
	ctx context.Context,
	taskID uuid.UUID,
	status task.TaskStatus,
	errorMsg string,
) error {
	log := logger.FromContext(ctx)

	query := `
		UPDATE tasks
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		taskID,
	)
	if err != nil {
		log.Error("failed to update task status",
			"task_id", taskID,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update task status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		log.Warn("no task found with ID to update status", "task_id", taskID)
	}

	return nil
}

// SetFactory installs the factory used to rebuild persisted tasks. The
// factory depends on services that are constructed after the store, so it
// is wired in a second step before the runner starts.
func (s *PostgresTaskStore) SetFactory(factory TaskFactory) {
	s.factory = factory
}

// GetPendingTasks retrieves all tasks with "pending" status.
func (s *PostgresTaskStore) GetPendingTasks(ctx context.Context) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusPending, 0)
}

// GetProcessingTasks retrieves tasks with "processing" status, optionally
// limited to tasks stale for longer than olderThan.
func (s *PostgresTaskStore) GetProcessingTasks(
	ctx context.Context,
	olderThan time.Duration,
) ([]task.Task, error) {
	return s.getTasksByStatus(ctx, task.TaskStatusProcessing, olderThan)
}

// WithTx returns a new PostgresTaskStore that uses the provided transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) task.TaskStore {
	return &PostgresTaskStore{
		db:      tx,
		factory: s.factory,
	}
}

func (s *PostgresTaskStore) getTasksByStatus(
	ctx context.Context,
	status task.TaskStatus,
	olderThan time.Duration,
) ([]task.Task, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, type, payload, status
		FROM tasks
		WHERE status = $1
		ORDER BY created_at ASC
	`
	args := []interface{}{status}

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status
			FROM tasks
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = append(args, time.Now().UTC().Add(-olderThan))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by status",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("failed to query tasks by status: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := []task.Task{}

	for rows.Next() {
		var id uuid.UUID
		var taskType string
		var payload []byte
		var taskStatus task.TaskStatus

		if err := rows.Scan(&id, &taskType, &payload, &taskStatus); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}

		t, err := s.rebuildTask(id, taskType, payload, taskStatus)
		if err != nil {
			// A malformed or unknown task should not block recovery of
			// the rest.
			log.Error("failed to rebuild task, skipping",
				"task_id", id,
				"task_type", taskType,
				"error", err)
			continue
		}

		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	return tasks, nil
}

func (s *PostgresTaskStore) rebuildTask(
	id uuid.UUID,
	taskType string,
	payload []byte,
	status task.TaskStatus,
) (task.Task, error) {
	if s.factory == nil {
		return nil, fmt.Errorf("no task factory configured")
	}
	return s.factory.CreateTask(id, taskType, payload, status)
}
