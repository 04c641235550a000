package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kyrix/api/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRepository persists tasks. Every query and mutation is scoped by the
// owning user id, so a task belonging to someone else is structurally
// unreachable: a foreign id matches zero rows and surfaces as not-found.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

const taskColumns = `id, user_id, title, date, time, category, priority, completed, created_at, updated_at`

func scanTask(row pgx.Row) (models.Task, error) {
	var task models.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Date,
		&task.Time,
		&task.Category,
		&task.Priority,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	return task, err
}

func (r *TaskRepository) Create(ctx context.Context, task models.Task) (models.Task, error) {
	const query = `
		INSERT INTO tasks (id, user_id, title, date, time, category, priority, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Date,
		task.Time,
		task.Category,
		task.Priority,
		task.Completed,
	)
	return scanTask(row)
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1
		ORDER BY date ASC
	`
	return r.queryTasks(ctx, query, userID)
}

func (r *TaskRepository) ListIncompleteByUser(ctx context.Context, userID string) ([]models.Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks WHERE user_id = $1 AND completed = FALSE
		ORDER BY date ASC, time ASC
	`
	return r.queryTasks(ctx, query, userID)
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, userID string) ([]models.Task, error) {
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) SetCompleted(ctx context.Context, userID, taskID string, completed bool) (models.Task, error) {
	const query = `
		UPDATE tasks SET completed = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, userID, completed))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	return task, err
}

func (r *TaskRepository) Update(ctx context.Context, userID, taskID, title string, date time.Time, taskTime *string) (models.Task, error) {
	const query = `
		UPDATE tasks SET title = $3, date = $4, time = $5, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, taskID, userID, title, date, taskTime))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	return task, err
}

func (r *TaskRepository) Delete(ctx context.Context, userID, taskID string) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	cmd, err := r.pool.Exec(ctx, query, taskID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
