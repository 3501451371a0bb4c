// ABOUTME: Care task storage operations for SQLite
// ABOUTME: Completion and scheduling of the follow-up task happen in one transaction
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/harper/plant-texts/internal/models"
)

// CareStore handles care task persistence
type CareStore struct {
	db *DB
}

// NewCareStore creates a new CareStore
func NewCareStore(db *DB) *CareStore {
	return &CareStore{db: db}
}

const insertTask = `INSERT INTO care_tasks (id, plant_id, task_type, due_at, completed_at) VALUES (?, ?, ?, ?, ?)`

func insertCareTask(ctx context.Context, tx *sql.Tx, task *models.CareTask) error {
	var completedAt interface{}
	if task.CompletedAt != nil {
		completedAt = formatTime(*task.CompletedAt)
	}
	_, err := tx.ExecContext(ctx, insertTask,
		task.TaskID, task.PlantID, string(task.TaskType), formatTime(task.DueAt), completedAt)
	return err
}

// Get retrieves a task by ID, returning nil if not found
func (s *CareStore) Get(ctx context.Context, taskID string) (*models.CareTask, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, plant_id, task_type, due_at, completed_at FROM care_tasks WHERE id = ?
	`, taskID)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return task, err
}

// Complete marks an open task done and inserts next, atomically. It
// reports false when no open task with that ID exists.
func (s *CareStore) Complete(ctx context.Context, taskID string, at time.Time, next *models.CareTask) (bool, error) {
	completed := false
	err := s.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE care_tasks SET completed_at = ? WHERE id = ? AND completed_at IS NULL
		`, formatTime(at), taskID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		completed = true
		if next != nil {
			return insertCareTask(ctx, tx, next)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// ForPlant lists a plant's tasks by due date
func (s *CareStore) ForPlant(ctx context.Context, plantID string, includeCompleted bool) ([]models.CareTask, error) {
	query := `SELECT id, plant_id, task_type, due_at, completed_at FROM care_tasks WHERE plant_id = ?`
	if !includeCompleted {
		query += ` AND completed_at IS NULL`
	}
	query += ` ORDER BY due_at ASC, task_type ASC`

	rows, err := s.db.Query(ctx, query, plantID)
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

// DueForUser lists open tasks across a user's plants due at or before now
func (s *CareStore) DueForUser(ctx context.Context, userID string, now time.Time) ([]models.CareTask, error) {
	rows, err := s.db.Query(ctx, `
		SELECT t.id, t.plant_id, t.task_type, t.due_at, t.completed_at
		FROM care_tasks t
		JOIN plants p ON p.id = t.plant_id
		WHERE p.user_id = ? AND t.completed_at IS NULL AND t.due_at <= ?
		ORDER BY t.due_at ASC, t.task_type ASC
	`, userID, formatTime(now))
	if err != nil {
		return nil, err
	}
	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]models.CareTask, error) {
	defer func() { _ = rows.Close() }()

	var tasks []models.CareTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row scanner) (*models.CareTask, error) {
	var (
		task        models.CareTask
		taskType    string
		dueAt       string
		completedAt sql.NullString
	)
	if err := row.Scan(&task.TaskID, &task.PlantID, &taskType, &dueAt, &completedAt); err != nil {
		return nil, err
	}
	task.TaskType = models.TaskType(taskType)

	var err error
	if task.DueAt, err = parseTime(dueAt); err != nil {
		return nil, err
	}
	if task.CompletedAt, err = parseNullTime(completedAt); err != nil {
		return nil, err
	}
	return &task, nil
}
