package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/xixoi/ads-autopilot-api/infrastructure/database/postgres"
	"github.com/xixoi/ads-autopilot-api/internal/domain"
)

const automationTasksTable = "automation_tasks"

// TaskRepository gerencia as tarefas agendadas consumidas pelo conductor
type TaskRepository interface {
	ListPending(kind string) ([]*domain.AutomationTask, error)
	MarkCompleted(taskID string, completedAt time.Time) error
}

type taskRepository struct {
	conn *postgres.Connection
}

func NewTaskRepository(conn *postgres.Connection) TaskRepository {
	return &taskRepository{
		conn: conn,
	}
}

func (r *taskRepository) ListPending(kind string) ([]*domain.AutomationTask, error) {
	taskSQL, taskArgs, err := squirrel.
		Select("id, kind, status, scheduled_at, completed_at").
		From(automationTasksTable).
		Where(squirrel.Eq{"kind": kind, "status": domain.AutomationTaskStatusPending}).
		OrderBy("scheduled_at ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(taskSQL, taskArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*domain.AutomationTask, 0)

	for rows.Next() {
		task := &domain.AutomationTask{}
		if err := rows.Scan(&task.ID, &task.Kind, &task.Status, &task.ScheduledAt, &task.CompletedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *taskRepository) MarkCompleted(taskID string, completedAt time.Time) error {
	sqlQuery, args, err := squirrel.
		Update(automationTasksTable).
		Set("status", domain.AutomationTaskStatusCompleted).
		Set("completed_at", completedAt).
		Where(squirrel.Eq{"id": taskID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}

	return nil
}
