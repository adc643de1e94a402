// Package tasks provides the PostgreSQL-backed repository for task records.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ledovskis/taskkeeper/internal/common"
	"github.com/ledovskis/taskkeeper/internal/dbx"
	"github.com/ledovskis/taskkeeper/internal/server/models"
)

// PostgresRepository implements task storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var updatableColumns = []string{"description", "state", "completed_at"}

// orderClauses maps the public sort keys onto SQL. Incomplete tasks have a
// NULL completed_at and sort last under that key.
var orderClauses = map[models.TaskOrder]string{
	models.OrderByDescription: "description ASC",
	models.OrderByCreatedAt:   "created_at ASC",
	models.OrderByCompletedAt: "completed_at ASC NULLS LAST",
}

const taskColumns = `id, description, state, created_at, completed_at, owner`

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, description, state, created_at, completed_at, owner)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.Description, task.State, task.CreatedAt, task.CompletedAt, task.Owner)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByOwner(ctx context.Context, owner, id string) (*models.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1 AND owner = $2`, taskColumns)

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, owner))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

// ListByOwner returns the owner's tasks, optionally restricted by state and
// sorted ascending by the requested key. Filter and order values are resolved
// through fixed whitelists; unknown values are a validation error.
func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string, filter models.TaskFilter, order models.TaskOrder) ([]*models.Task, error) {
	orderBy, ok := orderClauses[order]
	if !ok {
		return nil, common.ErrorValidation
	}

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE owner = $1`, taskColumns)
	args := []any{owner}

	switch filter {
	case models.FilterAll:
	case models.FilterIncomplete, models.FilterComplete:
		args = append(args, string(filter))
		query += ` AND state = $2`
	default:
		return nil, common.ErrorValidation
	}

	query += ` ORDER BY ` + orderBy

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies the given column/value pairs to a single task row and
// returns the number of affected rows. Ownership is checked by the caller
// before updating; concurrent edits resolve as last-writer-wins.
func (r *PostgresRepository) Update(ctx context.Context, id string, fields map[string]any) (int64, error) {
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, col := range updatableColumns {
		v, ok := fields[col]
		if !ok {
			continue
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if len(sets) != len(fields) {
		return 0, fmt.Errorf("unknown task column in update: %v", fields)
	}
	if len(sets) == 0 {
		return 0, common.ErrNoFieldsProvided
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, owner, id string) (int64, error) {
	query := `DELETE FROM tasks WHERE id = $1 AND owner = $2`

	res, err := r.db.ExecContext(ctx, query, id, owner)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var completedAt sql.NullTime
	err := row.Scan(&task.ID, &task.Description, &task.State,
		&task.CreatedAt, &completedAt, &task.Owner)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}
	return task, nil
}
