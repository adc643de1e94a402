package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ledovskis/taskkeeper/internal/common"
	"github.com/ledovskis/taskkeeper/internal/dbx"
	"github.com/ledovskis/taskkeeper/internal/server/models"
	"github.com/ledovskis/taskkeeper/internal/server/repositories/repomanager"
)

// TaskService implements owner-scoped task CRUD and the task state machine.
// It receives an already-authenticated owner id; tokens never reach it.
// Tasks owned by someone else behave exactly like absent ones.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewTaskService constructs a TaskService over the given repositories.
func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

// Create persists a new incomplete task for owner.
func (s *TaskService) Create(ctx context.Context, owner, description string) (*models.Task, error) {
	task := &models.Task{
		ID:          uuid.NewString(),
		Description: description,
		State:       models.TaskStateIncomplete,
		CreatedAt:   time.Now(),
		Owner:       owner,
	}

	repo := s.repomanager.Tasks(s.db)
	if err := repo.Create(ctx, task); err != nil {
		return nil, common.ErrorInternal
	}
	return task, nil
}

// Get returns the task only if it belongs to owner.
func (s *TaskService) Get(ctx context.Context, owner, id string) (*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	task, err := repo.FindByOwner(ctx, owner, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return task, nil
}

// Edit updates the task's description and/or completes it. A task that is
// already complete rejects every edit, including description-only ones. The
// only legal provided state is the forward transition to COMPLETE, which also
// stamps CompletedAt. Read and update run in one transaction so the
// state check and the write commit together.
func (s *TaskService) Edit(ctx context.Context, owner, id string, description, state *string) (*models.Task, error) {
	if description == nil && state == nil {
		return nil, common.ErrNoFieldsProvided
	}
	if state != nil && *state != models.TaskStateComplete {
		return nil, common.ErrorValidation
	}

	var task *models.Task
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tasks(tx)

		t, err := repo.FindByOwner(ctx, owner, id)
		if err != nil {
			return err
		}
		if t.State == models.TaskStateComplete {
			return common.ErrTaskAlreadyComplete
		}

		fields := map[string]any{}
		if description != nil {
			fields["description"] = *description
			t.Description = *description
		}
		if state != nil {
			now := time.Now()
			fields["state"] = models.TaskStateComplete
			fields["completed_at"] = now
			t.State = models.TaskStateComplete
			t.CompletedAt = &now
		}

		n, err := repo.Update(ctx, t.ID, fields)
		if err != nil {
			return err
		}
		if n == 0 {
			return common.ErrorNotFound
		}

		task = t
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrTaskAlreadyComplete) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	return task, nil
}

// Delete removes the task if it belongs to owner; otherwise reports not-found.
func (s *TaskService) Delete(ctx context.Context, owner, id string) error {
	repo := s.repomanager.Tasks(s.db)

	n, err := repo.Delete(ctx, owner, id)
	if err != nil {
		return common.ErrorInternal
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// List returns a snapshot of the owner's tasks restricted by filter and
// sorted ascending by the order key.
func (s *TaskService) List(ctx context.Context, owner string, filter models.TaskFilter, order models.TaskOrder) ([]*models.Task, error) {
	repo := s.repomanager.Tasks(s.db)

	result, err := repo.ListByOwner(ctx, owner, filter, order)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return nil, common.ErrorValidation
		}
		return nil, common.ErrorInternal
	}
	return result, nil
}
