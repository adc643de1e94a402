package tasks

import (
	"context"

	"github.com/ledovskis/taskkeeper/internal/server/models"
)

// Repository is the storage contract for task records. Every read and write
// except Update is owner-scoped; a task owned by someone else is
// indistinguishable from an absent one. Update and Delete report affected
// rows so the caller can map zero onto not-found.
type Repository interface {
	Create(ctx context.Context, task *models.Task) error
	FindByOwner(ctx context.Context, owner, id string) (*models.Task, error)
	ListByOwner(ctx context.Context, owner string, filter models.TaskFilter, order models.TaskOrder) ([]*models.Task, error)
	Update(ctx context.Context, id string, fields map[string]any) (int64, error)
	Delete(ctx context.Context, owner, id string) (int64, error)
}
