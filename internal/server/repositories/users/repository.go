package users

import (
	"context"

	"github.com/ledovskis/taskkeeper/internal/server/models"
)

// Repository is the storage contract for user records. Update takes a map of
// column names to new values and reports the number of affected rows; zero
// means the user does not exist.
type Repository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]any) (int64, error)
}
