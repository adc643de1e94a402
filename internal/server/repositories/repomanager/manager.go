package repomanager

import (
	"context"
	"database/sql"

	"github.com/ledovskis/taskkeeper/internal/dbx"
	"github.com/ledovskis/taskkeeper/internal/server/repositories/tasks"
	"github.com/ledovskis/taskkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX (either
// *sql.DB or a transaction) and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
