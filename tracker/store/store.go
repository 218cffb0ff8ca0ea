// Package store defines the repository contracts for taskdeck and ships
// two implementations: a mutex-guarded in-memory store and a sqlite store.
//
// Every lookup that takes a user id is owner-scoped: a record that exists
// but belongs to someone else is reported exactly like a record that does
// not exist. That conflation is deliberate, it keeps callers from probing
// which ids are in use.
package store

import (
	"context"
	"errors"

	"github.com/andrebq/taskdeck/tracker"
)

// ErrDuplicateUsername is the one registration failure callers are allowed
// to tell apart, so signup can say "pick another name" instead of failing
// opaquely.
var ErrDuplicateUsername = errors.New("store: username already exists")

type (
	Store interface {
		Users() UserRepo
		Projects() ProjectRepo
		Tasks() TaskRepo
		Close() error
	}

	UserRepo interface {
		Create(ctx context.Context, username, passwordHash string) (tracker.User, error)
		FindByUsername(ctx context.Context, username string) (tracker.User, bool, error)
	}

	ProjectRepo interface {
		ListByOwner(ctx context.Context, userID int64) ([]tracker.Project, error)
		GetByIDForOwner(ctx context.Context, id, userID int64) (tracker.Project, bool, error)
		Create(ctx context.Context, input tracker.ProjectInput, userID int64) (tracker.Project, error)
		// Delete removes the project and every task under it, tasks first
		// so no task id stays resolvable after its project is gone.
		Delete(ctx context.Context, id, userID int64) (bool, error)
	}

	// TaskRepo operations never take a task owner directly: tasks carry no
	// user id, authorization always walks task -> project -> owner.
	TaskRepo interface {
		AddToProject(ctx context.Context, projectID int64, input tracker.TaskInput, userID int64) (tracker.Task, bool, error)
		Update(ctx context.Context, taskID int64, input tracker.TaskInput, userID int64) (tracker.Task, bool, error)
		Delete(ctx context.Context, taskID, userID int64) (bool, error)
		GetByID(ctx context.Context, taskID, userID int64) (tracker.Task, bool, error)
	}
)
