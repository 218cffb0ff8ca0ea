package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/andrebq/taskdeck/tracker"
	"github.com/cespare/xxhash/v2"
	_ "github.com/mattn/go-sqlite3"
)

type (
	// Sqlite persists the tracker on a single sqlite file. The flat task
	// table doubles as every project's embedded task list, so the two
	// views of task membership cannot drift apart here.
	Sqlite struct {
		db *sql.DB
	}

	sqlUsers    struct{ s *Sqlite }
	sqlProjects struct{ s *Sqlite }
	sqlTasks    struct{ s *Sqlite }
)

func OpenSqlite(ctx context.Context, path string) (*Sqlite, error) {
	connstr := fmt.Sprintf("file:%v?_journal=wal&_fk=true&mode=rwc", path)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", path, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to ping tracker database %v, cause %w", path, err)
	}
	s := &Sqlite{db: conn}
	err = s.init(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to init tracker database %v, cause %w", path, err)
	}
	return s, nil
}

func (s *Sqlite) init(ctx context.Context) error {
	commands := []string{
		`create table if not exists users(
			user_id integer primary key autoincrement,
			username text not null unique,
			username_hash64 integer not null,
			password text not null)`,
		`create index if not exists users_by_hash on users(username_hash64)`,
		`create table if not exists projects(
			project_id integer primary key autoincrement,
			title text not null,
			description text not null default '',
			created_at text not null,
			user_id integer not null references users(user_id))`,
		`create table if not exists tasks(
			task_id integer primary key autoincrement,
			title text not null,
			due_date text not null default '',
			is_completed integer not null default 0,
			project_id integer not null references projects(project_id))`,
	}
	for _, cmd := range commands {
		_, err := s.db.ExecContext(ctx, cmd)
		if err != nil {
			return fmt.Errorf("unable to run %v, cause %w", cmd, err)
		}
	}
	return nil
}

func (s *Sqlite) Users() UserRepo       { return sqlUsers{s} }
func (s *Sqlite) Projects() ProjectRepo { return sqlProjects{s} }
func (s *Sqlite) Tasks() TaskRepo       { return sqlTasks{s} }

func (s *Sqlite) Close() error {
	return s.db.Close()
}

// usernameHash64 narrows username lookups to an indexed integer column,
// the exact match on the text column settles hash collisions.
func usernameHash64(username string) int64 {
	return int64(xxhash.Sum64String(username))
}

func (u sqlUsers) Create(ctx context.Context, username, passwordHash string) (tracker.User, error) {
	res, err := u.s.db.ExecContext(ctx,
		`insert into users (username, username_hash64, password) values (?, ?, ?)`,
		username, usernameHash64(username), passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return tracker.User{}, ErrDuplicateUsername
		}
		return tracker.User{}, fmt.Errorf("unable to create user %v, cause %w", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return tracker.User{}, fmt.Errorf("unable to fetch id of user %v, cause %w", username, err)
	}
	return tracker.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (u sqlUsers) FindByUsername(ctx context.Context, username string) (tracker.User, bool, error) {
	var user tracker.User
	err := u.s.db.QueryRowContext(ctx,
		`select user_id, username, password from users where username_hash64 = ? and username = ?`,
		usernameHash64(username), username).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.User{}, false, nil
	} else if err != nil {
		return tracker.User{}, false, fmt.Errorf("unable to lookup user %v, cause %w", username, err)
	}
	return user, true, nil
}

func (p sqlProjects) ListByOwner(ctx context.Context, userID int64) ([]tracker.Project, error) {
	rows, err := p.s.db.QueryContext(ctx,
		`select project_id, title, description, created_at, user_id from projects where user_id = ? order by project_id asc`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("unable to list projects, cause %w", err)
	}
	defer rows.Close()
	var out []tracker.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list projects, cause %w", err)
	}
	for i := range out {
		out[i].Tasks, err = p.s.tasksOfProject(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (p sqlProjects) GetByIDForOwner(ctx context.Context, id, userID int64) (tracker.Project, bool, error) {
	row := p.s.db.QueryRowContext(ctx,
		`select project_id, title, description, created_at, user_id from projects where project_id = ? and user_id = ?`,
		id, userID)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Project{}, false, nil
	} else if err != nil {
		return tracker.Project{}, false, err
	}
	project.Tasks, err = p.s.tasksOfProject(ctx, project.ID)
	if err != nil {
		return tracker.Project{}, false, err
	}
	return project, true, nil
}

func (p sqlProjects) Create(ctx context.Context, input tracker.ProjectInput, userID int64) (tracker.Project, error) {
	createdAt := time.Now().UTC()
	res, err := p.s.db.ExecContext(ctx,
		`insert into projects (title, description, created_at, user_id) values (?, ?, ?, ?)`,
		input.Title, input.Description, createdAt.Format(time.RFC3339Nano), userID)
	if err != nil {
		return tracker.Project{}, fmt.Errorf("unable to create project, cause %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return tracker.Project{}, fmt.Errorf("unable to fetch id of new project, cause %w", err)
	}
	return tracker.Project{
		ID:          id,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   createdAt,
		UserID:      userID,
		Tasks:       []tracker.Task{},
	}, nil
}

func (p sqlProjects) Delete(ctx context.Context, id, userID int64) (bool, error) {
	tx, err := p.s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("unable to start delete of project %v, cause %w", id, err)
	}
	defer tx.Rollback()
	var found int64
	err = tx.QueryRowContext(ctx,
		`select project_id from projects where project_id = ? and user_id = ?`, id, userID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("unable to resolve project %v, cause %w", id, err)
	}
	// tasks go first, the project record last
	_, err = tx.ExecContext(ctx, `delete from tasks where project_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("unable to purge tasks of project %v, cause %w", id, err)
	}
	_, err = tx.ExecContext(ctx, `delete from projects where project_id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("unable to delete project %v, cause %w", id, err)
	}
	err = tx.Commit()
	if err != nil {
		return false, fmt.Errorf("unable to commit delete of project %v, cause %w", id, err)
	}
	return true, nil
}

func (t sqlTasks) AddToProject(ctx context.Context, projectID int64, input tracker.TaskInput, userID int64) (tracker.Task, bool, error) {
	var found int64
	err := t.s.db.QueryRowContext(ctx,
		`select project_id from projects where project_id = ? and user_id = ?`, projectID, userID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Task{}, false, nil
	} else if err != nil {
		return tracker.Task{}, false, fmt.Errorf("unable to resolve project %v, cause %w", projectID, err)
	}
	res, err := t.s.db.ExecContext(ctx,
		`insert into tasks (title, due_date, is_completed, project_id) values (?, ?, ?, ?)`,
		input.Title, formatTime(input.DueDate), input.IsCompleted, projectID)
	if err != nil {
		return tracker.Task{}, false, fmt.Errorf("unable to create task, cause %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return tracker.Task{}, false, fmt.Errorf("unable to fetch id of new task, cause %w", err)
	}
	return tracker.Task{
		ID:          id,
		Title:       input.Title,
		DueDate:     input.DueDate,
		IsCompleted: input.IsCompleted,
		ProjectID:   projectID,
	}, true, nil
}

func (t sqlTasks) Update(ctx context.Context, taskID int64, input tracker.TaskInput, userID int64) (tracker.Task, bool, error) {
	task, found, err := t.GetByID(ctx, taskID, userID)
	if err != nil || !found {
		return tracker.Task{}, false, err
	}
	_, err = t.s.db.ExecContext(ctx,
		`update tasks set title = ?, due_date = ?, is_completed = ? where task_id = ?`,
		input.Title, formatTime(input.DueDate), input.IsCompleted, taskID)
	if err != nil {
		return tracker.Task{}, false, fmt.Errorf("unable to update task %v, cause %w", taskID, err)
	}
	task.Title = input.Title
	task.DueDate = input.DueDate
	task.IsCompleted = input.IsCompleted
	return task, true, nil
}

func (t sqlTasks) Delete(ctx context.Context, taskID, userID int64) (bool, error) {
	_, found, err := t.GetByID(ctx, taskID, userID)
	if err != nil || !found {
		return false, err
	}
	_, err = t.s.db.ExecContext(ctx, `delete from tasks where task_id = ?`, taskID)
	if err != nil {
		return false, fmt.Errorf("unable to delete task %v, cause %w", taskID, err)
	}
	return true, nil
}

func (t sqlTasks) GetByID(ctx context.Context, taskID, userID int64) (tracker.Task, bool, error) {
	task, err := scanTask(t.s.db.QueryRowContext(ctx,
		`select t.task_id, t.title, t.due_date, t.is_completed, t.project_id
		from tasks t
		inner join projects p on p.project_id = t.project_id
		where t.task_id = ? and p.user_id = ?`, taskID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Task{}, false, nil
	} else if err != nil {
		return tracker.Task{}, false, err
	}
	return task, true, nil
}

func (s *Sqlite) tasksOfProject(ctx context.Context, projectID int64) ([]tracker.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`select task_id, title, due_date, is_completed, project_id from tasks where project_id = ? order by task_id asc`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("unable to list tasks of project %v, cause %w", projectID, err)
	}
	defer rows.Close()
	out := []tracker.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to list tasks of project %v, cause %w", projectID, err)
	}
	return out, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanProject(row scannable) (tracker.Project, error) {
	var project tracker.Project
	var createdAt string
	err := row.Scan(&project.ID, &project.Title, &project.Description, &createdAt, &project.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Project{}, err
	} else if err != nil {
		return tracker.Project{}, fmt.Errorf("unable to scan project, cause %w", err)
	}
	project.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return tracker.Project{}, fmt.Errorf("unable to decode creation time of project %v, cause %w", project.ID, err)
	}
	return project, nil
}

func scanTask(row scannable) (tracker.Task, error) {
	var task tracker.Task
	var dueDate string
	err := row.Scan(&task.ID, &task.Title, &dueDate, &task.IsCompleted, &task.ProjectID)
	if errors.Is(err, sql.ErrNoRows) {
		return tracker.Task{}, err
	} else if err != nil {
		return tracker.Task{}, fmt.Errorf("unable to scan task, cause %w", err)
	}
	task.DueDate, err = parseTime(dueDate)
	if err != nil {
		return tracker.Task{}, fmt.Errorf("unable to decode due date of task %v, cause %w", task.ID, err)
	}
	return task, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(val string) (time.Time, error) {
	if val == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, val)
}
