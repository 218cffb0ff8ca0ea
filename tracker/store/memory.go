package store

import (
	"context"
	"sync"
	"time"

	"github.com/andrebq/taskdeck/tracker"
)

type (
	// Memory keeps everything in process memory behind a single mutex.
	// One lock covers id assignment and the paired updates to the flat
	// task list and the owning project's task list, so neither can be
	// observed half-done.
	Memory struct {
		mu sync.Mutex

		users    []tracker.User
		projects []*memProject
		tasks    []*tracker.Task

		userSeq    int64
		projectSeq int64
		taskSeq    int64

		now func() time.Time
	}

	// memProject shares task records with the flat list, so a mutation
	// through either view is visible through both.
	memProject struct {
		project tracker.Project
		tasks   []*tracker.Task
	}

	memUsers    struct{ m *Memory }
	memProjects struct{ m *Memory }
	memTasks    struct{ m *Memory }
)

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

// WithClock replaces the time source used for creation timestamps.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Users() UserRepo       { return memUsers{m} }
func (m *Memory) Projects() ProjectRepo { return memProjects{m} }
func (m *Memory) Tasks() TaskRepo       { return memTasks{m} }
func (m *Memory) Close() error          { return nil }

func (u memUsers) Create(_ context.Context, username, passwordHash string) (tracker.User, error) {
	m := u.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == username {
			return tracker.User{}, ErrDuplicateUsername
		}
	}
	m.userSeq++
	user := tracker.User{ID: m.userSeq, Username: username, PasswordHash: passwordHash}
	m.users = append(m.users, user)
	return user, nil
}

func (u memUsers) FindByUsername(_ context.Context, username string) (tracker.User, bool, error) {
	m := u.m
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			return user, true, nil
		}
	}
	return tracker.User{}, false, nil
}

func (p memProjects) ListByOwner(_ context.Context, userID int64) ([]tracker.Project, error) {
	m := p.m
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []tracker.Project
	for _, mp := range m.projects {
		if mp.project.UserID == userID {
			out = append(out, mp.snapshot())
		}
	}
	return out, nil
}

func (p memProjects) GetByIDForOwner(_ context.Context, id, userID int64) (tracker.Project, bool, error) {
	m := p.m
	m.mu.Lock()
	defer m.mu.Unlock()
	mp := m.lookupProject(id, userID)
	if mp == nil {
		return tracker.Project{}, false, nil
	}
	return mp.snapshot(), true, nil
}

func (p memProjects) Create(_ context.Context, input tracker.ProjectInput, userID int64) (tracker.Project, error) {
	m := p.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projectSeq++
	mp := &memProject{project: tracker.Project{
		ID:          m.projectSeq,
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   m.now().UTC(),
		UserID:      userID,
	}}
	m.projects = append(m.projects, mp)
	return mp.snapshot(), nil
}

func (p memProjects) Delete(_ context.Context, id, userID int64) (bool, error) {
	m := p.m
	m.mu.Lock()
	defer m.mu.Unlock()
	mp := m.lookupProject(id, userID)
	if mp == nil {
		return false, nil
	}
	// purge tasks before the project record, so no task id outlives its
	// project
	kept := m.tasks[:0]
	for _, t := range m.tasks {
		if t.ProjectID != id {
			kept = append(kept, t)
		}
	}
	m.tasks = kept
	for i, candidate := range m.projects {
		if candidate == mp {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			break
		}
	}
	return true, nil
}

func (t memTasks) AddToProject(_ context.Context, projectID int64, input tracker.TaskInput, userID int64) (tracker.Task, bool, error) {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	mp := m.lookupProject(projectID, userID)
	if mp == nil {
		return tracker.Task{}, false, nil
	}
	m.taskSeq++
	task := &tracker.Task{
		ID:          m.taskSeq,
		Title:       input.Title,
		DueDate:     input.DueDate,
		IsCompleted: input.IsCompleted,
		ProjectID:   projectID,
	}
	m.tasks = append(m.tasks, task)
	mp.tasks = append(mp.tasks, task)
	return *task, true, nil
}

func (t memTasks) Update(_ context.Context, taskID int64, input tracker.TaskInput, userID int64) (tracker.Task, bool, error) {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	task := m.resolveTask(taskID, userID)
	if task == nil {
		return tracker.Task{}, false, nil
	}
	task.Title = input.Title
	task.DueDate = input.DueDate
	task.IsCompleted = input.IsCompleted
	return *task, true, nil
}

func (t memTasks) Delete(_ context.Context, taskID, userID int64) (bool, error) {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	task := m.resolveTask(taskID, userID)
	if task == nil {
		return false, nil
	}
	for i, candidate := range m.tasks {
		if candidate == task {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			break
		}
	}
	mp := m.lookupProject(task.ProjectID, userID)
	for i, candidate := range mp.tasks {
		if candidate == task {
			mp.tasks = append(mp.tasks[:i], mp.tasks[i+1:]...)
			break
		}
	}
	return true, nil
}

func (t memTasks) GetByID(_ context.Context, taskID, userID int64) (tracker.Task, bool, error) {
	m := t.m
	m.mu.Lock()
	defer m.mu.Unlock()
	task := m.resolveTask(taskID, userID)
	if task == nil {
		return tracker.Task{}, false, nil
	}
	return *task, true, nil
}

// lookupProject must be called with the lock held.
func (m *Memory) lookupProject(id, userID int64) *memProject {
	for _, mp := range m.projects {
		if mp.project.ID == id && mp.project.UserID == userID {
			return mp
		}
	}
	return nil
}

// resolveTask walks task -> project -> owner, the only authorization path
// for tasks. Must be called with the lock held.
func (m *Memory) resolveTask(taskID, userID int64) *tracker.Task {
	var task *tracker.Task
	for _, candidate := range m.tasks {
		if candidate.ID == taskID {
			task = candidate
			break
		}
	}
	if task == nil {
		return nil
	}
	if m.lookupProject(task.ProjectID, userID) == nil {
		return nil
	}
	return task
}

func (mp *memProject) snapshot() tracker.Project {
	out := mp.project
	out.Tasks = make([]tracker.Task, 0, len(mp.tasks))
	for _, t := range mp.tasks {
		out.Tasks = append(out.Tasks, *t)
	}
	return out
}
