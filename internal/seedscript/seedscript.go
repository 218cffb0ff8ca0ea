// Package seedscript loads fixture data from a Lua file and feeds it
// through the regular repositories, so seeded records get real ids,
// hashed passwords and ownership checks, same as records created over
// the API.
//
// The script declares a global table:
//
//	users = {
//		{
//			username = "alice",
//			password = "pw123",
//			projects = {
//				{
//					title = "Website Redesign",
//					description = "Q1 revamp",
//					tasks = {
//						{ title = "Design mockups", due_date = "2026-09-08T00:00:00Z", is_completed = false },
//					},
//				},
//			},
//		},
//	}
package seedscript

import (
	"context"
	"fmt"
	"time"

	"github.com/andrebq/taskdeck/tracker"
	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/andrebq/taskdeck/tracker/store"
	"github.com/yuin/gluamapper"
	lua "github.com/yuin/gopher-lua"
)

type (
	User struct {
		Username string
		Password string
		Projects []Project
	}

	Project struct {
		Title       string
		Description string
		Tasks       []Task
	}

	Task struct {
		Title       string
		DueDate     string
		IsCompleted bool
	}
)

func LoadFile(path string) ([]User, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer state.Close()
	err := state.DoFile(path)
	if err != nil {
		return nil, fmt.Errorf("seedscript: cannot run %v, cause %w", path, err)
	}
	return extractUsers(state)
}

func LoadString(script string) ([]User, error) {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer state.Close()
	err := state.DoString(script)
	if err != nil {
		return nil, fmt.Errorf("seedscript: cannot run script, cause %w", err)
	}
	return extractUsers(state)
}

func extractUsers(state *lua.LState) ([]User, error) {
	tbl, ok := state.GetGlobal("users").(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("seedscript: script must define a global users table")
	}
	var wrapper struct{ Users []User }
	root := state.NewTable()
	root.RawSetString("users", tbl)
	err := gluamapper.Map(root, &wrapper)
	if err != nil {
		return nil, fmt.Errorf("seedscript: cannot map users table, cause %w", err)
	}
	return wrapper.Users, nil
}

// Apply registers each user and creates their projects and tasks. It is
// not idempotent: running it twice against the same store fails on the
// duplicate usernames.
func Apply(ctx context.Context, st store.Store, hasher auth.Hasher, users []User) error {
	for _, seed := range users {
		if seed.Username == "" || seed.Password == "" {
			return fmt.Errorf("seedscript: every user needs a username and a password")
		}
		digest, err := hasher.Hash(seed.Password)
		if err != nil {
			return fmt.Errorf("seedscript: cannot hash password of %v, cause %w", seed.Username, err)
		}
		user, err := st.Users().Create(ctx, seed.Username, digest)
		if err != nil {
			return fmt.Errorf("seedscript: cannot create user %v, cause %w", seed.Username, err)
		}
		for _, sp := range seed.Projects {
			project, err := st.Projects().Create(ctx, tracker.ProjectInput{
				Title:       sp.Title,
				Description: sp.Description,
			}, user.ID)
			if err != nil {
				return fmt.Errorf("seedscript: cannot create project %v, cause %w", sp.Title, err)
			}
			for _, stk := range sp.Tasks {
				var due time.Time
				if stk.DueDate != "" {
					due, err = time.Parse(time.RFC3339, stk.DueDate)
					if err != nil {
						return fmt.Errorf("seedscript: invalid due date %v on task %v, cause %w", stk.DueDate, stk.Title, err)
					}
				}
				_, found, err := st.Tasks().AddToProject(ctx, project.ID, tracker.TaskInput{
					Title:       stk.Title,
					DueDate:     due,
					IsCompleted: stk.IsCompleted,
				}, user.ID)
				if err != nil {
					return fmt.Errorf("seedscript: cannot create task %v, cause %w", stk.Title, err)
				} else if !found {
					return fmt.Errorf("seedscript: project %v vanished while seeding", project.ID)
				}
			}
		}
	}
	return nil
}
