// Package tracker holds the domain model of taskdeck: users owning projects,
// projects owning tasks. Storage and transport live in subpackages.
package tracker

import "time"

type (
	// User is an identity record. The password digest never leaves the
	// server, hence the json tag.
	User struct {
		ID           int64  `json:"id"`
		Username     string `json:"username"`
		PasswordHash string `json:"-"`
	}

	Project struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
		UserID      int64     `json:"userId"`
		Tasks       []Task    `json:"tasks"`
	}

	Task struct {
		ID          int64     `json:"id"`
		Title       string    `json:"title"`
		DueDate     time.Time `json:"dueDate"`
		IsCompleted bool      `json:"isCompleted"`
		ProjectID   int64     `json:"projectId"`
	}

	// ProjectInput is what callers provide to create a project.
	ProjectInput struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}

	// TaskInput is what callers provide to create or update a task.
	TaskInput struct {
		Title       string    `json:"title"`
		DueDate     time.Time `json:"dueDate"`
		IsCompleted bool      `json:"isCompleted"`
	}

	Credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
)

const (
	minTitleLen        = 3
	maxProjectTitleLen = 100
	maxDescriptionLen  = 100
	maxTaskTitleLen    = 200
)

func (p ProjectInput) Validate() error {
	if len(p.Title) < minTitleLen || len(p.Title) > maxProjectTitleLen {
		return ValidationError{Field: "title", Reason: "must be between 3 and 100 characters"}
	}
	if len(p.Description) > maxDescriptionLen {
		return ValidationError{Field: "description", Reason: "must be at most 100 characters"}
	}
	return nil
}

func (t TaskInput) Validate() error {
	if len(t.Title) < minTitleLen || len(t.Title) > maxTaskTitleLen {
		return ValidationError{Field: "title", Reason: "must be between 3 and 200 characters"}
	}
	return nil
}

func (c Credentials) Validate() error {
	if len(c.Username) == 0 {
		return ValidationError{Field: "username", Reason: "is required"}
	}
	if len(c.Password) == 0 {
		return ValidationError{Field: "password", Reason: "is required"}
	}
	return nil
}
