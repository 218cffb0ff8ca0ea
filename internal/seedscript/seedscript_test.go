package seedscript

import (
	"context"
	"testing"

	"github.com/andrebq/taskdeck/tracker/auth"
	"github.com/andrebq/taskdeck/tracker/store"
	"github.com/stretchr/testify/require"
)

const fixture = `
users = {
	{
		username = "alice",
		password = "pw123",
		projects = {
			{
				title = "Website Redesign",
				description = "Q1 revamp",
				tasks = {
					{ title = "Design mockups", due_date = "2026-09-08T00:00:00Z", is_completed = false },
					{ title = "Ship it", is_completed = true },
				},
			},
		},
	},
	{
		username = "bob",
		password = "hunter2",
	},
}
`

func TestLoadString(t *testing.T) {
	users, err := LoadString(fixture)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "alice", users[0].Username)
	require.Len(t, users[0].Projects, 1)
	require.Len(t, users[0].Projects[0].Tasks, 2)
	require.Equal(t, "2026-09-08T00:00:00Z", users[0].Projects[0].Tasks[0].DueDate)
	require.True(t, users[0].Projects[0].Tasks[1].IsCompleted)
	require.Empty(t, users[1].Projects)
}

func TestLoadStringRejectsBadScripts(t *testing.T) {
	_, err := LoadString(`users = "not a table"`)
	require.Error(t, err)
	_, err = LoadString(`projects = {}`)
	require.Error(t, err)
	_, err = LoadString(`users = {`)
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	users, err := LoadString(fixture)
	require.NoError(t, err)

	st := store.NewMemory()
	hasher := auth.DefaultHasher()
	require.NoError(t, Apply(ctx, st, hasher, users))

	// seeded credentials go through the same hasher as registrations
	alice, found, err := st.Users().FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, hasher.Verify("pw123", alice.PasswordHash))
	require.False(t, hasher.Verify("wrong", alice.PasswordHash))

	projects, err := st.Projects().ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Website Redesign", projects[0].Title)
	require.Len(t, projects[0].Tasks, 2)

	// applying twice trips over the existing usernames
	require.Error(t, Apply(ctx, st, hasher, users))
}

func TestApplyRejectsIncompleteUsers(t *testing.T) {
	ctx := context.Background()
	err := Apply(ctx, store.NewMemory(), auth.DefaultHasher(), []User{{Username: "nopass"}})
	require.Error(t, err)
}
