package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andrebq/taskdeck/tracker"
	"github.com/stretchr/testify/require"
)

// withStores runs the same scenario against every backend, the contract
// does not care where the data lives.
func withStores(t *testing.T, fn func(t *testing.T, st Store)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		st, err := OpenSqlite(context.Background(), filepath.Join(t.TempDir(), "tracker.db"))
		require.NoError(t, err)
		defer st.Close()
		fn(t, st)
	})
}

func TestDuplicateUsername(t *testing.T) {
	withStores(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		first, err := st.Users().Create(ctx, "alice", "digest-1")
		require.NoError(t, err)
		require.Equal(t, int64(1), first.ID)

		_, err = st.Users().Create(ctx, "alice", "digest-2")
		require.ErrorIs(t, err, ErrDuplicateUsername)

		// the first record must be untouched
		found, ok, err := st.Users().FindByUsername(ctx, "alice")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "digest-1", found.PasswordHash)

		// case sensitive: Alice is not alice
		_, ok, err = st.Users().FindByUsername(ctx, "Alice")
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestProjectOwnerScoping(t *testing.T) {
	withStores(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice, err := st.Users().Create(ctx, "alice", "d1")
		require.NoError(t, err)
		bob, err := st.Users().Create(ctx, "bob", "d2")
		require.NoError(t, err)

		mine, err := st.Projects().Create(ctx, tracker.ProjectInput{Title: "Website Redesign", Description: "Q1 revamp"}, alice.ID)
		require.NoError(t, err)
		require.Equal(t, int64(1), mine.ID)
		require.Equal(t, alice.ID, mine.UserID)
		require.False(t, mine.CreatedAt.IsZero())

		list, err := st.Projects().ListByOwner(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, mine.ID, list[0].ID)

		list, err = st.Projects().ListByOwner(ctx, bob.ID)
		require.NoError(t, err)
		require.Empty(t, list)

		// a project that is not yours reads exactly like one that does
		// not exist
		_, ok, err := st.Projects().GetByIDForOwner(ctx, mine.ID, bob.ID)
		require.NoError(t, err)
		require.False(t, ok)
		_, ok, err = st.Projects().GetByIDForOwner(ctx, 999, alice.ID)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestCascadeDelete(t *testing.T) {
	withStores(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice, err := st.Users().Create(ctx, "alice", "d1")
		require.NoError(t, err)
		project, err := st.Projects().Create(ctx, tracker.ProjectInput{Title: "Website Redesign"}, alice.ID)
		require.NoError(t, err)

		first, ok, err := st.Tasks().AddToProject(ctx, project.ID, tracker.TaskInput{Title: "Design mockups"}, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)
		second, ok, err := st.Tasks().AddToProject(ctx, project.ID, tracker.TaskInput{Title: "Ship it"}, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)

		found, err := st.Projects().Delete(ctx, project.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, found)

		// no task id survives its project
		for _, id := range []int64{first.ID, second.ID} {
			_, ok, err := st.Tasks().GetByID(ctx, id, alice.ID)
			require.NoError(t, err)
			require.False(t, ok)
		}

		found, err = st.Projects().Delete(ctx, project.ID, alice.ID)
		require.NoError(t, err)
		require.False(t, found)
	})
}

func TestTaskViewsStayInSync(t *testing.T) {
	withStores(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice, err := st.Users().Create(ctx, "alice", "d1")
		require.NoError(t, err)
		project, err := st.Projects().Create(ctx, tracker.ProjectInput{Title: "Website Redesign"}, alice.ID)
		require.NoError(t, err)

		due := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
		task, ok, err := st.Tasks().AddToProject(ctx, project.ID, tracker.TaskInput{Title: "Design mockups", DueDate: due}, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)

		updated, ok, err := st.Tasks().Update(ctx, task.ID, tracker.TaskInput{Title: "Design mockups v2", DueDate: due, IsCompleted: true}, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, updated.IsCompleted)

		// flat lookup and the project's embedded list must agree after
		// the update
		flat, ok, err := st.Tasks().GetByID(ctx, task.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)
		nested, ok, err := st.Projects().GetByIDForOwner(ctx, project.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, nested.Tasks, 1)
		require.Equal(t, flat.Title, nested.Tasks[0].Title)
		require.Equal(t, flat.IsCompleted, nested.Tasks[0].IsCompleted)
		require.True(t, flat.DueDate.Equal(nested.Tasks[0].DueDate))

		// delete removes the task from both views
		found, err := st.Tasks().Delete(ctx, task.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, found)
		_, ok, err = st.Tasks().GetByID(ctx, task.ID, alice.ID)
		require.NoError(t, err)
		require.False(t, ok)
		nested, ok, err = st.Projects().GetByIDForOwner(ctx, project.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Empty(t, nested.Tasks)
	})
}

func TestTaskOwnershipViaProject(t *testing.T) {
	withStores(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice, err := st.Users().Create(ctx, "alice", "d1")
		require.NoError(t, err)
		bob, err := st.Users().Create(ctx, "bob", "d2")
		require.NoError(t, err)
		project, err := st.Projects().Create(ctx, tracker.ProjectInput{Title: "Website Redesign"}, alice.ID)
		require.NoError(t, err)
		task, ok, err := st.Tasks().AddToProject(ctx, project.ID, tracker.TaskInput{Title: "Design mockups"}, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)

		// bob cannot create under, read, mutate or delete through a
		// project he does not own
		_, ok, err = st.Tasks().AddToProject(ctx, project.ID, tracker.TaskInput{Title: "Sneaky"}, bob.ID)
		require.NoError(t, err)
		require.False(t, ok)
		_, ok, err = st.Tasks().GetByID(ctx, task.ID, bob.ID)
		require.NoError(t, err)
		require.False(t, ok)
		_, ok, err = st.Tasks().Update(ctx, task.ID, tracker.TaskInput{Title: "Hijacked"}, bob.ID)
		require.NoError(t, err)
		require.False(t, ok)
		found, err := st.Tasks().Delete(ctx, task.ID, bob.ID)
		require.NoError(t, err)
		require.False(t, found)

		// and alice still sees the original title
		mine, ok, err := st.Tasks().GetByID(ctx, task.ID, alice.ID)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "Design mockups", mine.Title)
	})
}

func TestTaskIDsAreGlobal(t *testing.T) {
	withStores(t, func(t *testing.T, st Store) {
		ctx := context.Background()
		alice, err := st.Users().Create(ctx, "alice", "d1")
		require.NoError(t, err)
		first, err := st.Projects().Create(ctx, tracker.ProjectInput{Title: "First project"}, alice.ID)
		require.NoError(t, err)
		second, err := st.Projects().Create(ctx, tracker.ProjectInput{Title: "Second project"}, alice.ID)
		require.NoError(t, err)

		a, _, err := st.Tasks().AddToProject(ctx, first.ID, tracker.TaskInput{Title: "task one"}, alice.ID)
		require.NoError(t, err)
		b, _, err := st.Tasks().AddToProject(ctx, second.ID, tracker.TaskInput{Title: "task two"}, alice.ID)
		require.NoError(t, err)
		c, _, err := st.Tasks().AddToProject(ctx, first.ID, tracker.TaskInput{Title: "task three"}, alice.ID)
		require.NoError(t, err)

		// one sequence across all projects, not one per project
		require.Equal(t, []int64{1, 2, 3}, []int64{a.ID, b.ID, c.ID})
	})
}
