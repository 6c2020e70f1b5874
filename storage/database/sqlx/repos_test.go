package sqlxrepos_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chumcred/academy/core"
	"github.com/chumcred/academy/core/course"
	"github.com/chumcred/academy/core/grading"
	"github.com/chumcred/academy/core/submission"
	"github.com/chumcred/academy/core/user"
	"github.com/chumcred/academy/storage/database"
	sqlxrepos "github.com/chumcred/academy/storage/database/sqlx"
	testutil "github.com/chumcred/academy/tests"
)

var dbCount int

// prepareDB opens a fresh in-memory SQLite database and applies all migrations.
func prepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conf := core.NewConfig()
	conf.TestMode = true
	conf.Database.Engine = database.EngineSQLite
	dbCount++
	conf.Database.Path = fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", dbCount)

	db, err := database.Open(conf)
	require.NoError(t, err)
	// a single conn keeps the shared in-memory database alive for the test
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, conf))
	return db
}

func TestUserRepository(t *testing.T) {
	db := prepareDB(t)
	repo := sqlxrepos.NewUserRepository(db)
	ctx := context.Background()

	alice := testutil.CreateStudent(t, repo, "Alice", "alice", "alice@test.cd", "s3cr3tpwd")
	require.NotEmpty(t, alice.ID)

	t.Run("get by ID and username", func(t *testing.T) {
		got, err := repo.GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, alice.Username, got.Username)
		assert.NoError(t, got.CheckPassword("s3cr3tpwd"))

		got, err = repo.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		_, err = repo.GetUserByID(ctx, "nope")
		assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	})

	t.Run("uniqueness check", func(t *testing.T) {
		assert.Equal(t, user.ErrUsernameExists, errors.Cause(
			repo.CheckUsernameUniqueness(ctx, "alice", "fresh@test.cd")))
		assert.Equal(t, user.ErrEmailExists, errors.Cause(
			repo.CheckUsernameUniqueness(ctx, "fresh", "alice@test.cd")))
		assert.NoError(t, repo.CheckUsernameUniqueness(ctx, "fresh", "fresh@test.cd"))

		// the excluded user may keep their own identifiers
		assert.NoError(t, repo.CheckUsernameUniqueness(ctx, "alice", "alice@test.cd", alice))
	})

	t.Run("partial update", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		updated, err := repo.UpdateUser(ctx, user.User{ID: alice.ID, Name: "Alice M", UpdatedAt: now}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Alice M", updated.Name)
		assert.Equal(t, alice.Username, updated.Username)

		inactive := false
		updated, err = repo.UpdateUser(ctx, user.User{ID: alice.ID}, &inactive)
		require.NoError(t, err)
		assert.False(t, updated.IsActive)

		_, err = repo.UpdateUser(ctx, user.User{ID: "nope", Name: "X"}, nil)
		assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	})

	t.Run("query all", func(t *testing.T) {
		testutil.CreateAdmin(t, repo, "Admin", "admin", "admin@test.cd", "")
		users, err := repo.QueryAllUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}

func TestCourseRepository(t *testing.T) {
	db := prepareDB(t)
	repo := sqlxrepos.NewCourseRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	mod, err := repo.UpdateOrCreateModule(ctx, course.Module{Week: 1, Title: "Introduction to AI", CreatedAt: now})
	require.NoError(t, err)
	require.NotEmpty(t, mod.ID)

	t.Run("module upsert is keyed by week", func(t *testing.T) {
		again, err := repo.UpdateOrCreateModule(ctx, course.Module{Week: 1, Title: "Intro to AI, revised", CreatedAt: now})
		require.NoError(t, err)
		assert.Equal(t, mod.ID, again.ID)
		assert.Equal(t, "Intro to AI, revised", again.Title)

		mods, err := repo.QueryAllModules(ctx)
		require.NoError(t, err)
		assert.Len(t, mods, 1)
	})

	t.Run("materials", func(t *testing.T) {
		mat, err := repo.CreateMaterial(ctx, course.Material{
			Week: 1, Title: "Slides", Kind: course.KindLink, Ref: "https://example.org/slides", CreatedAt: now,
		})
		require.NoError(t, err)

		exists, err := repo.MaterialExists(ctx, 1, "https://example.org/slides")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.MaterialExists(ctx, 2, "https://example.org/slides")
		require.NoError(t, err)
		assert.False(t, exists)

		updated, err := repo.UpdateMaterial(ctx, course.Material{ID: mat.ID, Title: "Lecture Slides"})
		require.NoError(t, err)
		assert.Equal(t, "Lecture Slides", updated.Title)
		assert.Equal(t, mat.Ref, updated.Ref)

		require.NoError(t, repo.DeleteMaterial(ctx, mat.ID))
		assert.Equal(t, course.ErrMaterialNotFound, errors.Cause(repo.DeleteMaterial(ctx, mat.ID)))
	})

	t.Run("assignment upsert is keyed by week", func(t *testing.T) {
		a, err := repo.UpsertAssignment(ctx, course.Assignment{
			Week: 1, Title: "Week 1 Assignment", Prompt: "Write an essay", CreatedAt: now,
		})
		require.NoError(t, err)

		due := now.AddDate(0, 0, 7)
		again, err := repo.UpsertAssignment(ctx, course.Assignment{
			Week: 1, Title: "Week 1 Assignment", Prompt: "Write a better essay", DueDate: due, CreatedAt: now,
		})
		require.NoError(t, err)
		assert.Equal(t, a.ID, again.ID)
		assert.Equal(t, "Write a better essay", again.Prompt)

		got, err := repo.GetModuleByWeek(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, got.Assignment)
		assert.Equal(t, "Write a better essay", got.Assignment.Prompt)
	})
}

func TestSubmissionAndGradeRepositories(t *testing.T) {
	db := prepareDB(t)
	usrRepo := sqlxrepos.NewUserRepository(db)
	subRepo := sqlxrepos.NewSubmissionRepository(db)
	grdRepo := sqlxrepos.NewGradeRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	alice := testutil.CreateStudent(t, usrRepo, "Alice", "alice", "alice@test.cd", "")
	bob := testutil.CreateStudent(t, usrRepo, "Bob", "bob", "bob@test.cd", "")
	admin := testutil.CreateAdmin(t, usrRepo, "Admin", "admin", "admin@test.cd", "")

	sub, err := subRepo.UpsertSubmission(ctx, submission.Submission{
		StudentID: alice.ID, Week: 1, ArtifactRef: "uploads/v1.pdf", SubmittedAt: now,
	})
	require.NoError(t, err)

	t.Run("submission upsert is keyed by (student, week)", func(t *testing.T) {
		again, err := subRepo.UpsertSubmission(ctx, submission.Submission{
			StudentID: alice.ID, Week: 1, ArtifactRef: "uploads/v2.pdf", SubmittedAt: now.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, sub.ID, again.ID)
		assert.Equal(t, "uploads/v2.pdf", again.ArtifactRef)

		subs, err := subRepo.QuerySubmissionsByStudent(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, subs, 1)
	})

	t.Run("ungraded queue", func(t *testing.T) {
		_, err := subRepo.UpsertSubmission(ctx, submission.Submission{
			StudentID: bob.ID, Week: 1, Note: "done", SubmittedAt: now.Add(2 * time.Hour),
		})
		require.NoError(t, err)

		ungraded, err := subRepo.QueryUngradedSubmissions(ctx)
		require.NoError(t, err)
		require.Len(t, ungraded, 2)
		// most recent first
		assert.Equal(t, bob.ID, ungraded[0].StudentID)

		_, err = grdRepo.UpsertGrade(ctx, grading.Grade{
			StudentID: alice.ID, Week: 1, Score: 85, GradedAt: now, GraderID: admin.ID,
		})
		require.NoError(t, err)

		ungraded, err = subRepo.QueryUngradedSubmissions(ctx)
		require.NoError(t, err)
		require.Len(t, ungraded, 1)
		assert.Equal(t, bob.ID, ungraded[0].StudentID)
	})

	t.Run("grade upsert is keyed by (student, week)", func(t *testing.T) {
		grd, err := grdRepo.GetGrade(ctx, alice.ID, 1)
		require.NoError(t, err)

		again, err := grdRepo.UpsertGrade(ctx, grading.Grade{
			StudentID: alice.ID, Week: 1, Score: 60, Feedback: "revised", GradedAt: now.Add(time.Hour), GraderID: admin.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, grd.ID, again.ID)
		assert.Equal(t, 60.0, again.Score)

		grds, err := grdRepo.QueryGradesByStudent(ctx, alice.ID)
		require.NoError(t, err)
		assert.Len(t, grds, 1)

		_, err = grdRepo.GetGrade(ctx, alice.ID, 2)
		assert.Equal(t, grading.ErrNotFound, errors.Cause(err))
	})
}
