package course_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chumcred/academy/core/course"
	inmemdb "github.com/chumcred/academy/storage/database/inmem"
)

func setup(t *testing.T) (*course.Service, course.Repository) {
	t.Helper()

	db, err := inmemdb.Open()
	require.NoError(t, err)
	repo := inmemdb.NewCourseRepository(db)
	return course.NewService(repo), repo
}

func TestService_SeedCatalog(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.SeedCatalog(ctx))

	mods, err := svc.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, mods, 6)

	for i, mod := range mods {
		assert.Equal(t, i+1, mod.Week)
		assert.NotEmpty(t, mod.Title)
		require.NotNil(t, mod.Assignment, "week %d has no assignment", mod.Week)
		assert.NotEmpty(t, mod.Assignment.Prompt)
		assert.NotEmpty(t, mod.Materials, "week %d has no materials", mod.Week)
	}

	// re-seeding must not duplicate anything nor clobber admin edits
	edited, err := svc.SetAssignment(ctx, course.NewAssignment{
		Week: 1, Title: "Custom Assignment", Prompt: "Do something else",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SeedCatalog(ctx))

	mods, err = svc.ListModules(ctx)
	require.NoError(t, err)
	require.Len(t, mods, 6)
	assert.Equal(t, edited.Title, mods[0].Assignment.Title)
	for _, mod := range mods {
		seen := make(map[string]bool, len(mod.Materials))
		for _, mat := range mod.Materials {
			assert.False(t, seen[mat.Ref], "duplicate material %q in week %d", mat.Ref, mod.Week)
			seen[mat.Ref] = true
		}
	}
}

func TestService_GetModule(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCatalog(ctx))

	mod, err := svc.GetModule(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, mod.Week)

	// weeks outside 1..6 are unknown modules, not server errors
	for _, week := range []int{0, -1, 7, 42} {
		_, err = svc.GetModule(ctx, week)
		assert.Equal(t, course.ErrNotFound, errors.Cause(err), "week %d", week)
	}
}

func TestService_Materials(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCatalog(ctx))

	mat, err := svc.AddMaterial(ctx, course.NewMaterial{
		Week: 2, Title: "Prompting Guide", Kind: course.KindLink, Ref: "https://example.org/guide",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, mat.ID)

	t.Run("unknown module", func(t *testing.T) {
		_, err := svc.AddMaterial(ctx, course.NewMaterial{
			Week: 9, Title: "Nope", Kind: course.KindLink, Ref: "https://example.org",
		})
		assert.Equal(t, course.ErrNotFound, errors.Cause(err))
	})

	t.Run("update", func(t *testing.T) {
		updated, err := svc.UpdateMaterial(ctx, mat.ID, course.UpdateMaterial{Title: "Better Guide"})
		require.NoError(t, err)
		assert.Equal(t, "Better Guide", updated.Title)
		assert.Equal(t, mat.Ref, updated.Ref)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, svc.RemoveMaterial(ctx, mat.ID))
		err := svc.RemoveMaterial(ctx, mat.ID)
		assert.Equal(t, course.ErrMaterialNotFound, errors.Cause(err))
	})
}

func TestService_SetAssignment(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, svc.SeedCatalog(ctx))

	// replaces the seeded assignment for the week, never stacks a second one
	a, err := svc.SetAssignment(ctx, course.NewAssignment{
		Week: 4, Title: "Fine-tuned Brief", Prompt: "Summarize a credit report with an LLM",
	})
	require.NoError(t, err)

	mod, err := svc.GetModule(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, mod.Assignment)
	assert.Equal(t, a.Title, mod.Assignment.Title)
	assert.Equal(t, a.Prompt, mod.Assignment.Prompt)
}
