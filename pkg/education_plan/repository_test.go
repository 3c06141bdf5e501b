package education_plan

import (
	"context"
	"os"
	"testing"

	"github.com/finwise/finwise/internal/test_utils"
	"github.com/finwise/finwise/pkg/family"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var db *pgxpool.Pool

func TestMain(m *testing.M) {
	var cleanup func()
	db, cleanup = test_utils.TestWithDB()
	code := m.Run()
	cleanup()
	os.Exit(code)
}

type repoFixture struct {
	userId    int
	profileId int
	childId   int
}

func setupTestRepository(t *testing.T) (context.Context, Repository, repoFixture) {
	test_utils.Truncate(t, db)
	f := repoFixture{userId: test_utils.InsertUser(t, db, "alice")}
	f.profileId = test_utils.InsertFamilyProfile(t, db, f.userId, "Smiths")
	f.childId = test_utils.InsertChild(t, db, f.profileId, "Tom")
	return context.Background(), NewRepository(db), f
}

func newPlan(f repoFixture) EducationPlan {
	return EducationPlan{
		FamilyProfileId:       f.profileId,
		ChildId:               f.childId,
		EducationLevel:        "University",
		EstimatedTotalCost:    dec("10000.00"),
		EstimatedStartYear:    2027,
		InflationRate:         dec("5.0000"),
		InflationAdjustedCost: dec("11025.00"),
	}
}

func TestRepositoryImpl_CreatePlan(t *testing.T) {
	t.Run("should store plan with exact decimals", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)

		// when
		created, err := repo.CreatePlan(ctx, f.userId, newPlan(f))

		// then
		require.NoError(t, err)
		assert.NotZero(t, created.Id)
		assert.False(t, created.CreatedAt.IsZero())
		stored, err := repo.GetPlan(ctx, f.userId, created.Id)
		require.NoError(t, err)
		assert.True(t, dec("11025").Equal(stored.InflationAdjustedCost))
		assert.True(t, dec("5").Equal(stored.InflationRate))
		assert.Equal(t, "University", stored.EducationLevel)
	})

	t.Run("should refuse child of another family", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		otherUser := test_utils.InsertUser(t, db, "bob")
		otherProfile := test_utils.InsertFamilyProfile(t, db, otherUser, "Jones")
		otherChild := test_utils.InsertChild(t, db, otherProfile, "Ann")
		plan := newPlan(f)
		plan.ChildId = otherChild

		// when
		_, err := repo.CreatePlan(ctx, f.userId, plan)

		// then
		assert.ErrorIs(t, err, family.ErrChildNotFound)
	})

	t.Run("should refuse family profile of another user", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		otherUser := test_utils.InsertUser(t, db, "bob")

		// when
		_, err := repo.CreatePlan(ctx, otherUser, newPlan(f))

		// then
		assert.ErrorIs(t, err, family.ErrChildNotFound)
	})
}

func TestRepositoryImpl_ListPlansByChild(t *testing.T) {
	t.Run("should list plans by id", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		first, err := repo.CreatePlan(ctx, f.userId, newPlan(f))
		require.NoError(t, err)
		second, err := repo.CreatePlan(ctx, f.userId, newPlan(f))
		require.NoError(t, err)

		// when
		plans, err := repo.ListPlansByChild(ctx, f.userId, f.childId)

		// then
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, first.Id, plans[0].Id)
		assert.Equal(t, second.Id, plans[1].Id)
	})

	t.Run("should return empty list for other user", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		_, err := repo.CreatePlan(ctx, f.userId, newPlan(f))
		require.NoError(t, err)
		otherUser := test_utils.InsertUser(t, db, "bob")

		// when
		plans, err := repo.ListPlansByChild(ctx, otherUser, f.childId)

		// then
		require.NoError(t, err)
		assert.Empty(t, plans)
	})
}

func TestRepositoryImpl_UpdatePlan(t *testing.T) {
	t.Run("should update fields", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		created, err := repo.CreatePlan(ctx, f.userId, newPlan(f))
		require.NoError(t, err)
		created.EstimatedStartYear = 2028
		created.InflationAdjustedCost = dec("11576.25")

		// when
		updated, err := repo.UpdatePlan(ctx, f.userId, created)

		// then
		require.NoError(t, err)
		assert.Equal(t, 2028, updated.EstimatedStartYear)
		assert.True(t, dec("11576.25").Equal(updated.InflationAdjustedCost))
		assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))
	})

	t.Run("should not update plan of another user", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		created, err := repo.CreatePlan(ctx, f.userId, newPlan(f))
		require.NoError(t, err)
		otherUser := test_utils.InsertUser(t, db, "bob")

		// when
		_, err = repo.UpdatePlan(ctx, otherUser, created)

		// then
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestRepositoryImpl_DeletePlan(t *testing.T) {
	t.Run("should delete once", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		created, err := repo.CreatePlan(ctx, f.userId, newPlan(f))
		require.NoError(t, err)

		// when
		first, err := repo.DeletePlan(ctx, f.userId, created.Id)
		require.NoError(t, err)
		second, err := repo.DeletePlan(ctx, f.userId, created.Id)
		require.NoError(t, err)

		// then
		assert.True(t, first)
		assert.False(t, second)
	})

	t.Run("should cascade when child is deleted", func(t *testing.T) {
		// given
		ctx, repo, f := setupTestRepository(t)
		created, err := repo.CreatePlan(ctx, f.userId, newPlan(f))
		require.NoError(t, err)
		_, err = db.Exec(ctx, "DELETE FROM child WHERE id = $1", f.childId)
		require.NoError(t, err)

		// when
		_, err = repo.GetPlan(ctx, f.userId, created.Id)

		// then
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}
