package education_plan

import (
	"context"
	"testing"

	"github.com/finwise/finwise/internal/utils"
	"github.com/finwise/finwise/pkg/family"
	"github.com/finwise/finwise/pkg/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userId    = 10
	profileId = 1
	childId   = 11
)

var ctx = user.WithUser(context.Background(), user.User{Id: userId, Username: "test-user-1"})

var repoStub *RepositoryStub
var familyStub *FamilyReaderStub
var clock *utils.MockClock
var service Service

func setup(t *testing.T) func() {
	repoStub = NewRepositoryStub()
	repoStub.SetOwner(profileId, userId)
	familyStub = NewFamilyReaderStub()
	familyStub.SetProfile(family.FamilyProfile{Id: profileId, UserId: userId, Name: "Smiths"})
	familyStub.SetChild(family.Child{Id: childId, FamilyProfileId: profileId, Name: "Tom"})
	clock = &utils.MockClock{}
	clock.SetYear(2025)
	service = NewService(repoStub, familyStub, clock)
	return func() {
		t.Log("Teardown after test")
		familyStub.Reset()
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleInput() PlanInput {
	return PlanInput{
		ChildId:            childId,
		EducationLevel:     "University",
		EstimatedTotalCost: dec("10000"),
		EstimatedStartYear: 2027,
		InflationRate:      dec("5"),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should compute inflation adjusted cost and store plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		plan, err := service.Create(ctx, profileId, sampleInput())

		// then
		require.NoError(t, err)
		assert.NotZero(t, plan.Id)
		assert.Equal(t, profileId, plan.FamilyProfileId)
		assert.Equal(t, childId, plan.ChildId)
		assert.Equal(t, "11025.00", plan.InflationAdjustedCost.StringFixed(2))
		stored, err := service.Get(ctx, plan.Id)
		require.NoError(t, err)
		assert.Equal(t, plan.Id, stored.Id)
	})

	t.Run("should fail for missing child without writing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		input := sampleInput()
		input.ChildId = 999

		// when
		_, err := service.Create(ctx, profileId, input)

		// then
		assert.ErrorIs(t, err, family.ErrChildNotFound)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should fail for missing family profile without writing", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(ctx, 999, sampleInput())

		// then
		assert.ErrorIs(t, err, family.ErrFamilyProfileNotFound)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should fail for child of another family", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		familyStub.SetProfile(family.FamilyProfile{Id: 2, UserId: userId, Name: "Second"})
		familyStub.SetChild(family.Child{Id: 21, FamilyProfileId: 2, Name: "Ann"})
		input := sampleInput()
		input.ChildId = 21

		// when
		_, err := service.Create(ctx, profileId, input)

		// then
		assert.ErrorIs(t, err, family.ErrChildNotFound)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should reject negative cost naming the field", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		input := sampleInput()
		input.EstimatedTotalCost = dec("-1")

		// when
		_, err := service.Create(ctx, profileId, input)

		// then
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "estimatedTotalCost", fieldErr.Field)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should reject huge exponent before any arithmetic", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		input := sampleInput()
		input.InflationRate = decimal.New(1, 1000000000)

		// when
		_, err := service.Create(ctx, profileId, input)

		// then
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "inflationRate", fieldErr.Field)
	})

	t.Run("should reject rate of minus hundred percent", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		input := sampleInput()
		input.InflationRate = dec("-100")

		// when
		_, err := service.Create(ctx, profileId, input)

		// then
		assert.ErrorIs(t, err, ErrInvalidField)
	})

	t.Run("should reject projection that does not fit storage", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		input := sampleInput()
		input.EstimatedTotalCost = dec("10000000000000000")
		input.InflationRate = dec("999")

		// when
		_, err := service.Create(ctx, profileId, input)

		// then
		var fieldErr *FieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, "inflationAdjustedCost", fieldErr.Field)
		assert.Zero(t, repoStub.Writes())
	})

	t.Run("should fail without user in context", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), profileId, sampleInput())

		// then
		assert.ErrorIs(t, err, user.ErrNoUser)
	})
}

func TestServiceImpl_ListByChild(t *testing.T) {
	t.Run("should return empty list for child without plans", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		plans, err := service.ListByChild(ctx, childId)

		// then
		require.NoError(t, err)
		assert.NotNil(t, plans)
		assert.Empty(t, plans)
	})

	t.Run("should fail for missing child", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.ListByChild(ctx, 999)

		// then
		assert.ErrorIs(t, err, family.ErrChildNotFound)
	})

	t.Run("should list plans in storage order", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		first, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		second, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)

		// when
		plans, err := service.ListByChild(ctx, childId)

		// then
		require.NoError(t, err)
		require.Len(t, plans, 2)
		assert.Equal(t, first.Id, plans[0].Id)
		assert.Equal(t, second.Id, plans[1].Id)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should recompute inflation adjusted cost on full update", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		input := sampleInput()
		input.EstimatedTotalCost = dec("20000")
		input.EstimatedStartYear = 2026
		input.EducationLevel = "College"

		// when
		updated, err := service.Update(ctx, plan.Id, input)

		// then
		require.NoError(t, err)
		assert.Equal(t, "College", updated.EducationLevel)
		assert.Equal(t, "21000.00", updated.InflationAdjustedCost.StringFixed(2))
		stored, err := service.Get(ctx, plan.Id)
		require.NoError(t, err)
		assert.Equal(t, "21000.00", stored.InflationAdjustedCost.StringFixed(2))
	})

	t.Run("should fail for missing plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Update(ctx, 999, sampleInput())

		// then
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("should move plan to another child of the same family", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		familyStub.SetChild(family.Child{Id: 12, FamilyProfileId: profileId, Name: "Ann"})
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		input := sampleInput()
		input.ChildId = 12

		// when
		updated, err := service.Update(ctx, plan.Id, input)

		// then
		require.NoError(t, err)
		assert.Equal(t, 12, updated.ChildId)
	})

	t.Run("should not move plan to a missing child", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		writes := repoStub.Writes()
		input := sampleInput()
		input.ChildId = 999

		// when
		_, err = service.Update(ctx, plan.Id, input)

		// then
		assert.ErrorIs(t, err, family.ErrChildNotFound)
		assert.Equal(t, writes, repoStub.Writes())
	})
}

func TestServiceImpl_PartialUpdate(t *testing.T) {
	t.Run("should recompute with new year and existing cost and rate", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		year := 2028

		// when
		updated, err := service.PartialUpdate(ctx, plan.Id, PlanPatch{EstimatedStartYear: &year})

		// then
		require.NoError(t, err)
		assert.Equal(t, 2028, updated.EstimatedStartYear)
		assert.Equal(t, "10000.00", updated.EstimatedTotalCost.StringFixed(2))
		assert.Equal(t, "11576.25", updated.InflationAdjustedCost.StringFixed(2))
	})

	t.Run("should use the clock at the time of the patch", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		clock.SetYear(2026)
		rate := dec("5")

		// when
		updated, err := service.PartialUpdate(ctx, plan.Id, PlanPatch{InflationRate: &rate})

		// then
		require.NoError(t, err)
		assert.Equal(t, "10500.00", updated.InflationAdjustedCost.StringFixed(2))
	})

	t.Run("should keep derived cost when only education level changes", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		clock.SetYear(2026)
		level := "Masters"

		// when
		updated, err := service.PartialUpdate(ctx, plan.Id, PlanPatch{EducationLevel: &level})

		// then
		require.NoError(t, err)
		assert.Equal(t, "Masters", updated.EducationLevel)
		assert.Equal(t, "11025.00", updated.InflationAdjustedCost.StringFixed(2))
	})

	t.Run("should write nothing when validation fails", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		writes := repoStub.Writes()
		year := 2030
		cost := dec("-5")

		// when
		_, err = service.PartialUpdate(ctx, plan.Id, PlanPatch{EstimatedStartYear: &year, EstimatedTotalCost: &cost})

		// then
		assert.ErrorIs(t, err, ErrInvalidField)
		assert.Equal(t, writes, repoStub.Writes())
		stored, err := service.Get(ctx, plan.Id)
		require.NoError(t, err)
		assert.Equal(t, 2027, stored.EstimatedStartYear)
	})

	t.Run("should fail for missing plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.PartialUpdate(ctx, 999, PlanPatch{})

		// then
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete existing plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, plan.Id)

		// then
		require.NoError(t, err)
		_, err = service.Get(ctx, plan.Id)
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("should fail for missing plan", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		err := service.Delete(ctx, 999)

		// then
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("should hide plans of another user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()
		plan, err := service.Create(ctx, profileId, sampleInput())
		require.NoError(t, err)
		otherCtx := user.WithUser(context.Background(), user.User{Id: 99})

		// when
		_, getErr := service.Get(otherCtx, plan.Id)
		deleteErr := service.Delete(otherCtx, plan.Id)

		// then
		assert.ErrorIs(t, getErr, ErrPlanNotFound)
		assert.ErrorIs(t, deleteErr, ErrPlanNotFound)
	})
}
