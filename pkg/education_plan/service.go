package education_plan

import (
	"context"
	"fmt"

	"github.com/finwise/finwise/internal/utils"
	"github.com/finwise/finwise/pkg/family"
	"github.com/finwise/finwise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, familyProfileId int, input PlanInput) (EducationPlan, error)
	Get(ctx context.Context, planId int) (EducationPlan, error)
	ListByChild(ctx context.Context, childId int) ([]EducationPlan, error)
	Update(ctx context.Context, planId int, input PlanInput) (EducationPlan, error)
	PartialUpdate(ctx context.Context, planId int, patch PlanPatch) (EducationPlan, error)
	Delete(ctx context.Context, planId int) error
}

// FamilyReader looks up the family records a plan refers to. Both methods report records of other users
// as not found.
type FamilyReader interface {
	GetFamilyProfile(ctx context.Context, profileId int) (family.FamilyProfile, error)
	GetChild(ctx context.Context, childId int) (family.Child, error)
}

type ServiceImpl struct {
	repo         Repository
	familyReader FamilyReader
	clock        utils.Clock
}

func NewService(repo Repository, familyReader FamilyReader, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{
		repo:         repo,
		familyReader: familyReader,
		clock:        clock,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, familyProfileId int, input PlanInput) (EducationPlan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return EducationPlan{}, fmt.Errorf("failed to get current user: %w", err)
	}

	profile, err := s.familyReader.GetFamilyProfile(ctx, familyProfileId)
	if err != nil {
		return EducationPlan{}, err
	}
	if _, err := s.childOfFamily(ctx, input.ChildId, profile.Id); err != nil {
		return EducationPlan{}, err
	}

	plan := EducationPlan{FamilyProfileId: profile.Id}
	input.applyTo(&plan)
	if err := normalize(&plan); err != nil {
		return EducationPlan{}, err
	}
	if err := s.project(&plan); err != nil {
		return EducationPlan{}, err
	}

	created, err := s.repo.CreatePlan(ctx, userId, plan)
	if err != nil {
		return EducationPlan{}, err
	}
	log.Debugf("created education plan %d for child %d", created.Id, created.ChildId)
	return created, nil
}

func (s *ServiceImpl) Get(ctx context.Context, planId int) (EducationPlan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return EducationPlan{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetPlan(ctx, userId, planId)
}

func (s *ServiceImpl) ListByChild(ctx context.Context, childId int) ([]EducationPlan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.familyReader.GetChild(ctx, childId); err != nil {
		return nil, err
	}
	return s.repo.ListPlansByChild(ctx, userId, childId)
}

// Update replaces every writable field and recomputes the inflation adjusted cost.
func (s *ServiceImpl) Update(ctx context.Context, planId int, input PlanInput) (EducationPlan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return EducationPlan{}, fmt.Errorf("failed to get current user: %w", err)
	}

	plan, err := s.repo.GetPlan(ctx, userId, planId)
	if err != nil {
		return EducationPlan{}, err
	}
	if input.ChildId != plan.ChildId {
		if _, err := s.childOfFamily(ctx, input.ChildId, plan.FamilyProfileId); err != nil {
			return EducationPlan{}, err
		}
	}

	input.applyTo(&plan)
	if err := normalize(&plan); err != nil {
		return EducationPlan{}, err
	}
	if err := s.project(&plan); err != nil {
		return EducationPlan{}, err
	}
	return s.repo.UpdatePlan(ctx, userId, plan)
}

// PartialUpdate applies the non-nil slots of patch. The inflation adjusted cost is recomputed from the
// patched values when the cost, start year or rate is among them. A failing patch writes nothing.
func (s *ServiceImpl) PartialUpdate(ctx context.Context, planId int, patch PlanPatch) (EducationPlan, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return EducationPlan{}, fmt.Errorf("failed to get current user: %w", err)
	}

	plan, err := s.repo.GetPlan(ctx, userId, planId)
	if err != nil {
		return EducationPlan{}, err
	}

	patch.applyTo(&plan)
	if err := normalize(&plan); err != nil {
		return EducationPlan{}, err
	}
	if patch.touchesProjection() {
		if err := s.project(&plan); err != nil {
			return EducationPlan{}, err
		}
	}
	return s.repo.UpdatePlan(ctx, userId, plan)
}

func (s *ServiceImpl) Delete(ctx context.Context, planId int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.DeletePlan(ctx, userId, planId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPlanNotFound
	}
	return nil
}

// childOfFamily loads the child and checks it belongs to the family profile. A child of another family
// is reported as missing.
func (s *ServiceImpl) childOfFamily(ctx context.Context, childId int, familyProfileId int) (family.Child, error) {
	child, err := s.familyReader.GetChild(ctx, childId)
	if err != nil {
		return family.Child{}, err
	}
	if child.FamilyProfileId != familyProfileId {
		log.Debugf("child %d does not belong to family profile %d", childId, familyProfileId)
		return family.Child{}, fmt.Errorf("%w: child %d is not part of family profile %d",
			family.ErrChildNotFound, childId, familyProfileId)
	}
	return child, nil
}

func (s *ServiceImpl) project(plan *EducationPlan) error {
	plan.InflationAdjustedCost = InflationAdjustedCost(
		plan.EstimatedTotalCost,
		plan.EstimatedStartYear,
		plan.InflationRate,
		s.clock.Now(),
	)
	return checkProjection(*plan)
}
