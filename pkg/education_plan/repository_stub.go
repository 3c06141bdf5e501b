package education_plan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finwise/finwise/pkg/family"
)

// RepositoryStub keeps plans in memory. Ownership is given by SetOwner, since the stub has no family
// tables to join against.
type RepositoryStub struct {
	mu     sync.RWMutex
	plans  map[int]EducationPlan
	owners map[int]int // family profile id -> user id
	nextId int
	writes int
	err    error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		plans:  make(map[int]EducationPlan),
		owners: make(map[int]int),
	}
}

func (s *RepositoryStub) SetOwner(familyProfileId, userId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[familyProfileId] = userId
}

func (s *RepositoryStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Writes counts successful create, update and delete calls.
func (s *RepositoryStub) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *RepositoryStub) owns(userId int, plan EducationPlan) bool {
	owner, ok := s.owners[plan.FamilyProfileId]
	return ok && owner == userId
}

func (s *RepositoryStub) CreatePlan(ctx context.Context, userId int, plan EducationPlan) (EducationPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return EducationPlan{}, s.err
	}
	if !s.owns(userId, plan) {
		return EducationPlan{}, family.ErrChildNotFound
	}
	s.nextId++
	now := time.Now()
	plan.Id = s.nextId
	plan.CreatedAt = now
	plan.UpdatedAt = now
	s.plans[plan.Id] = plan
	s.writes++
	return plan, nil
}

func (s *RepositoryStub) GetPlan(ctx context.Context, userId int, planId int) (EducationPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return EducationPlan{}, s.err
	}
	plan, ok := s.plans[planId]
	if !ok || !s.owns(userId, plan) {
		return EducationPlan{}, ErrPlanNotFound
	}
	return plan, nil
}

func (s *RepositoryStub) ListPlansByChild(ctx context.Context, userId int, childId int) ([]EducationPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	plans := make([]EducationPlan, 0)
	for _, plan := range s.plans {
		if plan.ChildId == childId && s.owns(userId, plan) {
			plans = append(plans, plan)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].Id < plans[j].Id })
	return plans, nil
}

func (s *RepositoryStub) UpdatePlan(ctx context.Context, userId int, plan EducationPlan) (EducationPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return EducationPlan{}, s.err
	}
	existing, ok := s.plans[plan.Id]
	if !ok || !s.owns(userId, existing) {
		return EducationPlan{}, ErrPlanNotFound
	}
	plan.FamilyProfileId = existing.FamilyProfileId
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = time.Now()
	s.plans[plan.Id] = plan
	s.writes++
	return plan, nil
}

func (s *RepositoryStub) DeletePlan(ctx context.Context, userId int, planId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	existing, ok := s.plans[planId]
	if !ok || !s.owns(userId, existing) {
		return false, nil
	}
	delete(s.plans, planId)
	s.writes++
	return true, nil
}
