package family

import (
	"context"
	"sort"
	"sync"
	"time"
)

type RepositoryStub struct {
	mu            sync.RWMutex
	profiles      map[int]FamilyProfile
	children      map[int]Child
	nextProfileId int
	nextChildId   int
	err           error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		profiles: make(map[int]FamilyProfile),
		children: make(map[int]Child),
	}
}

// SetError makes every following call fail with err, nil restores normal behaviour.
func (s *RepositoryStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RepositoryStub) CreateProfile(ctx context.Context, userId int, profile FamilyProfile) (FamilyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return FamilyProfile{}, s.err
	}
	for _, existing := range s.profiles {
		if existing.UserId == userId {
			return existing, nil
		}
	}
	s.nextProfileId++
	now := time.Now()
	profile.Id = s.nextProfileId
	profile.UserId = userId
	profile.CreatedAt = now
	profile.UpdatedAt = now
	s.profiles[profile.Id] = profile
	return profile, nil
}

func (s *RepositoryStub) GetProfileByUser(ctx context.Context, userId int) (FamilyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return FamilyProfile{}, s.err
	}
	for _, profile := range s.profiles {
		if profile.UserId == userId {
			return profile, nil
		}
	}
	return FamilyProfile{}, ErrFamilyProfileNotFound
}

func (s *RepositoryStub) GetProfile(ctx context.Context, userId int, profileId int) (FamilyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return FamilyProfile{}, s.err
	}
	profile, ok := s.profiles[profileId]
	if !ok || profile.UserId != userId {
		return FamilyProfile{}, ErrFamilyProfileNotFound
	}
	return profile, nil
}

func (s *RepositoryStub) UpdateProfile(ctx context.Context, userId int, profile FamilyProfile) (FamilyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return FamilyProfile{}, s.err
	}
	existing, ok := s.profiles[profile.Id]
	if !ok || existing.UserId != userId {
		return FamilyProfile{}, ErrFamilyProfileNotFound
	}
	existing.Name = profile.Name
	existing.UpdatedAt = time.Now()
	s.profiles[existing.Id] = existing
	return existing, nil
}

func (s *RepositoryStub) ownsProfile(userId, profileId int) bool {
	profile, ok := s.profiles[profileId]
	return ok && profile.UserId == userId
}

func (s *RepositoryStub) ListChildren(ctx context.Context, userId int, profileId int) ([]Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	children := make([]Child, 0)
	if !s.ownsProfile(userId, profileId) {
		return children, nil
	}
	for _, child := range s.children {
		if child.FamilyProfileId == profileId {
			children = append(children, child)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Id < children[j].Id })
	return children, nil
}

func (s *RepositoryStub) CreateChild(ctx context.Context, userId int, child Child) (Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Child{}, s.err
	}
	if !s.ownsProfile(userId, child.FamilyProfileId) {
		return Child{}, ErrFamilyProfileNotFound
	}
	s.nextChildId++
	child.Id = s.nextChildId
	child.CreatedAt = time.Now()
	s.children[child.Id] = child
	return child, nil
}

func (s *RepositoryStub) GetChild(ctx context.Context, userId int, childId int) (Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Child{}, s.err
	}
	child, ok := s.children[childId]
	if !ok || !s.ownsProfile(userId, child.FamilyProfileId) {
		return Child{}, ErrChildNotFound
	}
	return child, nil
}

func (s *RepositoryStub) UpdateChild(ctx context.Context, userId int, child Child) (Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Child{}, s.err
	}
	existing, ok := s.children[child.Id]
	if !ok || !s.ownsProfile(userId, existing.FamilyProfileId) {
		return Child{}, ErrChildNotFound
	}
	existing.Name = child.Name
	existing.BirthDate = child.BirthDate
	s.children[existing.Id] = existing
	return existing, nil
}

func (s *RepositoryStub) DeleteChild(ctx context.Context, userId int, childId int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	existing, ok := s.children[childId]
	if !ok || !s.ownsProfile(userId, existing.FamilyProfileId) {
		return false, nil
	}
	delete(s.children, childId)
	return true, nil
}
