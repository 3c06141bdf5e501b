package education_plan

import (
	"context"
	"sync"

	"github.com/finwise/finwise/pkg/family"
)

// FamilyReaderStub is a test stub implementation of FamilyReader. It holds only the records visible to
// the current user.
type FamilyReaderStub struct {
	mu          sync.RWMutex
	profiles    map[int]family.FamilyProfile
	children    map[int]family.Child
	getChildErr error
}

func NewFamilyReaderStub() *FamilyReaderStub {
	return &FamilyReaderStub{
		profiles: make(map[int]family.FamilyProfile),
		children: make(map[int]family.Child),
	}
}

func (s *FamilyReaderStub) GetFamilyProfile(ctx context.Context, profileId int) (family.FamilyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.profiles[profileId]
	if !exists {
		return family.FamilyProfile{}, family.ErrFamilyProfileNotFound
	}
	return profile, nil
}

func (s *FamilyReaderStub) GetChild(ctx context.Context, childId int) (family.Child, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getChildErr != nil {
		return family.Child{}, s.getChildErr
	}
	child, exists := s.children[childId]
	if !exists {
		return family.Child{}, family.ErrChildNotFound
	}
	return child, nil
}

// Helper methods for test setup

func (s *FamilyReaderStub) SetProfile(profile family.FamilyProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.Id] = profile
}

func (s *FamilyReaderStub) SetChild(child family.Child) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[child.Id] = child
}

func (s *FamilyReaderStub) SetGetChildError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getChildErr = err
}

func (s *FamilyReaderStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = make(map[int]family.FamilyProfile)
	s.children = make(map[int]family.Child)
	s.getChildErr = nil
}
