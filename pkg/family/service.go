package family

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/finwise/finwise/internal/event_bus"
	"github.com/finwise/finwise/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetCurrentProfile(ctx context.Context) (FamilyProfile, error)
	GetFamilyProfile(ctx context.Context, profileId int) (FamilyProfile, error)
	UpdateFamilyProfile(ctx context.Context, profile FamilyProfile) (FamilyProfile, error)
	ListChildren(ctx context.Context, profileId int) ([]Child, error)
	CreateChild(ctx context.Context, profileId int, child Child) (Child, error)
	GetChild(ctx context.Context, childId int) (Child, error)
	UpdateChild(ctx context.Context, child Child) (Child, error)
	DeleteChild(ctx context.Context, childId int) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	service := &ServiceImpl{repo: repo}
	event_bus.SubscribeTyped[event_bus.UserRegistered](
		eventBus,
		event_bus.UserRegisteredEvent,
		func(e event_bus.EventT[event_bus.UserRegistered]) error {
			log.Debugf("received user registered event: %+v", e.Data)
			profile, err := service.createProfileFor(e.Context(), e.Data)
			if err != nil {
				log.Errorf("failed to create family profile for user %d: %v", e.Data.UserId, err)
				return err
			}
			log.Debugf("created family profile %d for user %d", profile.Id, e.Data.UserId)
			return nil
		},
	)
	return service
}

func (s *ServiceImpl) createProfileFor(ctx context.Context, registered event_bus.UserRegistered) (FamilyProfile, error) {
	return s.repo.CreateProfile(ctx, registered.UserId, FamilyProfile{Name: defaultFamilyName(registered)})
}

func defaultFamilyName(registered event_bus.UserRegistered) string {
	if registered.FamilyName != "" {
		return registered.FamilyName
	}
	name := registered.DisplayName
	if name == "" {
		name = registered.Username
	}
	return name + "'s family"
}

// GetCurrentProfile returns the profile of the current user, creating it when the registration event
// did not.
func (s *ServiceImpl) GetCurrentProfile(ctx context.Context) (FamilyProfile, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return FamilyProfile{}, fmt.Errorf("failed to get current user: %w", err)
	}
	profile, err := s.repo.GetProfileByUser(ctx, currentUser.Id)
	if errors.Is(err, ErrFamilyProfileNotFound) {
		log.Infof("family profile of user %d missing, creating it", currentUser.Id)
		return s.createProfileFor(ctx, event_bus.UserRegistered{
			UserId:      currentUser.Id,
			Username:    currentUser.Username,
			DisplayName: currentUser.DisplayName,
		})
	}
	return profile, err
}

func (s *ServiceImpl) GetFamilyProfile(ctx context.Context, profileId int) (FamilyProfile, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return FamilyProfile{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetProfile(ctx, userId, profileId)
}

func (s *ServiceImpl) UpdateFamilyProfile(ctx context.Context, profile FamilyProfile) (FamilyProfile, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return FamilyProfile{}, fmt.Errorf("failed to get current user: %w", err)
	}
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		return FamilyProfile{}, fmt.Errorf("%w: name is required", ErrInvalidFamilyProfile)
	}
	return s.repo.UpdateProfile(ctx, userId, profile)
}

func (s *ServiceImpl) ListChildren(ctx context.Context, profileId int) ([]Child, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	if _, err := s.repo.GetProfile(ctx, userId, profileId); err != nil {
		return nil, err
	}
	return s.repo.ListChildren(ctx, userId, profileId)
}

func (s *ServiceImpl) CreateChild(ctx context.Context, profileId int, child Child) (Child, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Child{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validateChild(&child); err != nil {
		return Child{}, err
	}
	child.FamilyProfileId = profileId
	return s.repo.CreateChild(ctx, userId, child)
}

func (s *ServiceImpl) GetChild(ctx context.Context, childId int) (Child, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Child{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetChild(ctx, userId, childId)
}

func (s *ServiceImpl) UpdateChild(ctx context.Context, child Child) (Child, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Child{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validateChild(&child); err != nil {
		return Child{}, err
	}
	return s.repo.UpdateChild(ctx, userId, child)
}

func (s *ServiceImpl) DeleteChild(ctx context.Context, childId int) error {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	deleted, err := s.repo.DeleteChild(ctx, userId, childId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrChildNotFound
	}
	return nil
}

func validateChild(child *Child) error {
	child.Name = strings.TrimSpace(child.Name)
	if child.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidChild)
	}
	return nil
}
