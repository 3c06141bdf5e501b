package indicator

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, name string) ([]Indicator, error)
	Get(ctx context.Context, id int) (Indicator, error)
	Create(ctx context.Context, indicator Indicator) (Indicator, error)
	Update(ctx context.Context, id int, indicator Indicator) (Indicator, error)
	Delete(ctx context.Context, id int) error
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) List(ctx context.Context, name string) ([]Indicator, error) {
	return s.repo.List(ctx, name)
}

func (s *ServiceImpl) Get(ctx context.Context, id int) (Indicator, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, indicator Indicator) (Indicator, error) {
	if err := normalize(&indicator); err != nil {
		return Indicator{}, err
	}
	created, err := s.repo.Create(ctx, indicator)
	if err != nil {
		return Indicator{}, err
	}
	log.Debugf("created economic indicator %d (%s %d)", created.Id, created.Name, created.Year)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int, indicator Indicator) (Indicator, error) {
	indicator.Id = id
	if err := normalize(&indicator); err != nil {
		return Indicator{}, err
	}
	return s.repo.Update(ctx, indicator)
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrIndicatorNotFound
	}
	return nil
}
