package indicator

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// RepositoryStub is an in-memory Repository for service and handler tests.
type RepositoryStub struct {
	mu         sync.RWMutex
	indicators map[int]Indicator
	nextId     int
	err        error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{indicators: make(map[int]Indicator)}
}

func (s *RepositoryStub) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *RepositoryStub) List(ctx context.Context, name string) ([]Indicator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return nil, s.err
	}
	indicators := make([]Indicator, 0, len(s.indicators))
	for _, indicator := range s.indicators {
		if name == "" || strings.EqualFold(indicator.Name, name) {
			indicators = append(indicators, indicator)
		}
	}
	sort.Slice(indicators, func(i, j int) bool {
		a, b := indicators[i], indicators[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if monthOf(a) != monthOf(b) {
			return monthOf(a) < monthOf(b)
		}
		return a.Id < b.Id
	})
	return indicators, nil
}

func monthOf(indicator Indicator) int {
	if indicator.Month == nil {
		return 0
	}
	return *indicator.Month
}

func (s *RepositoryStub) Get(ctx context.Context, id int) (Indicator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return Indicator{}, s.err
	}
	indicator, ok := s.indicators[id]
	if !ok {
		return Indicator{}, ErrIndicatorNotFound
	}
	return indicator, nil
}

func (s *RepositoryStub) Create(ctx context.Context, indicator Indicator) (Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Indicator{}, s.err
	}
	s.nextId++
	now := time.Now()
	indicator.Id = s.nextId
	indicator.CreatedDate = now
	indicator.LastUpdatedDate = now
	s.indicators[indicator.Id] = indicator
	return indicator, nil
}

func (s *RepositoryStub) Update(ctx context.Context, indicator Indicator) (Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Indicator{}, s.err
	}
	existing, ok := s.indicators[indicator.Id]
	if !ok {
		return Indicator{}, ErrIndicatorNotFound
	}
	indicator.CreatedDate = existing.CreatedDate
	indicator.LastUpdatedDate = time.Now()
	s.indicators[indicator.Id] = indicator
	return indicator, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if _, ok := s.indicators[id]; !ok {
		return false, nil
	}
	delete(s.indicators, id)
	return true, nil
}
