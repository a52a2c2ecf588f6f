package store

import (
	"sync"

	"github.com/jenfonro/sharesync/internal/model"
	"github.com/pkg/errors"
)

// SettingStore caches operator settings in memory, writing through to the
// injected persist func on save. Get never touches the database, so the sync
// engine can read settings on every attempt without I/O.
type SettingStore struct {
	mu      sync.RWMutex
	values  map[string]string
	persist func([]model.SettingItem) error
}

func NewSettingStore(load func() ([]model.SettingItem, error), persist func([]model.SettingItem) error) (*SettingStore, error) {
	s := &SettingStore{
		values:  make(map[string]string),
		persist: persist,
	}
	if load != nil {
		items, err := load()
		if err != nil {
			return nil, errors.Wrapf(err, "failed load settings")
		}
		for _, item := range items {
			s.values[item.Key] = item.Value
		}
	}
	return s, nil
}

func (s *SettingStore) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *SettingStore) Save(items []model.SettingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.persist != nil {
		if err := s.persist(items); err != nil {
			return err
		}
	}
	for _, item := range items {
		s.values[item.Key] = item.Value
	}
	return nil
}
