// Package siteconfigtest provides an in-memory site config repository.
package siteconfigtest

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/app/siteconfig/domain"
	"github.com/light-bringer/procat-web/internal/models/m_site_config"
	"github.com/light-bringer/procat-web/internal/pkg/committer/committertest"
)

// Store implements contracts.Repository in memory.
type Store struct {
	Applier *committertest.Applier

	mu      sync.Mutex
	entries map[string]*domain.Entry
}

// NewStore returns a Store holding entries.
func NewStore(entries ...*domain.Entry) *Store {
	s := &Store{
		Applier: committertest.NewApplier(),
		entries: make(map[string]*domain.Entry),
	}
	for _, e := range entries {
		cp := *e
		s.entries[e.Key] = &cp
	}
	return s
}

// Value returns the stored value of key.
func (s *Store) Value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return "", false
	}
	return e.Value, true
}

func (s *Store) List(context.Context) ([]*domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) InsertMut(entry *domain.Entry) *spanner.Mutation {
	cp := *entry
	mut := m_site_config.NewModel().InsertMut(&m_site_config.Data{Key: entry.Key, Value: entry.Value, Description: entry.Description})
	return s.Applier.Register(mut, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.entries[cp.Key] = &cp
	})
}

func (s *Store) UpdateValueMut(key, value string) *spanner.Mutation {
	return s.Applier.Register(m_site_config.NewModel().UpdateValueMut(key, value), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if e, ok := s.entries[key]; ok {
			e.Value = value
		}
	})
}
