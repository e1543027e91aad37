// Package identitytest provides an in-memory user repository.
package identitytest

import (
	"context"
	"sort"
	"sync"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/procat-web/internal/app/identity/domain"
	"github.com/light-bringer/procat-web/internal/app/identity/repo"
	"github.com/light-bringer/procat-web/internal/models/m_user"
	"github.com/light-bringer/procat-web/internal/pkg/committer/committertest"
)

// Store implements contracts.UserRepository and contracts.SchemaProbe in memory.
// Writes become visible once their mutation is applied through Applier.
type Store struct {
	Applier *committertest.Applier

	// LookupErr, when set, is returned by every read.
	LookupErr error
	// Provisioned is what UsersTableExists reports.
	Provisioned bool

	mu    sync.Mutex
	users map[string]*m_user.Data
}

// NewStore returns an empty, provisioned Store.
func NewStore() *Store {
	return &Store{
		Applier:     committertest.NewApplier(),
		Provisioned: true,
		users:       make(map[string]*m_user.Data),
	}
}

// Seed stores a user directly, bypassing the applier.
func (s *Store) Seed(u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID()] = repo.DomainToData(u)
}

// User returns the stored row, or nil.
func (s *Store) User(userID string) *m_user.Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.users[userID]; ok {
		cp := *d
		return &cp
	}
	return nil
}

// Count returns the number of stored users.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) InsertMut(u *domain.User) *spanner.Mutation {
	data := repo.DomainToData(u)
	return s.Applier.Register(m_user.NewModel().InsertMut(data), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.users[data.UserID] = data
	})
}

func (s *Store) UpdateMut(u *domain.User) *spanner.Mutation {
	updates := repo.DirtyColumns(u)
	if len(updates) == 0 {
		return nil
	}
	data := repo.DomainToData(u)
	return s.Applier.Register(m_user.NewModel().UpdateMut(u.ID(), updates), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.users[data.UserID]; ok {
			s.users[data.UserID] = data
		}
	})
}

func (s *Store) DeleteMut(userID string) *spanner.Mutation {
	return s.Applier.Register(m_user.NewModel().DeleteMut(userID), func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.users, userID)
	})
}

func (s *Store) GetByID(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	data, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *data
	return repo.DataToDomain(&cp), nil
}

func (s *Store) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	for _, data := range s.users {
		if data.Email == email {
			cp := *data
			return repo.DataToDomain(&cp), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) List(_ context.Context) ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	out := make([]*domain.User, 0, len(s.users))
	for _, data := range s.users {
		cp := *data
		out = append(out, repo.DataToDomain(&cp))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() < out[j].ID()
	})
	return out, nil
}


func (s *Store) UsersTableExists(context.Context) (bool, error) {
	return s.Provisioned, nil
}
