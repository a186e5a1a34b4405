package repository

import (
	"context"
	"strings"
	"sync"

	"crypto-dash/internal/domain"
)

// MemoryStore guarda todo en mapas. Sirve como backend para tests y como
// fallback cuando no hay base de datos ni directorio de datos utilizable.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[string]domain.User
	byEmail   map[string]string
	favorites map[string][]domain.Favorite
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]domain.User),
		byEmail:   make(map[string]string),
		favorites: make(map[string][]domain.Favorite),
	}
}

func (s *MemoryStore) Create(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	s.users[user.ID] = user
	s.byEmail[key] = user.ID
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return s.users[id], nil
}

func (s *MemoryStore) Update(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID string) ([]domain.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.favorites[userID]
	out := make([]domain.Favorite, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) Add(_ context.Context, fav domain.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.favorites[fav.UserID] {
		if strings.EqualFold(f.Symbol, fav.Symbol) {
			return ErrDuplicateFavorite
		}
	}
	s.favorites[fav.UserID] = append(s.favorites[fav.UserID], fav)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, userID, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.favorites[userID]
	for i, f := range list {
		if strings.EqualFold(f.Symbol, symbol) {
			s.favorites[userID] = append(list[:i], list[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
