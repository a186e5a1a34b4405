package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"crypto-dash/internal/domain"
)

// FileStore persiste usuarios y favoritos en dos archivos JSON planos:
// users.json (lista de usuarios) y favorites.json (mapa userId -> favoritos).
// Cada mutación reescribe el archivo completo; el reemplazo es atómico
// (archivo temporal + rename) para no dejar archivos truncados ante un crash.
// Un mutex por store serializa los ciclos leer-modificar-escribir dentro del
// proceso; no protege contra múltiples instancias del servidor.
type FileStore struct {
	mu            sync.Mutex
	usersPath     string
	favoritesPath string
}

// NewFileStore prepara el directorio de datos y los archivos iniciales.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &FileStore{
		usersPath:     filepath.Join(dir, "users.json"),
		favoritesPath: filepath.Join(dir, "favorites.json"),
	}
	if err := ensureFile(s.usersPath, []byte("[]")); err != nil {
		return nil, err
	}
	if err := ensureFile(s.favoritesPath, []byte("{}")); err != nil {
		return nil, err
	}
	return s, nil
}

func ensureFile(path string, initial []byte) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return writeAtomic(path, initial)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// fileUser agrega el hash a la representación en disco; domain.User lo
// excluye del JSON para nunca filtrarlo en respuestas HTTP.
type fileUser struct {
	domain.User
	PasswordHash string `json:"passwordHash"`
}

func (s *FileStore) readUsersFull() ([]fileUser, error) {
	data, err := os.ReadFile(s.usersPath)
	if err != nil {
		return nil, fmt.Errorf("read users file: %w", err)
	}
	var users []fileUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("decode users file: %w", err)
	}
	return users, nil
}

func (s *FileStore) writeUsers(users []fileUser) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.usersPath, data)
}

func (s *FileStore) readFavorites() (map[string][]domain.Favorite, error) {
	data, err := os.ReadFile(s.favoritesPath)
	if err != nil {
		return nil, fmt.Errorf("read favorites file: %w", err)
	}
	favorites := map[string][]domain.Favorite{}
	if err := json.Unmarshal(data, &favorites); err != nil {
		return nil, fmt.Errorf("decode favorites file: %w", err)
	}
	return favorites, nil
}

func (s *FileStore) writeFavorites(favorites map[string][]domain.Favorite) error {
	data, err := json.MarshalIndent(favorites, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.favoritesPath, data)
}

func (s *FileStore) Create(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsersFull()
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateEmail
		}
	}
	users = append(users, fileUser{User: user, PasswordHash: user.PasswordHash})
	return s.writeUsers(users)
}

func (s *FileStore) GetByID(_ context.Context, id string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsersFull()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return restoreHash(u), nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (s *FileStore) GetByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsersFull()
	if err != nil {
		return domain.User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return restoreHash(u), nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (s *FileStore) Update(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.readUsersFull()
	if err != nil {
		return err
	}
	for i, u := range users {
		if u.ID == user.ID {
			users[i] = fileUser{User: user, PasswordHash: user.PasswordHash}
			return s.writeUsers(users)
		}
	}
	return ErrNotFound
}

func (s *FileStore) ListByUser(_ context.Context, userID string) ([]domain.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.readFavorites()
	if err != nil {
		return nil, err
	}
	list := favorites[userID]
	if list == nil {
		list = []domain.Favorite{}
	}
	return list, nil
}

func (s *FileStore) Add(_ context.Context, fav domain.Favorite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.readFavorites()
	if err != nil {
		return err
	}
	for _, f := range favorites[fav.UserID] {
		if strings.EqualFold(f.Symbol, fav.Symbol) {
			return ErrDuplicateFavorite
		}
	}
	favorites[fav.UserID] = append(favorites[fav.UserID], fav)
	return s.writeFavorites(favorites)
}

func (s *FileStore) Remove(_ context.Context, userID, symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites, err := s.readFavorites()
	if err != nil {
		return false, err
	}
	list := favorites[userID]
	for i, f := range list {
		if strings.EqualFold(f.Symbol, symbol) {
			favorites[userID] = append(list[:i], list[i+1:]...)
			return true, s.writeFavorites(favorites)
		}
	}
	return false, nil
}

func restoreHash(u fileUser) domain.User {
	user := u.User
	user.PasswordHash = u.PasswordHash
	return user
}
