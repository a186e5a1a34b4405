package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"crypto-dash/internal/domain"
	"crypto-dash/internal/repository"
)

// UserService coordina reglas de negocio para usuarios y sus favoritos.
type UserService struct {
	logger    *zap.Logger
	users     repository.UserRepository
	favorites repository.FavoriteRepository
	limiter   RateLimiter
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrFavoriteExists     = errors.New("favorite already exists")
	ErrInvalidFavorite    = errors.New("favorite symbol required")
	ErrInvalidVisibility  = errors.New("invalid profile visibility")
	ErrNoUpdates          = errors.New("no valid fields to update")
	ErrRateLimited        = errors.New("rate limited")
)

const bcryptCost = 12

func NewUserService(logger *zap.Logger, users repository.UserRepository, favorites repository.FavoriteRepository, limiter RateLimiter) *UserService {
	if limiter == nil {
		limiter = NewRateLimiter(15*time.Minute, 5)
	}
	return &UserService{
		logger:    logger,
		users:     users,
		favorites: favorites,
		limiter:   limiter,
	}
}

// Register crea un usuario nuevo aplicando la política de contraseñas y
// los valores por defecto de preferencias.
func (s *UserService) Register(ctx context.Context, emailAddr, password, username string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" {
		return domain.User{}, ErrInvalidEmail
	}

	if v := ValidatePassword(password); !v.IsValid {
		return domain.User{}, &PasswordPolicyError{Errors: v.Errors}
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = fmt.Sprintf("user%04d", rand.IntN(10000))
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:            uuid.NewString(),
		Email:         emailAddr,
		Username:      username,
		PasswordHash:  string(hashBytes),
		Language:      "fr",
		Timezone:      "UTC",
		Theme:         "dark",
		Notifications: domain.DefaultNotifications(),
		Privacy:       domain.DefaultPrivacy(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate valida credenciales. Devuelve el mismo error para email
// desconocido y contraseña incorrecta para no permitir enumerar cuentas.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	emailAddr = normalizeEmail(emailAddr)
	password = strings.TrimSpace(password)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	if s.limiter != nil && !s.limiter.Allow("login:"+emailAddr) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return user, err
}

// ProfileUpdate lleva los campos editables del perfil. Un puntero nil
// significa "no tocar".
type ProfileUpdate struct {
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Location *string `json:"location"`
	Bio      *string `json:"bio"`
	Company  *string `json:"company"`
	Website  *string `json:"website"`
}

// UpdateProfile fusiona los campos presentes y refresca updatedAt.
// El id, el email, la contraseña y createdAt no pasan por esta vía.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (domain.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	changed := false
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
			changed = true
		}
	}
	apply(&user.Username, update.Username)
	apply(&user.Phone, update.Phone)
	apply(&user.Location, update.Location)
	apply(&user.Bio, update.Bio)
	apply(&user.Company, update.Company)
	apply(&user.Website, update.Website)

	if !changed {
		return domain.User{}, ErrNoUpdates
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// SettingsUpdate lleva preferencias generales, de notificación y de privacidad.
type SettingsUpdate struct {
	Language           *string `json:"language"`
	Timezone           *string `json:"timezone"`
	Theme              *string `json:"theme"`
	PriceAlerts        *bool   `json:"priceAlerts"`
	PushNotifications  *bool   `json:"pushNotifications"`
	EmailNotifications *bool   `json:"emailNotifications"`
	SoundEnabled       *bool   `json:"soundEnabled"`
	Analytics          *bool   `json:"analytics"`
	DataSharing        *bool   `json:"dataSharing"`
	ProfileVisibility  *string `json:"profileVisibility"`
}

func (s *UserService) UpdateSettings(ctx context.Context, id string, update SettingsUpdate) (domain.User, error) {
	if update.ProfileVisibility != nil && !domain.ValidVisibility(*update.ProfileVisibility) {
		return domain.User{}, ErrInvalidVisibility
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	changed := false
	applyStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	applyBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
			changed = true
		}
	}
	applyStr(&user.Language, update.Language)
	applyStr(&user.Timezone, update.Timezone)
	applyStr(&user.Theme, update.Theme)
	applyBool(&user.Notifications.PriceAlerts, update.PriceAlerts)
	applyBool(&user.Notifications.PushNotifications, update.PushNotifications)
	applyBool(&user.Notifications.EmailNotifications, update.EmailNotifications)
	applyBool(&user.Notifications.SoundEnabled, update.SoundEnabled)
	applyBool(&user.Privacy.Analytics, update.Analytics)
	applyBool(&user.Privacy.DataSharing, update.DataSharing)
	applyStr(&user.Privacy.ProfileVisibility, update.ProfileVisibility)

	if !changed {
		return domain.User{}, ErrNoUpdates
	}

	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ChangePassword re-verifica la contraseña actual antes de aceptar la nueva.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) (domain.User, error) {
	if s.limiter != nil && !s.limiter.Allow("pwchange:"+id) {
		return domain.User{}, ErrRateLimited
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return domain.User{}, ErrInvalidCredentials
	}
	if v := ValidatePassword(newPassword); !v.IsValid {
		return domain.User{}, &PasswordPolicyError{Errors: v.Errors}
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return domain.User{}, err
	}
	user.PasswordHash = string(hashBytes)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func (s *UserService) ListFavorites(ctx context.Context, userID string) ([]domain.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}

// AddFavorite normaliza el símbolo a minúsculas; (userId, symbol) es único.
func (s *UserService) AddFavorite(ctx context.Context, userID, symbol, name string) (domain.Favorite, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	name = strings.TrimSpace(name)
	if symbol == "" {
		return domain.Favorite{}, ErrInvalidFavorite
	}

	fav := domain.Favorite{
		ID:      uuid.NewString(),
		UserID:  userID,
		Symbol:  symbol,
		Name:    name,
		AddedAt: time.Now().UTC(),
	}
	if err := s.favorites.Add(ctx, fav); err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return domain.Favorite{}, ErrFavoriteExists
		}
		return domain.Favorite{}, err
	}
	return fav, nil
}

// RemoveFavorite devuelve false cuando el símbolo no estaba en favoritos.
func (s *UserService) RemoveFavorite(ctx context.Context, userID, symbol string) (bool, error) {
	symbol = strings.ToLower(strings.TrimSpace(symbol))
	if symbol == "" {
		return false, nil
	}
	return s.favorites.Remove(ctx, userID, symbol)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
