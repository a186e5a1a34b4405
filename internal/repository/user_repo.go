package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-dash/internal/domain"
)

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

const userColumns = `
	id, email, username, password_hash,
	phone, location, bio, company, website,
	language, timezone, theme,
	notify_price_alerts, notify_push, notify_email, notify_sound,
	privacy_analytics, privacy_data_sharing, privacy_profile_visibility,
	created_at, updated_at
`

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.Username,
		user.PasswordHash,
		user.Phone,
		user.Location,
		user.Bio,
		user.Company,
		user.Website,
		user.Language,
		user.Timezone,
		user.Theme,
		user.Notifications.PriceAlerts,
		user.Notifications.PushNotifications,
		user.Notifications.EmailNotifications,
		user.Notifications.SoundEnabled,
		user.Privacy.Analytics,
		user.Privacy.DataSharing,
		user.Privacy.ProfileVisibility,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) Update(ctx context.Context, user domain.User) error {
	const query = `
		UPDATE users SET
			username = $2, password_hash = $3,
			phone = $4, location = $5, bio = $6, company = $7, website = $8,
			language = $9, timezone = $10, theme = $11,
			notify_price_alerts = $12, notify_push = $13, notify_email = $14, notify_sound = $15,
			privacy_analytics = $16, privacy_data_sharing = $17, privacy_profile_visibility = $18,
			updated_at = $19
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Phone,
		user.Location,
		user.Bio,
		user.Company,
		user.Website,
		user.Language,
		user.Timezone,
		user.Theme,
		user.Notifications.PriceAlerts,
		user.Notifications.PushNotifications,
		user.Notifications.EmailNotifications,
		user.Notifications.SoundEnabled,
		user.Privacy.Analytics,
		user.Privacy.DataSharing,
		user.Privacy.ProfileVisibility,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgUserRepository) scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.PasswordHash,
		&u.Phone,
		&u.Location,
		&u.Bio,
		&u.Company,
		&u.Website,
		&u.Language,
		&u.Timezone,
		&u.Theme,
		&u.Notifications.PriceAlerts,
		&u.Notifications.PushNotifications,
		&u.Notifications.EmailNotifications,
		&u.Notifications.SoundEnabled,
		&u.Privacy.Analytics,
		&u.Privacy.DataSharing,
		&u.Privacy.ProfileVisibility,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
