package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"crypto-dash/internal/domain"
)

// FavoriteRepository define el contrato de persistencia para favoritos.
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
	Add(ctx context.Context, fav domain.Favorite) error
	// Remove devuelve false cuando no existía el favorito; la ausencia no es error.
	Remove(ctx context.Context, userID, symbol string) (bool, error)
}

// PgFavoriteRepository implementa FavoriteRepository usando pgxpool.
type PgFavoriteRepository struct {
	pool *pgxpool.Pool
}

func NewPgFavoriteRepository(pool *pgxpool.Pool) *PgFavoriteRepository {
	return &PgFavoriteRepository{pool: pool}
}

func (r *PgFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	const query = `
		SELECT id, user_id, symbol, name, added_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY added_at
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var f domain.Favorite
		if err := rows.Scan(&f.ID, &f.UserID, &f.Symbol, &f.Name, &f.AddedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, f)
	}
	return favorites, rows.Err()
}

func (r *PgFavoriteRepository) Add(ctx context.Context, fav domain.Favorite) error {
	const query = `
		INSERT INTO favorites (id, user_id, symbol, name, added_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, fav.ID, fav.UserID, fav.Symbol, fav.Name, fav.AddedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateFavorite
	}
	return err
}

func (r *PgFavoriteRepository) Remove(ctx context.Context, userID, symbol string) (bool, error) {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND symbol = $2`
	tag, err := r.pool.Exec(ctx, query, userID, symbol)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
