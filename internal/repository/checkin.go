package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cityquest/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const pgUniqueViolation = "23505"

type Checkin struct {
	ID        uuid.UUID `db:"id"`
	UserID    int64     `db:"user_id"`
	PointID   int64     `db:"point_id"`
	Message   *string   `db:"message"`
	ImageURL  *string   `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
}

// CreateCheckin persists exactly one checkin per (user, point) and returns the
// record together with the user's new lifetime checkin count. The duplicate
// check is the unique constraint on (user_id, point_id), not a prior select,
// so concurrent attempts cannot both commit.
func (r *Repository) CreateCheckin(ctx context.Context, checkin *model.Checkin) (*model.Checkin, int, error) {
	created := Checkin{
		ID:        uuid.New(),
		UserID:    checkin.UserID,
		PointID:   checkin.PointID,
		Message:   checkin.Message,
		ImageURL:  checkin.ImageURL,
		CreatedAt: time.Now().UTC(),
	}

	var total int
	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("checkins").
			SetMap(map[string]interface{}{
				"id":         created.ID,
				"user_id":    created.UserID,
				"point_id":   created.PointID,
				"message":    created.Message,
				"image_url":  created.ImageURL,
				"created_at": created.CreatedAt,
			}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build checkin insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, query, args...)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return ErrDuplicateCheckin
			}
			return fmt.Errorf("failed to insert checkin: %w", err)
		}

		countQuery, countArgs, err := squirrel.
			Select("COUNT(*)").
			From("checkins").
			Where(squirrel.Eq{"user_id": created.UserID}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build checkin count query: %w", err)
		}

		if err := tx.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
			return fmt.Errorf("failed to count checkins: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return &model.Checkin{
		ID:        created.ID,
		UserID:    created.UserID,
		PointID:   created.PointID,
		Message:   created.Message,
		ImageURL:  created.ImageURL,
		CreatedAt: created.CreatedAt,
	}, total, nil
}

func (r *Repository) CountCheckins(ctx context.Context, userID int64) (int, error) {
	query, args, err := squirrel.
		Select("COUNT(*)").
		From("checkins").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}

	return total, nil
}
