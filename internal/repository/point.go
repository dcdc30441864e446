package repository

import (
	"context"
	"database/sql"
	"errors"

	"cityquest/internal/model"

	"github.com/Masterminds/squirrel"
)

type Point struct {
	ID           int64   `db:"id"`
	Name         string  `db:"name"`
	Description  string  `db:"description"`
	Latitude     float64 `db:"latitude"`
	Longitude    float64 `db:"longitude"`
	RadiusMeters float64 `db:"radius_m"`
	ImageURL     string  `db:"image_url"`
	Category     string  `db:"category"`
	IsActive     bool    `db:"is_active"`
}

func (r *Repository) GetActivePoint(ctx context.Context, pointID int64) (*model.Point, error) {
	query, args, err := squirrel.
		Select("id", "name", "description", "latitude", "longitude", "radius_m", "image_url", "category", "is_active").
		From("points").
		Where(squirrel.Eq{"id": pointID, "is_active": true}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var point Point
	err = r.db.GetContext(ctx, &point, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return pointToModel(&point), nil
}

func (r *Repository) ListActivePoints(ctx context.Context) ([]*model.Point, error) {
	query, args, err := squirrel.
		Select("id", "name", "description", "latitude", "longitude", "radius_m", "image_url", "category", "is_active").
		From("points").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var points []*Point
	err = r.db.SelectContext(ctx, &points, query, args...)
	if err != nil {
		return nil, err
	}

	list := make([]*model.Point, len(points))
	for i, p := range points {
		list[i] = pointToModel(p)
	}

	return list, nil
}

func pointToModel(p *Point) *model.Point {
	return &model.Point{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		RadiusMeters: p.RadiusMeters,
		ImageURL:     p.ImageURL,
		Category:     p.Category,
		IsActive:     p.IsActive,
	}
}
