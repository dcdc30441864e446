package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cityquest/internal/model"

	"github.com/lib/pq"
)

type userStats struct {
	UserID            int64          `db:"id"`
	LastCheckinDate   *time.Time     `db:"last_checkin_date"`
	CheckinStreakDays int            `db:"checkin_streak_days"`
	TotalCheckins     int            `db:"total_checkins"`
	Categories        pq.StringArray `db:"categories"`
}

const userStatsQuery = `
SELECT
    u.id,
    u.last_checkin_date,
    u.checkin_streak_days,
    COUNT(c.id) AS total_checkins,
    COALESCE(
        array_agg(DISTINCT p.category) FILTER (WHERE p.category IS NOT NULL),
        '{}'
    ) AS categories
FROM users u
LEFT JOIN checkins c ON c.user_id = u.id
LEFT JOIN points p ON p.id = c.point_id
WHERE u.id = $1
GROUP BY u.id, u.last_checkin_date, u.checkin_streak_days
`

func (r *Repository) GetUserStats(ctx context.Context, userID int64) (*model.UserStats, error) {
	var stats userStats
	err := r.db.GetContext(ctx, &stats, userStatsQuery, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	return &model.UserStats{
		UserID:            stats.UserID,
		LastCheckinDate:   stats.LastCheckinDate,
		CheckinStreakDays: stats.CheckinStreakDays,
		TotalCheckins:     stats.TotalCheckins,
		Categories:        stats.Categories,
	}, nil
}
