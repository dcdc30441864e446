package repository

import (
	"context"
	"fmt"
	"time"

	"cityquest/internal/model"
)

type userAchievement struct {
	Code        string    `db:"code"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Icon        string    `db:"icon"`
	UnlockedAt  time.Time `db:"unlocked_at"`
}

// The INSERT ... SELECT only produces a row when the achievement definition
// exists, and ON CONFLICT DO NOTHING makes the unlock idempotent. A single
// statement, so concurrent unlocks of the same code insert at most one row.
const unlockAchievementQuery = `
INSERT INTO user_achievements (user_id, achievement_code, unlocked_at)
SELECT $1, code, now()
FROM achievements
WHERE code = $2
ON CONFLICT (user_id, achievement_code) DO NOTHING
`

// UnlockAchievement grants a badge once. It reports true only when this call
// created the row, so the caller can distinguish a fresh unlock from a no-op.
func (r *Repository) UnlockAchievement(ctx context.Context, userID int64, code string) (bool, error) {
	result, err := r.db.ExecContext(ctx, unlockAchievementQuery, userID, code)
	if err != nil {
		return false, fmt.Errorf("failed to unlock achievement %s: %w", code, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}

const listUnlockedQuery = `
SELECT a.code, a.name, a.description, a.icon, ua.unlocked_at
FROM achievements a
JOIN user_achievements ua ON ua.achievement_code = a.code
WHERE ua.user_id = $1
ORDER BY ua.unlocked_at DESC
`

func (r *Repository) ListUnlockedAchievements(ctx context.Context, userID int64) ([]*model.UserAchievement, error) {
	var rows []*userAchievement
	err := r.db.SelectContext(ctx, &rows, listUnlockedQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unlocked achievements: %w", err)
	}

	unlocked := make([]*model.UserAchievement, len(rows))
	for i, row := range rows {
		unlocked[i] = &model.UserAchievement{
			Achievement: model.Achievement{
				Code:        row.Code,
				Name:        row.Name,
				Description: row.Description,
				Icon:        row.Icon,
			},
			UnlockedAt: row.UnlockedAt,
		}
	}

	return unlocked, nil
}
