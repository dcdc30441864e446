package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// "Today" is the UTC calendar date. The whole transition table lives in one
// conditional UPDATE so two concurrent check-ins by the same user cannot
// double-increment the streak: the second statement sees the first one's
// last_checkin_date write and takes the same-day branch.
const advanceStreakQuery = `
UPDATE users
SET
    last_checkin_date = (now() AT TIME ZONE 'utc')::date,
    checkin_streak_days =
        CASE
            WHEN last_checkin_date IS NULL THEN 1
            WHEN last_checkin_date = (now() AT TIME ZONE 'utc')::date THEN checkin_streak_days
            WHEN last_checkin_date = (now() AT TIME ZONE 'utc')::date - INTERVAL '1 day'
                THEN checkin_streak_days + 1
            ELSE 1
        END
WHERE id = $1
RETURNING checkin_streak_days
`

// AdvanceStreak applies the consecutive-day state machine for one successful
// check-in and returns the user's new streak length.
func (r *Repository) AdvanceStreak(ctx context.Context, userID int64) (int, error) {
	var streakDays int
	err := r.db.GetContext(ctx, &streakDays, advanceStreakQuery, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to advance streak: %w", err)
	}

	return streakDays, nil
}
