package repository

import (
	"context"
	"fmt"
	"time"

	"cityquest/internal/model"

	"github.com/Masterminds/squirrel"
)

type mission struct {
	Code        string `db:"code"`
	Name        string `db:"name"`
	Description string `db:"description"`
	TargetType  string `db:"target_type"`
	TargetValue int    `db:"target_value"`
	IsActive    bool   `db:"is_active"`
}

type missionWithProgress struct {
	Code          string     `db:"code"`
	Name          string     `db:"name"`
	Description   string     `db:"description"`
	TargetType    string     `db:"target_type"`
	TargetValue   int        `db:"target_value"`
	IsActive      bool       `db:"is_active"`
	ProgressValue int        `db:"progress_value"`
	CompletedAt   *time.Time `db:"completed_at"`
}

func (r *Repository) ListActiveMissions(ctx context.Context) ([]*model.Mission, error) {
	query, args, err := squirrel.
		Select("code", "name", "description", "target_type", "target_value", "is_active").
		From("missions").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("code").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var missions []*mission
	err = r.db.SelectContext(ctx, &missions, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list active missions: %w", err)
	}

	list := make([]*model.Mission, len(missions))
	for i, m := range missions {
		list[i] = &model.Mission{
			Code:        m.Code,
			Name:        m.Name,
			Description: m.Description,
			TargetType:  model.MissionTargetType(m.TargetType),
			TargetValue: m.TargetValue,
			IsActive:    m.IsActive,
		}
	}

	return list, nil
}

// UpsertMissionProgress applies all progress updates for one user in a single
// ON CONFLICT statement. GREATEST keeps progress_value monotonic and COALESCE
// preserves an already-set completed_at, so the statement is safe to repeat
// and safe under concurrent check-ins for the same user.
func (r *Repository) UpsertMissionProgress(ctx context.Context, userID int64, updates []model.MissionProgressUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	builder := squirrel.
		Insert("user_missions").
		Columns("user_id", "mission_code", "progress_value", "completed_at")

	for _, u := range updates {
		builder = builder.Values(
			userID,
			u.MissionCode,
			u.ProgressValue,
			squirrel.Expr("CASE WHEN ?::int >= ?::int THEN now() END", u.ProgressValue, u.TargetValue),
		)
	}

	query, args, err := builder.
		Suffix(`ON CONFLICT (user_id, mission_code) DO UPDATE
SET progress_value = GREATEST(user_missions.progress_value, EXCLUDED.progress_value),
    completed_at = COALESCE(user_missions.completed_at, EXCLUDED.completed_at)`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mission progress upsert: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert mission progress: %w", err)
	}

	return nil
}

func (r *Repository) ListMissionProgress(ctx context.Context, userID int64) ([]*model.MissionProgress, error) {
	query := squirrel.Select(
		"m.code",
		"m.name",
		"m.description",
		"m.target_type",
		"m.target_value",
		"m.is_active",
		"COALESCE(um.progress_value, 0) AS progress_value",
		"um.completed_at",
	).
		From("missions m").
		LeftJoin("user_missions um ON um.mission_code = m.code AND um.user_id = ?", userID).
		Where(squirrel.Eq{"m.is_active": true}).
		OrderBy("m.code").
		PlaceholderFormat(squirrel.Dollar)

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build mission progress query: %w", err)
	}

	var rows []*missionWithProgress
	err = r.db.SelectContext(ctx, &rows, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list mission progress: %w", err)
	}

	progress := make([]*model.MissionProgress, len(rows))
	for i, row := range rows {
		progress[i] = &model.MissionProgress{
			Mission: model.Mission{
				Code:        row.Code,
				Name:        row.Name,
				Description: row.Description,
				TargetType:  model.MissionTargetType(row.TargetType),
				TargetValue: row.TargetValue,
				IsActive:    row.IsActive,
			},
			ProgressValue: row.ProgressValue,
			CompletedAt:   row.CompletedAt,
		}
	}

	return progress, nil
}
