package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Bahjat/site-health/backend/internal/model"
)

var progressColumns = []string{
	"id", "site_id", "status", "current_step", "percentage", "steps_completed",
	"analysis_id", "error_message", "created_at", "updated_at", "completed_at",
}

// CreateProgress starts a pending job record for the site.
func (s *Store) CreateProgress(ctx context.Context, siteID int64) (model.JobProgress, error) {
	now := fromMillis(toMillis(time.Now()))
	p := model.JobProgress{
		ID:             uuid.Must(uuid.NewV7()).String(),
		SiteID:         siteID,
		Status:         model.JobPending,
		CurrentStep:    "pending",
		StepsCompleted: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	query, args, err := s.sb.Insert("analysis_progress").
		Columns("id", "site_id", "status", "current_step", "percentage", "steps_completed", "created_at", "updated_at").
		Values(p.ID, p.SiteID, string(p.Status), p.CurrentStep, p.Percentage, "[]", toMillis(now), toMillis(now)).
		ToSql()
	if err != nil {
		return model.JobProgress{}, err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return model.JobProgress{}, fmt.Errorf("inserting progress: %w", err)
	}
	return p, nil
}

// UpdateProgress overwrites the mutable fields of a job record.
func (s *Store) UpdateProgress(ctx context.Context, p model.JobProgress) error {
	steps, err := json.Marshal(stepsOrEmpty(p.StepsCompleted))
	if err != nil {
		return fmt.Errorf("marshalling steps: %w", err)
	}

	var resultID any
	if p.ResultID != nil {
		resultID = *p.ResultID
	}

	query, args, err := s.sb.Update("analysis_progress").
		Set("status", string(p.Status)).
		Set("current_step", p.CurrentStep).
		Set("percentage", p.Percentage).
		Set("steps_completed", string(steps)).
		Set("analysis_id", resultID).
		Set("error_message", p.ErrorMessage).
		Set("updated_at", toMillis(p.UpdatedAt)).
		Set("completed_at", nullableMillis(p.CompletedAt)).
		Where("id = ?", p.ID).
		ToSql()
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating progress: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(sql.ErrNoRows, "job %s not found", p.ID)
	}
	return nil
}

// GetProgress returns one job record by ID.
func (s *Store) GetProgress(ctx context.Context, id string) (model.JobProgress, error) {
	query, args, err := s.sb.Select(progressColumns...).From("analysis_progress").Where("id = ?", id).ToSql()
	if err != nil {
		return model.JobProgress{}, err
	}

	p, err := scanProgress(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.JobProgress{}, notFound(err, "job %s not found", id)
	}
	return p, nil
}

// LatestProgress returns the most recently created job for the site.
func (s *Store) LatestProgress(ctx context.Context, siteID int64) (model.JobProgress, error) {
	query, args, err := s.sb.Select(progressColumns...).
		From("analysis_progress").
		Where("site_id = ?", siteID).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.JobProgress{}, err
	}

	p, err := scanProgress(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.JobProgress{}, notFound(err, "no analysis in progress for site %d", siteID)
	}
	return p, nil
}

func scanProgress(row rowScanner) (model.JobProgress, error) {
	var (
		p           model.JobProgress
		status      string
		steps       string
		resultID    sql.NullInt64
		createdAt   int64
		updatedAt   int64
		completedAt sql.NullInt64
	)
	if err := row.Scan(
		&p.ID, &p.SiteID, &status, &p.CurrentStep, &p.Percentage, &steps,
		&resultID, &p.ErrorMessage, &createdAt, &updatedAt, &completedAt,
	); err != nil {
		return model.JobProgress{}, err
	}

	p.Status = model.JobStatus(status)
	if err := json.Unmarshal([]byte(steps), &p.StepsCompleted); err != nil {
		return model.JobProgress{}, fmt.Errorf("decoding steps of job %s: %w", p.ID, err)
	}
	p.StepsCompleted = stepsOrEmpty(p.StepsCompleted)
	if resultID.Valid {
		p.ResultID = &resultID.Int64
	}
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	p.CompletedAt = nullableTime(completedAt)
	return p, nil
}

func stepsOrEmpty(steps []string) []string {
	if steps == nil {
		return []string{}
	}
	return steps
}
