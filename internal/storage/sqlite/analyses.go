package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Bahjat/site-health/backend/internal/model"
)

var analysisColumns = []string{"id", "payload", "created_at"}

// SaveAnalysis persists a completed run and returns its ID. Records are
// written once and never updated.
func (s *Store) SaveAnalysis(ctx context.Context, rec model.AnalysisRecord) (int64, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("marshalling analysis: %w", err)
	}

	query, args, err := s.sb.Insert("analyses").
		Columns(
			"site_id", "url", "total_score", "raw_total_score", "is_capped",
			"technical_score", "content_score", "ux_score", "authority_score",
			"payload", "created_at",
		).
		Values(
			rec.SiteID, rec.URL, rec.TotalScore, rec.RawTotalScore, rec.IsCapped,
			rec.TechnicalScore, rec.ContentScore, rec.UXScore, rec.AuthorityScore,
			string(payload), toMillis(rec.CreatedAt),
		).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting analysis: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading analysis id: %w", err)
	}
	return id, nil
}

// LatestAnalysis returns the site's most recent record.
func (s *Store) LatestAnalysis(ctx context.Context, siteID int64) (model.AnalysisRecord, error) {
	query, args, err := s.sb.Select(analysisColumns...).
		From("analyses").
		Where("site_id = ?", siteID).
		OrderBy("created_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return model.AnalysisRecord{}, err
	}

	rec, err := scanAnalysis(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.AnalysisRecord{}, notFound(err, "no analysis found for site %d", siteID)
	}
	return rec, nil
}

// ListAnalyses returns up to limit records for the site, newest first.
func (s *Store) ListAnalyses(ctx context.Context, siteID int64, limit int) ([]model.AnalysisRecord, error) {
	query, args, err := s.sb.Select(analysisColumns...).
		From("analyses").
		Where("site_id = ?", siteID).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(max(limit, 0))).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []model.AnalysisRecord{}
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanAnalysis(row rowScanner) (model.AnalysisRecord, error) {
	var (
		id        int64
		payload   string
		createdAt int64
	)
	if err := row.Scan(&id, &payload, &createdAt); err != nil {
		return model.AnalysisRecord{}, err
	}

	var rec model.AnalysisRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return model.AnalysisRecord{}, fmt.Errorf("decoding analysis %d: %w", id, err)
	}
	rec.ID = id
	rec.CreatedAt = fromMillis(createdAt)
	return rec, nil
}
