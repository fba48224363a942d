package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Bahjat/site-health/backend/internal/model"
)

var siteColumns = []string{"id", "url", "name", "latest_score", "last_analyzed_at", "created_at"}

// CreateSite registers a site and returns it with its assigned ID.
func (s *Store) CreateSite(ctx context.Context, url, name string) (model.Site, error) {
	site := model.Site{URL: url, Name: name, CreatedAt: fromMillis(toMillis(time.Now()))}

	query, args, err := s.sb.Insert("sites").
		Columns("url", "name", "created_at").
		Values(site.URL, site.Name, toMillis(site.CreatedAt)).
		ToSql()
	if err != nil {
		return model.Site{}, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return model.Site{}, fmt.Errorf("inserting site: %w", err)
	}
	if site.ID, err = res.LastInsertId(); err != nil {
		return model.Site{}, fmt.Errorf("reading site id: %w", err)
	}
	return site, nil
}

// GetSite returns the site with the given ID.
func (s *Store) GetSite(ctx context.Context, id int64) (model.Site, error) {
	query, args, err := s.sb.Select(siteColumns...).From("sites").Where("id = ?", id).ToSql()
	if err != nil {
		return model.Site{}, err
	}

	site, err := scanSite(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.Site{}, notFound(err, "site %d not found", id)
	}
	return site, nil
}

// ListSites returns all sites, oldest first.
func (s *Store) ListSites(ctx context.Context) ([]model.Site, error) {
	query, args, err := s.sb.Select(siteColumns...).From("sites").OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sites := []model.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// UpdateSiteScore records the outcome of the site's latest completed run.
func (s *Store) UpdateSiteScore(ctx context.Context, id int64, score float64, at time.Time) error {
	query, args, err := s.sb.Update("sites").
		Set("latest_score", score).
		Set("last_analyzed_at", toMillis(at)).
		Where("id = ?", id).
		ToSql()
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating site score: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(sql.ErrNoRows, "site %d not found", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSite(row rowScanner) (model.Site, error) {
	var (
		site       model.Site
		score      sql.NullFloat64
		analyzedAt sql.NullInt64
		createdAt  int64
	)
	if err := row.Scan(&site.ID, &site.URL, &site.Name, &score, &analyzedAt, &createdAt); err != nil {
		return model.Site{}, err
	}
	if score.Valid {
		site.LatestScore = &score.Float64
	}
	site.LastAnalyzedAt = nullableTime(analyzedAt)
	site.CreatedAt = fromMillis(createdAt)
	return site, nil
}
