package database

import (
	"database/sql"
	"fmt"
)

// sourceRepository handles database operations for content sources
type sourceRepository struct {
	db *DB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *DB) SourceRepository {
	return &sourceRepository{db: db}
}

// GetActiveSources returns all active sources of the given type
func (r *sourceRepository) GetActiveSources(sourceType string) ([]Source, error) {
	rows, err := r.db.Query(`
		SELECT id, name, source_type, url, priority, is_active,
		       check_interval_hours, last_checked_at, last_found_at, created_at
		FROM sources
		WHERE source_type = $1
		  AND is_active = true
		ORDER BY priority DESC, created_at ASC
	`, sourceType)
	if err != nil {
		return nil, fmt.Errorf("failed to get active sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var s Source
		err := rows.Scan(&s.ID, &s.Name, &s.SourceType, &s.URL, &s.Priority,
			&s.IsActive, &s.CheckIntervalHours, &s.LastCheckedAt, &s.LastFoundAt,
			&s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		sources = append(sources, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return sources, nil
}

// UpsertSource inserts or updates a source definition, keyed by URL
func (r *sourceRepository) UpsertSource(name, url, sourceType string, active bool, checkIntervalHours int) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, url, source_type, is_active, check_interval_hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			source_type = EXCLUDED.source_type,
			is_active = EXCLUDED.is_active,
			check_interval_hours = EXCLUDED.check_interval_hours
	`, name, url, sourceType, active, checkIntervalHours)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}

	return nil
}

// MarkChecked updates the source's last_checked_at timestamp
func (r *sourceRepository) MarkChecked(sourceID string) error {
	_, err := r.db.Exec(`UPDATE sources SET last_checked_at = NOW() WHERE id = $1`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to mark source checked: %w", err)
	}

	return nil
}

// MarkFound updates the source's last_found_at timestamp
func (r *sourceRepository) MarkFound(sourceID string) error {
	_, err := r.db.Exec(`UPDATE sources SET last_found_at = NOW() WHERE id = $1`, sourceID)
	if err != nil {
		return fmt.Errorf("failed to mark source found: %w", err)
	}

	return nil
}

// GetSourceStats returns ingestion counts for a single source
func (r *sourceRepository) GetSourceStats(sourceID string) (SourceStats, error) {
	var stats SourceStats
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN created_at > NOW() - INTERVAL '24 hours' THEN 1 END),
			COUNT(CASE WHEN created_at > NOW() - INTERVAL '7 days' THEN 1 END)
		FROM raw_articles
		WHERE source_id = $1
	`, sourceID).Scan(&stats.TotalArticles, &stats.Last24Hours, &stats.Last7Days)
	if err != nil && err != sql.ErrNoRows {
		return SourceStats{}, fmt.Errorf("failed to get source stats: %w", err)
	}

	return stats, nil
}
