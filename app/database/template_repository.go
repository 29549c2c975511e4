package database

import (
	"database/sql"
	"fmt"
)

// templateRepository handles database operations for rewrite templates
type templateRepository struct {
	db *DB
}

// NewTemplateRepository creates a new rewrite template repository
func NewTemplateRepository(db *DB) TemplateRepository {
	return &templateRepository{db: db}
}

// GetTemplateByStyle returns the template row for a style, or nil if none exists
func (r *templateRepository) GetTemplateByStyle(style string) (*RewriteTemplate, error) {
	var t RewriteTemplate
	err := r.db.QueryRow(`
		SELECT id, name, style, COALESCE(system_prompt, ''), usage_count, created_at
		FROM rewrite_templates
		WHERE style = $1
		LIMIT 1
	`, style).Scan(&t.ID, &t.Name, &t.Style, &t.SystemPrompt, &t.UsageCount, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template for style %s: %w", style, err)
	}

	return &t, nil
}

// IncrementUsage bumps the template's usage counter
func (r *templateRepository) IncrementUsage(templateID string) error {
	_, err := r.db.Exec(`
		UPDATE rewrite_templates SET usage_count = usage_count + 1 WHERE id = $1
	`, templateID)
	if err != nil {
		return fmt.Errorf("failed to increment template usage: %w", err)
	}

	return nil
}
