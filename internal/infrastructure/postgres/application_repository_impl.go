package postgres

import (
	"context"
	"fmt"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/internal/domain/repository"
)

type ApplicationRepository struct {
	db DBTX
}

func NewApplicationRepository(db DBTX) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *entity.Application) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO applications (user_id, job_id, title, company, category, applied_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, a.UserID, a.JobID, a.Title, a.Company, a.Category, a.AppliedDate)

	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]entity.Application, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, job_id, title, company, category, applied_date, created_at
		FROM applications
		WHERE user_id = $1
		ORDER BY applied_date DESC, created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Application, 0)
	for rows.Next() {
		var a entity.Application
		if err := rows.Scan(&a.ID, &a.UserID, &a.JobID, &a.Title, &a.Company, &a.Category, &a.AppliedDate, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
