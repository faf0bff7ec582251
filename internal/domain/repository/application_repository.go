package repository

import (
	"context"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
)

type ApplicationRepository interface {
	// Create fails with ErrDuplicate when the user already applied to the job.
	Create(ctx context.Context, a *entity.Application) error
	ListByUser(ctx context.Context, userID string) ([]entity.Application, error)
}
