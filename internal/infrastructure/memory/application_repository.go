package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/internal/domain/repository"
)

type ApplicationRepository struct {
	mu   sync.RWMutex
	rows []entity.Application
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{}
}

func (r *ApplicationRepository) Create(_ context.Context, a *entity.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == a.UserID && row.JobID == a.JobID {
			return repository.ErrDuplicate
		}
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	r.rows = append(r.rows, *a)
	return nil
}

func (r *ApplicationRepository) ListByUser(_ context.Context, userID string) ([]entity.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]entity.Application, 0)
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AppliedDate.Equal(out[j].AppliedDate) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].AppliedDate.After(out[j].AppliedDate)
	})
	return out, nil
}

var _ repository.ApplicationRepository = (*ApplicationRepository)(nil)
