package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	repo "github.com/oksasatya/opportune-api/internal/domain/repository"
	"github.com/oksasatya/opportune-api/pkg/helpers"
)

// ApplicationIndex is satisfied by search.ApplicationIndex.
type ApplicationIndex interface {
	Put(ctx context.Context, a *entity.Application) error
	Search(ctx context.Context, userID, q string, size int) ([]entity.Application, error)
}

type ApplicationService struct {
	Repo   repo.ApplicationRepository
	Index  ApplicationIndex
	Logger logrus.FieldLogger
}

func NewApplicationService(r repo.ApplicationRepository, idx ApplicationIndex, logger logrus.FieldLogger) *ApplicationService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &ApplicationService{Repo: r, Index: idx, Logger: logger}
}

type ApplyInput struct {
	JobID       string
	Title       string
	Company     string
	Category    string
	AppliedDate time.Time
}

func (s *ApplicationService) Apply(ctx context.Context, userID string, in ApplyInput) (*entity.Application, error) {
	applied := in.AppliedDate
	if applied.IsZero() {
		applied = time.Now()
	}
	a := &entity.Application{
		UserID:      userID,
		JobID:       strings.TrimSpace(in.JobID),
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Category:    in.Category,
		AppliedDate: applied.UTC().Truncate(24 * time.Hour),
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("create application: %w", err)
	}

	if s.Index != nil {
		if err := s.Index.Put(ctx, a); err != nil {
			s.Logger.WithError(err).WithField("application_id", a.ID).Warn("es index failed")
		}
	}
	return a, nil
}

// List returns userID's applications, newest first. Only the owner may read them.
func (s *ApplicationService) List(ctx context.Context, actorID, userID string) ([]entity.Application, error) {
	if actorID != userID {
		return nil, ErrForbidden
	}
	out, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

// Search matches q against title and company. Without an index, or when the
// index fails, it falls back to filtering the stored rows.
func (s *ApplicationService) Search(ctx context.Context, actorID, userID, q string) ([]entity.Application, error) {
	if actorID != userID {
		return nil, ErrForbidden
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return s.List(ctx, actorID, userID)
	}
	if s.Index != nil {
		out, err := s.Index.Search(ctx, userID, q, 20)
		if err == nil {
			return out, nil
		}
		s.Logger.WithError(err).WithField("user_id", userID).Warn("es search failed; filtering in store")
	}

	all, err := s.List(ctx, actorID, userID)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(q)
	out := make([]entity.Application, 0)
	for _, a := range all {
		if strings.Contains(strings.ToLower(a.Title), needle) || strings.Contains(strings.ToLower(a.Company), needle) {
			out = append(out, a)
		}
	}
	return out, nil
}
