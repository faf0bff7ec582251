package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/internal/infrastructure/memory"
)

type fakeIndex struct {
	put     []entity.Application
	results []entity.Application
	err     error
}

func (f *fakeIndex) Put(_ context.Context, a *entity.Application) error {
	f.put = append(f.put, *a)
	return f.err
}

func (f *fakeIndex) Search(_ context.Context, _, _ string, _ int) ([]entity.Application, error) {
	return f.results, f.err
}

func TestApply(t *testing.T) {
	idx := &fakeIndex{}
	s := NewApplicationService(memory.NewApplicationRepository(), idx, nil)
	ctx := context.Background()
	day := time.Date(2026, 3, 1, 15, 30, 0, 0, time.UTC)

	a, err := s.Apply(ctx, "u1", ApplyInput{JobID: " j1 ", Title: "Dev", Company: "Acme", Category: entity.CategoryJob, AppliedDate: day})
	require.NoError(t, err)
	assert.Equal(t, "j1", a.JobID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), a.AppliedDate)
	require.Len(t, idx.put, 1)
	assert.Equal(t, a.ID, idx.put[0].ID)

	_, err = s.Apply(ctx, "u1", ApplyInput{JobID: "j1", Title: "Dev", Company: "Acme", Category: entity.CategoryJob})
	assert.ErrorIs(t, err, ErrAlreadyApplied)
}

func TestApply_IndexFailureIsNotFatal(t *testing.T) {
	s := NewApplicationService(memory.NewApplicationRepository(), &fakeIndex{err: errors.New("es down")}, nil)
	_, err := s.Apply(context.Background(), "u1", ApplyInput{JobID: "j1", Title: "Dev", Company: "Acme", Category: entity.CategoryJob})
	assert.NoError(t, err)
}

func TestListAndSearch_OwnerOnly(t *testing.T) {
	s := NewApplicationService(memory.NewApplicationRepository(), nil, nil)
	ctx := context.Background()

	_, err := s.List(ctx, "u2", "u1")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Search(ctx, "u2", "u1", "dev")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSearch_FallsBackToStore(t *testing.T) {
	ctx := context.Background()
	idx := &fakeIndex{}
	s := NewApplicationService(memory.NewApplicationRepository(), idx, nil)
	_, _ = s.Apply(ctx, "u1", ApplyInput{JobID: "1", Title: "Go Developer", Company: "Acme", Category: entity.CategoryJob})
	_, _ = s.Apply(ctx, "u1", ApplyInput{JobID: "2", Title: "Designer", Company: "Beta", Category: entity.CategoryJob})

	idx.err = errors.New("es down")
	got, err := s.Search(ctx, "u1", "u1", "developer")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].JobID)

	got, err = s.Search(ctx, "u1", "u1", "beta")
	require.NoError(t, err)
	require.Len(t, got, 1)

	all, err := s.Search(ctx, "u1", "u1", "  ")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSearch_UsesIndex(t *testing.T) {
	idx := &fakeIndex{results: []entity.Application{{ID: "from-es"}}}
	s := NewApplicationService(memory.NewApplicationRepository(), idx, nil)

	got, err := s.Search(context.Background(), "u1", "u1", "go")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "from-es", got[0].ID)
}
