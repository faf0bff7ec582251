package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/internal/domain/repository"
)

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	u := &entity.User{Username: "alice", Email: "a@x.com", PasswordHash: "h1"}
	require.NoError(t, r.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.ErrorIs(t, r.Create(ctx, &entity.User{Username: "bob", Email: "a@x.com", PasswordHash: "h"}), repository.ErrDuplicateEmail)

	tok := "t1"
	require.NoError(t, r.UpdateResetToken(ctx, "a@x.com", &tok))

	ok, err := r.ConsumeResetToken(ctx, "a@x.com", "other", "h2")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.ConsumeResetToken(ctx, "a@x.com", "t1", "h2")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "h2", got.PasswordHash)
	assert.Nil(t, got.ResetToken)

	ok, _ = r.ConsumeResetToken(ctx, "a@x.com", "t1", "h3")
	assert.False(t, ok)

	assert.ErrorIs(t, r.UpdatePassword(ctx, "ghost@x.com", "h"), repository.ErrNotFound)
	require.NoError(t, r.UpdateResumeURL(ctx, u.ID, "https://cv"))
	got, _ = r.GetByEmail(ctx, "a@x.com")
	assert.Equal(t, "https://cv", got.ResumeURL)
}

func TestApplicationRepository_OrderAndDuplicates(t *testing.T) {
	ctx := context.Background()
	r := NewApplicationRepository()
	d1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	require.NoError(t, r.Create(ctx, &entity.Application{UserID: "u", JobID: "1", AppliedDate: d1}))
	require.NoError(t, r.Create(ctx, &entity.Application{UserID: "u", JobID: "2", AppliedDate: d2}))
	require.NoError(t, r.Create(ctx, &entity.Application{UserID: "v", JobID: "1", AppliedDate: d2}))
	assert.ErrorIs(t, r.Create(ctx, &entity.Application{UserID: "u", JobID: "1"}), repository.ErrDuplicate)

	got, err := r.ListByUser(ctx, "u")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].JobID)
}
