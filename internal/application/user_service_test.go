package application

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	"github.com/oksasatya/opportune-api/internal/infrastructure/memory"
)

type fakeUploader struct {
	path, contentType string
	body              []byte
	err               error
}

func (f *fakeUploader) Upload(_ context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.path, f.contentType = objectPath, contentType
	f.body, _ = io.ReadAll(r)
	return "https://storage.googleapis.com/bucket/" + objectPath, nil
}

func seedUser(t *testing.T, repo *memory.UserRepository) *entity.User {
	t.Helper()
	u := &entity.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestGetProfile(t *testing.T) {
	repo := memory.NewUserRepository()
	u := seedUser(t, repo)
	s := NewUserService(repo, nil, nil)

	got, err := s.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	_, err = s.GetProfile(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.GetProfile(context.Background(), "7d0c6a4e-2b8f-4b6b-9a59-6f3c1f3a0c11")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUploadResume(t *testing.T) {
	repo := memory.NewUserRepository()
	u := seedUser(t, repo)
	up := &fakeUploader{}
	s := NewUserService(repo, up, nil)

	url, err := s.UploadResume(context.Background(), u.ID, u.ID, ResumeFile{Filename: "CV.PDF", Size: 3, Body: bytes.NewReader([]byte("pdf"))})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.path, "resumes/"+u.ID+"/"))
	assert.True(t, strings.HasSuffix(up.path, ".pdf"))
	assert.Equal(t, "application/pdf", up.contentType)
	assert.Equal(t, []byte("pdf"), up.body)

	stored, _ := repo.GetByID(context.Background(), u.ID)
	assert.Equal(t, url, stored.ResumeURL)
}

func TestUploadResume_Rejections(t *testing.T) {
	repo := memory.NewUserRepository()
	u := seedUser(t, repo)
	ctx := context.Background()
	body := func() io.Reader { return strings.NewReader("x") }

	s := NewUserService(repo, &fakeUploader{}, nil)
	_, err := s.UploadResume(ctx, "someone-else", u.ID, ResumeFile{Filename: "a.pdf", Size: 1, Body: body()})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.UploadResume(ctx, u.ID, u.ID, ResumeFile{Filename: "a.exe", Size: 1, Body: body()})
	assert.ErrorIs(t, err, ErrInvalidResume)

	_, err = s.UploadResume(ctx, u.ID, u.ID, ResumeFile{Filename: "a.pdf", Size: MaxResumeSize + 1, Body: body()})
	assert.ErrorIs(t, err, ErrInvalidResume)

	_, err = NewUserService(repo, nil, nil).UploadResume(ctx, u.ID, u.ID, ResumeFile{Filename: "a.pdf", Size: 1, Body: body()})
	assert.ErrorIs(t, err, ErrNotConfigured)

	boom := errors.New("gcs down")
	_, err = NewUserService(repo, &fakeUploader{err: boom}, nil).UploadResume(ctx, u.ID, u.ID, ResumeFile{Filename: "a.docx", Size: 1, Body: body()})
	assert.ErrorIs(t, err, boom)
}
