package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	repo "github.com/oksasatya/opportune-api/internal/domain/repository"
	"github.com/oksasatya/opportune-api/pkg/helpers"
)

const MaxResumeSize = 5 << 20

var resumeTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Uploader is satisfied by helpers.GCSUploader.
type Uploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type UserService struct {
	Repo     repo.UserRepository
	Uploader Uploader
	Logger   logrus.FieldLogger
}

func NewUserService(r repo.UserRepository, up Uploader, logger logrus.FieldLogger) *UserService {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &UserService{Repo: r, Uploader: up, Logger: logger}
}

// GetProfile treats ids that are not UUIDs as unknown users.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

type ResumeFile struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// UploadResume stores a pdf/doc/docx file for userID and records its URL. Only the owner may upload.
func (s *UserService) UploadResume(ctx context.Context, actorID, userID string, f ResumeFile) (string, error) {
	if actorID != userID {
		return "", ErrForbidden
	}
	if s.Uploader == nil {
		return "", ErrNotConfigured
	}
	ext := strings.ToLower(filepath.Ext(f.Filename))
	contentType, ok := resumeTypes[ext]
	if !ok || f.Size <= 0 || f.Size > MaxResumeSize {
		return "", ErrInvalidResume
	}
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return "", err
	}

	objectPath := path.Join("resumes", userID, uuid.NewString()+ext)
	url, err := s.Uploader.Upload(ctx, objectPath, contentType, io.LimitReader(f.Body, MaxResumeSize))
	if err != nil {
		return "", fmt.Errorf("upload resume: %w", err)
	}
	if err := s.Repo.UpdateResumeURL(ctx, userID, url); err != nil {
		return "", fmt.Errorf("store resume url: %w", err)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "object": objectPath}).Info("resume uploaded")
	return url, nil
}
