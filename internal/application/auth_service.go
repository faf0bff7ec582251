package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/opportune-api/internal/domain/entity"
	repo "github.com/oksasatya/opportune-api/internal/domain/repository"
	"github.com/oksasatya/opportune-api/pkg/helpers"
)

const defaultMailTimeout = 15 * time.Second

// Notifier delivers password reset links.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// Hasher is satisfied by helpers.PasswordHasher.
type Hasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Compare(ctx context.Context, hash, plain string) (bool, error)
}

type AuthOptions struct {
	// SingleUseResetTokens makes ResetPassword accept only the token currently stored for the user.
	SingleUseResetTokens bool
	// ConcealUnknownEmail makes ForgotPassword succeed silently for unknown addresses.
	ConcealUnknownEmail bool
	MailTimeout         time.Duration
}

type AuthService struct {
	Repo     repo.UserRepository
	Hasher   Hasher
	JWT      *helpers.JWTManager
	Notifier Notifier
	Logger   logrus.FieldLogger
	Opts     AuthOptions

	mailMu     sync.Mutex
	mailClosed bool
	mailWG     sync.WaitGroup
}

func NewAuthService(r repo.UserRepository, h Hasher, jwt *helpers.JWTManager, n Notifier, logger logrus.FieldLogger, opts AuthOptions) *AuthService {
	if opts.MailTimeout <= 0 {
		opts.MailTimeout = defaultMailTimeout
	}
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &AuthService{Repo: r, Hasher: h, JWT: jwt, Notifier: n, Logger: logger, Opts: opts}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// NormalizeEmail is applied to every address before it reaches the store.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := s.hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        NormalizeEmail(in.Email),
		PasswordHash: hash,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Login answers ErrInvalidCredentials for both unknown emails and wrong passwords.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	ok, err := s.Hasher.Compare(ctx, u.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// ForgotPassword stores a fresh reset token and emails it in the background.
// It returns once the token is stored; delivery failures are only logged.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			if s.Opts.ConcealUnknownEmail {
				return nil
			}
			return ErrEmailNotRegistered
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, _, err := s.JWT.IssueResetToken(u.Email)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}
	if err := s.Repo.UpdateResetToken(ctx, u.Email, &token); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	s.notify(ctx, u.Email, token)
	return nil
}

func (s *AuthService) notify(ctx context.Context, email, token string) {
	if s.Notifier == nil {
		return
	}
	s.mailMu.Lock()
	if s.mailClosed {
		s.mailMu.Unlock()
		s.Logger.WithField("email", email).Warn("shutting down; password reset email not sent")
		return
	}
	s.mailWG.Add(1)
	s.mailMu.Unlock()

	go func() {
		defer s.mailWG.Done()
		c, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.Opts.MailTimeout)
		defer cancel()
		if err := s.Notifier.SendPasswordReset(c, email, token); err != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("password reset email failed")
		}
	}()
}

// WaitNotifications blocks until every background email started so far has finished.
// Callers must not start new ForgotPassword calls while it waits; use CloseNotifications on shutdown.
func (s *AuthService) WaitNotifications() {
	s.mailWG.Wait()
}

// CloseNotifications stops new background emails and waits for the pending ones.
// ForgotPassword keeps storing tokens afterwards but sends nothing.
func (s *AuthService) CloseNotifications() {
	s.mailMu.Lock()
	s.mailClosed = true
	s.mailMu.Unlock()
	s.mailWG.Wait()
}

func (s *AuthService) hash(ctx context.Context, plain string) (string, error) {
	hash, err := s.Hasher.Hash(ctx, plain)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.JWT.ParseResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}

	hash, err := s.hash(ctx, newPassword)
	if err != nil {
		return err
	}

	if s.Opts.SingleUseResetTokens {
		ok, err := s.Repo.ConsumeResetToken(ctx, claims.Email, token, hash)
		if err != nil {
			return fmt.Errorf("consume reset token: %w", err)
		}
		if !ok {
			return ErrInvalidResetToken
		}
	} else if err := s.Repo.UpdatePassword(ctx, claims.Email, hash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("update password: %w", err)
	}

	s.Logger.WithField("email", claims.Email).Info("password reset")
	return nil
}
