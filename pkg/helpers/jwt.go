package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token audiences keep access and reset tokens from being used interchangeably.
const (
	AudienceAccess        = "access"
	AudiencePasswordReset = "password_reset"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	Secret        []byte
	AccessTTL     time.Duration
	ResetTokenTTL time.Duration

	now func() time.Time
}

func NewJWTManager(secret string, accessTTL, resetTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:        []byte(secret),
		AccessTTL:     accessTTL,
		ResetTokenTTL: resetTTL,
		now:           time.Now,
	}
}

// Claims are carried by access tokens.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// ResetClaims are carried by password reset tokens.
type ResetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

func (m *JWTManager) registered(aud string, ttl time.Duration) (jwt.RegisteredClaims, time.Time) {
	now := m.clock()
	exp := now.Add(ttl)
	return jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{aud},
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}, exp
}

func (m *JWTManager) GenerateAccessToken(userID, email string) (string, time.Time, error) {
	rc, exp := m.registered(AudienceAccess, m.AccessTTL)
	rc.Subject = userID
	claims := &Claims{UserID: userID, Email: email, RegisteredClaims: rc}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	return s, exp, err
}

// IssueResetToken signs a short-lived token proving a reset was requested for email.
func (m *JWTManager) IssueResetToken(email string) (string, time.Time, error) {
	rc, exp := m.registered(AudiencePasswordReset, m.ResetTokenTTL)
	rc.ID = uuid.NewString()
	claims := &ResetClaims{Email: email, RegisteredClaims: rc}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tokenStr, claims, AudienceAccess); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseResetToken fails with ErrTokenExpired or ErrTokenInvalid.
func (m *JWTManager) ParseResetToken(tokenStr string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := m.parse(tokenStr, claims, AudiencePasswordReset); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (m *JWTManager) parse(tokenStr string, claims jwt.Claims, aud string) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	},
		jwt.WithAudience(aud),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenInvalid
	}
	if !tkn.Valid {
		return ErrTokenInvalid
	}
	return nil
}
