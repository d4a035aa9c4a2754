// Package auth issues and validates HS256 access and refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"taskManager/internal/models/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims carries identity and, for access tokens, the caller's global role.
type Claims struct {
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role,omitempty"`
	FullName string    `json:"full_name,omitempty"`
	Type     TokenType `json:"type"`
	jwt.RegisteredClaims
}

func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	return id, nil
}

type Pair struct {
	AccessToken     string    `json:"access_token"`
	RefreshToken    string    `json:"refresh_token"`
	TokenType       string    `json:"token_type"`
	ExpiresIn       int64     `json:"expires_in"`
	AccessExpiresAt time.Time `json:"-"`
}

type Issuer struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

type Option func(*Issuer)

// WithClock replaces time.Now for issuing and validation.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func WithIssuer(name string) Option {
	return func(i *Issuer) {
		i.issuer = name
	}
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration, opts ...Option) *Issuer {
	i := &Issuer{
		secret:     []byte(secret),
		issuer:     "task-manager",
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issuer) AccessTTL() time.Duration {
	return i.accessTTL
}

func (i *Issuer) IssuePair(u *user.User) (Pair, error) {
	access, expiresAt, err := i.IssueAccess(u)
	if err != nil {
		return Pair{}, err
	}
	refresh, _, err := i.IssueRefresh(u.ID)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		AccessToken:     access,
		RefreshToken:    refresh,
		TokenType:       "Bearer",
		ExpiresIn:       int64(i.accessTTL.Seconds()),
		AccessExpiresAt: expiresAt,
	}, nil
}

func (i *Issuer) IssueAccess(u *user.User) (string, time.Time, error) {
	claims := &Claims{
		Email:    u.Email,
		Role:     u.Role.String(),
		FullName: u.FullName,
		Type:     TokenAccess,
	}
	return i.sign(u.ID, i.accessTTL, claims)
}

// IssueRefresh carries the user id only.
func (i *Issuer) IssueRefresh(userID uuid.UUID) (string, time.Time, error) {
	return i.sign(userID, i.refreshTTL, &Claims{Type: TokenRefresh})
}

func (i *Issuer) sign(userID uuid.UUID, ttl time.Duration, claims *Claims) (string, time.Time, error) {
	now := i.now()
	expireAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID.String(),
		Issuer:    i.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expireAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expireAt, nil
}

// Parse validates signature, expiry and token type.
func (i *Issuer) Parse(tokenStr string, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Type != want {
		return nil, ErrWrongTokenType
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}
