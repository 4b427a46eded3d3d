package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tasker/internal/models"
	"tasker/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL = 14 * 24 * time.Hour
	maxUsernameLen    = 64
)

// AuthService handles user auth logic
type AuthService struct {
	authRepo repository.Authorization
	key      []byte
	ttl      time.Duration
	now      func() time.Time
}

func NewAuthService(repo repository.Authorization, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &AuthService{authRepo: repo, key: []byte(secret), ttl: ttl, now: time.Now}
}

// Register hashes password and creates a new user.
func (s *AuthService) Register(ctx context.Context, username, password string) (models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(username) > maxUsernameLen {
		return models.User{}, fmt.Errorf("%w: username must be 1-%d characters", ErrValidation, maxUsernameLen)
	}
	hash, err := hashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	id, err := s.authRepo.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return models.User{}, ErrUsernameTaken
		}
		return models.User{}, err
	}
	return models.User{ID: id, Username: username, PasswordHash: hash}, nil
}

// Login checks credentials. Unknown users and wrong passwords yield the same
// ErrInvalidCredentials after comparable bcrypt work.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.Session, error) {
	u, err := s.authRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return models.Session{}, err
	}
	if u == nil {
		_ = verifyPassword(dummyHash(), password)
		return models.Session{}, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return models.Session{}, ErrInvalidCredentials
	}
	return models.Session{UserID: u.ID, Username: u.Username}, nil
}

// RequireLogin returns the session's user id or ErrUnauthenticated.
func (s *AuthService) RequireLogin(sess models.Session) (int, error) {
	if !sess.Authenticated() {
		return 0, ErrUnauthenticated
	}
	return sess.UserID, nil
}

// Claims is the signed payload of the session cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// IssueSession signs sess into a cookie value.
func (s *AuthService) IssueSession(sess models.Session) (string, error) {
	if !sess.Authenticated() {
		return "", ErrUnauthenticated
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   sess.UserID,
		Username: sess.Username,
	})
	return token.SignedString(s.key)
}

// ParseSession verifies a cookie value. Any failure is ErrUnauthenticated.
func (s *AuthService) ParseSession(value string) (models.Session, error) {
	token, err := jwt.ParseWithClaims(value, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return models.Session{}, ErrUnauthenticated
	}
	return models.Session{UserID: claims.UserID, Username: claims.Username}, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// dummyHash is compared against when the username is unknown.
var dummyHash = sync.OnceValue(func() string {
	h, _ := bcrypt.GenerateFromPassword([]byte("tasker-timing-equalizer"), bcrypt.DefaultCost)
	return string(h)
})
