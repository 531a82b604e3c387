package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"sipfolio/internal/core"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 50
	minPasswordLen = 6
)

// AuthService handles user signup. Token issuance and session handling
// belong to the deployment's edge, not here.
type AuthService struct {
	store      UserStore
	bcryptCost int
}

func NewAuthService(store UserStore, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{store: store, bcryptCost: bcryptCost}
}

// Signup registers a new user and returns its identifier.
func (s *AuthService) Signup(ctx context.Context, username, password string) (string, error) {
	normalized := NormalizeUsername(username)
	if normalized == "" {
		return "", core.ErrEmptyUsername
	}
	if len(normalized) < minUsernameLen || len(normalized) > maxUsernameLen {
		return "", ErrInvalidUsername
	}
	if len(password) < minPasswordLen {
		return "", core.ErrShortPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, core.User{
		ID:           uuid.NewString(),
		Username:     normalized,
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "User created", "user_id", user.ID, "username", user.Username)
	return user.ID, nil
}

// NormalizeUsername lowercases the username and strips everything that is
// not a letter or digit, so "Ravi.Kumar" and "ravikumar" collide instead of
// silently coexisting.
func NormalizeUsername(username string) string {
	lowered := strings.ToLower(strings.TrimSpace(username))
	var b strings.Builder
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
