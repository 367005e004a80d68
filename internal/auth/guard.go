package auth

import (
	"context"
	"time"

	"github.com/mmynk/budgetlink/internal/models"
)

// Guard decides who may read or change a budget.
// Services depend on this interface so access rules can change
// without touching request handling.
type Guard interface {
	// Authorize returns nil when the budget is unprotected, when ctx carries a
	// token for this budget, or when password matches. Otherwise it returns
	// ErrPasswordRequired or ErrInvalidPassword.
	Authorize(ctx context.Context, budget *models.Budget, password string) error

	// Unlock verifies password and issues an access token scoped to the budget.
	Unlock(ctx context.Context, budget *models.Budget, password string) (token string, expiresAt time.Time, err error)

	// HashPassword validates strength and hashes a new budget password.
	HashPassword(password string) (string, error)
}

// PasswordGuard implements Guard with bcrypt passwords and JWT access tokens.
type PasswordGuard struct {
	hasher *Hasher
	tokens *JWTManager
}

var _ Guard = (*PasswordGuard)(nil)

// NewPasswordGuard creates a Guard.
func NewPasswordGuard(hasher *Hasher, tokens *JWTManager) *PasswordGuard {
	return &PasswordGuard{hasher: hasher, tokens: tokens}
}

func (g *PasswordGuard) Authorize(ctx context.Context, budget *models.Budget, password string) error {
	if !budget.HasPassword() {
		return nil
	}
	if slug, ok := UnlockedSlug(ctx); ok && slug == budget.Slug {
		return nil
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return g.hasher.Compare(budget.PasswordHash, password)
}

func (g *PasswordGuard) Unlock(ctx context.Context, budget *models.Budget, password string) (string, time.Time, error) {
	if err := g.Authorize(ctx, budget, password); err != nil {
		return "", time.Time{}, err
	}
	return g.tokens.Generate(budget.Slug)
}

func (g *PasswordGuard) HashPassword(password string) (string, error) {
	if err := ValidatePasswordStrength(password); err != nil {
		return "", err
	}
	return g.hasher.Hash(password)
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const unlockedSlugKey contextKey = "unlocked_slug"

// WithUnlockedSlug records that the request carries a valid token for slug.
func WithUnlockedSlug(ctx context.Context, slug string) context.Context {
	return context.WithValue(ctx, unlockedSlugKey, slug)
}

// UnlockedSlug returns the budget slug unlocked by the request's token, if any.
func UnlockedSlug(ctx context.Context) (string, bool) {
	slug, ok := ctx.Value(unlockedSlugKey).(string)
	return slug, ok && slug != ""
}
