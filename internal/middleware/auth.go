package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/budgetlink/internal/auth"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
// ok is false when the header is absent; a malformed header yields ok with an empty token.
func bearerToken(header string) (token string, ok bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", true
	}
	return strings.TrimSpace(parts[1]), true
}

// BudgetToken returns a middleware that accepts budget access tokens.
// Requests without an Authorization header pass through and must supply the
// budget password instead. A present but invalid token is rejected outright.
func BudgetToken(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token, ok := bearerToken(req.Header().Get("Authorization"))
			if !ok {
				return next(ctx, req)
			}
			if token == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			// Call the next handler with the unlocked budget in context
			return next(auth.WithUnlockedSlug(ctx, claims.Slug), req)
		}
	}
}
