package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"paperplane/internal/domain"
	"paperplane/internal/dto"
	"paperplane/internal/logger"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	ClaimsKey           = "claims"   // *dto.AuthClaims in fiber.Ctx locals
	UsernameKey         = "username" // string in fiber.Ctx locals
)

// TokenValidator is the part of service.AuthService the middleware needs.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*dto.AuthClaims, error)
}

// Protected requires a valid session token and stores its claims in locals.
// Failures go through the ErrorHandler as UNAUTHORIZED.
func Protected(auth TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("Authorization header is missing")
		}
		if len(authHeader) < len(BearerSchema) || !strings.EqualFold(authHeader[:len(BearerSchema)], BearerSchema) {
			return domain.NewUnauthorizedError("Authorization scheme is not Bearer")
		}
		tokenString := strings.TrimSpace(authHeader[len(BearerSchema):])
		if tokenString == "" {
			return domain.NewUnauthorizedError("Token is empty")
		}

		claims, err := auth.ValidateToken(c.UserContext(), tokenString)
		if err != nil {
			logger.Get().Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return err
		}

		c.Locals(ClaimsKey, claims)
		c.Locals(UsernameKey, claims.Username)
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by Protected, or nil.
func ClaimsFrom(c *fiber.Ctx) *dto.AuthClaims {
	claims, _ := c.Locals(ClaimsKey).(*dto.AuthClaims)
	return claims
}
