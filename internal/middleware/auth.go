// Package middleware provides HTTP middleware for the fiber app.
package middleware

import (
	"errors"
	"log"
	"strings"

	"ezpay/internal/models"
	"ezpay/internal/utils"
	"ezpay/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AnonymousKey is the caller key used when a request carries no valid
// bearer token and the route allows that.
const AnonymousKey = "anonymous"

// RequireAuth rejects requests without a valid bearer token and stores
// the claims and caller key in the request context.
func RequireAuth(c *fiber.Ctx) error {
	claims, err := claimsFromHeader(c)
	if err != nil {
		log.Printf("auth rejected: %v", err)
		return response.Unauthorized(c, "invalid or missing token")
	}
	c.Locals("claims", claims)
	c.Locals("callerKey", claims.Email)
	return c.Next()
}

// OptionalAuth resolves the caller identity when a token is present and
// falls back to the anonymous key otherwise. Validation endpoints use
// this: the submitting scanner may not be a logged-in user.
func OptionalAuth(c *fiber.Ctx) error {
	if claims, err := claimsFromHeader(c); err == nil {
		c.Locals("claims", claims)
		c.Locals("callerKey", claims.Email)
	} else {
		c.Locals("callerKey", AnonymousKey)
	}
	return c.Next()
}

// CallerKey returns the identity set by the auth middleware.
func CallerKey(c *fiber.Ctx) string {
	if key, ok := c.Locals("callerKey").(string); ok && key != "" {
		return key
	}
	return AnonymousKey
}

func claimsFromHeader(c *fiber.Ctx) (*models.UserClaims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, errors.New("invalid authorization format")
	}
	return utils.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
}
