package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// farmerIDKey is the fiber.Ctx locals key holding the verified principal id
const farmerIDKey = "farmerID"

// AuthMiddleware verifies the bearer credential issued by the external
// identity provider. Token issuance is out of scope here; we only check the
// HS256 signature against the shared secret and read the subject.
type AuthMiddleware struct {
	secret []byte
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// RequireAuth rejects requests without a valid bearer token and stashes the
// verified farmer id in the request locals
func (m *AuthMiddleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return unauthorized(c, "No token provided")
		}

		token, err := jwt.Parse(
			strings.TrimPrefix(header, "Bearer "),
			func(t *jwt.Token) (any, error) { return m.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		)
		if err != nil || !token.Valid {
			return unauthorized(c, "Invalid or expired token")
		}

		subject, err := token.Claims.GetSubject()
		if err != nil || subject == "" {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals(farmerIDKey, subject)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

// callerID returns the verified farmer id set by RequireAuth
func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(farmerIDKey).(string)
	return id
}
