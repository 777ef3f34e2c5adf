package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/akgolfgroup-netizen/player-development-api/internal/domain"
)

const RecipientContextKey = "recipient"

// Claims carry the recipient identity issued by the academy's auth service.
type Claims struct {
	RecipientType domain.RecipientType `json:"recipient_type"`
	RecipientID   uuid.UUID            `json:"recipient_id"`
	jwt.RegisteredClaims
}

func AuthRequired(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing authorization header",
			})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid authorization header format",
			})
		}

		token, err := jwt.ParseWithClaims(parts[1], &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		})
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok || !token.Valid || !claims.RecipientType.Valid() || claims.RecipientID == uuid.Nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid token claims",
			})
		}

		c.Locals(RecipientContextKey, domain.RecipientRef{
			Type: claims.RecipientType,
			ID:   claims.RecipientID,
		})

		return c.Next()
	}
}

// GetRecipient returns the authenticated recipient placed by AuthRequired.
func GetRecipient(c *fiber.Ctx) (domain.RecipientRef, error) {
	recipient, ok := c.Locals(RecipientContextKey).(domain.RecipientRef)
	if !ok {
		return domain.RecipientRef{}, Unauthorized("Recipient not found in context")
	}
	return recipient, nil
}

// RequireRecipientType gates a route to the given recipient classes
// (e.g. only coaches and admins may produce notifications).
func RequireRecipientType(types ...domain.RecipientType) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipient, err := GetRecipient(c)
		if err != nil {
			return err
		}

		for _, t := range types {
			if recipient.Type == t {
				return c.Next()
			}
		}

		return Forbidden("Insufficient permissions for this operation")
	}
}
