package middleware

import (
	"strings"

	"sosmed/internal/logger"
	"sosmed/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AccessTokenHeader carries an access token minted from the refresh cookie.
const AccessTokenHeader = "X-Access-Token"

// AuthRequired is a Fiber middleware to check for a valid access token. When
// the access token is missing or no longer valid but the refresh cookie is,
// a fresh access token is minted and returned in AccessTokenHeader.
func AuthRequired(tokens *services.TokenEngine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		message := "Authorization header is required"

		if authHeader != "" {
			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Authorization header format must be 'Bearer <token>'",
				})
			}

			claims, err := tokens.ValidateAccessToken(parts[1])
			if err == nil {
				setPrincipal(c, claims)
				return c.Next()
			}
			logger.Warn.Printf("access token rejected: %v", err)
			message = "Invalid or expired token"
		}

		refresh := c.Cookies(tokens.CookiePolicy().Name)
		if refresh == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": message,
			})
		}
		claims, err := tokens.VerifyRefreshToken(c.UserContext(), refresh)
		if err != nil {
			logger.Warn.Printf("refresh token rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}
		access, err := tokens.IssueAccess(claims.UserID, claims.Username)
		if err != nil {
			logger.Error.Printf("failed to mint access token: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Something went wrong!",
			})
		}

		c.Set(AccessTokenHeader, access)
		setPrincipal(c, claims)
		return c.Next()
	}
}

func setPrincipal(c *fiber.Ctx, claims *services.Claims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("username", claims.Username)
}
