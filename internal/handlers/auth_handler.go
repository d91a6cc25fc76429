package handlers

import (
	"time"

	"sosmed/internal/config"
	"sosmed/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cookie      config.CookiePolicy
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      authService.Tokens().CookiePolicy(),
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Post("/register", h.HandleRegister)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
	router.Post("/refresh", h.HandleRefresh)
	router.Delete("/delete", authRequired, h.HandleDeleteAccount)
}

// HandleRegister handles new user registration. The body is either JSON or a
// multipart form with an optional profilePicture file.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "register", err)
	}
	picture, err := readUpload(c, "profilePicture")
	if err != nil {
		return respondError(c, "register", err)
	}
	req.ProfilePicture = picture

	session, err := h.authService.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, "register", err)
	}

	h.setRefreshCookie(c, session.Tokens.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "New user created",
		"user":        session.User,
		"accessToken": session.Tokens.AccessToken,
	})
}

// LoginRequest represents the request body for login. Identifier is a
// username, an email or a national id.
type LoginRequest struct {
	Identifier string `json:"identifier" form:"identifier" validate:"required"`
	Password   string `json:"password" form:"password" validate:"required"`
}

// HandleLogin handles user login and issues the session tokens.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "login", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	session, err := h.authService.Login(c.UserContext(), req.Identifier, req.Password)
	if err != nil {
		return respondError(c, "login", err)
	}

	h.setRefreshCookie(c, session.Tokens.RefreshToken)
	return c.JSON(fiber.Map{
		"message":     "User successfully logged in!",
		"user":        session.User,
		"accessToken": session.Tokens.AccessToken,
	})
}

// HandleLogout revokes the refresh token and clears its cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext(), c.Cookies(h.cookie.Name)); err != nil {
		return respondError(c, "logout", err)
	}
	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{
		"message": "User logged out successfully!",
	})
}

// HandleRefresh mints a new access token from the refresh cookie.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	access, _, err := h.authService.Refresh(c.UserContext(), c.Cookies(h.cookie.Name))
	if err != nil {
		return respondError(c, "refresh", err)
	}
	return c.JSON(fiber.Map{
		"message":     "Access token refreshed",
		"accessToken": access,
	})
}

// HandleDeleteAccount deletes the current user and everything they own.
func (h *AuthHandler) HandleDeleteAccount(c *fiber.Ctx) error {
	deletion, err := h.authService.DeleteAccount(c.UserContext(), principalID(c), c.Cookies(h.cookie.Name))
	if err != nil {
		return respondError(c, "delete account", err)
	}
	h.clearRefreshCookie(c)
	return c.JSON(fiber.Map{
		"message":         "User deleted successfully!",
		"deletedPosts":    deletion.PostsDeleted,
		"deletedComments": deletion.CommentsDeleted,
		"deletedLikes":    deletion.LikesDeleted,
	})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     h.cookie.Path,
		MaxAge:   int(h.cookie.MaxAge / time.Second),
		Secure:   h.cookie.Secure,
		HTTPOnly: h.cookie.HTTPOnly,
		SameSite: h.cookie.SameSite,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		Expires:  time.Unix(0, 0),
		Secure:   h.cookie.Secure,
		HTTPOnly: h.cookie.HTTPOnly,
		SameSite: h.cookie.SameSite,
	})
}
