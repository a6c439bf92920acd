package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"magazzino/internal/middleware"
	"magazzino/internal/models"
	"magazzino/internal/services"
)

// AuthHandler serves login and logout for both surfaces. The form UI and the
// JSON API set the same session cookie, so one login covers both.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterUIRoutes registers the form-based login routes.
func (h *AuthHandler) RegisterUIRoutes(router fiber.Router) {
	router.Get("/login", h.HandleLoginForm)
	router.Post("/login", h.HandleLogin)
	router.Post("/logout", h.HandleLogout)
}

// RegisterAPIRoutes registers the unauthenticated JSON login route.
func (h *AuthHandler) RegisterAPIRoutes(router fiber.Router) {
	router.Post("/login", h.HandleAPILogin)
}

// HandleLoginForm renders the login page.
func (h *AuthHandler) HandleLoginForm(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"Username": "",
	})
}

// HandleLogin authenticates the form credentials and sets the session
// cookie. Bad credentials re-render the form with a message.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")

	token, err := h.authService.Login(username, password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			return c.Render("login", fiber.Map{
				"Error":    "Invalid username or password.",
				"Username": username,
			})
		}
		log.Printf("Error during login for user %s: %v", username, err)
		return fiber.ErrInternalServerError
	}

	h.setSessionCookie(c, token)
	return c.Redirect("/products/", fiber.StatusSeeOther)
}

// HandleLogout discards the session and clears the cookie.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.Cookies(middleware.SessionCookie)); err != nil {
		log.Printf("Error during logout: %v", err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// LoginRequest represents the JSON body for API login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleAPILogin authenticates a JSON body and sets the same session cookie
// the form login does.
func (h *AuthHandler) HandleAPILogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailedResponse(c, err)
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication failed",
			})
		}
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not log in",
		})
	}

	h.setSessionCookie(c, token)
	return c.JSON(fiber.Map{
		"message": "Login successful",
	})
}

// HandleMe returns the authenticated principal.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user := c.Locals(middleware.UserKey).(*models.User)
	return c.JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  time.Now().Add(h.authService.SessionTTL()),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
