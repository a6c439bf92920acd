package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"magazzino/internal/services"
)

// SessionCookie is the cookie carrying the opaque session token. Both route
// groups read the same cookie, so one login covers UI and API.
const SessionCookie = "sessionid"

// UserKey is the Locals key under which the authenticated *models.User is
// stored for downstream handlers.
const UserKey = "user"

// APIAuth gates JSON routes. It resolves the session cookie before any
// business logic runs and answers 401 for missing/invalid sessions and 403
// for inactive users.
func APIAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authService.ResolveSession(c.Cookies(SessionCookie))
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnauthenticated):
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Not authenticated",
				})
			case errors.Is(err, services.ErrForbidden):
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": "User inactive",
				})
			default:
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"message": "Could not resolve session",
				})
			}
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// UIAuth gates the form UI. Anything short of an active authenticated user
// is sent to the login page.
func UIAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := authService.ResolveSession(c.Cookies(SessionCookie))
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) || errors.Is(err, services.ErrForbidden) {
				return c.Redirect("/login", fiber.StatusSeeOther)
			}
			return err
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}
