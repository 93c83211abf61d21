package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/utils"
)

// RequireRaterCapability ensures the authenticated lecturer's role code
// grants at least one rater role. Plain lecturers are turned away here
// before any handler runs.
func RequireRaterCapability() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleCode := RoleCodeFromContext(c)
		if len(models.Capabilities(roleCode)) == 0 {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireCoordinator restricts a route to lecturers holding the coordinator
// role code. Catalog mutations live behind this gate.
func RequireCoordinator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleCode := RoleCodeFromContext(c)
		if !models.CanActAs(roleCode, models.RaterRoleCoordinator) {
			return utils.SendError(c, fiber.StatusForbidden, "coordinator role required")
		}
		return c.Next()
	}
}

// RoleCodeFromContext returns the lecturer role code bound by the JWT
// middleware, or zero when absent.
func RoleCodeFromContext(c *fiber.Ctx) int {
	if v := c.Locals("role_code"); v != nil {
		switch code := v.(type) {
		case int:
			return code
		case uint:
			return int(code)
		case float64:
			return int(code)
		}
	}
	return 0
}
