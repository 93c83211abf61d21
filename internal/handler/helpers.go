package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/fyp-go-api/internal/middleware"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/service"
)

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	value := c.Params(name)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		switch id := v.(type) {
		case uint:
			return id
		case int:
			if id < 0 {
				return 0
			}
			return uint(id)
		case float64:
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

// raterFromContext binds the authenticated lecturer and the rater role the
// request claims to act in. The role must be granted by the lecturer's role
// code; coordinators may act in any group without assignment.
func raterFromContext(c *fiber.Ctx, role models.RaterRole) (service.Rater, error) {
	userID := userIDFromContext(c)
	if userID == 0 {
		return service.Rater{}, errors.New("authentication required")
	}

	if !role.Valid() {
		return service.Rater{}, errors.New("unknown rater role")
	}

	roleCode := middleware.RoleCodeFromContext(c)
	if !models.CanActAs(roleCode, role) {
		return service.Rater{}, errRoleNotGranted
	}

	return service.Rater{ID: userID, Role: role}, nil
}

var errRoleNotGranted = errors.New("rater role not granted by account role code")

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}
