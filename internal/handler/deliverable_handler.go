package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/middleware"
	"github.com/noah-isme/fyp-go-api/internal/service"
	"github.com/noah-isme/fyp-go-api/internal/utils"
)

// DeliverableHandler wires the rubric catalog HTTP routes. Reads are open
// to every authenticated lecturer; mutations sit behind the coordinator
// gate.
type DeliverableHandler struct {
	service   service.DeliverableService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewDeliverableHandler constructs the handler.
func NewDeliverableHandler(service service.DeliverableService, validator *validator.Validate, logger zerolog.Logger) *DeliverableHandler {
	return &DeliverableHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "deliverable_handler").Logger(),
	}
}

// Register attaches catalog endpoints to the router group.
func (h *DeliverableHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)

	coordinator := middleware.RequireCoordinator()
	router.Post("", coordinator, h.create)
	router.Patch("/:id", coordinator, h.update)
	router.Delete("/:id", coordinator, h.delete)
	router.Post("/:id/rubrics", coordinator, h.addRubric)
	router.Delete("/:id/rubrics/:rubricId", coordinator, h.deleteRubric)
}

func (h *DeliverableHandler) list(c *fiber.Ctx) error {
	var filter dto.DeliverableFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deliverables, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "deliverables retrieved", deliverables)
}

func (h *DeliverableHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	deliverable, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDeliverableNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "deliverable not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "deliverable retrieved", deliverable)
}

func (h *DeliverableHandler) create(c *fiber.Ctx) error {
	var payload dto.DeliverableCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	deliverable, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "deliverable created", deliverable)
}

func (h *DeliverableHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.DeliverableUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	deliverable, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	message := "deliverable updated"
	if deliverable.RegradeRequired {
		message = "deliverable updated; existing evaluations require regrading"
	}

	return utils.SendSuccess(c, message, deliverable)
}

func (h *DeliverableHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrDeliverableNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "deliverable not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "deliverable deleted", fiber.Map{"id": id})
}

func (h *DeliverableHandler) addRubric(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RubricCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rubric, err := h.service.AddRubric(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "rubric created", rubric)
}

func (h *DeliverableHandler) deleteRubric(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rubricID, err := parseUintParam(c, "rubricId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.DeleteRubric(c.Context(), id, rubricID); err != nil {
		if errors.Is(err, service.ErrRubricNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "rubric not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "rubric deleted", fiber.Map{"id": rubricID})
}

func (h *DeliverableHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrDeliverableNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "deliverable not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *DeliverableHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
