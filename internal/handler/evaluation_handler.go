package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/fyp-go-api/internal/dto"
	"github.com/noah-isme/fyp-go-api/internal/grading"
	"github.com/noah-isme/fyp-go-api/internal/models"
	"github.com/noah-isme/fyp-go-api/internal/observability"
	"github.com/noah-isme/fyp-go-api/internal/service"
	"github.com/noah-isme/fyp-go-api/internal/utils"
)

// EvaluationHandler wires the grading HTTP routes: listing what a rater may
// still evaluate, the per-rater evaluation state view, and grade submission.
type EvaluationHandler struct {
	evaluations service.EvaluationService
	eligibility service.EligibilityService
	views       service.EvaluationViewService
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(
	evaluations service.EvaluationService,
	eligibility service.EligibilityService,
	views service.EvaluationViewService,
	validator *validator.Validate,
	logger zerolog.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluations: evaluations,
		eligibility: eligibility,
		views:       views,
		validator:   validator,
		logger:      logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches evaluation endpoints to the router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Get("/groups", h.assignedGroups)
	router.Get("/evaluable", h.listEvaluable)
	router.Get("/view", h.view)
	router.Post("", h.submit)
}

func (h *EvaluationHandler) assignedGroups(c *fiber.Ctx) error {
	var query dto.AssignedGroupsQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rater, err := raterFromContext(c, models.RaterRole(query.RaterRole))
	if err != nil {
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	}

	groups, err := h.eligibility.ListAssignedGroups(c.Context(), rater, query.Semester)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assigned groups retrieved", groups)
}

func (h *EvaluationHandler) listEvaluable(c *fiber.Ctx) error {
	var query dto.EvaluableQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rater, err := raterFromContext(c, models.RaterRole(query.RaterRole))
	if err != nil {
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	}

	evaluable, err := h.eligibility.ListEvaluable(c.Context(), rater, query)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluable deliverables retrieved", evaluable)
}

func (h *EvaluationHandler) view(c *fiber.Ctx) error {
	var query dto.EvaluationViewQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}
	if err := h.validator.Struct(query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rater, err := raterFromContext(c, models.RaterRole(query.RaterRole))
	if err != nil {
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	}

	view, err := h.views.GetView(c.Context(), rater, query)
	if err != nil {
		if errors.Is(err, service.ErrSubjectRequired) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation view retrieved", view)
}

func (h *EvaluationHandler) submit(c *fiber.Ctx) error {
	var payload dto.EvaluationSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rater, err := raterFromContext(c, models.RaterRole(payload.RaterRole))
	if err != nil {
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	}

	evaluation, err := h.evaluations.Submit(c.Context(), rater, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.GradesSubmitted().WithLabelValues(evaluation.RaterRole, evaluation.SubjectType).Inc()
	requestLogger(h.logger, c).Info().
		Uint("evaluation_id", evaluation.ID).
		Str("rater_role", evaluation.RaterRole).
		Msg("evaluation submitted")

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "evaluation submitted", evaluation)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	var missingScore grading.MissingScoreError
	var outOfRange grading.ScoreOutOfRangeError

	switch {
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, service.ErrEmptyFeedback):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrDeliverableNotFound),
		errors.Is(err, service.ErrGroupNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotAssigned):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrStudentNotInGroup),
		errors.Is(err, service.ErrSubjectMismatch):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotSubmitted):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.As(err, &missingScore):
		return utils.SendErrorWithDetails(c, fiber.StatusUnprocessableEntity, err.Error(), fiber.Map{
			"rubric_id": missingScore.RubricID,
			"criteria":  missingScore.Criteria,
		})
	case errors.As(err, &outOfRange):
		return utils.SendErrorWithDetails(c, fiber.StatusUnprocessableEntity, err.Error(), fiber.Map{
			"rubric_id": outOfRange.RubricID,
			"criteria":  outOfRange.Criteria,
			"score":     outOfRange.Score,
			"max_score": outOfRange.MaxScore,
		})
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
