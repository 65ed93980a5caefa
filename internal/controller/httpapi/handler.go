package httpapi

import (
	"errors"
	"strconv"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	schedule     *service.ScheduleService
	assignments  *service.AssignmentService
	availability *service.AvailabilityService
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewHandler(
	schedule *service.ScheduleService,
	assignments *service.AssignmentService,
	availability *service.AvailabilityService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		schedule:     schedule,
		assignments:  assignments,
		availability: availability,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Register регистрирует маршруты
func (h *Handler) Register(app *fiber.App) {
	app.Post("/teachers/:id/windows", h.createWindow)
	app.Delete("/teachers/:id/weekdays/:weekday", h.deleteWeekday)
	app.Delete("/slots/:id", h.deleteSlot)
	app.Post("/assignments", h.assign)
	app.Get("/availability", h.getAvailability)
	app.Post("/sessions/:id/cancel", h.cancelSession)
}

// createWindow создаёт окно доступности, разбивая его на часовые слоты
func (h *Handler) createWindow(c *fiber.Ctx) error {
	teacherID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req createWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
	}

	slots, err := h.schedule.CreateAvailabilityWindow(c.Context(), teacherID, *req.Weekday, req.StartTime, req.EndTime)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(slots)
}

// deleteWeekday удаляет все слоты учителя на день недели
func (h *Handler) deleteWeekday(c *fiber.Ctx) error {
	teacherID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	weekday, err := strconv.Atoi(c.Params("weekday"))
	if err != nil {
		return respondError(c, &model.ValidationError{Field: "weekday", Reason: "must be an integer"})
	}

	if _, err := h.schedule.DeleteWeekday(c.Context(), teacherID, weekday); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// deleteSlot удаляет один слот-шаблон
func (h *Handler) deleteSlot(c *fiber.Ctx) error {
	slotID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.schedule.DeleteSlot(c.Context(), slotID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// assign подбирает учителя и бронирует занятие
func (h *Handler) assign(c *fiber.Ctx) error {
	var req assignRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
	}

	session, err := h.assignments.Book(c.Context(), req.SubjectID, req.StudentID, req.DesiredTime, req.DurationHours)
	if err != nil {
		if errors.Is(err, model.ErrNoTeacherAvailable) {
			// легитимный отрицательный результат, не ошибка
			return c.JSON(fiber.Map{"found": false})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"found":      true,
		"session_id": session.ID,
		"teacher_id": session.TeacherID,
		"slot_ids":   session.SlotIDs,
		"starts_at":  session.StartDatetime,
	})
}

// getAvailability перечисляет окна доступности для витрины клиента
func (h *Handler) getAvailability(c *fiber.Ctx) error {
	var req availabilityRequest
	if err := c.QueryParser(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "query", Reason: "malformed query parameters"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "query", Reason: err.Error()})
	}

	windows, err := h.availability.GetAvailability(c.Context(), model.AvailabilityQuery{
		SubjectID:      req.SubjectID,
		Date:           req.Date,
		DurationHours:  req.DurationHours,
		ClientTimezone: req.Timezone,
	})
	if err != nil {
		return respondError(c, err)
	}

	// пустой список — валидный ответ
	return c.JSON(windows)
}

// cancelSession отменяет запланированное занятие
func (h *Handler) cancelSession(c *fiber.Ctx) error {
	sessionID, err := parseID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var req cancelSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "body", Reason: "malformed JSON"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return respondError(c, &model.ValidationError{Field: "body", Reason: err.Error()})
	}

	if err := h.assignments.CancelSession(c.Context(), sessionID, req.TeacherID); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.ValidationError{Field: param, Reason: "must be a positive integer"}
	}
	return id, nil
}
