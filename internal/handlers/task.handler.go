package handlers

import (
	"errors"
	"strings"

	"hauswart/internal/app"
	taskController "hauswart/internal/controllers/tasks"
	"hauswart/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	Handler
	taskController taskController.TaskControllerInterface
}

func NewTaskHandler(app app.App, router fiber.Router) *TaskHandler {
	log := logger.New("handlers").File("task_handler")
	return &TaskHandler{
		taskController: app.TaskController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *TaskHandler) Register() {
	tasks := h.router.Group("/tasks", h.middleware.RequireAuth())

	tasks.Post("/", h.submit)
	tasks.Get("/", h.list)
	tasks.Get("/today", h.today)
	tasks.Get("/export", h.export)
}

// submit runs the full pipeline for one completed-task entry: validation,
// double-tap guard, best-effort notification and persistence.
func (h *TaskHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	var request taskController.SubmitRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse submit request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	staffName := middleware.GetStaffName(c)

	response, err := h.taskController.Submit(c.UserContext(), staffName, &request)
	if err != nil {
		return taskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *TaskHandler) list(c *fiber.Ctx) error {
	tasks, err := h.taskController.ListTasks(c.UserContext())
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(fiber.Map{
		"tasks": tasks,
	})
}

func (h *TaskHandler) today(c *fiber.Ctx) error {
	stats, err := h.taskController.TodayStats(c.UserContext())
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(stats)
}

func (h *TaskHandler) export(c *fiber.Ctx) error {
	csv, filename, err := h.taskController.ExportCSV(c.UserContext())
	if err != nil {
		return taskError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(csv)
}

// taskError maps controller errors onto HTTP statuses. Messages on
// validation and busy errors are user-facing and pass through verbatim.
func taskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, taskController.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": userMessage(err, taskController.ErrValidation),
		})
	case errors.Is(err, taskController.ErrBusy):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": userMessage(err, taskController.ErrBusy),
		})
	case errors.Is(err, taskController.ErrStoreUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": userMessage(err, taskController.ErrStoreUnavailable),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// userMessage strips the sentinel prefix from a wrapped controller error,
// leaving the message meant for the client.
func userMessage(err error, sentinel error) string {
	return strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
}
