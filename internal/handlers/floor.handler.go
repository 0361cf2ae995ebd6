package handlers

import (
	"hauswart/internal/app"
	taskController "hauswart/internal/controllers/tasks"
	"hauswart/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type FloorHandler struct {
	Handler
	taskController taskController.TaskControllerInterface
}

func NewFloorHandler(app app.App, router fiber.Router) *FloorHandler {
	log := logger.New("handlers").File("floor_handler")
	return &FloorHandler{
		taskController: app.TaskController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *FloorHandler) Register() {
	floors := h.router.Group("/floors", h.middleware.RequireAuth())

	floors.Get("/", h.list)
	floors.Get("/:id/completion", h.completion)
}

func (h *FloorHandler) list(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"floors": models.Floors(),
	})
}

// completion reports which of a floor's rooms have a recorded task on the
// given date (today when omitted).
func (h *FloorHandler) completion(c *fiber.Ctx) error {
	view, err := h.taskController.FloorCompletion(
		c.UserContext(),
		c.Params("id"),
		c.Query("date"),
	)
	if err != nil {
		return taskError(c, err)
	}

	return c.JSON(view)
}
