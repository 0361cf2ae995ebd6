package handlers

import (
	"hauswart/internal/app"
	"hauswart/internal/database"
	"hauswart/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type NoteHandler struct {
	Handler
	db       database.DB
	noteRepo repositories.NoteRepository
}

func NewNoteHandler(app app.App, router fiber.Router) *NoteHandler {
	log := logger.New("handlers").File("note_handler")
	return &NoteHandler{
		db:       app.Database,
		noteRepo: app.Repository.Note,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *NoteHandler) Register() {
	notes := h.router.Group("/notes", h.middleware.RequireAuth())

	notes.Get("/", h.list)
}

// list returns the note template catalog that the form offers as quick
// phrases, ordered for display.
func (h *NoteHandler) list(c *fiber.Ctx) error {
	log := h.log.Function("list")

	templates, err := h.noteRepo.GetAll(c.UserContext(), h.db.SQL)
	if err != nil {
		log.Er("failed to load note templates", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Failed to load note templates",
		})
	}

	return c.JSON(fiber.Map{
		"templates": templates,
	})
}
