package handlers

import (
	"errors"

	"hauswart/internal/app"
	authController "hauswart/internal/controllers/auth"
	"hauswart/internal/handlers/middleware"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	authController authController.AuthControllerInterface
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		authController: app.AuthController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")

	auth.Post("/login", h.login)

	protected := auth.Group("/", h.middleware.RequireAuth())
	protected.Get("/me", h.getCurrentUser)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var request authController.LoginRequest
	if err := c.BodyParser(&request); err != nil {
		log.Info("failed to parse login request", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	response, err := h.authController.Login(c.UserContext(), &request)
	if err != nil {
		switch {
		case errors.Is(err, authController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": userMessage(err, authController.ErrValidation),
			})
		case errors.Is(err, authController.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": userMessage(err, authController.ErrInvalidCredentials),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Login failed",
			})
		}
	}

	return c.JSON(response)
}

func (h *AuthHandler) getCurrentUser(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"staffName": middleware.GetStaffName(c),
	})
}
