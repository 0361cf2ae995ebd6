package authController

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"hauswart/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenValidity = 30 * 24 * time.Hour
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type LoginRequest struct {
	StaffName string `json:"staffName"`
	Password  string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	StaffName string `json:"staffName"`
}

type AuthControllerInterface interface {
	Login(ctx context.Context, request *LoginRequest) (*LoginResponse, error)
	ValidateToken(token string) (string, error)
}

// AuthController implements the facility's intentionally simple login: one
// shared password for the whole cleaning staff, with the operator's display
// name carried in the session token.
type AuthController struct {
	config config.Config
	log    logger.Logger
}

func New(config config.Config) AuthControllerInterface {
	return &AuthController{
		config: config,
		log:    logger.New("authController"),
	}
}

func (c *AuthController) Login(
	ctx context.Context,
	request *LoginRequest,
) (*LoginResponse, error) {
	log := c.log.Function("Login")

	staffName := strings.TrimSpace(request.StaffName)
	if staffName == "" {
		return nil, log.ErrorWithType(ErrValidation, "staff name is required")
	}

	if subtle.ConstantTimeCompare([]byte(request.Password), []byte(c.config.SharedPassword)) != 1 {
		return nil, log.ErrorWithType(
			ErrInvalidCredentials,
			"Falsches Passwort. Bitte versuchen Sie es erneut.",
			"staffName", staffName,
		)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"staffName": staffName,
		"iat":       now.Unix(),
		"exp":       now.Add(TokenValidity).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(c.config.AuthSecret))
	if err != nil {
		return nil, log.Err("failed to sign session token", err, "staffName", staffName)
	}

	log.Info("Staff member logged in", "staffName", staffName)

	return &LoginResponse{
		Token:     token,
		StaffName: staffName,
	}, nil
}

// ValidateToken parses and verifies a session token and returns the staff
// name it carries.
func (c *AuthController) ValidateToken(tokenString string) (string, error) {
	log := c.log.Function("ValidateToken")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(c.config.AuthSecret), nil
	})
	if err != nil || !token.Valid {
		return "", log.ErrorWithType(ErrInvalidToken, "token validation failed", "error", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", log.ErrorWithType(ErrInvalidToken, "unexpected token claims")
	}

	staffName, ok := claims["staffName"].(string)
	if !ok || staffName == "" {
		return "", log.ErrorWithType(ErrInvalidToken, "token carries no staff name")
	}

	return staffName, nil
}
