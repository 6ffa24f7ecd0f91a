package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "authsvc/internal/errors"
	"authsvc/internal/model"
	"authsvc/internal/service"
)

// ContextUserKey is where the JWT middleware stores the authenticated user id.
const ContextUserKey = "user"

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=4,max=20"`
	Password  string `json:"password" validate:"required,min=10,max=300"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EditRequest represents a partial profile update. Absent fields are left
// untouched; username is immutable and not accepted here.
type EditRequest struct {
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Email     *string `json:"email,omitempty"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ID          string `json:"id"`
}

// RegisterResponse represents a successful registration.
type RegisterResponse struct {
	ID string `json:"id"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", apperrors.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	id, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, RegisterResponse{ID: id})
}

// Login godoc
// @Summary Authenticate and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 201 {object} LoginResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrUnauthorized
	}
	if err := c.Validate(&req); err != nil {
		return apperrors.ErrUnauthorized
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, LoginResponse{
		AccessToken: result.AccessToken,
		ID:          result.UserID,
	})
}

// Edit godoc
// @Summary Edit the authenticated user's profile
// @Tags auth
// @Accept json
// @Security BearerAuth
// @Param request body EditRequest true "Fields to update"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /edit [patch]
func (h *AuthHandler) Edit(c echo.Context) error {
	userID, ok := c.Get(ContextUserKey).(string)
	if !ok || userID == "" {
		return apperrors.ErrUnauthorized
	}

	var req EditRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid request body", apperrors.ErrValidation)
	}

	err := h.authService.EditProfile(c.Request().Context(), userID, model.ProfileUpdate{
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get(ContextUserKey).(string)
	if !ok || userID == "" {
		return apperrors.ErrUnauthorized
	}

	user, err := h.authService.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
