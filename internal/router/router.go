package router

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"authsvc/internal/auth"
	"authsvc/internal/config"
	apperrors "authsvc/internal/errors"
	"authsvc/internal/handler"
)

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, issuer *auth.TokenIssuer, authHandler *handler.AuthHandler) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = errorHandler(cfg.IsDevelopment())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)

	// Secured routes. Token verification happens here, before any handler or
	// store access. The middleware rejects a missing header, a scheme other
	// than Bearer, and any token the issuer does not accept.
	secured := e.Group("", echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ContextUserKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return issuer.Verify(tokenString)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrUnauthorized
		},
	}))

	secured.PATCH("/edit", authHandler.Edit)
	secured.GET("/me", authHandler.Me)
}

// errorHandler maps every error to the taxonomy envelope. Production mode
// returns status and a generic message only; development mode adds the
// underlying cause.
func errorHandler(development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *apperrors.HTTPError
		var echoErr *echo.HTTPError
		switch {
		case errors.As(err, &echoErr):
			// framework errors: unknown route (404), method not allowed, bind failures
			httpErr = apperrors.NewHTTPError(echoErr.Code, http.StatusText(echoErr.Code))
		default:
			httpErr = apperrors.MapErrorToHTTP(err)
		}

		resp := apperrors.ErrorResponse{
			Status:  httpErr.StatusCode,
			Message: httpErr.Message,
		}
		if development {
			resp.Cause = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(httpErr.StatusCode)
			return
		}
		_ = c.JSON(httpErr.StatusCode, resp)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
