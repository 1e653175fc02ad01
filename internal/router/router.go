package router

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"zapmanager/internal/auth"
	"zapmanager/internal/errors"
	"zapmanager/internal/handler"
	"zapmanager/internal/model"
)

// Authenticator verifies bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Instance *handler.InstanceHandler
	Audit    *handler.AuditHandler
	LLM      *handler.LLMHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, log *zap.Logger, authenticator Authenticator, h Handlers) {
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = ErrorHandler(log)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)

	// Secured routes (require JWT authentication)
	secured := api.Group("", RequireAuth(authenticator))
	admin := RequireRoles(model.RoleAdministrator)

	secured.GET("/auth/me", h.Auth.Me)
	secured.POST("/auth/logout", h.Auth.Logout)
	secured.POST("/auth/register", h.Auth.Register, admin)
	secured.GET("/users", h.User.ListUsers, admin)

	secured.GET("/evolution/check", h.Instance.CheckGateway, admin)

	// Instance routes
	secured.GET("/instances", h.Instance.ListInstances)
	secured.POST("/instances", h.Instance.CreateInstance, admin)
	secured.DELETE("/instances/:id", h.Instance.DeleteInstance, admin)
	secured.POST("/instances/:id/toggle", h.Instance.ToggleInstance)
	secured.GET("/instances/:id/connect", h.Instance.ConnectInstance)
	secured.POST("/instances/:id/restart", h.Instance.RestartInstance)
	secured.POST("/instances/:id/alerts", h.Instance.UpdateAlerts)
	secured.POST("/instances/:id/settings", h.Instance.UpdateSettings)

	secured.GET("/audit-logs", h.Audit.ListAuditLogs, admin)

	// AI-model config routes
	secured.GET("/llms", h.LLM.ListLLMs)
	secured.POST("/llms", h.LLM.CreateLLM, admin)
	secured.DELETE("/llms/:id", h.LLM.DeleteLLM, admin)
	secured.POST("/llms/:id/toggle", h.LLM.ToggleLLM, admin)
}

// RequireAuth verifies the bearer token and stores its claims under auth.ClaimsContextKey.
func RequireAuth(authenticator Authenticator) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  auth.ClaimsContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authenticator.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "unauthorized",
				Code:  "UNAUTHORIZED",
			}).SetInternal(err)
		},
	})
}

// RequireRoles allows the request through only when the caller's role is listed.
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(auth.ClaimsContextKey).(*auth.Claims)
			if !ok || claims == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "unauthorized",
					Code:  "UNAUTHORIZED",
				})
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Error: "forbidden",
				Code:  "FORBIDDEN",
			})
		}
	}
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			switch {
			case v.Status >= http.StatusInternalServerError:
				log.Error("request", append(fields, zap.Error(v.Error))...)
			case v.Error != nil:
				log.Info("request", append(fields, zap.String("error", v.Error.Error()))...)
			default:
				log.Info("request", fields...)
			}
			return nil
		},
	})
}

// ErrorHandler renders every error as an errors.ErrorResponse body.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorBody(err)
		if status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}

func errorBody(err error) (int, errors.ErrorResponse) {
	var he *echo.HTTPError
	if !stderrors.As(err, &he) {
		mapped := errors.MapErrorToHTTP(err)
		return mapped.StatusCode, mapped.ToErrorResponse()
	}

	switch msg := he.Message.(type) {
	case errors.ErrorResponse:
		return he.Code, msg
	case *errors.ErrorResponse:
		return he.Code, *msg
	case string:
		return he.Code, errors.ErrorResponse{Error: msg, Code: codeForStatus(he.Code)}
	default:
		return he.Code, errors.ErrorResponse{Error: strings.ToLower(http.StatusText(he.Code)), Code: codeForStatus(he.Code)}
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	default:
		if status >= http.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
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
