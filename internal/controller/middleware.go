package controller

import (
	"cloudport-api/internal/auth"
	"cloudport-api/internal/metrics"
	"cloudport-api/pkg/logger"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo"
)

const headerRequestID = "X-Request-ID"

func requestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Response().Header().Set(headerRequestID, id)

			ctx := context.WithValue(req.Context(), logger.RequestIDKey, id)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

// requestLogger logs and measures every request once the handler and the
// error handler have run.
func requestLogger(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			req := c.Request()
			status := c.Response().Status
			route := c.Path()
			m.ObserveHTTP(req.Method, route, status, elapsed)

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}
			logger.WithContext(req.Context()).Log(req.Context(), level, "http request",
				"method", req.Method,
				"route", route,
				"path", req.URL.Path,
				"status", status,
				"duration_ms", elapsed.Milliseconds(),
			)

			return nil
		}
	}
}

// authenticate resolves the bearer token into a principal carried by the
// request context.
func authenticate(a *auth.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			token := strings.TrimSpace(strings.TrimPrefix(req.Header.Get(echo.HeaderAuthorization), "Bearer"))

			principal, err := a.Authenticate(token)
			if err != nil {
				reason := "Invalid identity token"
				if errors.Is(err, auth.ErrMissingToken) {
					reason = "Identity token is required"
				}
				return c.JSON(http.StatusUnauthorized, errorResponse{reason})
			}

			ctx := auth.WithPrincipal(req.Context(), principal)
			ctx = context.WithValue(ctx, logger.UserIDKey, principal.UserId)
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

func requireCapability(capability string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if p := callerOf(c); p == nil || !p.Can(capability) {
				return c.JSON(http.StatusForbidden, errorResponse{"You don't have the required permission"})
			}

			return next(c)
		}
	}
}

// httpErrorHandler answers errors that reached echo itself, such as unknown
// routes, wrong methods and recovered panics.
func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	reason := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			reason = msg
		}
	} else {
		logger.Error(c.Request().Context(), "unhandled error", "path", c.Request().URL.Path, "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, errorResponse{reason})
}
