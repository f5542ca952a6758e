package controller

import (
	"cloudport-api/internal/auth"
	"cloudport-api/internal/common"
	"cloudport-api/internal/metrics"
	"cloudport-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services, authenticator *auth.Authenticator, m *metrics.Metrics) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	handler.HTTPErrorHandler = httpErrorHandler
	handler.Use(requestID(), requestLogger(m), middleware.Recover())

	newDiagnosticRoutesHandler(handler, services, m)

	api := newRouteGroup(handler, "", authenticate(authenticator))
	newJobRoutesHandler(api, services, validate)
	newApplicationRoutesHandler(api, services, validate)
	newConversationRoutesHandler(api, services, validate)
	newContractRoutesHandler(api, services, validate)

	admin := api.group("/admin")
	newAdminRoutesHandler(admin, services, validate)
}

// routeGroup attaches shared middleware to each route under a prefix. Unlike
// echo.Group it leaves unmatched paths to the router's 404.
type routeGroup struct {
	echo       *echo.Echo
	prefix     string
	middleware []echo.MiddlewareFunc
}

func newRouteGroup(e *echo.Echo, prefix string, m ...echo.MiddlewareFunc) *routeGroup {
	return &routeGroup{echo: e, prefix: prefix, middleware: m}
}

func (g *routeGroup) group(prefix string, m ...echo.MiddlewareFunc) *routeGroup {
	return newRouteGroup(g.echo, g.prefix+prefix, g.with(m)...)
}

func (g *routeGroup) with(m []echo.MiddlewareFunc) []echo.MiddlewareFunc {
	all := make([]echo.MiddlewareFunc, 0, len(g.middleware)+len(m))
	all = append(all, g.middleware...)

	return append(all, m...)
}

func (g *routeGroup) GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	g.echo.GET(g.prefix+path, h, g.with(m)...)
}

func (g *routeGroup) POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	g.echo.POST(g.prefix+path, h, g.with(m)...)
}

func (g *routeGroup) PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	g.echo.PUT(g.prefix+path, h, g.with(m)...)
}

// capability guards for admin routes, the services check them again.
var (
	canReadLogs       = requireCapability(common.CapabilityLogsRead)
	canRefundContract = requireCapability(common.CapabilityContractsRefund)
)
