package router // package router defines how HTTP routes are registered

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/library-reservation/internal/handler"
)

// RegisterRoutes registers the health check on the provided Echo
// instance. It can be used by load balancers or monitoring systems to
// verify that the service is up.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterWebhook registers the inbound update endpoint. The rate
// limiter runs before the handler so a flooding sender is rejected
// without touching the engine.
func RegisterWebhook(e *echo.Echo, h *handler.WebhookHandler, limiter echo.MiddlewareFunc) {
    e.POST("/webhook", h.Receive, limiter)
}
