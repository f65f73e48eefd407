// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"adaptiv/internal/delivery/http/middleware"
	"adaptiv/internal/delivery/http/router/handler"
	"adaptiv/internal/obs"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AccountHandler *handler.AccountHandler
	ConsentHandler *handler.ConsentHandler
	VitalHandler   *handler.VitalHandler
	AlertHandler   *handler.AlertHandler

	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
// Role and consent checks live in the use cases; the route table only
// decides which endpoints require a valid token at all.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(obs.Handler()))

	// Credential-bearing endpoints, throttled per client IP.
	authGroup := e.Group("/auth")
	authGroup.Use(r.params.RateLimitMiddleware.Limit)
	{
		authGroup.POST("/login", r.params.AuthHandler.Login)
		authGroup.POST("/refresh", r.params.AuthHandler.Refresh)
		authGroup.POST("/password-reset/request", r.params.AuthHandler.RequestPasswordReset)
		authGroup.POST("/password-reset/confirm", r.params.AuthHandler.ConfirmPasswordReset)
	}

	api := e.Group("/api/v1")
	api.Use(r.params.AuthMiddleware.Authenticate)
	{
		api.GET("/me", r.params.AccountHandler.GetProfile)

		// Admin provisioning surface.
		api.POST("/accounts", r.params.AccountHandler.ProvisionAccount)
		api.DELETE("/accounts/:id", r.params.AccountHandler.DeactivateAccount)

		// Patient-initiated consent transitions.
		api.POST("/consent/disable-request", r.params.ConsentHandler.RequestDisable)
		api.POST("/consent/enable", r.params.ConsentHandler.EnableSharing)

		// Clinician review queue.
		api.GET("/consent/pending", r.params.ConsentHandler.ListPending)
		api.GET("/patients/:id/consent", r.params.ConsentHandler.Status)
		api.POST("/patients/:id/consent/review", r.params.ConsentHandler.Review)

		// Telemetry ingestion and reads.
		api.POST("/vitals", r.params.VitalHandler.Submit)
		api.POST("/vitals/batch", r.params.VitalHandler.SubmitBatch)
		api.GET("/patients/:id/vitals/latest", r.params.VitalHandler.Latest)
		api.GET("/patients/:id/vitals", r.params.VitalHandler.History)
		api.GET("/patients/:id/vitals/summary", r.params.VitalHandler.Summary)

		// Alerts.
		api.GET("/patients/:id/alerts", r.params.AlertHandler.List)
		api.POST("/alerts/:id/acknowledge", r.params.AlertHandler.Acknowledge)
		api.POST("/alerts/:id/resolve", r.params.AlertHandler.Resolve)
	}
}
