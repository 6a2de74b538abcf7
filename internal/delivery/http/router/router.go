// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"portal/config"
	"portal/internal/delivery/http/middleware"
	"portal/internal/delivery/http/router/handler"
	"portal/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler         *handler.AuthHandler
	SessionHandler      *handler.SessionHandler
	NotificationHandler *handler.NotificationHandler
	DeviceHandler       *handler.DeviceHandler
	QuoteHandler        *handler.QuoteHandler
	AnalyticsHandler    *handler.AnalyticsHandler
	ProfileHandler      *handler.ProfileHandler
	AuthMiddleware      *middleware.AuthMiddleware
	Metrics             *metrics.Metrics
	Config              *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler         *handler.AuthHandler
	sessionHandler      *handler.SessionHandler
	notificationHandler *handler.NotificationHandler
	deviceHandler       *handler.DeviceHandler
	quoteHandler        *handler.QuoteHandler
	analyticsHandler    *handler.AnalyticsHandler
	profileHandler      *handler.ProfileHandler
	authMiddleware      *middleware.AuthMiddleware
	metrics             *metrics.Metrics
	config              *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:         params.AuthHandler,
		sessionHandler:      params.SessionHandler,
		notificationHandler: params.NotificationHandler,
		deviceHandler:       params.DeviceHandler,
		quoteHandler:        params.QuoteHandler,
		analyticsHandler:    params.AnalyticsHandler,
		profileHandler:      params.ProfileHandler,
		authMiddleware:      params.AuthMiddleware,
		metrics:             params.Metrics,
		config:              params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	if r.config.Metrics.Enabled {
		e.GET(r.config.Metrics.Path, echo.WrapHandler(r.metrics.Handler()))
	}

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/validate", r.authHandler.ValidateStep)
		authGroup.POST("/login", r.authHandler.Login)
		// Logging out of an expired session must still work.
		authGroup.POST("/logout", r.authHandler.Logout, r.authMiddleware.Identify)
	}

	// Status polling is not user activity.
	e.GET("/session", r.sessionHandler.Status, r.authMiddleware.Identify)
	e.POST("/session/activity", r.sessionHandler.Activity, r.authMiddleware.Authenticate)

	notificationsGroup := e.Group("/notifications")
	notificationsGroup.Use(r.authMiddleware.Authenticate)
	{
		notificationsGroup.GET("", r.notificationHandler.List)
		notificationsGroup.POST("", r.notificationHandler.Add)
		notificationsGroup.DELETE("", r.notificationHandler.Clear)
		notificationsGroup.GET("/unread-count", r.notificationHandler.UnreadCount)
		notificationsGroup.POST("/read-all", r.notificationHandler.MarkAllRead)
		notificationsGroup.POST("/:id/read", r.notificationHandler.MarkRead)
		notificationsGroup.DELETE("/:id", r.notificationHandler.Remove)
		notificationsGroup.GET("/preferences", r.notificationHandler.GetPreferences)
		notificationsGroup.PATCH("/preferences", r.notificationHandler.UpdatePreferences)
		notificationsGroup.GET("/desktop-permission", r.notificationHandler.GetDesktopPermission)
		notificationsGroup.PUT("/desktop-permission", r.notificationHandler.SetDesktopPermission)
	}

	devicesGroup := e.Group("/devices")
	devicesGroup.Use(r.authMiddleware.Authenticate)
	{
		devicesGroup.GET("", r.deviceHandler.List)
		devicesGroup.GET("/remember-me", r.deviceHandler.GetRememberMe)
		devicesGroup.PUT("/remember-me", r.deviceHandler.SetRememberMe)
		devicesGroup.DELETE("/:id", r.deviceHandler.Remove)
	}

	quotesGroup := e.Group("/quotes")
	{
		quotesGroup.GET("", r.quoteHandler.Options)
		quotesGroup.GET("/qrcode", r.quoteHandler.QRCode)
	}

	analyticsGroup := e.Group("/analytics")
	analyticsGroup.Use(r.authMiddleware.Authenticate)
	{
		analyticsGroup.GET("", r.analyticsHandler.Data)
		analyticsGroup.GET("/summary", r.analyticsHandler.Summary)
		analyticsGroup.POST("/export", r.analyticsHandler.Export)
	}

	profileGroup := e.Group("/profile")
	profileGroup.Use(r.authMiddleware.Authenticate)
	{
		profileGroup.GET("", r.profileHandler.Get)
		profileGroup.PUT("", r.profileHandler.Update)
	}
}
