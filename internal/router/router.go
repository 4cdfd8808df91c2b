// Package router wires handlers to routes.  Registration is split
// by audience: unauthenticated browse routes, auth routes and the
// protected groups for customers and owners.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/handler"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the auth endpoints.  Register, login and
// refresh live under /v1/auth and need no session; /v1/me requires
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "CUSTOMER"),
	)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated catalog browse
// endpoints.  cache may be nil when Redis is not configured.
func RegisterPublic(e *echo.Echo, r *handler.RestaurantHandler, b *handler.BranchHandler, t *handler.TableHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}

	g.GET("/cuisines", r.ListCuisines)
	g.GET("/restaurants", r.List)
	g.GET("/restaurants/:id", r.Get)
	g.GET("/branches", b.List)
	g.GET("/branches/:id", b.Get)
	g.GET("/branches/:id/recommendations", b.Recommendations)
	g.GET("/branches/:id/tables", t.List)
	// Availability search: which tables in a branch are free for an
	// interval, and whether one specific table is.
	g.GET("/branches/:id/tables/available", t.ListAvailable)
	g.GET("/tables/:id/availability", t.Availability)
}
