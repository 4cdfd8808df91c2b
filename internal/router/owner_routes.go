package router

import (
	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/handler"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/middleware"
)

// RegisterOwner registers OWNER-scoped catalog management and the
// branch booking list.  All routes require a valid JWT and the
// OWNER role.
func RegisterOwner(e *echo.Echo, r *handler.RestaurantHandler, b *handler.BranchHandler, t *handler.TableHandler, bk *handler.BookingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)

	// ---- Restaurants & cuisines ----
	g.POST("/restaurants", r.Create)
	g.POST("/cuisines", r.CreateCuisine)

	// ---- Branches ----
	g.POST("/restaurants/:id/branches", b.Create)
	g.PATCH("/branches/:id", b.Update)
	g.DELETE("/branches/:id", b.Delete)

	// ---- Tables ----
	g.POST("/branches/:id/tables", t.Create)
	g.PATCH("/tables/:id", t.Update)

	// ---- Bookings ----
	g.GET("/branches/:id/bookings", bk.ListBranch)
}
