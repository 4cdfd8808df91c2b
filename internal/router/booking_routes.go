package router

import (
	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/handler"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/middleware"
)

// RegisterBookings registers the reservation endpoints.  Both roles
// may create and manage bookings; the handler enforces that a
// customer only touches their own records.
func RegisterBookings(e *echo.Echo, bk *handler.BookingHandler, jwtSecret string, extra ...echo.MiddlewareFunc) {
	mws := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER", "CUSTOMER"),
	}, extra...)
	g := e.Group("/v1", mws...)

	g.POST("/bookings", bk.Create)
	g.GET("/bookings", bk.ListMine)
	g.PATCH("/bookings/:id", bk.Update)
	g.DELETE("/bookings/:id", bk.Delete)
}
