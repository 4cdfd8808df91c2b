package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/service"
)

// TableHandler serves table catalog endpoints plus the availability
// search, which goes through the booking service so its interval
// rules match the ones enforced on create.
type TableHandler struct {
	Tables *repository.TableRepo
	Svc    *service.BookingService
}

func NewTableHandler(t *repository.TableRepo, svc *service.BookingService) *TableHandler {
	if t == nil || svc == nil {
		panic("nil dependency passed to NewTableHandler")
	}
	return &TableHandler{Tables: t, Svc: svc}
}

type createTableReq struct {
	TableNumber uint32 `json:"table_number"`
	MaxCapacity uint32 `json:"max_capacity"`
	IsSideTable bool   `json:"is_side_table"`
	IsOpenSpace bool   `json:"is_open_space"`
	Floor       int32  `json:"floor"`
}

// Create adds a table to the branch in the path.  The table number
// must be unique within the branch.
func (h *TableHandler) Create(c echo.Context) error {
	branchID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	var req createTableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TableNumber == 0 || req.MaxCapacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_number/max_capacity required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	table := &model.Table{
		BranchID:    branchID,
		TableNumber: req.TableNumber,
		MaxCapacity: req.MaxCapacity,
		IsSideTable: req.IsSideTable,
		IsOpenSpace: req.IsOpenSpace,
		Floor:       req.Floor,
	}
	if err := h.Tables.Create(ctx, table); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, table)
}

// List returns a page of the branch's tables.
func (h *TableHandler) List(c echo.Context) error {
	branchID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	ctx, cancel := reqContext(c)
	defer cancel()

	total, tables, err := h.Tables.ListByBranch(ctx, branchID, limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, pageResponse{TotalCount: total, Limit: limit, Offset: offset, Items: tables})
}

// Update applies a partial update to a table.
func (h *TableHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var patch model.TablePatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	table, err := h.Tables.Update(ctx, id, patch)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, table)
}

// ListAvailable returns the branch's tables that seat ?persons= and
// are free for the half-open interval [?start_time=, ?end_time=),
// both RFC 3339.
func (h *TableHandler) ListAvailable(c echo.Context) error {
	branchID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid branch id"})
	}
	start, err := queryTime(c, "start_time")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC 3339"})
	}
	end, err := queryTime(c, "end_time")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC 3339"})
	}
	persons := queryInt(c, "persons", 1)
	if persons < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "persons must be positive"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	tables, err := h.Svc.ListAvailableTables(ctx, branchID, uint32(persons), start, end)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

// Availability reports whether one table is free for an interval.
func (h *TableHandler) Availability(c echo.Context) error {
	tableID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid table id"})
	}
	start, err := queryTime(c, "start_time")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC 3339"})
	}
	end, err := queryTime(c, "end_time")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC 3339"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	free, err := h.Svc.IsTableAvailable(ctx, tableID, start, end)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"table_id": tableID, "available": free})
}
