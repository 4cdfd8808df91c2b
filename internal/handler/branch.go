package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
)

// BranchHandler serves branch catalog endpoints.
type BranchHandler struct {
	Branches *repository.BranchRepo
}

func NewBranchHandler(b *repository.BranchRepo) *BranchHandler {
	if b == nil {
		panic("nil repository passed to NewBranchHandler")
	}
	return &BranchHandler{Branches: b}
}

type createBranchReq struct {
	City     string  `json:"city"`
	Country  string  `json:"country"`
	Address  string  `json:"address"`
	Location *string `json:"location"`
}

// Create adds a branch under the restaurant in the path.
func (h *BranchHandler) Create(c echo.Context) error {
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant id"})
	}
	var req createBranchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.City = strings.TrimSpace(req.City)
	req.Country = strings.TrimSpace(req.Country)
	req.Address = strings.TrimSpace(req.Address)
	if req.City == "" || req.Country == "" || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city/country/address required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	branch := &model.Branch{
		RestaurantID: restaurantID,
		City:         req.City,
		Country:      req.Country,
		Address:      req.Address,
		Location:     req.Location,
	}
	if err := h.Branches.Create(ctx, branch); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, branch)
}

// Get returns one branch.
func (h *BranchHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	branch, err := h.Branches.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, branch)
}

// List returns a page of branches.  All filters are optional:
// ?restaurant_id=, a ?city= substring, repeated ?cuisine_id= tags
// (any-match) and a ?search= substring over the restaurant name.
func (h *BranchHandler) List(c echo.Context) error {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	filter := repository.BranchFilter{
		City:   c.QueryParam("city"),
		Search: c.QueryParam("search"),
	}
	if raw := c.QueryParam("restaurant_id"); raw != "" {
		id, err := parseUint(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid restaurant_id"})
		}
		filter.RestaurantID = id
	}
	for _, raw := range c.QueryParams()["cuisine_id"] {
		id, err := parseUint(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cuisine_id"})
		}
		filter.CuisineIDs = append(filter.CuisineIDs, id)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	total, branches, err := h.Branches.List(ctx, filter, limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, pageResponse{TotalCount: total, Limit: limit, Offset: offset, Items: branches})
}

// Recommendations suggests up to ?limit= (default 10) branches in
// the same city serving a shared cuisine, excluding the branch
// itself.
func (h *BranchHandler) Recommendations(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	limit := queryInt(c, "limit", 10)
	if limit < 1 {
		limit = 10
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	recs, err := h.Branches.Recommendations(ctx, id, limit)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"recommendations": recs})
}

// Update applies a partial update to a branch.
func (h *BranchHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var patch repository.BranchPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	branch, err := h.Branches.Update(ctx, id, patch)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, branch)
}

// Delete removes a branch.  Branches that still have tables are
// refused with 409.
func (h *BranchHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Branches.Delete(ctx, id); err != nil {
		return jsonError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
