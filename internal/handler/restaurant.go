package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/model"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
)

// RestaurantHandler serves the restaurant and cuisine catalog.
type RestaurantHandler struct {
	Restaurants *repository.RestaurantRepo
}

func NewRestaurantHandler(r *repository.RestaurantRepo) *RestaurantHandler {
	if r == nil {
		panic("nil repository passed to NewRestaurantHandler")
	}
	return &RestaurantHandler{Restaurants: r}
}

type createRestaurantReq struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Logo        *string  `json:"logo"`
	CuisineIDs  []uint64 `json:"cuisine_ids"`
}

// Create registers a new restaurant with its cuisine tags.  Unknown
// cuisine ids fail the whole request.
func (h *RestaurantHandler) Create(c echo.Context) error {
	var req createRestaurantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	rest := &model.Restaurant{
		Name:        req.Name,
		Description: req.Description,
		Logo:        req.Logo,
	}
	if err := h.Restaurants.Create(ctx, rest, req.CuisineIDs); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, rest)
}

// Get returns one restaurant with its cuisines.
func (h *RestaurantHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	rest, err := h.Restaurants.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, rest)
}

// List returns a page of restaurants, optionally narrowed to those
// tagged with every cuisine id in ?cuisine_id=1&cuisine_id=2.
func (h *RestaurantHandler) List(c echo.Context) error {
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	var cuisineIDs []uint64
	for _, raw := range c.QueryParams()["cuisine_id"] {
		id, err := parseUint(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cuisine_id"})
		}
		cuisineIDs = append(cuisineIDs, id)
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	total, rests, err := h.Restaurants.List(ctx, cuisineIDs, limit, offset)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, pageResponse{TotalCount: total, Limit: limit, Offset: offset, Items: rests})
}

// ListCuisines returns every cuisine tag.
func (h *RestaurantHandler) ListCuisines(c echo.Context) error {
	ctx, cancel := reqContext(c)
	defer cancel()

	cuisines, err := h.Restaurants.ListCuisines(ctx)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cuisines": cuisines})
}

type createCuisineReq struct {
	Name string `json:"name"`
}

// CreateCuisine adds a cuisine tag.
func (h *RestaurantHandler) CreateCuisine(c echo.Context) error {
	var req createCuisineReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	cuisine := &model.Cuisine{Name: req.Name}
	if err := h.Restaurants.CreateCuisine(ctx, cuisine); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, cuisine)
}
