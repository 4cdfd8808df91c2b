package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/utils"
)

const testSecret = "test-secret"

func invoke(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c)
	return rec, c
}

func TestJWTAuthAccepts(t *testing.T) {
	token, err := utils.NewAccessToken(testSecret, 42, "CUSTOMER", 15)
	require.NoError(t, err)

	rec, c := invoke(JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(42), c.Get(ContextUserID))
	assert.Equal(t, "CUSTOMER", c.Get(ContextRole))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := invoke(JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	token, err := utils.NewRefreshToken(testSecret, 42, "CUSTOMER", 7)
	require.NoError(t, err)

	rec, _ := invoke(JWTAuth(testSecret), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	cases := []struct {
		name    string
		role    interface{}
		allowed []string
		want    int
	}{
		{"allowed role", "OWNER", []string{"OWNER"}, http.StatusOK},
		{"one of several", "CUSTOMER", []string{"OWNER", "CUSTOMER"}, http.StatusOK},
		{"wrong role", "CUSTOMER", []string{"OWNER"}, http.StatusForbidden},
		{"missing role", nil, []string{"OWNER"}, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set(ContextRole, tc.role)
			}
			_ = RequireRole(tc.allowed...)(next)(c)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
