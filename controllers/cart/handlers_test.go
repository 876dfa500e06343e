package cartControllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/cache"
	"github.com/Omphii/peercart-api/middleware"
	"github.com/Omphii/peercart-api/models"
)

const testSecret = "test-secret"

func toStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func testToken(t *testing.T, id, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": id,
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func testRouter(db *gorm.DB) *gin.Engine {
	return testRouterWithCache(db, nil)
}

func testRouterWithCache(db *gorm.DB, counts *cache.CartCountCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/cart")
	group.Use(middleware.ValidateToken(testSecret))
	group.POST("/", Mutate(db, counts))
	group.GET("/count", GetCount(db, counts))
	return r
}

func postCart(t *testing.T, r *gin.Engine, token string, form url.Values) (*httptest.ResponseRecorder, MutationResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/cart/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp MutationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestMutateEndpointContract(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, 5)
	r := testRouter(db)
	token := testToken(t, "user-1", "user")

	// add 2 of a listing with stock 5
	w, resp := postCart(t, r, token, url.Values{
		"action":     {"add"},
		"listing_id": {toStr(listing.ID)},
		"quantity":   {"2"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.CartCount)
	require.True(t, resp.IsLoggedIn)

	// adding 10 more exceeds remaining stock; cart unchanged
	w, resp = postCart(t, r, token, url.Values{
		"action":     {"add"},
		"listing_id": {toStr(listing.ID)},
		"quantity":   {"10"},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	require.False(t, resp.Success)
	require.Equal(t, 1, resp.CartCount)

	lines, err := UserLines(db, "user-1")
	require.NoError(t, err)
	require.Equal(t, 2, lines[0].Quantity)

	// clear empties the cart
	w, resp = postCart(t, r, token, url.Values{"action": {"clear"}})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	require.Equal(t, 0, resp.CartCount)
}

func TestMutateDefaultsQuantityToOne(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, 5)
	r := testRouter(db)
	token := testToken(t, "user-1", "user")

	w, resp := postCart(t, r, token, url.Values{
		"action":     {"add"},
		"listing_id": {toStr(listing.ID)},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	lines, err := UserLines(db, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, lines[0].Quantity)
}

func TestMutateUpdateQuantityZeroDeletesLine(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, 5)
	r := testRouter(db)
	token := testToken(t, "user-1", "user")

	_, resp := postCart(t, r, token, url.Values{
		"action":     {"add"},
		"listing_id": {toStr(listing.ID)},
		"quantity":   {"2"},
	})
	require.True(t, resp.Success)

	// An explicit quantity=0 on update deletes the line; it must not be
	// treated as an absent field.
	w, resp := postCart(t, r, token, url.Values{
		"action":     {"update"},
		"listing_id": {toStr(listing.ID)},
		"quantity":   {"0"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	require.Equal(t, 0, resp.CartCount)

	lines, err := UserLines(db, "user-1")
	require.NoError(t, err)
	require.Empty(t, lines)
}

func TestMutateSkipsCacheWhenCountFails(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, 5)
	srv := miniredis.RunT(t)
	counts := cache.NewCartCountCache(srv.Addr(), "")
	r := testRouterWithCache(db, counts)
	token := testToken(t, "user-1", "user")

	_, resp := postCart(t, r, token, url.Values{
		"action":     {"add"},
		"listing_id": {toStr(listing.ID)},
		"quantity":   {"1"},
	})
	require.True(t, resp.Success)
	require.True(t, srv.Exists("cart_count:user-1"))

	// With the line table gone the count query errors; the badge cache must
	// stay empty rather than hold a bogus zero.
	require.NoError(t, db.Migrator().DropTable(&models.CartLine{}))
	w, _ := postCart(t, r, token, url.Values{"action": {"clear"}})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.False(t, srv.Exists("cart_count:user-1"))
}

func TestMutateUnknownAction(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter(db)
	token := testToken(t, "user-1", "user")

	w, resp := postCart(t, r, token, url.Values{"action": {"duplicate"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, resp.Success)
}

func TestMutateAsGuest(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, 5)
	r := testRouter(db)
	token := testToken(t, "guest_xyz", "guest")

	w, resp := postCart(t, r, token, url.Values{
		"action":     {"add"},
		"listing_id": {toStr(listing.ID)},
		"quantity":   {"1"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.CartCount)
	require.False(t, resp.IsLoggedIn)

	// The guest line lives in the guest tables only.
	var userLineRows int64
	require.NoError(t, db.Table("cart_lines").Count(&userLineRows).Error)
	require.EqualValues(t, 0, userLineRows)
}

func TestMutateRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	r := testRouter(db)

	req := httptest.NewRequest(http.MethodPost, "/cart/", strings.NewReader("action=add"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCountEndpoint(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, 5)
	r := testRouter(db)
	token := testToken(t, "user-1", "user")

	_, _ = postCart(t, r, token, url.Values{
		"action":     {"add"},
		"listing_id": {toStr(listing.ID)},
		"quantity":   {"2"},
	})

	req := httptest.NewRequest(http.MethodGet, "/cart/count", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		CartCount  int  `json:"cart_count"`
		IsLoggedIn bool `json:"is_logged_in"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.CartCount)
	require.True(t, resp.IsLoggedIn)
}
