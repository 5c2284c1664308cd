package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vira/internal/adapter/api"
	"vira/internal/adapter/api/handler"
	"vira/internal/adapter/api/middleware"
	"vira/internal/adapter/repository"
	"vira/internal/infrastructure/catalog"
	"vira/internal/infrastructure/localstorage"
	"vira/internal/infrastructure/ratelimit"
	"vira/internal/infrastructure/token"
	"vira/internal/infrastructure/websocket"
	"vira/internal/usecase"
	"vira/pkg/response"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	c, err := catalog.Default()
	require.NoError(t, err)

	storage := localstorage.NewMemoryStorage()
	locker := localstorage.NewLocker()
	userRepo := repository.NewKVUserRepository(storage)
	orderRepo := repository.NewKVOrderRepository(storage, locker)
	conversationRepo := repository.NewKVConversationRepository(storage, locker)
	favoriteRepo := repository.NewKVFavoriteRepository(storage, locker)
	catalogRepo := repository.NewStaticCatalogRepository(c)

	limiter := ratelimit.NewRateLimiter(map[string]ratelimit.Limit{
		middleware.ActionAuth:     {Events: 3, Window: time.Minute},
		usecase.ActionSendMessage: {Events: 10, Window: time.Minute},
	}, ratelimit.Limit{})

	chat := usecase.NewChatUseCase(conversationRepo, catalogRepo, limiter)
	auth := usecase.NewAuthUseCase(userRepo, token.NewJWTManager("router-test", time.Hour))
	handlers := handler.Setup(handler.UseCases{
		Auth:        auth,
		User:        usecase.NewUserUseCase(userRepo, orderRepo),
		Marketplace: usecase.NewMarketplaceUseCase(catalogRepo, favoriteRepo, conversationRepo),
		Order:       usecase.NewOrderUseCase(orderRepo, catalogRepo, time.Hour, 72*time.Hour),
		Chat:        chat,
		Favorite:    usecase.NewFavoriteUseCase(favoriteRepo, catalogRepo),
		Seller:      usecase.NewSellerUseCase(userRepo, orderRepo, catalogRepo, chat),
	}, storage, websocket.NewManager())

	e := echo.New()
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler
	Setup(e, handlers, Middlewares{
		Device:  middleware.NewDeviceMiddleware("router-test-secret", false),
		Auth:    middleware.NewAuthMiddleware(auth),
		Limiter: limiter,
	})
	return e
}

type call struct {
	method string
	path   string
	body   string
	device string
	token  string
}

func do(t *testing.T, e *echo.Echo, c call) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
	if c.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if c.device != "" {
		req.Header.Set(middleware.HeaderDeviceID, c.device)
	}
	if c.token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func signup(t *testing.T, e *echo.Echo, device, email string) string {
	t.Helper()

	rec, env := do(t, e, call{
		method: http.MethodPost,
		path:   "/v1/auth/signup",
		body:   `{"username":"sam","email":"` + email + `","password":"secret1"}`,
		device: device,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestHealth(t *testing.T) {
	e := newTestServer(t)

	rec, _ := do(t, e, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Server is running")

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/health/storage"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeviceSessionCookie(t *testing.T) {
	e := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/home", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	device := rec.Header().Get(middleware.HeaderDeviceID)
	require.NotEmpty(t, device)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.SessionName, cookies[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/v1/home", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, device, rec.Header().Get(middleware.HeaderDeviceID))
}

func TestInvalidDeviceHeader(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, call{method: http.MethodGet, path: "/v1/home", device: "bad id!"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid device id", env.Error.Message)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newTestServer(t)

	for _, path := range []string{"/v1/orders", "/v1/conversations", "/v1/favorites", "/v1/users/me", "/v1/marketplace/stores"} {
		rec, env := do(t, e, call{method: http.MethodGet, path: path, device: "device-aaaa"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.False(t, env.Success, path)
	}
}

func TestAuthLifecycle(t *testing.T) {
	e := newTestServer(t)
	device := "device-auth-1"
	tok := signup(t, e, device, "sam@example.com")

	rec, env := do(t, e, call{method: http.MethodGet, path: "/v1/auth/me", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "sam@example.com")

	// A token is bound to the device it was issued to.
	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/auth/me", device: "device-other", token: tok})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodPost, path: "/v1/auth/logout", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/auth/me", device: device, token: tok})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = do(t, e, call{
		method: http.MethodPost,
		path:   "/v1/auth/login",
		body:   `{"email":"sam@example.com","password":"secret1"}`,
		device: device,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"token"`)
}

func TestSignupValidation(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, call{
		method: http.MethodPost,
		path:   "/v1/auth/signup",
		body:   `{"username":"sam","email":"not-an-email","password":"secret1"}`,
		device: "device-valid-1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Equal(t, "email must be a valid email address", env.Error.Message)
}

func TestAuthRateLimit(t *testing.T) {
	e := newTestServer(t)
	body := `{"email":"nobody@example.com","password":"secret1"}`

	for i := 0; i < 3; i++ {
		rec, _ := do(t, e, call{method: http.MethodPost, path: "/v1/auth/login", body: body, device: "device-limit-1"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	rec, env := do(t, e, call{method: http.MethodPost, path: "/v1/auth/login", body: body, device: "device-limit-1"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.NotNil(t, env.Error)

	// Other devices have their own budget.
	rec, _ = do(t, e, call{method: http.MethodPost, path: "/v1/auth/login", body: body, device: "device-limit-2"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderFlow(t *testing.T) {
	e := newTestServer(t)
	device := "device-orders"
	tok := signup(t, e, device, "orders@example.com")

	rec, env := do(t, e, call{
		method: http.MethodPost,
		path:   "/v1/orders",
		body:   `{"productId":5,"quantity":2}`,
		device: device,
		token:  tok,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order struct {
		ID        string `json:"id"`
		Status    string `json:"status"`
		Items     int    `json:"items"`
		CanCancel bool   `json:"canCancel"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.True(t, strings.HasPrefix(order.ID, "ORD-"))
	assert.Equal(t, "processing", order.Status)
	assert.Equal(t, 2, order.Items)
	assert.True(t, order.CanCancel)

	rec, env = do(t, e, call{method: http.MethodGet, path: "/v1/orders?status=processing", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(1), page.Total)

	rec, env = do(t, e, call{method: http.MethodPost, path: "/v1/orders/" + order.ID + "/cancel", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"status":"cancelled"`)

	rec, _ = do(t, e, call{method: http.MethodPost, path: "/v1/orders/" + order.ID + "/cancel", device: device, token: tok})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/orders/ORD-missing", device: device, token: tok})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, call{
		method: http.MethodPost,
		path:   "/v1/orders",
		body:   `{"productId":9999}`,
		device: device,
		token:  tok,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConversationFlow(t *testing.T) {
	e := newTestServer(t)
	device := "device-chat"
	tok := signup(t, e, device, "chat@example.com")

	rec, _ := do(t, e, call{method: http.MethodPost, path: "/v1/conversations", body: `{"storeId":1}`, device: device, token: tok})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = do(t, e, call{method: http.MethodPost, path: "/v1/conversations", body: `{"storeId":1}`, device: device, token: tok})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := do(t, e, call{method: http.MethodGet, path: "/v1/conversations/unread", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread":1}`, string(env.Data))

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/conversations/1", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, call{method: http.MethodGet, path: "/v1/conversations/unread", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unread":0}`, string(env.Data))

	rec, env = do(t, e, call{method: http.MethodPost, path: "/v1/conversations/1/messages", body: `{"text":"Is this in stock?"}`, device: device, token: tok})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, string(env.Data), "Is this in stock?")

	rec, _ = do(t, e, call{method: http.MethodPost, path: "/v1/conversations/1/messages", body: `{"text":""}`, device: device, token: tok})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodDelete, path: "/v1/conversations/1", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/conversations/1", device: device, token: tok})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFavoriteFlow(t *testing.T) {
	e := newTestServer(t)
	device := "device-favs"
	tok := signup(t, e, device, "favs@example.com")

	rec, env := do(t, e, call{method: http.MethodPost, path: "/v1/favorites/2/toggle", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"storeId":2,"isFavorite":true}`, string(env.Data))

	rec, _ = do(t, e, call{method: http.MethodPut, path: "/v1/favorites/3", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = do(t, e, call{method: http.MethodGet, path: "/v1/favorites/count", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "2")

	rec, env = do(t, e, call{method: http.MethodGet, path: "/v1/stores/2", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"isFavorite":true`)

	rec, _ = do(t, e, call{method: http.MethodPut, path: "/v1/favorites/999", device: device, token: tok})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodPut, path: "/v1/favorites/abc", device: device, token: tok})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSellerRoutes(t *testing.T) {
	e := newTestServer(t)
	device := "device-seller"
	tok := signup(t, e, device, "seller@example.com")

	rec, _ := do(t, e, call{method: http.MethodGet, path: "/v1/dashboard", device: device, token: tok})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := do(t, e, call{method: http.MethodPost, path: "/v1/seller/store", body: `{"storeName":"Sam's Shop"}`, device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"hasStore":true`)

	rec, env = do(t, e, call{method: http.MethodGet, path: "/v1/dashboard", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Sam's Shop")

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/seller/store?status=active", device: device, token: tok})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/seller/store?status=bogus", device: device, token: tok})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarketplaceRoutes(t *testing.T) {
	e := newTestServer(t)
	device := "device-market"
	tok := signup(t, e, device, "market@example.com")

	rec, env := do(t, e, call{method: http.MethodGet, path: "/v1/marketplace/stores?sort=rating&limit=2", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Total    int64             `json:"total"`
		PageSize int               `json:"pageSize"`
		Items    []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, int64(6), page.Total)
	assert.Len(t, page.Items, 2)

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/marketplace/stores?sort=cheapest", device: device, token: tok})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, call{method: http.MethodGet, path: "/v1/products/5", device: device, token: tok})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), "Wireless Headphones")

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/stores/42", device: device, token: tok})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/categories", device: device})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	e := newTestServer(t)

	rec, env := do(t, e, call{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
}

func TestUnknownV1RouteIsNotFound(t *testing.T) {
	e := newTestServer(t)

	// No token: an unknown path must not look like an auth failure.
	rec, env := do(t, e, call{method: http.MethodGet, path: "/v1/nope", device: "device-missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)

	rec, _ = do(t, e, call{method: http.MethodGet, path: "/v1/orders", device: "device-missing"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
