package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/shop-api/internal/app/handlers"
	"github.com/linemk/shop-api/internal/domain/models"
	"github.com/linemk/shop-api/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/shop-api/internal/service"
	"github.com/stretchr/testify/assert"
)

// fakeAuthService — фиктивная реализация для тестирования.
type fakeAuthService struct {
	token string
	err   error
}

func (f *fakeAuthService) Signup(ctx context.Context, name, email, password string) (string, error) {
	return f.token, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return f.token, f.err
}

// fakeOrderService — фиктивная реализация интерфейса OrderService.
type fakeOrderService struct {
	err       error
	addressID int64
	state     string
}

func (f *fakeOrderService) CreateOrder(ctx context.Context, userID, addressID int64) error {
	f.addressID = addressID
	return f.err
}

func (f *fakeOrderService) ListOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	return nil, f.err
}

func (f *fakeOrderService) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	return nil, f.err
}

func (f *fakeOrderService) ChangeOrderState(ctx context.Context, orderID int64, state string) error {
	f.state = state
	return f.err
}

type fakeAddressService struct {
	err     error
	deleted []int64
}

func (f *fakeAddressService) AddAddress(ctx context.Context, addr *models.Address) error {
	return f.err
}

func (f *fakeAddressService) ListAddresses(ctx context.Context, userID int64) ([]*models.Address, error) {
	return nil, f.err
}

func (f *fakeAddressService) UpdateAddress(ctx context.Context, userID, addressID int64, addr *models.Address) error {
	return f.err
}

func (f *fakeAddressService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	f.deleted = append(f.deleted, addressID)
	return f.err
}

type fakeProductService struct {
	views  []map[string]any
	params url.Values
	err    error
}

func (f *fakeProductService) ListProducts(ctx context.Context, params url.Values) ([]map[string]any, error) {
	f.params = params
	return f.views, f.err
}

func (f *fakeProductService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return nil, f.err
}

func (f *fakeProductService) CreateProduct(ctx context.Context, name string, price float64, unit string) error {
	return f.err
}

func (f *fakeProductService) UpdateProduct(ctx context.Context, id int64, name *string, price *float64, unit *string) error {
	return f.err
}

func (f *fakeProductService) DeleteProduct(ctx context.Context, id int64) error {
	return f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// withUser кладёт в контекст запроса идентификатор аутентифицированного пользователя.
func withUser(r *http.Request, userID int64) *http.Request {
	ctx := context.WithValue(r.Context(), jwtmiddleware.UserIDKey, userID)
	return r.WithContext(ctx)
}

// withURLParam добавляет chi-параметр пути к запросу.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Message string `json:"message"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err, "Response decoding should succeed")
	return resp.Message
}

func TestSignupHandler_Success(t *testing.T) {
	fakeSvc := &fakeAuthService{token: "test-token"}
	handler := handlers.SignupHandler(testLogger(), fakeSvc)

	reqBody := `{"name": "Test User", "email": "test@example.com", "password": "password123"}`
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewBufferString(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code, "Expected status 201 Created")

	var resp struct {
		Token string `json:"token"`
	}
	err := json.NewDecoder(rr.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "test-token", resp.Token)
}

func TestSignupHandler_InvalidJSON(t *testing.T) {
	handler := handlers.SignupHandler(testLogger(), &fakeAuthService{})

	reqBody := `{"name": "Test User", "email":`
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for invalid JSON")
}

func TestSignupHandler_ValidationError(t *testing.T) {
	handler := handlers.SignupHandler(testLogger(), &fakeAuthService{})

	// пароль короче 8 символов
	reqBody := `{"name": "Test User", "email": "test@example.com", "password": "short"}`
	req := httptest.NewRequest("POST", "/auth/signup", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "Expected status 400 for validation error")
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	fakeSvc := &fakeAuthService{err: service.ErrInvalidCredentials}
	handler := handlers.LoginHandler(testLogger(), fakeSvc)

	reqBody := `{"email": "test@example.com", "password": "wrongpass"}`
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid email and password", decodeMessage(t, rr))
}

func TestCreateOrderHandler_Success(t *testing.T) {
	fakeSvc := &fakeOrderService{}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"addressId": 7}`
	req := withUser(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Order created successfully", decodeMessage(t, rr))
	assert.Equal(t, int64(7), fakeSvc.addressID)
}

func TestCreateOrderHandler_MissingAddressID(t *testing.T) {
	handler := handlers.CreateOrderHandler(testLogger(), &fakeOrderService{})

	req := withUser(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(`{}`)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateOrderHandler_EmptyCart(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrEmptyCart}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"addressId": 7}`
	req := withUser(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "there are no products in cart", decodeMessage(t, rr))
}

func TestCreateOrderHandler_AddressNotFound(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrAddressNotFound}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"addressId": 7}`
	req := withUser(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "address not found", decodeMessage(t, rr))
}

func TestCreateOrderHandler_Unauthorized(t *testing.T) {
	handler := handlers.CreateOrderHandler(testLogger(), &fakeOrderService{})

	// без userID в контексте
	req := httptest.NewRequest("POST", "/orders", bytes.NewBufferString(`{"addressId": 7}`))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestChangeOrderStatusHandler_MalformedID(t *testing.T) {
	handler := handlers.ChangeOrderStatusHandler(testLogger(), &fakeOrderService{})

	req := httptest.NewRequest("PUT", "/admin/orders/abc", bytes.NewBufferString(`{"status": "completed"}`))
	req = withURLParam(req, "orderId", "abc")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// синтаксически некорректный id — 400 с фиксированным сообщением
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid input", decodeMessage(t, rr))
}

func TestChangeOrderStatusHandler_UnknownState(t *testing.T) {
	fakeSvc := &fakeOrderService{err: service.ErrInvalidOrderState}
	handler := handlers.ChangeOrderStatusHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("PUT", "/admin/orders/5", bytes.NewBufferString(`{"status": "shipped"}`))
	req = withURLParam(req, "orderId", "5")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "invalid order state", decodeMessage(t, rr))
}

func TestListProductsHandler_ForwardsQueryParams(t *testing.T) {
	fakeSvc := &fakeProductService{views: []map[string]any{}}
	handler := handlers.ListProductsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/products?price[gt]=10&sort=-price&page=2", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "10", fakeSvc.params.Get("price[gt]"))
	assert.Equal(t, "-price", fakeSvc.params.Get("sort"))
	assert.Equal(t, "2", fakeSvc.params.Get("page"))
}

func TestListProductsHandler_PageBeyondEnd(t *testing.T) {
	fakeSvc := &fakeProductService{err: service.ErrPageNotFound}
	handler := handlers.ListProductsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/products?page=100", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "this page does not exist", decodeMessage(t, rr))
}

func TestCheapestProductsHandler_FixedListing(t *testing.T) {
	fakeSvc := &fakeProductService{views: []map[string]any{}}
	handler := handlers.CheapestProductsHandler(testLogger(), fakeSvc)

	req := httptest.NewRequest("GET", "/5-cheapest-products", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// пять самых дешёвых: сортировка по цене, лимит 5
	assert.Equal(t, "price", fakeSvc.params.Get("sort"))
	assert.Equal(t, "5", fakeSvc.params.Get("limit"))
}

func TestAddAddressHandler_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
		code int
	}{
		{"valid five digit zip", `{"street": "1 Main St", "city": "Springfield", "state": "CA", "zip": "94105"}`, http.StatusCreated},
		{"valid nine digit zip", `{"street": "1 Main St", "city": "Springfield", "state": "CA", "zip": "94105-1234"}`, http.StatusCreated},
		{"unknown state", `{"street": "1 Main St", "city": "Springfield", "state": "ZZ", "zip": "94105"}`, http.StatusBadRequest},
		{"short zip", `{"street": "1 Main St", "city": "Springfield", "state": "CA", "zip": "1234"}`, http.StatusBadRequest},
		{"missing street", `{"city": "Springfield", "state": "CA", "zip": "94105"}`, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := handlers.AddAddressHandler(testLogger(), &fakeAddressService{})

			req := withUser(httptest.NewRequest("POST", "/users/me/address", bytes.NewBufferString(tc.body)), 1)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)
			assert.Equal(t, tc.code, rr.Code)
		})
	}
}

func TestDeleteAddressHandler_Idempotent(t *testing.T) {
	fakeSvc := &fakeAddressService{}
	handler := handlers.DeleteAddressHandler(testLogger(), fakeSvc)

	// Повторное удаление того же адреса отвечает так же успешно.
	for i := 0; i < 2; i++ {
		req := withUser(httptest.NewRequest("DELETE", "/users/me/address/3", nil), 1)
		req = withURLParam(req, "addressId", "3")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Address deleted successfully", decodeMessage(t, rr))
	}
	assert.Equal(t, []int64{3, 3}, fakeSvc.deleted)
}

func TestGetAddressesHandler_EmptyListIsArray(t *testing.T) {
	handler := handlers.GetAddressesHandler(testLogger(), &fakeAddressService{})

	req := withUser(httptest.NewRequest("GET", "/users/me/address", nil), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// пустая адресная книга сериализуется как [], не null
	assert.JSONEq(t, "[]", rr.Body.String())
}

func TestCreateProductHandler_NegativePrice(t *testing.T) {
	handler := handlers.CreateProductHandler(testLogger(), &fakeProductService{})

	reqBody := `{"name": "apple", "price": -5, "unit": "kg"}`
	req := httptest.NewRequest("POST", "/admin/products", bytes.NewBufferString(reqBody))
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestInternalErrorIsOpaque(t *testing.T) {
	// Неклассифицированная ошибка сервиса не должна утекать клиенту.
	fakeSvc := &fakeOrderService{err: assert.AnError}
	handler := handlers.CreateOrderHandler(testLogger(), fakeSvc)

	reqBody := `{"addressId": 7}`
	req := withUser(httptest.NewRequest("POST", "/orders", bytes.NewBufferString(reqBody)), 1)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Internal Server Error", decodeMessage(t, rr))
}
