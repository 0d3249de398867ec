package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/storefront/internal/errs"
	"github.com/deppfellow/storefront/internal/handler"
	"github.com/deppfellow/storefront/internal/lib/job"
	"github.com/deppfellow/storefront/internal/lib/token"
	"github.com/deppfellow/storefront/internal/model"
	"github.com/deppfellow/storefront/internal/service"
	"github.com/deppfellow/storefront/internal/testutil"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	t      *testing.T
	router *echo.Echo
	store  *testutil.Store
	queue  *testutil.Queue
	tokens *token.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	s := testutil.NewTestServer()
	store := testutil.NewStore()
	queue := &testutil.Queue{}
	tokens := token.NewManager(s.Config.Auth)

	services := service.NewServicesWithStores(s, service.Stores{
		Users:      store.Users(),
		Categories: store.Categories(),
		Products:   store.Products(),
	}, tokens, queue)

	return &testApp{
		t:      t,
		router: NewRouter(s, handler.NewHandlers(s, services), services),
		store:  store,
		queue:  queue,
		tokens: tokens,
	}
}

func (a *testApp) tokenFor(u *model.User) string {
	a.t.Helper()
	signed, _, err := a.tokens.Issue(u)
	require.NoError(a.t, err)
	return signed
}

func (a *testApp) do(method, path string, body any, bearer string) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, message string) errs.HTTPError {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[errs.HTTPError](t, rec)
	assert.Equal(t, message, body.Message)
	return body
}

func TestRegisterLoginProfile(t *testing.T) {
	app := newTestApp(t)

	credentials := map[string]string{"username": "ann", "email": "Ann@Example.com", "password": "secret123"}

	rec := app.do(http.MethodPost, "/api/auth/register", credentials, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, handler.MsgUserRegistered, decode[handler.MessageResponse](t, rec).Message)
	assert.Equal(t, []string{job.TaskWelcome}, app.queue.Types())

	rec = app.do(http.MethodPost, "/api/auth/register", credentials, "")
	requireError(t, rec, http.StatusBadRequest, service.MsgUserExists)

	rec = app.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "nobody@example.com", "password": "x"}, "")
	requireError(t, rec, http.StatusBadRequest, service.MsgNoUserFound)

	rec = app.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "wrong"}, "")
	requireError(t, rec, http.StatusBadRequest, service.MsgInvalidCredentials)

	rec = app.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ann@example.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decode[map[string]any](t, rec)
	accessToken, ok := login["token"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, login["expires_at"])

	rec = app.do(http.MethodGet, "/api/profile", nil, accessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"username":"ann","email":"ann@example.com"}`, rec.Body.String())

	rec = app.do(http.MethodGet, "/api/profile", nil, "")
	requireError(t, rec, http.StatusUnauthorized, "Not authorized, no token")
}

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/auth/register", map[string]string{"username": "ann", "email": "not-an-email", "password": "secret123"}, "")
	body := requireError(t, rec, http.StatusBadRequest, "Validation failed")
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "email", body.Errors[0].Field)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUserManagement(t *testing.T) {
	app := newTestApp(t)
	admin := app.store.AddUser("root", "root@example.com", "secret123", model.RoleAdmin)
	customer := app.store.AddUser("cid", "cid@example.com", "secret123", model.RoleCustomer)
	adminToken := app.tokenFor(admin)

	newUser := map[string]string{"username": "sam", "email": "sam@example.com", "password": "secret123", "role": "seller"}

	rec := app.do(http.MethodPost, "/api/auth/create-user", newUser, app.tokenFor(customer))
	requireError(t, rec, http.StatusForbidden, "Access denied")

	rec = app.do(http.MethodPost, "/api/auth/create-user", map[string]string{
		"username": "x", "email": "x@example.com", "password": "secret123", "role": "owner",
	}, adminToken)
	requireError(t, rec, http.StatusBadRequest, service.MsgInvalidRole)

	rec = app.do(http.MethodPost, "/api/auth/create-user", newUser, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]any](t, rec)
	assert.Equal(t, handler.MsgUserCreated, created["message"])
	user := created["user"].(map[string]any)
	assert.Equal(t, "seller", user["role"])
	assert.NotContains(t, user, "password_hash")

	path := fmt.Sprintf("/api/auth/update-role/%s", customer.ID)
	rec = app.do(http.MethodPut, path, map[string]string{"role": "superuser"}, adminToken)
	requireError(t, rec, http.StatusBadRequest, service.MsgInvalidRoleProvided)

	rec = app.do(http.MethodPut, "/api/auth/update-role/not-a-uuid", map[string]string{"role": "seller"}, adminToken)
	body := requireError(t, rec, http.StatusBadRequest, "Validation failed")
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "id", body.Errors[0].Field)

	rec = app.do(http.MethodPut, "/api/auth/update-role/"+uuid.NewString(), map[string]string{"role": "seller"}, adminToken)
	requireError(t, rec, http.StatusNotFound, service.MsgUserNotFound)

	rec = app.do(http.MethodPut, "/api/auth/update-role/"+admin.ID.String(), map[string]string{"role": "seller"}, adminToken)
	requireError(t, rec, http.StatusForbidden, service.MsgOwnRoleChange)

	rec = app.do(http.MethodPut, path, map[string]string{"role": "seller"}, adminToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "User role updated to seller", decode[map[string]any](t, rec)["message"])
	assert.Equal(t, model.RoleSeller, app.store.User(customer.ID).Role)
	assert.Contains(t, app.queue.Types(), job.TaskRoleChanged)
}

func TestCategories(t *testing.T) {
	app := newTestApp(t)
	customer := app.store.AddUser("cid", "cid@example.com", "secret123", model.RoleCustomer)
	bearer := app.tokenFor(customer)

	rec := app.do(http.MethodPost, "/api/categories/create", map[string]string{"name": "Books"}, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(http.MethodPost, "/api/categories/create", map[string]string{"name": "Books"}, bearer)
	requireError(t, rec, http.StatusBadRequest, service.MsgCategoryExists)

	app.do(http.MethodPost, "/api/categories/create", map[string]string{"name": "Games"}, bearer)

	rec = app.do(http.MethodGet, "/api/categories", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]model.Category](t, rec)
	require.Len(t, categories, 2)
	assert.Equal(t, "Books", categories[0].Name)
	assert.Equal(t, "Games", categories[1].Name)

	rec = app.do(http.MethodGet, "/api/categories", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProductLifecycle(t *testing.T) {
	app := newTestApp(t)
	admin := app.store.AddUser("root", "root@example.com", "secret123", model.RoleAdmin)
	seller := app.store.AddUser("sam", "sam@example.com", "secret123", model.RoleSeller)
	rival := app.store.AddUser("rob", "rob@example.com", "secret123", model.RoleSeller)
	customer := app.store.AddUser("cid", "cid@example.com", "secret123", model.RoleCustomer)
	books := app.store.AddCategory("Books")

	sellerToken := app.tokenFor(seller)

	rec := app.do(http.MethodPost, "/api/products/store", map[string]any{
		"name": "Go book", "price": "12.50", "categories": []string{books.ID.String()},
	}, app.tokenFor(customer))
	requireError(t, rec, http.StatusForbidden, "Access denied")

	rec = app.do(http.MethodPost, "/api/products/store", map[string]any{
		"name": "Go book", "price": "12.50", "categories": []string{uuid.NewString()},
	}, sellerToken)
	requireError(t, rec, http.StatusBadRequest, service.MsgInvalidCategories)

	rec = app.do(http.MethodPost, "/api/products/store", map[string]any{
		"name": "Go book", "price": -1, "categories": []string{},
	}, sellerToken)
	body := requireError(t, rec, http.StatusBadRequest, "Validation failed")
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "price", body.Errors[0].Field)

	rec = app.do(http.MethodPost, "/api/products/store", map[string]any{
		"name": "Go book", "description": " A guide ", "price": "12.50", "categories": []string{books.ID.String()},
	}, sellerToken)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[model.Product](t, rec)
	assert.Equal(t, seller.ID, product.UserID)
	assert.Equal(t, model.ProductStatusActive, product.Status)
	assert.Equal(t, "A guide", product.Description)
	assert.True(t, product.Price.Equal(decimal.RequireFromString("12.5")))
	assert.Equal(t, []uuid.UUID{books.ID}, product.CategoryIDs)

	updatePath := "/api/products/update/" + product.ID.String()
	deletePath := "/api/products/delete/" + product.ID.String()

	rec = app.do(http.MethodPut, updatePath, map[string]any{"name": "Stolen"}, app.tokenFor(rival))
	requireError(t, rec, http.StatusForbidden, "You can only update your own products")

	rec = app.do(http.MethodPut, updatePath, map[string]any{"status": "Archived"}, sellerToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[handler.ProductUpdatedResponse](t, rec)
	assert.Equal(t, service.MsgProductUpdated, updated.Message)
	assert.Equal(t, model.ProductStatusArchived, updated.Data.Status)
	assert.Equal(t, "Go book", updated.Data.Name)

	rec = app.do(http.MethodPut, "/api/products/update/"+uuid.NewString(), map[string]any{"name": "x"}, sellerToken)
	requireError(t, rec, http.StatusNotFound, service.MsgProductNotFound)

	rec = app.do(http.MethodDelete, deletePath, nil, app.tokenFor(rival))
	requireError(t, rec, http.StatusForbidden, "You can only delete your own products")

	rec = app.do(http.MethodDelete, deletePath, nil, app.tokenFor(admin))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, service.MsgProductDeleted, decode[handler.MessageResponse](t, rec).Message)
	assert.Nil(t, app.store.Product(product.ID))

	rec = app.do(http.MethodDelete, deletePath, nil, app.tokenFor(admin))
	requireError(t, rec, http.StatusNotFound, service.MsgProductNotFound)
}

func TestProductStoreRequestsAreIndependent(t *testing.T) {
	app := newTestApp(t)
	seller := app.store.AddUser("sam", "sam@example.com", "secret123", model.RoleSeller)
	bearer := app.tokenFor(seller)

	rec := app.do(http.MethodPost, "/api/products/store", map[string]any{
		"name": "First", "description": "only here", "price": 1, "status": "Archived", "categories": []string{},
	}, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(http.MethodPost, "/api/products/store", map[string]any{
		"name": "Second", "price": 2, "categories": []string{},
	}, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	second := decode[model.Product](t, rec)
	assert.Empty(t, second.Description)
	assert.Equal(t, model.ProductStatusActive, second.Status)
}

func TestProductIndex(t *testing.T) {
	app := newTestApp(t)
	seller := app.store.AddUser("sam", "sam@example.com", "secret123", model.RoleSeller)
	books := app.store.AddCategory("Books")
	for i := range 15 {
		app.store.AddProduct(seller.ID, fmt.Sprintf("Item %02d", i), fmt.Sprintf("%d.00", i), books.ID)
	}
	app.store.AddProduct(seller.ID, "Special_Widget", "99.00")
	bearer := app.tokenFor(seller)

	rec := app.do(http.MethodGet, "/api/products/index?page=2&limit=10&sort=price&order=asc", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := decode[model.PaginatedResponse[model.PopulatedProduct]](t, rec)
	assert.Equal(t, int64(16), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
	require.Len(t, page.Data, 6)
	assert.Equal(t, "Item 10", page.Data[0].Name)
	require.NotNil(t, page.Data[0].Owner)
	assert.Equal(t, "sam", page.Data[0].Owner.Username)
	assert.Equal(t, []model.CategorySummary{{ID: books.ID, Name: "Books"}}, page.Data[0].Categories)

	rec = app.do(http.MethodGet, "/api/products/index?search=widget", nil, bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[model.PaginatedResponse[model.PopulatedProduct]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Special_Widget", page.Data[0].Name)
	assert.Empty(t, page.Data[0].Categories)

	rec = app.do(http.MethodGet, "/api/products/index?sort=owner", nil, bearer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/products/index?page=abc", nil, bearer)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSystemRoutes(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/status", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "healthy", decode[handler.HealthResponse](t, rec).Status)

	rec = app.do(http.MethodGet, "/api/nope", nil, "")
	requireError(t, rec, http.StatusNotFound, "Route not found")

	rec = app.do(http.MethodGet, "/status", nil, "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestProductAndCategoryFieldValidation(t *testing.T) {
	app := newTestApp(t)
	seller := app.store.AddUser("sam", "sam@example.com", "secret123", model.RoleSeller)
	bearer := app.tokenFor(seller)
	product := app.store.AddProduct(seller.ID, "Lamp", "10.00")

	longName := strings.Repeat("n", 26)
	longDescription := strings.Repeat("d", 256)
	updatePath := "/api/products/update/" + product.ID.String()

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		field  string
	}{
		{"store blank name", http.MethodPost, "/api/products/store", map[string]any{"name": "    ", "price": 5, "categories": []string{}}, "name"},
		{"store long name", http.MethodPost, "/api/products/store", map[string]any{"name": longName, "price": 5, "categories": []string{}}, "name"},
		{"store long description", http.MethodPost, "/api/products/store", map[string]any{"name": "Desk", "description": longDescription, "price": 5, "categories": []string{}}, "description"},
		{"store bad status", http.MethodPost, "/api/products/store", map[string]any{"name": "Desk", "status": "Deleted", "price": 5, "categories": []string{}}, "status"},
		{"update blank name", http.MethodPut, updatePath, map[string]any{"name": "   "}, "name"},
		{"update long name", http.MethodPut, updatePath, map[string]any{"name": longName}, "name"},
		{"update long description", http.MethodPut, updatePath, map[string]any{"description": longDescription}, "description"},
		{"update bad status", http.MethodPut, updatePath, map[string]any{"status": "Sold"}, "status"},
		{"update malformed id", http.MethodPut, "/api/products/update/not-a-uuid", map[string]any{"name": "Desk"}, "id"},
		{"delete malformed id", http.MethodDelete, "/api/products/delete/not-a-uuid", nil, "id"},
		{"category blank name", http.MethodPost, "/api/categories/create", map[string]any{"name": "   "}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(tt.method, tt.path, tt.body, bearer)
			body := requireError(t, rec, http.StatusBadRequest, "Validation failed")
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.field, body.Errors[0].Field)
		})
	}

	stored := app.store.Product(product.ID)
	require.NotNil(t, stored)
	assert.Equal(t, "Lamp", stored.Name)

	rec := app.do(http.MethodPost, "/api/products/store", map[string]any{
		"name": "  Desk  ", "description": "  oak  ", "price": 5, "categories": []string{},
	}, bearer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.Product](t, rec)
	assert.Equal(t, "Desk", created.Name)
	assert.Equal(t, "oak", created.Description)
}
