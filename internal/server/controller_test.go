package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentranbao-ct/product-service/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/product-service/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-service/internal/usecase"
)

const (
	testSecret    = "test-secret"
	testProductID = "2b1f8a34-9a51-4a0e-9a6f-0c2f6f1f2a10"
)

type fakeProductUsecase struct {
	lastCaller models.Caller
	lastSiteID string
	lastParams usecase.ListingParams
	calls      int
	product    *models.Product
	transfer   *models.TransferResult
	err        error
}

func (f *fakeProductUsecase) ListScoped(ctx context.Context, caller models.Caller, siteID string, params usecase.ListingParams) (*models.ProductPage, error) {
	f.calls++
	f.lastCaller = caller
	f.lastSiteID = siteID
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &models.ProductPage{Entities: []models.Product{}, Page: params.Page}, nil
}

func (f *fakeProductUsecase) ListGlobal(ctx context.Context, caller models.Caller, params usecase.ListingParams) (*models.ProductPage, error) {
	f.calls++
	f.lastCaller = caller
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &models.ProductPage{Entities: []models.Product{}, Page: params.Page}, nil
}

func (f *fakeProductUsecase) Get(ctx context.Context, caller models.Caller, id string) (*models.Product, error) {
	f.calls++
	f.lastCaller = caller
	return f.product, f.err
}

func (f *fakeProductUsecase) CreateOrUpdate(ctx context.Context, caller models.Caller, siteID string, params usecase.CreateProductParams) (*models.Product, error) {
	f.calls++
	f.lastCaller = caller
	f.lastSiteID = siteID
	return f.product, f.err
}

func (f *fakeProductUsecase) Update(ctx context.Context, caller models.Caller, id string, params usecase.UpdateProductParams) (*models.Product, error) {
	f.calls++
	return f.product, f.err
}

func (f *fakeProductUsecase) SoftDelete(ctx context.Context, caller models.Caller, id string) (*models.Product, error) {
	f.calls++
	return f.product, f.err
}

func (f *fakeProductUsecase) Transfer(ctx context.Context, caller models.Caller, productID, email string) (*models.TransferResult, error) {
	f.calls++
	return f.transfer, f.err
}

type fakeNotificationUsecase struct{}

func (f *fakeNotificationUsecase) ListForCaller(ctx context.Context, caller models.Caller) ([]*models.Notification, error) {
	return []*models.Notification{}, nil
}

func newTestServer(products *fakeProductUsecase) *echo.Echo {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = errorHandler()

	handler := NewController(products, &fakeNotificationUsecase{})

	e.GET("/health", handler.Health)

	api := e.Group("", pkgmdw.JWTAuth(testSecret))
	api.GET("/products", handler.ListGlobal)
	api.GET("/products/:id", handler.GetGlobal)
	api.GET("/notifications", handler.ListNotifications)

	sites := api.Group("/sites/:site_id")
	sites.GET("/products", handler.ListScoped)
	sites.GET("/products/:id", handler.GetScoped)
	sites.POST("/products", handler.Create)
	sites.PUT("/products/:id", handler.Update)
	sites.PUT("/transfer_product", handler.Transfer)
	sites.POST("/products/:id/:status", handler.SetStatus)

	return e
}

func signToken(t *testing.T, userID, clientID string) string {
	t.Helper()
	claims := pkgmdw.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		ClientID: clientID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthNeedsNoToken(t *testing.T) {
	e := newTestServer(&fakeProductUsecase{})
	rec := doRequest(t, e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejections(t *testing.T) {
	products := &fakeProductUsecase{}
	e := newTestServer(products)

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/products?status=active", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, e, http.MethodGet, "/products?status=active", "not-a-jwt", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "u1"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
		require.NoError(t, err)
		rec := doRequest(t, e, http.MethodGet, "/products?status=active", token, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	assert.Zero(t, products.calls)
}

func TestListScopedDefaults(t *testing.T) {
	products := &fakeProductUsecase{}
	e := newTestServer(products)
	token := signToken(t, "u1", "c1")

	rec := doRequest(t, e, http.MethodGet, "/sites/s1/products?status=active", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, models.Caller{UserID: "u1", ClientID: "c1"}, products.lastCaller)
	assert.Equal(t, "s1", products.lastSiteID)
	assert.Equal(t, usecase.ListingParams{
		Status:   "active",
		FilterBy: usecase.FilterByMine,
		Page:     1,
		Per:      20,
	}, products.lastParams)
}

func TestListRequiresStatus(t *testing.T) {
	products := &fakeProductUsecase{}
	e := newTestServer(products)
	token := signToken(t, "u1", "")

	rec := doRequest(t, e, http.MethodGet, "/sites/s1/products", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, products.calls)

	rec = doRequest(t, e, http.MethodGet, "/sites/s1/products?status=%20%20", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "blank status is rejected after trimming")
	assert.Zero(t, products.calls)
}

func TestListPassesExplicitParams(t *testing.T) {
	products := &fakeProductUsecase{}
	e := newTestServer(products)
	token := signToken(t, "u1", "")

	rec := doRequest(t, e, http.MethodGet,
		"/products?status=deleted&filter_by=others&query=ladder&page=4&per=7", token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, usecase.ListingParams{
		Status:   "deleted",
		FilterBy: usecase.FilterByOthers,
		Query:    "ladder",
		Page:     4,
		Per:      7,
	}, products.lastParams)
}

func TestGetRejectsMalformedID(t *testing.T) {
	products := &fakeProductUsecase{}
	e := newTestServer(products)
	token := signToken(t, "u1", "")

	rec := doRequest(t, e, http.MethodGet, "/products/not-a-uuid", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, products.calls)
}

func TestCreateValidation(t *testing.T) {
	products := &fakeProductUsecase{product: &models.Product{ID: testProductID}}
	e := newTestServer(products)
	token := signToken(t, "u1", "")

	t.Run("blank name", func(t *testing.T) {
		body := `{"id":"` + testProductID + `","name":"   ","description":"d"}`
		rec := doRequest(t, e, http.MethodPost, "/sites/s1/products", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, products.calls)
	})

	t.Run("missing description", func(t *testing.T) {
		body := `{"id":"` + testProductID + `","name":"Ladder"}`
		rec := doRequest(t, e, http.MethodPost, "/sites/s1/products", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, products.calls)
	})

	t.Run("valid body", func(t *testing.T) {
		body := `{"id":"` + testProductID + `","name":"Ladder","description":"Aluminium"}`
		rec := doRequest(t, e, http.MethodPost, "/sites/s1/products", token, body)
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "s1", products.lastSiteID)
	})
}

func TestTransferValidation(t *testing.T) {
	products := &fakeProductUsecase{transfer: &models.TransferResult{Status: true, User: "Bob"}}
	e := newTestServer(products)
	token := signToken(t, "u1", "")

	t.Run("invalid email", func(t *testing.T) {
		body := `{"product_id":"` + testProductID + `","email":"not-an-email"}`
		rec := doRequest(t, e, http.MethodPut, "/sites/s1/transfer_product", token, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, products.calls)
	})

	t.Run("valid request", func(t *testing.T) {
		body := `{"product_id":"` + testProductID + `","email":"bob@example.com"}`
		rec := doRequest(t, e, http.MethodPut, "/sites/s1/transfer_product", token, body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":true`)
	})
}

func TestSetStatusOnlyAcceptsDeleted(t *testing.T) {
	products := &fakeProductUsecase{product: &models.Product{ID: testProductID, Status: models.ProductStatusDeleted}}
	e := newTestServer(products)
	token := signToken(t, "u1", "")

	rec := doRequest(t, e, http.MethodPost, "/sites/s1/products/"+testProductID+"/archived", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, products.calls)

	rec = doRequest(t, e, http.MethodPost, "/sites/s1/products/"+testProductID+"/deleted", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, products.calls)
}

func TestSentinelErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", models.ErrNotFound, http.StatusNotFound},
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"conflict", models.ErrConflict, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := &fakeProductUsecase{err: tt.err}
			e := newTestServer(products)
			token := signToken(t, "u1", "")
			rec := doRequest(t, e, http.MethodGet, "/products/"+testProductID, token, "")
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
