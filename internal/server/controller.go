package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/product-service/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/product-service/internal/server/middleware"
	"github.com/nguyentranbao-ct/product-service/internal/usecase"
)

type Controller interface {
	Health(c echo.Context) error
	ListScoped(c echo.Context) error
	GetScoped(c echo.Context) error
	Create(c echo.Context) error
	Update(c echo.Context) error
	Transfer(c echo.Context) error
	SetStatus(c echo.Context) error
	ListGlobal(c echo.Context) error
	GetGlobal(c echo.Context) error
	ListNotifications(c echo.Context) error
}

type controller struct {
	productUsecase      usecase.ProductUsecase
	notificationUsecase usecase.NotificationUsecase
}

func NewController(
	productUsecase usecase.ProductUsecase,
	notificationUsecase usecase.NotificationUsecase,
) Controller {
	return &controller{
		productUsecase:      productUsecase,
		notificationUsecase: notificationUsecase,
	}
}

func (h *controller) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "product-service",
	})
}

type listProductsRequest struct {
	SiteID   string `param:"site_id"`
	Status   string `query:"status" validate:"required"`
	FilterBy string `query:"filter_by"`
	Query    string `query:"query"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Per      int    `query:"per" validate:"omitempty,min=1"`
}

// params applies the declared defaults: page 1, per 20, filter_by mine.
func (r listProductsRequest) params() usecase.ListingParams {
	p := usecase.ListingParams{
		Status:   r.Status,
		FilterBy: r.FilterBy,
		Query:    r.Query,
		Page:     r.Page,
		Per:      r.Per,
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Per < 1 {
		p.Per = 20
	}
	if p.FilterBy == "" {
		p.FilterBy = usecase.FilterByMine
	}
	return p
}

func (h *controller) bindListing(c echo.Context) (listProductsRequest, error) {
	var req listProductsRequest
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	req.Status = strings.TrimSpace(req.Status)
	if err := c.Validate(req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}

func (h *controller) ListScoped(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	req, err := h.bindListing(c)
	if err != nil {
		return err
	}

	page, err := h.productUsecase.ListScoped(c.Request().Context(), caller, req.SiteID, req.params())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *controller) ListGlobal(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	req, err := h.bindListing(c)
	if err != nil {
		return err
	}

	page, err := h.productUsecase.ListGlobal(c.Request().Context(), caller, req.params())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

type getProductRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

func (h *controller) getProduct(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req getProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.productUsecase.Get(c.Request().Context(), caller, req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *controller) GetScoped(c echo.Context) error { return h.getProduct(c) }
func (h *controller) GetGlobal(c echo.Context) error { return h.getProduct(c) }

type createProductRequest struct {
	SiteID      string `param:"site_id"`
	ID          string `json:"id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (h *controller) Create(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := requireNonBlank(req.Name, "name"); err != nil {
		return err
	}
	if err := requireNonBlank(req.Description, "description"); err != nil {
		return err
	}

	product, err := h.productUsecase.CreateOrUpdate(c.Request().Context(), caller, req.SiteID, usecase.CreateProductParams{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	ID          string `param:"id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (h *controller) Update(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := requireNonBlank(req.Name, "name"); err != nil {
		return err
	}
	if err := requireNonBlank(req.Description, "description"); err != nil {
		return err
	}

	product, err := h.productUsecase.Update(c.Request().Context(), caller, req.ID, usecase.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

type transferProductRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Email     string `json:"email" validate:"required,email"`
}

func (h *controller) Transfer(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req transferProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.productUsecase.Transfer(c.Request().Context(), caller, req.ProductID, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

type setStatusRequest struct {
	ID     string `param:"id" validate:"required,uuid"`
	Status string `param:"status" validate:"required,oneof=deleted"`
}

func (h *controller) SetStatus(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.productUsecase.SoftDelete(c.Request().Context(), caller, req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (h *controller) ListNotifications(c echo.Context) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	notifications, err := h.notificationUsecase.ListForCaller(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications)
}

func callerFrom(c echo.Context) (models.Caller, error) {
	caller, ok := pkgmdw.CallerFromContext(c.Request().Context())
	if !ok {
		return models.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthenticated")
	}
	return caller, nil
}

func requireNonBlank(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, field+" must not be blank")
	}
	return nil
}
