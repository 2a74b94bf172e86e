package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
)

// ProductHandler handles HTTP requests for catalog products.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     TokenAuth
// @Success      200  {array}   domain.Product
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	if products == nil {
		products = []*domain.Product{}
	}
	return c.JSON(http.StatusOK, products)
}

// Get handles GET /products/:id.
//
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  domain.Product
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	p, err := h.service.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Create handles POST /products. Requires the ADMIN role.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        Idempotency-Key  header    string          false  "Replays the original product when repeated"
// @Param        body             body      productRequest  true   "Product fields"
// @Success      201              {object}  domain.Product
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	username, err := actor(c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateProduct(c.Request().Context(), ports.CreateProductInput{
		ProductInput:   req.toInput(),
		Actor:          username,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if result.Replayed {
		c.Response().Header().Set(headerIdempotentReplayed, "true")
	}
	return c.JSON(http.StatusCreated, result.Product)
}

// Update handles PUT /products/:id. Requires the ADMIN role.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product fields"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	username, err := actor(c)
	if err != nil {
		return err
	}

	if _, err := h.service.UpdateProduct(c.Request().Context(), c.Param("id"), username, req.toInput()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product updated successfully"})
}

// Delete handles DELETE /products/:id. Requires the ADMIN role.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     TokenAuth
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	username, err := actor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.Request().Context(), c.Param("id"), username); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Product deleted successfully"})
}

func (r productRequest) toInput() ports.ProductInput {
	return ports.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
	}
}
