package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/giovassz/inventario/internal/adapters/http/handlers"
	"github.com/giovassz/inventario/internal/core/domain"
	"github.com/giovassz/inventario/internal/core/dto"
	"github.com/giovassz/inventario/internal/core/service"
	"github.com/giovassz/inventario/internal/core/serviceerrors"
)

type ProductController struct {
	productService *service.ProductService
}

type ProductResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
	Image     string    `json:"image,omitempty"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:        string(product.ID),
		Name:      product.Name,
		Quantity:  product.Quantity,
		Price:     product.Price,
		Image:     product.Image,
		Notes:     product.Notes,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// CreateProduct godoc
// @Summary     Create a product
// @Description Creates a new inventory product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       request body     dto.CreateProductRequest true "Product data"
// @Success     201     {object} ProductResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Failure     500     {object} handlers.ErrorResponse
// @Router      /api/products [post]
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var request dto.CreateProductRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	product, err := pc.productService.CreateProduct(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewProductResponse(product))
}

// ListProducts godoc
// @Summary     List all products
// @Description Returns all products, most recently created first
// @Tags        products
// @Produce     json
// @Success     200 {array} ProductResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/products [get]
func (pc *ProductController) ListProducts(c *gin.Context) {
	products, err := pc.productService.ListProducts(c.Request.Context())
	if err != nil {
		handlers.HandleError(c, err)
		return
	}

	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = NewProductResponse(product)
	}

	c.JSON(http.StatusOK, response)
}

// DeleteProduct godoc
// @Summary     Delete a product
// @Description Removes a product by id; deleting an absent id still succeeds
// @Tags        products
// @Produce     json
// @Param       id  path     string true "Product ID"
// @Success     200 {object} MessageResponse
// @Failure     400 {object} handlers.ErrorResponse
// @Failure     500 {object} handlers.ErrorResponse
// @Router      /api/products/{id} [delete]
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if !domain.ValidateID(id) {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError("Invalid product ID"))
		return
	}
	if err := pc.productService.DeleteProduct(c.Request.Context(), domain.ID(id)); err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "product deleted"})
}
