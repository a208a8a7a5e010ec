package rest

import (
	"net/http"
	"strconv"

	"kneexEngine/domain"
	"kneexEngine/pkg/logger"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CartHandler struct {
		validate    *validator.Validate
		cartService CartService
	}

	CartService interface {
		AddToCart(product domain.CartLine)
		RemoveFromCart(productID uint64)
		UpdateQuantity(productID uint64, quantity int)
		ClearCart()
		Lines() []domain.CartLine
		Count() int
		Total() float64
	}

	AddToCartInput struct {
		ProductID   uint64  `json:"product_id" validate:"required"`
		ProductName string  `json:"product_name" validate:"required"`
		Price       float64 `json:"price" validate:"gte=0"`
		ImageURL    string  `json:"image_url"`
	}

	UpdateQuantityInput struct {
		Quantity int `json:"quantity" validate:"gte=0"`
	}
)

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{
		validate:    validator.New(),
		cartService: cartService,
	}
}

// GetCart returns the in-memory cart with its derived count and total.
func (h *CartHandler) GetCart(c echo.Context) error {
	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.cartBody()))
}

// AddItem applies the optimistic add and answers with the updated cart
// immediately; the realm mirror runs in the background.
func (h *CartHandler) AddItem(c echo.Context) error {
	var request AddToCartInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate add to cart request", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	h.cartService.AddToCart(domain.CartLine{
		ProductID:   request.ProductID,
		ProductName: request.ProductName,
		Price:       request.Price,
		ImageURL:    request.ImageURL,
	})

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(h.cartBody()))
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var request UpdateQuantityInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate quantity update", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	// quantity zero removes the line
	h.cartService.UpdateQuantity(productID, request.Quantity)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.cartBody()))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		logger.Error("Invalid product id", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	h.cartService.RemoveFromCart(productID)

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.cartBody()))
}

func (h *CartHandler) Clear(c echo.Context) error {
	h.cartService.ClearCart()

	return c.JSON(http.StatusOK, fres.Response.StatusOK(h.cartBody()))
}

func (h *CartHandler) cartBody() map[string]interface{} {
	return map[string]interface{}{
		"lines": h.cartService.Lines(),
		"count": h.cartService.Count(),
		"total": h.cartService.Total(),
	}
}
