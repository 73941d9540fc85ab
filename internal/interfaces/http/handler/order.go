package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apporder "github.com/sickfits/backend/internal/application/order"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/interfaces/http/dto"
	"github.com/sickfits/backend/internal/interfaces/http/middleware"
)

// CheckoutRequest is the body of POST /checkout
type CheckoutRequest struct {
	Token string `json:"token" binding:"required"`
}

// OrderHandler handles checkout and order history
type OrderHandler struct {
	BaseHandler
	checkoutService *apporder.CheckoutService
	orderService    *apporder.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(checkoutService *apporder.CheckoutService, orderService *apporder.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// Checkout charges the cart and places an order.
//
// A fresh order is 201 and a replayed one is 200. When the order was placed
// but the cart could not be cleared the response is still 201, with
// cart_clear_pending set, because the customer has been charged.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), middleware.GetActor(c), apporder.CheckoutInput{
		PaymentToken: req.Token,
		AttemptKey:   c.GetHeader(middleware.IdempotencyKeyHeader),
	})
	switch {
	case err != nil && result != nil && errors.Is(err, shared.ErrInconsistent):
		_ = c.Error(err)
		c.JSON(http.StatusCreated, dto.NewSuccessResponse(result))
	case err != nil:
		h.HandleError(c, err)
	case result.Replayed:
		h.Success(c, result)
	default:
		h.Created(c, result)
	}
}

// ListOrders lists the caller's orders newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	page, err := h.orderService.ListOrders(c.Request.Context(), middleware.GetActor(c), req.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// GetOrder returns one order to its owner or an admin
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.orderService.GetOrder(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// RetryCartClear removes an order's purchased lines from the cart after a
// checkout reported cart_clear_pending
func (h *OrderHandler) RetryCartClear(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	result, err := h.orderService.RetryCartClear(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
