package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcart "github.com/sickfits/backend/internal/application/cart"
	"github.com/sickfits/backend/internal/interfaces/http/middleware"
)

// AddToCartRequest is the body of POST /cart/items
type AddToCartRequest struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
}

// CartHandler handles the caller's cart
type CartHandler struct {
	BaseHandler
	cartService *appcart.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *appcart.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart returns the cart with its total
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.GetCart(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddToCart adds one unit of an item, merging into an existing line
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if !h.bindJSON(c, &req) {
		return
	}

	line, err := h.cartService.AddToCart(c.Request.Context(), middleware.GetActor(c), uuid.MustParse(req.ItemID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}

// RemoveFromCart deletes one of the caller's cart lines
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	line, err := h.cartService.RemoveFromCart(c.Request.Context(), middleware.GetActor(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, line)
}
