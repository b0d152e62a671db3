// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/services"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type CartHandler struct {
	cartService *services.CartService
}

func NewCartHandler(cartService *services.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), utils.GetSessionIDFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, cartPayload(cart))
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.Add(c.Request.Context(), utils.GetSessionIDFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := cartPayload(cart)
	payload["message"] = i18n.T(lang, i18n.KeyCartUpdated)
	utils.SuccessResponse(c, payload)
}

// PATCH /cart/items
func (h *CartHandler) AdjustItem(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.AdjustCartRequest
	if !bindJSON(c, &req) {
		return
	}

	cart, err := h.cartService.Adjust(c.Request.Context(), utils.GetSessionIDFromContext(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	payload := cartPayload(cart)
	payload["message"] = i18n.T(lang, i18n.KeyCartUpdated)
	utils.SuccessResponse(c, payload)
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	if err := h.cartService.Clear(c.Request.Context(), utils.GetSessionIDFromContext(c)); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCartCleared),
	})
}

func cartPayload(cart *models.Cart) gin.H {
	return gin.H{
		"items": cart.Items,
		"total": cart.Items.Total(),
		"units": cart.Items.Units(),
	}
}
