package public

import (
	"github.com/atelier-next/internal/http/response"
	"github.com/atelier-next/internal/models"

	"github.com/gin-gonic/gin"
)

// QuoteShipping 按城市与小计试算运费
func (h *Handler) QuoteShipping(c *gin.Context) {
	city := c.Query("city")
	subtotal, err := models.NewMoneyFromString(c.DefaultQuery("subtotal", "0"))
	if err != nil || subtotal.IsNegative() {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	quote, err := h.ShippingService.Quote(c.Request.Context(), city, subtotal)
	if err != nil {
		respondShippingQuoteError(c, err)
		return
	}

	response.Success(c, quote)
}
