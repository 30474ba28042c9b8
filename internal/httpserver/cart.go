package httpserver

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cartbridge/internal/chatwoot"
	"cartbridge/internal/domain"
	cartsvc "cartbridge/internal/service/cart"
)

type addItemRequest struct {
	ProductVariantID int64 `json:"product_variant_id"`
	Qty              int   `json:"qty"`
	// ConversationID links the add to a chat conversation for best-effort
	// garment-type labeling; zero means no conversation.
	ConversationID int64 `json:"conversation_id,omitempty"`
}

type updateItemRequest struct {
	Qty int `json:"qty"`
}

func createCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Create(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "cart created successfully", "data": cart})
	}
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := domain.ParseCartRef(c.Param("cartID"))
		if err != nil {
			respondError(c, err)
			return
		}
		detail, err := svc.Get(c.Request.Context(), ref)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": detail})
	}
}

func addCartItemHandler(svc CartService, relay Relay, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := domain.ParseCartRef(c.Param("cartID"))
		if err != nil {
			respondError(c, err)
			return
		}

		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := svc.AddItem(c.Request.Context(), ref, cartsvc.AddItemInput{
			ProductVariantID: req.ProductVariantID,
			Qty:              req.Qty,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		labelConversation(relay, logger, req.ConversationID, result.GarmentTypeName)

		if result.Created {
			c.JSON(http.StatusCreated, gin.H{"message": "product added to cart successfully", "data": result.Item})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cart item quantity updated", "data": result.Item})
	}
}

func updateCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, itemID, ok := cartItemParams(c)
		if !ok {
			return
		}

		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		item, err := svc.UpdateItem(c.Request.Context(), ref, itemID, req.Qty)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "quantity updated successfully", "data": item})
	}
}

func removeCartItemHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, itemID, ok := cartItemParams(c)
		if !ok {
			return
		}

		if err := svc.RemoveItem(c.Request.Context(), ref, itemID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "product removed from cart successfully"})
	}
}

func cartItemParams(c *gin.Context) (domain.CartRef, int64, bool) {
	ref, err := domain.ParseCartRef(c.Param("cartID"))
	if err != nil {
		respondError(c, err)
		return domain.CartRef{}, 0, false
	}
	itemID, err := strconv.ParseInt(c.Param("itemID"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return domain.CartRef{}, 0, false
	}
	return ref, itemID, true
}

// labelConversation attaches the normalized garment-type label to the chat
// conversation as a detached task. Failures are logged and never fail the
// cart mutation that triggered them.
func labelConversation(relay Relay, logger *log.Logger, conversationID int64, garmentType string) {
	if relay == nil || !relay.Configured() || conversationID == 0 {
		return
	}
	label := chatwoot.NormalizeLabel(garmentType)
	if label == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := relay.AddLabels(ctx, conversationID, []string{label}); err != nil {
			logger.Printf("label conversation %d with %q: %v", conversationID, label, err)
		}
	}()
}
