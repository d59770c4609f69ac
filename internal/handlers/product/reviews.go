package product

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tstore_backend/internal/httpx"
	"tstore_backend/internal/middleware"
	"tstore_backend/internal/repository"
	"tstore_backend/internal/review"
)

// AddReview upserts the logged-in user's review on a product and persists
// the recomputed aggregate rating.
func (h *Handler) AddReview(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId" binding:"required"`
		Rating    int    `json:"rating" binding:"required,min=1,max=5"`
		Comment   string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Error(c, httpx.BadRequest("productId and a rating between 1 and 5 are required"))
		return
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		httpx.Error(c, httpx.BadRequest("invalid product id"))
		return
	}

	ctx := c.Request.Context()
	product, err := h.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		httpx.Error(c, httpx.NotFound("product not found"))
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}

	user := middleware.CurrentUser(c)
	review.Upsert(product, user.ID, user.Name, req.Rating, req.Comment)

	if err := h.products.Save(ctx, product); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{})
}

// DeleteReview removes the logged-in user's review, if any.
func (h *Handler) DeleteReview(c *gin.Context) {
	productID, err := primitive.ObjectIDFromHex(c.Query("productId"))
	if err != nil {
		httpx.Error(c, httpx.BadRequest("invalid product id"))
		return
	}

	ctx := c.Request.Context()
	product, err := h.products.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		httpx.Error(c, httpx.NotFound("product not found"))
		return
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}

	review.Remove(product, middleware.CurrentUser(c).ID)

	if err := h.products.Save(ctx, product); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.JSON(c, http.StatusOK, gin.H{})
}
