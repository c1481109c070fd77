package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

type ProductSearcher interface {
	Search(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
}

type ProductHandler struct {
	repo ProductSearcher
}

func NewProductHandler(repo ProductSearcher) *ProductHandler {
	return &ProductHandler{repo: repo}
}

// ListProducts searches products by name
func (h *ProductHandler) ListProducts(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit := models.Clamp(
		models.ParseInt(c.Query("limit"), models.DefaultProductLimit),
		1, models.MaxProductLimit,
	)

	products, err := h.repo.Search(c.Request.Context(), models.ProductQuery{Q: q, Limit: limit})
	if err != nil {
		writeError(c, "list products", err)
		return
	}

	c.JSON(http.StatusOK, models.ProductsResponse{Items: products, Q: q, Limit: limit})
}
