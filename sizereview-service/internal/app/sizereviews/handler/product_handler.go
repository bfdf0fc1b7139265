package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/service"
)

// ProductHandler - прокси к Catalog API для страниц товара и поиска
type ProductHandler struct {
	catalogService service.CatalogServiceInterface
}

func NewProductHandler(catalogService service.CatalogServiceInterface) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// GetProduct - GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// SearchProducts - GET /products?q=
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.catalogService.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{Results: products})
}
