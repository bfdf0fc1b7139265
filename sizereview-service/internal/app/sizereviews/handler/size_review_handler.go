package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"codeitmall/sizereview-service/internal/app/sizereviews/entity"
	"codeitmall/sizereview-service/internal/app/sizereviews/service"
)

const (
	defaultFeedLimit = 50
	maxFeedLimit     = 500
)

type SizeReviewHandler struct {
	feedService service.SizeReviewServiceInterface
}

func NewSizeReviewHandler(feedService service.SizeReviewServiceInterface) *SizeReviewHandler {
	return &SizeReviewHandler{feedService: feedService}
}

// CreateSizeReview - POST /size_reviews
// Ответ 201 содержит поля созданного отзыва и пересчитанный агрегат
func (h *SizeReviewHandler) CreateSizeReview(c *gin.Context) {
	var req entity.CreateSizeReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	result, err := h.feedService.Submit(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, entity.SizeReviewResponse{
		SizeReview: *result.Review,
		Aggregate:  result.Aggregate,
	})
}

// GetSizeReviews - GET /size_reviews?product_id=&limit=&height=&sex=
func (h *SizeReviewHandler) GetSizeReviews(c *gin.Context) {
	productID := c.Query("product_id")
	if productID == "" {
		productID = c.Query("productId")
	}
	if strings.TrimSpace(productID) == "" {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "product_id is required"})
		return
	}

	limit, ok := queryInt(c, "limit", defaultFeedLimit)
	if !ok {
		return
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	height, ok := queryInt(c, "height", 0)
	if !ok {
		return
	}

	feed, err := h.feedService.GetFeed(c.Request.Context(), service.FeedQuery{
		ProductID: productID,
		Limit:     limit,
		Height:    height,
		Sex:       entity.Sex(strings.ToLower(c.Query("sex"))),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, feed)
}

// queryInt читает целый query параметр; при ошибке пишет 400 и возвращает false
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: name + " must be a non-negative integer"})
		return 0, false
	}
	return value, true
}
