package handler

import (
	"net/http"

	"taxreturn/internal/middleware"
	"taxreturn/internal/model"
	"taxreturn/internal/service"
	"taxreturn/pkg/pagination"
	"taxreturn/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/api/filings/:id/reviews", middleware.RequireRole(middleware.AnyRole...), h.RequestReview)

	reviews := router.Group("/api/reviews")
	reviews.Use(middleware.RequireRole(model.RoleAccountant, model.RoleAdmin))
	{
		reviews.GET("", h.ListReviews)
		reviews.POST("/:id/approve", h.ApproveReview)
		reviews.POST("/:id/reject", h.RejectReview)
	}
}

// RequestReview hands a filing over to an accountant
// @Summary      Request a review
// @Description  Freezes the handoff summary of the filing and queues it for an accountant.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true   "Filing ID"
// @Param        payload  body      service.RequestReviewRequest  false  "Note for the reviewer"
// @Success      201      {object}  response.Response{data=service.ReviewResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/filings/{id}/reviews [post]
func (h *ReviewHandler) RequestReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req service.RequestReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}

	review, err := h.reviewService.RequestReview(c.Request.Context(), a, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, review))
}

// ListReviews returns reviews, optionally filtered by status
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "PENDING, APPROVED or REJECTED"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20)"
// @Success      200     {object}  response.Response{data=response.Page{items=[]service.ReviewResponse}}
// @Router       /api/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	p := pagination.Parse(c)

	reviews, total, err := h.reviewService.ListReviews(c.Request.Context(), service.ReviewFilter{
		Status: c.Query("status"),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paged(http.StatusOK, reviews, total, p.Page, p.Limit))
}

// ApproveReview approves a pending review
// @Summary      Approve a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                        true   "Review ID"
// @Param        payload  body      service.ApproveReviewRequest  false  "Reviewer comment"
// @Success      200      {object}  response.Response{data=service.ReviewResponse}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/reviews/{id}/approve [post]
func (h *ReviewHandler) ApproveReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req service.ApproveReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Allow empty body: the comment is optional
		req.Comment = ""
	}

	review, err := h.reviewService.ApproveReview(c.Request.Context(), a, c.Param("id"), req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, review))
}

// RejectReview rejects a pending review
// @Summary      Reject a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Review ID"
// @Param        payload  body      service.RejectReviewRequest  true  "Rejection reason"
// @Success      200      {object}  response.Response{data=service.ReviewResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/reviews/{id}/reject [post]
func (h *ReviewHandler) RejectReview(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var req service.RejectReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "A rejection reason is required"))
		return
	}

	review, err := h.reviewService.RejectReview(c.Request.Context(), a, c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, review))
}
