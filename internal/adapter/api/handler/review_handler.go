package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
	"gamemarket/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

func (h *ReviewHandler) Create(c echo.Context) error {
	var req struct {
		OrderID string `json:"order_id" validate:"required"`
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment" validate:"omitempty,max=1000"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	review, err := h.reviewUseCase.Create(c.Request().Context(), getUserID(c), usecase.CreateReviewInput{
		OrderID: req.OrderID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, review)
}

func (h *ReviewHandler) ListBySeller(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewUseCase.ListBySeller(c.Request().Context(), c.Param("id"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, reviews, total, pagination.Page, pagination.PageSize)
}
