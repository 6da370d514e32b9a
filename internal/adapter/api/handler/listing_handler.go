package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
	"gamemarket/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type listingRequest struct {
	Game        string                 `json:"game" validate:"required"`
	Title       string                 `json:"title" validate:"required,min=5"`
	Description string                 `json:"description" validate:"required,min=20"`
	Price       float64                `json:"price" validate:"required,gt=0"`
	Images      []entity.ListingImage  `json:"images"`
	Attributes  map[string]interface{} `json:"attributes"`
}

func (h *ListingHandler) Create(c echo.Context) error {
	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Create(c.Request().Context(), getUserID(c), usecase.CreateListingInput{
		Game:        req.Game,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, listing)
}

func (h *ListingHandler) Update(c echo.Context) error {
	var req struct {
		Title       string                 `json:"title" validate:"omitempty,min=5"`
		Description string                 `json:"description" validate:"omitempty,min=20"`
		Price       float64                `json:"price" validate:"omitempty,gt=0"`
		Images      []entity.ListingImage  `json:"images"`
		Attributes  map[string]interface{} `json:"attributes"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.Update(c.Request().Context(), getUserID(c), c.Param("id"), usecase.UpdateListingInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Images:      req.Images,
		Attributes:  req.Attributes,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) Delete(c echo.Context) error {
	if err := h.listingUseCase.Remove(c.Request().Context(), getUserID(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"message": "Listing removed",
	})
}

func (h *ListingHandler) GetByID(c echo.Context) error {
	listing, err := h.listingUseCase.GetByID(c.Request().Context(), c.Param("id"), true)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, listing)
}

func (h *ListingHandler) Browse(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	minPrice, _ := strconv.ParseFloat(c.QueryParam("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(c.QueryParam("max_price"), 64)

	filter := repository.ListingFilter{
		Game:     c.QueryParam("game"),
		Query:    c.QueryParam("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
	}

	listings, total, err := h.listingUseCase.Browse(c.Request().Context(), filter, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}

func (h *ListingHandler) ListMine(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListBySeller(c.Request().Context(), getUserID(c), c.QueryParam("status"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Paginated(c, listings, total, pagination.Page, pagination.PageSize)
}
