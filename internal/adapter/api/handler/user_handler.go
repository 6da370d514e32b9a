package handler

import (
	"github.com/labstack/echo/v4"

	"gamemarket/internal/usecase"
	"gamemarket/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.userUseCase.GetProfile(c.Request().Context(), getUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req struct {
		Username  string `json:"username" validate:"omitempty,min=3"`
		Phone     string `json:"phone"`
		Bio       string `json:"bio" validate:"omitempty,max=500"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.UpdateProfile(c.Request().Context(), getUserID(c), usecase.UpdateProfileInput{
		Username:  req.Username,
		Phone:     req.Phone,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) GetLevelProgress(c echo.Context) error {
	progress, err := h.userUseCase.GetLevelProgress(c.Request().Context(), getUserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, progress)
}

func (h *UserHandler) GetSellerProfile(c echo.Context) error {
	profile, err := h.userUseCase.GetSellerProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, profile)
}
