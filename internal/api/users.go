package api

import (
	"strings"

	"github.com/labstack/echo/v4"

	"medifinder/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	req := service.RegisterRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	user, err := h.userService.Register(ctx, req)
	if err != nil {
		return errJSON(c, err)
	}

	return c.JSON(201, user)
}

func (h *UserHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	req := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	token, user, err := h.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return errJSON(c, err)
	}

	return c.JSON(200, map[string]any{
		"token": token,
		"user":  user,
	})
}

// Validate confirms a session is still good and returns the caller's
// identity. Frontend uses it on page load. Unlike the JWT middleware it
// also checks the token against the stored session.
func (h *UserHandler) Validate(c echo.Context) error {
	raw := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	uc, err := h.userService.ValidateToken(c.Request().Context(), raw)
	if err != nil {
		return errJSON(c, err)
	}
	return c.JSON(200, map[string]any{
		"userId":     uc.UserID,
		"name":       uc.Name,
		"email":      uc.Email,
		"phone":      uc.Phone,
		"role":       uc.Role,
		"pharmacyId": uc.PharmacyID,
	})
}
