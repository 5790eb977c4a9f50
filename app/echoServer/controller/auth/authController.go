// app/echoServer/controller/auth/authController.go
package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Rahulstark2/librarymanagement/app/echoServer/validation"
	"github.com/Rahulstark2/librarymanagement/model"
	authsvc "github.com/Rahulstark2/librarymanagement/service/auth"
	"github.com/Rahulstark2/librarymanagement/util/httpx"
)

type Controller struct {
	Svc authsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// Register a new user
// @Summary      Register user
// @Description  Create an account linked to an existing membership number
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any "membership not found"
// @Failure      409  {object}  map[string]any "username already taken"
// @Failure      500  {object}  map[string]any
// @Router       /api/v1/user/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		return httpx.BadBody(c, ct.Log, err)
	}
	if err := validation.Struct(ct.V, req); err != nil {
		return httpx.Error(c, ct.Log, "register", err)
	}

	u, token, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		return httpx.Error(c, ct.Log, "register", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"user":    u,
		"token":   token,
	})
}

// Login
// @Summary      Login
// @Description  Login with username + password, returns JWT
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /api/v1/user/userlogin [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return httpx.BadBody(c, ct.Log, err)
	}
	if err := validation.Struct(ct.V, req); err != nil {
		return httpx.Error(c, ct.Log, "login", err)
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		return httpx.Error(c, ct.Log, "login", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":  "login success",
		"token":    token,
		"username": u.Username,
	})
}

// AdminLogin
// @Summary      Admin login
// @Description  Login with the configured administrator credentials
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Router       /api/v1/admin/adminlogin [post]
func (ct *Controller) AdminLogin(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return httpx.BadBody(c, ct.Log, err)
	}
	if err := validation.Struct(ct.V, req); err != nil {
		return httpx.Error(c, ct.Log, "admin login", err)
	}

	token, err := ct.Svc.AdminLogin(c.Request().Context(), req)
	if err != nil {
		return httpx.Error(c, ct.Log, "admin login", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   token,
	})
}
