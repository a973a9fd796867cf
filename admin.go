package folio

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

type loginInput struct {
	Password string `json:"password"`
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, apiError{Message: "登录尝试过于频繁，请稍后再试"})
	}
	var in loginInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, apiError{Message: "请求体无效", Error: err.Error()})
	}
	if a.Config.AdminPassword == "" ||
		subtle.ConstantTimeCompare([]byte(in.Password), []byte(a.Config.AdminPassword)) != 1 {
		return c.JSON(http.StatusUnauthorized, apiError{Message: "密码错误"})
	}
	if err := setAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}

func (a *App) handleAdminSession(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"authenticated": IsAdmin(c)})
}

// requireAdmin guards mutating routes. When no admin password is
// configured the guard is disabled, which keeps local single-user
// setups working without a login step.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if a.Config.AdminPassword == "" || IsAdmin(c) {
			return next(c)
		}
		return c.JSON(http.StatusUnauthorized, apiError{Message: "需要登录"})
	}
}
