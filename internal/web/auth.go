package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/appbeacon/appbeacon/internal/web/handler/admin"
	"github.com/appbeacon/appbeacon/internal/web/handler/login"
	"github.com/appbeacon/appbeacon/internal/web/handler/logout"
	"github.com/appbeacon/appbeacon/internal/web/session"
)

// AuthMiddleware gates the admin panel. Only /admin paths are protected;
// the handshake API and static files pass through untouched.
func AuthMiddleware(c *fiber.Ctx) error {
	path := strings.ToLower(c.Path())

	// only /admin and paths below it are gated; /adminfoo is not ours
	if path != admin.Path && !strings.HasPrefix(path, admin.Path+"/") {
		return c.Next()
	}

	var (
		isLoginPage  = strings.HasPrefix(path, login.Path)
		isLogoutPage = strings.HasPrefix(path, logout.Path)
	)

	// check session validity
	sessData := new(session.Data)

	if loginCookie := c.Cookies(session.CookieName); loginCookie != "" {
		_ = sessData.Read(loginCookie)
	}

	// an authenticated admin has no business on the login page
	if sessData.IsAdmin && isLoginPage {
		return c.Redirect(admin.Path)
	}

	if !sessData.IsAdmin && !isLoginPage && !isLogoutPage {
		return c.Redirect(login.Path)
	}

	return c.Next()
}
