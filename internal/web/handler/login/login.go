// Package login implements the admin login page.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/config"
	"github.com/appbeacon/appbeacon/internal/db/controller/settings"
	"github.com/appbeacon/appbeacon/internal/web/handler"
	"github.com/appbeacon/appbeacon/internal/web/handler/admin"
	"github.com/appbeacon/appbeacon/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/admin/login"

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}

// Post handles the login form submission. The plaintext password is compared
// against the stored hash and never logged or persisted.
func (s *Service) Post(c *fiber.Ctx) error {
	password := c.FormValue("password")

	st, err := settings.Get(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings for login")
		return s.renderError(c, "Internal server error")
	}

	if password == "" || !st.VerifyPassword(password) {
		return s.renderError(c, "Wrong password")
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")
		return s.renderError(c, "Internal server error")
	}

	adminSession := &session.Data{
		IsAdmin: true,
		LoginAt: c.Context().Time(),
	}

	if err = adminSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")
		return s.renderError(c, "Internal server error")
	}

	// set login cookie
	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect(admin.Path)
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"error": msg,
	})
}
