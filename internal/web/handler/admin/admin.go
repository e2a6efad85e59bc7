// Package admin implements the password-gated admin dashboard: settings
// edits, password changes and notification broadcasts. Authentication is
// enforced by the web auth middleware before any of these handlers run.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/config"
	"github.com/appbeacon/appbeacon/internal/db/controller/device"
	"github.com/appbeacon/appbeacon/internal/db/controller/settings"
	"github.com/appbeacon/appbeacon/internal/web/handler"
)

const (
	// Path is the path to the admin dashboard.
	Path = "/admin"

	// TemplateName is the name of the dashboard template.
	TemplateName = "admin/dashboard"

	broadcastTimeout = 120 * time.Second
)

// Broadcaster sends a notification to all registered devices.
// Satisfied by push.Dispatcher.
type Broadcaster interface {
	Broadcast(ctx context.Context, title, body string) (int, error)
}

// Service is the admin dashboard handler service.
type Service struct {
	handler.Service
	cfg        *config.Config
	db         *gorm.DB
	dispatcher Broadcaster
}

// Handler is the admin dashboard handler.
var Handler = Service{}

// Init initializes the admin dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, dispatcher Broadcaster) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.dispatcher = dispatcher

	app.Get(Path, s.Get)
	app.Post(Path+"/settings", s.SaveSettings)
	app.Post(Path+"/notify", s.Notify)
	app.Post(Path+"/password", s.ChangePassword)
}

// Get renders the dashboard with the current settings and flash messages.
func (s *Service) Get(c *fiber.Ctx) error {
	st, err := settings.Get(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings for dashboard")
		return err
	}

	deviceCount, err := device.Count(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to count devices for dashboard")
		return err
	}

	flash, flashError := flashMessages(c)

	return c.Render(TemplateName, fiber.Map{
		"Title":       s.cfg.Title,
		"Settings":    st,
		"DeviceCount": deviceCount,
		"Flash":       flash,
		"FlashError":  flashError,
	}, handler.BaseLayout)
}

// SaveSettings applies the settings form and redirects back to the dashboard.
func (s *Service) SaveSettings(c *fiber.Ctx) error {
	fields := settings.UpdateFields{
		AppText:           c.FormValue("app_text"),
		V2rayConfigs:      c.FormValue("v2ray_configs"),
		DeprecatedVersion: c.FormValue("deprecated_version"),
		ForceUpdate:       c.FormValue("force_update") != "",
	}

	if _, err := settings.Update(s.db, fields); err != nil {
		log.Error().Err(err).Msg("failed to save settings")
		return c.Redirect(Path + "?flash=save_failed")
	}

	return c.Redirect(Path + "?flash=settings_saved")
}

// Notify broadcasts a notification to all registered devices.
func (s *Service) Notify(c *fiber.Ctx) error {
	title := c.FormValue("notif_title")
	body := c.FormValue("notif_body")

	if title == "" || body == "" {
		return c.Redirect(Path + "?flash=notify_missing")
	}

	ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
	defer cancel()

	count, err := s.dispatcher.Broadcast(ctx, title, body)
	if err != nil {
		log.Error().Err(err).Msg("notification broadcast failed")
		return c.Redirect(Path + "?flash=notify_failed")
	}

	return c.Redirect(fmt.Sprintf("%s?flash=notify_sent&count=%d", Path, count))
}

// ChangePassword replaces the shared admin password.
func (s *Service) ChangePassword(c *fiber.Ctx) error {
	password := c.FormValue("password")
	confirm := c.FormValue("password_confirm")

	if password == "" || password != confirm {
		return c.Redirect(Path + "?flash=password_mismatch")
	}

	if err := settings.SetAdminPassword(s.db, password); err != nil {
		log.Error().Err(err).Msg("failed to change admin password")
		return c.Redirect(Path + "?flash=password_failed")
	}

	return c.Redirect(Path + "?flash=password_changed")
}

// flashMessages maps the post-redirect flash code to user-visible messages.
func flashMessages(c *fiber.Ctx) (flash, flashError string) {
	switch c.Query("flash") {
	case "settings_saved":
		flash = "Settings saved successfully."
	case "save_failed":
		flashError = "Failed to save settings."
	case "notify_missing":
		flashError = "Notification title and body are required."
	case "notify_failed":
		flashError = "Failed to send the notification. Check the server logs."
	case "notify_sent":
		flash = fmt.Sprintf("Notification sent to %d devices.", c.QueryInt("count", 0))
	case "password_mismatch":
		flashError = "Passwords are empty or do not match."
	case "password_failed":
		flashError = "Failed to change the admin password."
	case "password_changed":
		flash = "Admin password changed."
	}

	return flash, flashError
}
