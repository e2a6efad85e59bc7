// Package handshake implements the device-facing check-in endpoint.
//
// A handshake registers (or refreshes) the calling device and returns the
// current app settings together with an update-needed flag. The endpoint is
// deliberately unauthenticated: the device id is an opaque client-supplied
// string and impersonating one only refreshes that device's registration.
package handshake

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/appbeacon/appbeacon/internal/config"
	"github.com/appbeacon/appbeacon/internal/db/controller/device"
	"github.com/appbeacon/appbeacon/internal/db/controller/settings"
	"github.com/appbeacon/appbeacon/internal/version"
)

const (
	// Path is the path of the handshake endpoint.
	Path = "/api/handshake"

	missingParametersMsg = "Missing parameters"
)

// Request is the handshake request body.
type Request struct {
	DeviceID   string `json:"device_id"   validate:"required"`
	AppVersion string `json:"app_version" validate:"required"`
	FcmToken   string `json:"fcm_token"`
}

// Data is the payload of a successful handshake response.
type Data struct {
	Text          string `json:"text"`
	Configs       string `json:"configs"`
	UpdateNeeded  bool   `json:"update_needed"`
	ForceUpdate   bool   `json:"force_update"`
	ServerVersion string `json:"server_version"`
}

type successResponse struct {
	Status string `json:"status"`
	Data   Data   `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Service is the handshake handler service.
type Service struct {
	db       *gorm.DB
	validate *validator.Validate
}

// Handler is the handshake handler.
var Handler = Service{}

// Init initializes the handshake handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	s.db = db
	s.validate = validator.New()

	app.Post(Path, s.Post)

	return nil
}

// Post handles a device handshake.
func (s *Service) Post(c *fiber.Ctx) error {
	req := new(Request)

	// a malformed body and missing required fields get the same client error,
	// and neither may leave a trace in the registry
	if err := c.BodyParser(req); err != nil {
		return badRequest(c)
	}

	if err := s.validate.Struct(req); err != nil {
		return badRequest(c)
	}

	if _, err := device.Upsert(s.db, req.DeviceID, req.AppVersion, req.FcmToken); err != nil {
		log.Error().Err(err).Str("device_id", req.DeviceID).Msg("handshake upsert failed")
		return err
	}

	st, err := settings.Get(s.db)
	if err != nil {
		log.Error().Err(err).Msg("handshake settings read failed")
		return err
	}

	return c.JSON(successResponse{
		Status: "success",
		Data: Data{
			Text:          st.AppText,
			Configs:       st.V2rayConfigs,
			UpdateNeeded:  version.IsOlder(req.AppVersion, st.DeprecatedVersion),
			ForceUpdate:   st.ForceUpdate,
			ServerVersion: st.DeprecatedVersion,
		},
	})
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(errorResponse{
		Status:  "error",
		Message: missingParametersMsg,
	})
}
