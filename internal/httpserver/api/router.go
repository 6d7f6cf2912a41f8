// Package api exposes the JSON/multipart endpoints the embedded UI calls.
package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/observability"
	"github.com/voxlate/voxlate/internal/services/transcripts"
)

type handler struct {
	svc *transcripts.Service
	obs *observability.Provider
}

// Register wires up the session-scoped API routes.
func Register(app *fiber.App, cfg *config.Config, svc *transcripts.Service, obs *observability.Provider) {
	h := &handler{svc: svc, obs: obs}
	group := app.Group("/api", sessionCookie(cfg.Session))
	group.Get("/languages", h.listLanguages)
	group.Get("/session", h.getSession)
	group.Delete("/session", h.resetSession)
	group.Post("/transcriptions", h.createTranscription)
	group.Post("/translations", h.createTranslation)
}
