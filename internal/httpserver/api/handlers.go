package api

import (
	"errors"
	"io"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/voxlate/voxlate/internal/httpserver/httputil"
	"github.com/voxlate/voxlate/internal/languages"
	"github.com/voxlate/voxlate/internal/services/transcripts"
	"github.com/voxlate/voxlate/internal/session"
)

type languagesResponse struct {
	Languages []languages.Language `json:"languages"`
	Targets   []string             `json:"targets,omitempty"`
}

func (h *handler) listLanguages(c *fiber.Ctx) error {
	resp := languagesResponse{Languages: languages.All()}
	if source := strings.TrimSpace(c.Query("source")); source != "" {
		if !languages.Known(source) {
			return httputil.WriteError(c, fiber.StatusBadRequest, "unknown source language")
		}
		resp.Targets = languages.TargetsFor(source)
	}
	return c.JSON(resp)
}

type sessionResponse struct {
	Phase session.Phase `json:"phase"`
	State session.State `json:"state"`
}

func (h *handler) getSession(c *fiber.Ctx) error {
	state, err := h.svc.Get(c.UserContext(), sessionID(c))
	if err != nil {
		log.Printf("get session: %v", err)
		return httputil.WriteError(c, fiber.StatusInternalServerError, "failed to load session")
	}
	return c.JSON(sessionResponse{Phase: state.Phase(), State: state})
}

func (h *handler) resetSession(c *fiber.Ctx) error {
	if err := h.svc.Reset(c.UserContext(), sessionID(c)); err != nil {
		log.Printf("reset session: %v", err)
		return httputil.WriteError(c, fiber.StatusInternalServerError, "failed to reset session")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type transcriptionResponse struct {
	Text      string        `json:"text"`
	WordCount int           `json:"word_count"`
	Phase     session.Phase `json:"phase"`
	State     session.State `json:"state"`
}

func (h *handler) createTranscription(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "multipart form required")
	}
	source := strings.TrimSpace(c.FormValue("language"))
	if source == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "language is required")
	}
	fileHeaders := form.File["file"]
	if len(fileHeaders) == 0 {
		return httputil.WriteError(c, fiber.StatusBadRequest, "file is required")
	}
	fh := fileHeaders[0]
	src, err := fh.Open()
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "failed to open file")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "failed to read file")
	}

	start := time.Now()
	state, err := h.svc.Transcribe(c.UserContext(), sessionID(c), transcripts.Upload{
		Name: fh.Filename,
		Data: data,
	}, source)
	h.obs.RecordInvocation(string(transcripts.OpTranscribe), err != nil, time.Since(start))
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(transcriptionResponse{
		Text:      state.Transcription,
		WordCount: len(strings.Fields(state.Transcription)),
		Phase:     state.Phase(),
		State:     state,
	})
}

type translationRequest struct {
	TargetLanguage string `json:"target_language"`
}

type translationResponse struct {
	Text  string        `json:"text"`
	Phase session.Phase `json:"phase"`
	State session.State `json:"state"`
}

func (h *handler) createTranslation(c *fiber.Ctx) error {
	var payload translationRequest
	if err := c.BodyParser(&payload); err != nil {
		return httputil.WriteError(c, fiber.StatusBadRequest, "invalid request body")
	}
	target := strings.TrimSpace(payload.TargetLanguage)
	if target == "" {
		return httputil.WriteError(c, fiber.StatusBadRequest, "target_language is required")
	}

	start := time.Now()
	state, err := h.svc.Translate(c.UserContext(), sessionID(c), target)
	h.obs.RecordInvocation(string(transcripts.OpTranslate), err != nil, time.Since(start))
	if err != nil {
		return writeServiceError(c, err)
	}

	return c.JSON(translationResponse{
		Text:  state.Translation,
		Phase: state.Phase(),
		State: state,
	})
}

// writeServiceError reduces orchestration failures to short user-facing
// messages; full detail stays in the server log.
func writeServiceError(c *fiber.Ctx, err error) error {
	var invokeErr *transcripts.InvokeError
	switch {
	case errors.As(err, &invokeErr):
		log.Printf("%s invocation failed: %v", invokeErr.Op, invokeErr.Err)
		switch invokeErr.Op {
		case transcripts.OpTranslate:
			return httputil.WriteError(c, fiber.StatusBadGateway, "translation service failed")
		default:
			return httputil.WriteError(c, fiber.StatusBadGateway, "transcription service failed")
		}
	case errors.Is(err, transcripts.ErrNoTranscript):
		return httputil.WriteError(c, fiber.StatusConflict, "transcribe an audio file first")
	case errors.Is(err, transcripts.ErrSameLanguage):
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, transcripts.ErrUnsupportedAudio):
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, transcripts.ErrUploadTooLarge):
		return httputil.WriteError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, languages.ErrUnknown):
		return httputil.WriteError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("session operation failed: %v", err)
		return httputil.WriteError(c, fiber.StatusInternalServerError, "internal error")
	}
}
