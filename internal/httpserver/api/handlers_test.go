package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/models"
	"github.com/voxlate/voxlate/internal/services/transcripts"
	"github.com/voxlate/voxlate/internal/session"
)

type fakeTranscriber struct {
	text string
	err  error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ models.TranscriptionRequest) (models.TranscriptionResponse, error) {
	if f.err != nil {
		return models.TranscriptionResponse{}, f.err
	}
	return models.TranscriptionResponse{Text: f.text}, nil
}

type fakeTranslator struct {
	out string
	err error
}

func (f *fakeTranslator) Translate(_ context.Context, _, _, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.out, nil
}

func newTestApp(t *testing.T, stt *fakeTranscriber, tr *fakeTranslator) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		Session: config.SessionConfig{CookieName: "voxlate_session", TTL: time.Hour},
	}
	svc := transcripts.New(session.NewMemoryStore(time.Hour), stt, tr, transcripts.Options{
		SpeechModel: "whisper-large-v3",
	})
	app := fiber.New()
	Register(app, cfg, svc, nil)
	return app
}

func multipartUpload(t *testing.T, filename, language string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("language", language))
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
}

func sessionCookieFrom(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "voxlate_session" {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestListLanguages(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{}, &fakeTranslator{})

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body languagesResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Languages, 7)
	require.Equal(t, "English", body.Languages[0].Name)
	require.Equal(t, "en", body.Languages[0].Code)
}

func TestListLanguagesWithSourceExcludesIt(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{}, &fakeTranslator{})

	req := httptest.NewRequest(http.MethodGet, "/api/languages?source=German", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body languagesResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Targets, 6)
	require.NotContains(t, body.Targets, "German")
}

func TestTranscriptionFlow(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{text: "hello world"}, &fakeTranslator{out: "hallo welt"})

	buf, contentType := multipartUpload(t, "memo.m4a", "English", bytes.Repeat([]byte("a"), 5000))
	req := httptest.NewRequest(http.MethodPost, "/api/transcriptions", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookieFrom(t, resp)

	var tResp transcriptionResponse
	decodeBody(t, resp, &tResp)
	require.Equal(t, "hello world", tResp.Text)
	require.Equal(t, 2, tResp.WordCount)
	require.Equal(t, session.PhaseTranscribed, tResp.Phase)

	// translation in the same session
	payload, _ := json.Marshal(translationRequest{TargetLanguage: "German"})
	req = httptest.NewRequest(http.MethodPost, "/api/translations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var trResp translationResponse
	decodeBody(t, resp, &trResp)
	require.Equal(t, "hallo welt", trResp.Text)
	require.Equal(t, session.PhaseTranslated, trResp.Phase)

	// session endpoint reflects both results
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	var sResp sessionResponse
	decodeBody(t, resp, &sResp)
	require.Equal(t, "hello world", sResp.State.Transcription)
	require.Equal(t, "hallo welt", sResp.State.Translation)
	require.Equal(t, "English", sResp.State.SourceLanguage)
	require.Equal(t, "German", sResp.State.TargetLanguage)
}

func TestTranscriptionFailureReturnsBadGateway(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{err: errors.New("upstream 500")}, &fakeTranslator{})

	buf, contentType := multipartUpload(t, "memo.m4a", "English", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/transcriptions", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	cookie := sessionCookieFrom(t, resp)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "transcription service failed")
	// the raw upstream error must not leak to the client
	require.NotContains(t, string(body), "upstream 500")

	// session state stays empty
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	var sResp sessionResponse
	decodeBody(t, resp, &sResp)
	require.Equal(t, session.PhaseIdle, sResp.Phase)
	require.Empty(t, sResp.State.Transcription)
}

func TestTranslationWithoutTranscriptConflicts(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{}, &fakeTranslator{})

	payload := strings.NewReader(`{"target_language":"German"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/translations", payload)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestTranscriptionRejectsUnknownLanguage(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{text: "x"}, &fakeTranslator{})

	buf, contentType := multipartUpload(t, "memo.m4a", "Klingon", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/transcriptions", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTranscriptionRejectsUnsupportedExtension(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{text: "x"}, &fakeTranslator{})

	buf, contentType := multipartUpload(t, "memo.wav", "English", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/transcriptions", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResetSession(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{text: "hello"}, &fakeTranslator{})

	buf, contentType := multipartUpload(t, "memo.m4a", "English", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/transcriptions", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	cookie := sessionCookieFrom(t, resp)

	req = httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(cookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	var sResp sessionResponse
	decodeBody(t, resp, &sResp)
	require.Equal(t, session.PhaseIdle, sResp.Phase)
}

func TestSessionsAreIsolated(t *testing.T) {
	app := newTestApp(t, &fakeTranscriber{text: "hello"}, &fakeTranslator{})

	buf, contentType := multipartUpload(t, "memo.m4a", "English", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/api/transcriptions", buf)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// a fresh client without the cookie sees an empty session
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	var sResp sessionResponse
	decodeBody(t, resp, &sResp)
	require.Equal(t, session.PhaseIdle, sResp.Phase)
}
