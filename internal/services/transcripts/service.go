// Package transcripts orchestrates the transcribe/translate flow: staging
// uploaded audio, invoking the speech and translation providers, and
// advancing per-session state only on success.
package transcripts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/voxlate/voxlate/internal/languages"
	"github.com/voxlate/voxlate/internal/models"
	"github.com/voxlate/voxlate/internal/providers"
	"github.com/voxlate/voxlate/internal/session"
	"github.com/voxlate/voxlate/internal/stage"
)

const transcribePrompt = "Transcribe the following audio"

// Whisper decoding is pinned to greedy so repeated runs of the same clip
// produce identical transcripts.
const transcribeTemperature float32 = 0.0

// Options configure a Service.
type Options struct {
	SpeechModel       string
	StagingDir        string
	AllowedExtensions []string
	MaxUploadBytes    int64
}

// Service coordinates the two invokers and the session store.
type Service struct {
	store      session.Store
	stt        providers.AudioTranscriber
	translator providers.TextTranslator
	opts       Options
}

// Upload carries one uploaded audio clip.
type Upload struct {
	Name string
	Data []byte
}

func New(store session.Store, stt providers.AudioTranscriber, translator providers.TextTranslator, opts Options) *Service {
	if len(opts.AllowedExtensions) == 0 {
		opts.AllowedExtensions = []string{"m4a", "mp3"}
	}
	return &Service{store: store, stt: stt, translator: translator, opts: opts}
}

// Transcribe stages the upload, invokes the speech provider once, and on
// success replaces the session transcript, clearing any stale translation.
// On failure the session record is returned exactly as it was before.
func (s *Service) Transcribe(ctx context.Context, sessionID string, up Upload, sourceName string) (session.State, error) {
	prior, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return session.State{}, err
	}

	code, err := languages.Code(sourceName)
	if err != nil {
		return prior, err
	}
	ext, err := s.checkUpload(up)
	if err != nil {
		return prior, err
	}

	path, cleanup, err := stage.Write(s.opts.StagingDir, up.Data, ext)
	if err != nil {
		return prior, err
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return prior, fmt.Errorf("open staged audio: %w", err)
	}
	defer f.Close()

	temp := transcribeTemperature
	resp, err := s.stt.Transcribe(ctx, models.TranscriptionRequest{
		Model: s.opts.SpeechModel,
		Input: models.AudioInput{
			Reader:   f,
			Filename: filepath.Base(path),
			Bytes:    int64(len(up.Data)),
		},
		Prompt:      transcribePrompt,
		Language:    code,
		Temperature: &temp,
	})
	if err != nil {
		return prior, &InvokeError{Op: OpTranscribe, Err: err}
	}

	// A new transcript invalidates results derived from the previous one.
	next := session.State{
		Transcription:  resp.Text,
		SourceLanguage: sourceName,
		UploadName:     up.Name,
		UploadBytes:    int64(len(up.Data)),
	}
	if err := s.store.Put(ctx, sessionID, next); err != nil {
		return prior, fmt.Errorf("store transcript: %w", err)
	}
	return next, nil
}

// Translate snapshots the session transcript at trigger time, invokes the
// translator once, and stores the result only on success.
func (s *Service) Translate(ctx context.Context, sessionID, targetName string) (session.State, error) {
	state, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return session.State{}, err
	}
	if state.Transcription == "" {
		return state, ErrNoTranscript
	}
	if !languages.Known(targetName) {
		return state, fmt.Errorf("%w %q", languages.ErrUnknown, targetName)
	}
	if targetName == state.SourceLanguage {
		return state, ErrSameLanguage
	}

	translated, err := s.translator.Translate(ctx, state.Transcription, state.SourceLanguage, targetName)
	if err != nil {
		return state, &InvokeError{Op: OpTranslate, Err: err}
	}

	state.Translation = strings.TrimSpace(translated)
	state.TargetLanguage = targetName
	if err := s.store.Put(ctx, sessionID, state); err != nil {
		return state, fmt.Errorf("store translation: %w", err)
	}
	return state, nil
}

// Get returns the current session record.
func (s *Service) Get(ctx context.Context, sessionID string) (session.State, error) {
	return s.store.Get(ctx, sessionID)
}

// Reset drops the session record entirely.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}

func (s *Service) checkUpload(up Upload) (string, error) {
	if s.opts.MaxUploadBytes > 0 && int64(len(up.Data)) > s.opts.MaxUploadBytes {
		return "", ErrUploadTooLarge
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(up.Name), "."))
	for _, allowed := range s.opts.AllowedExtensions {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedAudio, ext)
}
