package transcripts

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTranscript is returned when translation is requested before a
	// transcript exists in the session.
	ErrNoTranscript = errors.New("no transcript available to translate")

	// ErrSameLanguage is returned when the requested target equals the
	// session's source language.
	ErrSameLanguage = errors.New("target language must differ from source language")

	// ErrUnsupportedAudio is returned for uploads with an extension
	// outside the configured allow-list.
	ErrUnsupportedAudio = errors.New("unsupported audio file type")

	// ErrUploadTooLarge is returned when the upload exceeds the configured
	// size ceiling.
	ErrUploadTooLarge = errors.New("audio upload exceeds size limit")
)

// Op identifies which remote invocation failed.
type Op string

const (
	OpTranscribe Op = "transcribe"
	OpTranslate  Op = "translate"
)

// InvokeError wraps a remote service failure so callers can tell a
// transcription failure from a translation failure without string matching.
// Session state is never advanced when an InvokeError is returned.
type InvokeError struct {
	Op  Op
	Err error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }
