// Package session holds per-browser-session state: the last transcript,
// the last translation, and the selected languages. State lives in Redis
// (or in process memory) and never outlives the session TTL.
package session

import "context"

// Phase labels where a session sits in the transcribe/translate flow.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseTranscribed Phase = "transcribed"
	PhaseTranslated  Phase = "translated"
)

// State is one session's record. Fields are replaced only by successful
// invoker calls; a failed call leaves the prior record intact.
type State struct {
	Transcription  string `json:"transcription,omitempty"`
	Translation    string `json:"translation,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
	UploadName     string `json:"upload_name,omitempty"`
	UploadBytes    int64  `json:"upload_bytes,omitempty"`
}

// Phase derives the flow position from which fields are populated.
func (s State) Phase() Phase {
	switch {
	case s.Translation != "":
		return PhaseTranslated
	case s.Transcription != "":
		return PhaseTranscribed
	default:
		return PhaseIdle
	}
}

// Store persists session state keyed by session id. Get returns a zero
// State for unknown or expired sessions.
type Store interface {
	Get(ctx context.Context, id string) (State, error)
	Put(ctx context.Context, id string, state State) error
	Delete(ctx context.Context, id string) error
}
