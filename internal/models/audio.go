package models

import "io"

// AudioInput wraps the staged audio payload handed to a speech provider.
type AudioInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Bytes       int64
}

// TranscriptionRequest captures the parameters of one speech-to-text call.
type TranscriptionRequest struct {
	Model       string
	Input       AudioInput
	Prompt      string
	Language    string
	Temperature *float32
}

// TranscriptionResponse is a normalized transcription payload.
type TranscriptionResponse struct {
	Text string
}
