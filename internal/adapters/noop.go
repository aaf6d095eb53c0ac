package adapters

import (
	"context"
)

// NoopSpeechToText stands in when no transcription service is wired. The
// websocket transport delivers text directly, so serving demos without audio
// hardware still works.
type NoopSpeechToText struct{}

func (NoopSpeechToText) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return "", ErrNotConfigured
}

// NoopTextToSpeech stands in when no synthesis service is wired; replies are
// delivered as text frames only.
type NoopTextToSpeech struct{}

func (NoopTextToSpeech) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	return nil, ErrNotConfigured
}
