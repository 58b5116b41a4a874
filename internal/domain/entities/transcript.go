package entities

import (
	"strings"
	"time"
)

// TranscriptFormat classifies how a transcript's raw text is laid out.
type TranscriptFormat string

const (
	TranscriptFormatZoom    TranscriptFormat = "zoom"
	TranscriptFormatTeams   TranscriptFormat = "teams"
	TranscriptFormatGeneric TranscriptFormat = "generic"
	TranscriptFormatManual  TranscriptFormat = "manual"
)

// wordsPerMinute is the speaking rate used to estimate meeting duration
// from raw word count.
const wordsPerMinute = 150

// TranscriptInput is the immutable ingestion record for one raw transcript.
// It is created once per pipeline invocation and handed to the caller with
// the final result; the core never retains it.
type TranscriptInput struct {
	Text              string           `json:"text"`
	Format            TranscriptFormat `json:"format"`
	RawParticipants   []string         `json:"raw_participants"`
	IngestedAt        time.Time        `json:"ingested_at"`
	EstimatedDuration time.Duration    `json:"estimated_duration"`
}

// NewTranscriptInput creates a TranscriptInput, deriving the estimated
// duration from word count at a 150 wpm speaking rate.
func NewTranscriptInput(text string, format TranscriptFormat, rawParticipants []string) *TranscriptInput {
	words := len(strings.Fields(text))
	minutes := float64(words) / wordsPerMinute

	return &TranscriptInput{
		Text:              text,
		Format:            format,
		RawParticipants:   rawParticipants,
		IngestedAt:        time.Now().UTC(),
		EstimatedDuration: time.Duration(minutes * float64(time.Minute)),
	}
}
