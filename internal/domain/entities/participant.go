package entities

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantRecord is a detected speaker within one transcript, optionally
// linked to a known Person in the directory. Uniqueness is by display name
// within a single extraction pass.
type ParticipantRecord struct {
	ID              uuid.UUID     `json:"id"`
	DisplayName     string        `json:"display_name"`
	SpeakingTime    time.Duration `json:"speaking_time"`
	MessageCount    int           `json:"message_count"`
	Sentiment       string        `json:"sentiment,omitempty"`
	PersonID        *uuid.UUID    `json:"person_id,omitempty"`
	MatchConfidence float64       `json:"match_confidence"`
	SpeakerIndex    *int          `json:"speaker_index,omitempty"`
	// VoiceEmbedding is an opaque vector supplied by upstream voice
	// analysis. It is carried through unmodified.
	VoiceEmbedding []float64 `json:"voice_embedding,omitempty"`
}

// NewParticipantRecord creates a participant with a fresh id and no
// directory link.
func NewParticipantRecord(displayName string) *ParticipantRecord {
	return &ParticipantRecord{
		ID:          uuid.New(),
		DisplayName: displayName,
	}
}

// LinkPerson attaches a resolved directory identity with its match score.
func (p *ParticipantRecord) LinkPerson(personID uuid.UUID, confidence float64) {
	p.PersonID = &personID
	p.MatchConfidence = confidence
}
