package dto

import "github.com/insightcrew/relata/internal/domain/entities"

// AnalyzeTranscriptRequest is the payload for submitting a transcript.
// Participants, when given, are trusted verbatim and skip speaker
// extraction. Notes lines may carry action:/decision:/question:/follow-up:
// markers that get lifted into the summary.
type AnalyzeTranscriptRequest struct {
	Text         string   `json:"text" validate:"required,min=1"`
	Participants []string `json:"participants,omitempty" validate:"omitempty,dive,min=1,max=100"`
	Notes        string   `json:"notes,omitempty" validate:"omitempty,max=20000"`
}

// AnalyzeTranscriptResponse returns the full analysis plus the ids of the
// conversation records written for linked participants.
type AnalyzeTranscriptResponse struct {
	Result          *entities.AnalysisResult `json:"result"`
	ConversationIDs []string                 `json:"conversation_ids"`
}

// BriefResponse is one pre-meeting brief.
type BriefResponse struct {
	PersonID  string `json:"person_id"`
	Brief     string `json:"brief"`
	FromCache bool   `json:"from_cache"`
}
