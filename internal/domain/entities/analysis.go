package entities

// AnalysisResult is the structured output of one full pipeline invocation.
// Ownership passes to the caller for persistence; the core does not retain
// it, and a partially populated result is never emitted.
type AnalysisResult struct {
	Summary        string              `json:"summary"`
	Participants   []ParticipantRecord `json:"participants"`
	KeyPoints      []string            `json:"key_points"`
	ActionItems    []string            `json:"action_items"`
	Sentiment      SentimentAnalysis   `json:"sentiment"`
	SuggestedTitle string              `json:"suggested_title"`
	Transcript     *TranscriptInput    `json:"transcript"`
	UserNotes      string              `json:"user_notes,omitempty"`
}

// SentimentAnalysis captures the relationship-health reading of a meeting.
// Every field is required in the final result; fields the model omits are
// backfilled from NeutralSentiment.
type SentimentAnalysis struct {
	Overall            string              `json:"overall"`
	Score              float64             `json:"score"`
	Confidence         float64             `json:"confidence"`
	EngagementLevel    string              `json:"engagement_level"`
	RelationshipHealth string              `json:"relationship_health"`
	CommunicationStyle string              `json:"communication_style"`
	EnergyLevel        string              `json:"energy_level"`
	Dynamics           ParticipantDynamics `json:"participant_dynamics"`
	Observations       []string            `json:"observations"`
	SupportNeeds       []string            `json:"support_needs"`
	FollowUps          []string            `json:"follow_up_recommendations"`
	RiskFactors        []string            `json:"risk_factors"`
	Strengths          []string            `json:"strengths"`
}

// ParticipantDynamics describes how participants related to each other
// during the conversation.
type ParticipantDynamics struct {
	DominantSpeaker    string `json:"dominant_speaker"`
	CollaborationLevel string `json:"collaboration_level"`
	ConflictDetected   bool   `json:"conflict_detected"`
}

// NeutralSentiment returns the documented neutral default used when the
// model output cannot be parsed. It is a valid, fully populated object
// rather than a parse-error propagation.
func NeutralSentiment() SentimentAnalysis {
	return SentimentAnalysis{
		Overall:            "neutral",
		Score:              0.5,
		Confidence:         0.0,
		EngagementLevel:    "medium",
		RelationshipHealth: "stable",
		CommunicationStyle: "balanced",
		EnergyLevel:        "medium",
		Dynamics: ParticipantDynamics{
			DominantSpeaker:    "",
			CollaborationLevel: "medium",
			ConflictDetected:   false,
		},
		Observations: []string{},
		SupportNeeds: []string{},
		FollowUps:    []string{},
		RiskFactors:  []string{},
		Strengths:    []string{},
	}
}

// Backfill replaces zero-valued fields with their neutral defaults so the
// result always satisfies the all-fields-required invariant.
func (s *SentimentAnalysis) Backfill() {
	neutral := NeutralSentiment()

	if s.Overall == "" {
		s.Overall = neutral.Overall
	}
	if s.EngagementLevel == "" {
		s.EngagementLevel = neutral.EngagementLevel
	}
	if s.RelationshipHealth == "" {
		s.RelationshipHealth = neutral.RelationshipHealth
	}
	if s.CommunicationStyle == "" {
		s.CommunicationStyle = neutral.CommunicationStyle
	}
	if s.EnergyLevel == "" {
		s.EnergyLevel = neutral.EnergyLevel
	}
	if s.Dynamics.CollaborationLevel == "" {
		s.Dynamics.CollaborationLevel = neutral.Dynamics.CollaborationLevel
	}
	if s.Observations == nil {
		s.Observations = []string{}
	}
	if s.SupportNeeds == nil {
		s.SupportNeeds = []string{}
	}
	if s.FollowUps == nil {
		s.FollowUps = []string{}
	}
	if s.RiskFactors == nil {
		s.RiskFactors = []string{}
	}
	if s.Strengths == nil {
		s.Strengths = []string{}
	}
}
