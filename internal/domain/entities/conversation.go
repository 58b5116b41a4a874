package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Conversation is the persisted record of one analyzed meeting with one
// person. The pipeline hands a finished AnalysisResult to the persistence
// layer, which writes one Conversation per resolved participant.
type Conversation struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PersonID        uuid.UUID      `json:"person_id" gorm:"type:uuid;not null;index"`
	Person          *Person        `json:"person,omitempty" gorm:"foreignKey:PersonID"`
	Summary         string         `json:"summary" gorm:"type:text;not null"`
	Notes           string         `json:"notes,omitempty" gorm:"type:text"`
	SuggestedTitle  string         `json:"suggested_title,omitempty" gorm:"type:varchar(500)"`
	Format          string         `json:"format" gorm:"type:varchar(20)"`
	Sentiment       datatypes.JSON `json:"sentiment,omitempty" gorm:"type:jsonb"`
	ActionItems     datatypes.JSON `json:"action_items,omitempty" gorm:"type:jsonb"`
	KeyPoints       datatypes.JSON `json:"key_points,omitempty" gorm:"type:jsonb"`
	DurationSeconds int            `json:"duration_seconds,omitempty"`
	TranscriptURL   string         `json:"transcript_url,omitempty" gorm:"type:text"`
	OccurredAt      time.Time      `json:"occurred_at"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Conversation
func (Conversation) TableName() string {
	return "conversations"
}

// NewConversation creates a new Conversation entity linked to a person.
func NewConversation(personID uuid.UUID, summary string) *Conversation {
	return &Conversation{
		ID:         uuid.New(),
		PersonID:   personID,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}
}
