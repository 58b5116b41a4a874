package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/insightcrew/relata/internal/domain/entities"
)

// ConversationRepository is the record sink for analyzed meetings.
// CountByPersonID doubles as the generation counter for the brief cache:
// a new conversation invalidates any brief cached before it.
type ConversationRepository interface {
	Create(ctx context.Context, conversation *entities.Conversation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Conversation, error)
	ListByPersonID(ctx context.Context, personID uuid.UUID, limit int) ([]*entities.Conversation, error)
	CountByPersonID(ctx context.Context, personID uuid.UUID) (int64, error)
}
