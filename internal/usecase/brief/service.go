package brief

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/internal/domain/repositories"
	"github.com/insightcrew/relata/internal/usecase/ai"
)

// recentConversationLimit bounds how much history feeds one brief.
const recentConversationLimit = 5

// Service produces pre-meeting briefs about a person from their recorded
// conversation history, serving cached briefs while they stay fresh.
type Service struct {
	cache          *Cache
	orchestrator   ai.Orchestrator
	people         repositories.PersonRepository
	conversations  repositories.ConversationRepository
	promptOverride string
	logger         *zap.Logger
}

// NewService creates the brief service. promptOverride replaces the
// default brief prompt template when non-empty.
func NewService(
	cache *Cache,
	orchestrator ai.Orchestrator,
	people repositories.PersonRepository,
	conversations repositories.ConversationRepository,
	promptOverride string,
	logger *zap.Logger,
) *Service {
	return &Service{
		cache:          cache,
		orchestrator:   orchestrator,
		people:         people,
		conversations:  conversations,
		promptOverride: promptOverride,
		logger:         logger,
	}
}

// GetBrief returns the brief for a person, generating one when no fresh
// cached copy exists. The bool reports whether the brief came from cache.
func (s *Service) GetBrief(ctx context.Context, personID uuid.UUID) (string, bool, error) {
	person, err := s.people.FindByID(ctx, personID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load person for brief: %w", err)
	}

	generation, err := s.conversations.CountByPersonID(ctx, personID)
	if err != nil {
		return "", false, fmt.Errorf("failed to count conversations for brief: %w", err)
	}

	if brief, ok := s.cache.Get(ctx, personID, generation); ok {
		return brief, true, nil
	}

	unlock := s.cache.LockSubject(personID)
	defer unlock()

	// Another request may have generated the brief while we waited.
	if brief, ok := s.cache.Get(ctx, personID, generation); ok {
		return brief, true, nil
	}

	recent, err := s.conversations.ListByPersonID(ctx, personID, recentConversationLimit)
	if err != nil {
		return "", false, fmt.Errorf("failed to load conversation history for brief: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🔄 Generating brief",
			zap.String("person", person.Name),
			zap.Int("history", len(recent)))
	}

	brief, err := s.orchestrator.Chat(ctx, s.buildPrompt(person, recent), "")
	if err != nil {
		return "", false, err
	}

	s.cache.Put(ctx, personID, brief, generation)
	return brief, false, nil
}

// Invalidate drops the cached brief for one person, or all briefs when
// personID is nil.
func (s *Service) Invalidate(ctx context.Context, personID *uuid.UUID) error {
	return s.cache.Invalidate(ctx, personID)
}

const defaultBriefPrompt = `Write a short pre-meeting brief about %s.
Cover who they are, what was discussed recently, open follow-ups, and
anything worth raising in the next conversation. A few short paragraphs,
no headers.`

func (s *Service) buildPrompt(person *entities.Person, recent []*entities.Conversation) string {
	var sb strings.Builder

	template := defaultBriefPrompt
	if s.promptOverride != "" {
		template = s.promptOverride
	}
	sb.WriteString(fmt.Sprintf(template, person.Name))
	sb.WriteString("\n\n")

	if person.Role != "" {
		sb.WriteString(fmt.Sprintf("Role: %s\n", person.Role))
	}
	if person.Notes != "" {
		sb.WriteString(fmt.Sprintf("Notes on file: %s\n", person.Notes))
	}

	if len(recent) == 0 {
		sb.WriteString("\nNo recorded conversations yet.\n")
		return sb.String()
	}

	sb.WriteString("\nRecent conversations, newest first:\n")
	for _, conv := range recent {
		sb.WriteString(fmt.Sprintf("- %s: %s\n", conv.OccurredAt.Format("2006-01-02"), conv.Summary))
	}
	return sb.String()
}
