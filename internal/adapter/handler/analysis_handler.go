package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/insightcrew/relata/errors"
	"github.com/insightcrew/relata/internal/adapter/dto"
	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/internal/domain/repositories"
	"github.com/insightcrew/relata/internal/infrastructure/storage"
	"github.com/insightcrew/relata/internal/usecase/ai"
	"github.com/insightcrew/relata/internal/usecase/pipeline"
	"github.com/insightcrew/relata/internal/usecase/transcript"
	"github.com/insightcrew/relata/pkg/runcontext"
)

// AnalysisHandler runs the transcript analysis pipeline and persists the
// outcome.
type AnalysisHandler struct {
	orchestrator  ai.Orchestrator
	extractor     *transcript.Extractor
	people        repositories.PersonRepository
	conversations repositories.ConversationRepository
	archive       *storage.TranscriptArchive
	logger        *zap.Logger
}

// NewAnalysisHandler creates the analysis handler. archive may be nil
// when transcript archival is disabled.
func NewAnalysisHandler(
	orchestrator ai.Orchestrator,
	extractor *transcript.Extractor,
	people repositories.PersonRepository,
	conversations repositories.ConversationRepository,
	archive *storage.TranscriptArchive,
	logger *zap.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		orchestrator:  orchestrator,
		extractor:     extractor,
		people:        people,
		conversations: conversations,
		archive:       archive,
		logger:        logger,
	}
}

// AnalyzeTranscript handles POST /v1/analysis/transcripts.
func (h *AnalysisHandler) AnalyzeTranscript(c echo.Context) error {
	var req dto.AnalyzeTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(c, errors.ErrInvalidArgument(err.Error()))
	}

	ctx, cancel := runcontext.Begin(c.Request().Context(), "analyze_transcript")
	defer cancel()

	// One controller per invocation; its state machine is not shared
	// across requests.
	controller := pipeline.NewController(h.orchestrator, h.extractor, h.logger)
	result, err := controller.Run(ctx, pipeline.Request{
		Text:         req.Text,
		Participants: req.Participants,
		Notes:        req.Notes,
	})
	if err != nil {
		return HandleError(c, err)
	}

	conversationIDs, err := h.persist(ctx, result)
	if err != nil {
		return HandleError(c, err)
	}

	return HandleSuccess(c, http.StatusOK, dto.AnalyzeTranscriptResponse{
		Result:          result,
		ConversationIDs: conversationIDs,
	})
}

// persist writes one conversation record per participant, creating
// directory entries for speakers that could not be matched. Transcript
// archival failures are logged, not fatal.
func (h *AnalysisHandler) persist(ctx context.Context, result *entities.AnalysisResult) ([]string, error) {
	sentimentJSON, _ := json.Marshal(result.Sentiment)
	actionsJSON, _ := json.Marshal(result.ActionItems)
	keyPointsJSON, _ := json.Marshal(result.KeyPoints)

	transcriptURL := h.archiveTranscript(ctx, result)

	var conversationIDs []string
	for i := range result.Participants {
		participant := &result.Participants[i]

		personID := participant.PersonID
		if personID == nil {
			person := entities.NewPerson(participant.DisplayName)
			if err := h.people.Create(ctx, person); err != nil {
				return nil, errors.ErrPersistenceFailed("create_person", err)
			}
			participant.LinkPerson(person.ID, 0)
			personID = &person.ID
		} else if person, err := h.people.FindByID(ctx, *personID); err == nil {
			person.Touch()
			if err := h.people.Update(ctx, person); err != nil && h.logger != nil {
				h.logger.Warn("⚠️ Failed to update last contact",
					zap.String("person_id", personID.String()), zap.Error(err))
			}
		}

		conversation := entities.NewConversation(*personID, result.Summary)
		conversation.Notes = result.UserNotes
		conversation.SuggestedTitle = result.SuggestedTitle
		conversation.Format = string(result.Transcript.Format)
		conversation.Sentiment = sentimentJSON
		conversation.ActionItems = actionsJSON
		conversation.KeyPoints = keyPointsJSON
		conversation.DurationSeconds = int(result.Transcript.EstimatedDuration.Seconds())
		conversation.TranscriptURL = transcriptURL

		if err := h.conversations.Create(ctx, conversation); err != nil {
			return nil, errors.ErrPersistenceFailed("create_conversation", err)
		}
		conversationIDs = append(conversationIDs, conversation.ID.String())
	}

	if h.logger != nil {
		h.logger.Info("✅ Analysis persisted",
			zap.Int("conversations", len(conversationIDs)),
			zap.Int("participants", len(result.Participants)))
	}
	return conversationIDs, nil
}

func (h *AnalysisHandler) archiveTranscript(ctx context.Context, result *entities.AnalysisResult) string {
	if h.archive == nil {
		return ""
	}

	runID, _ := runcontext.RunID(ctx)
	url, err := h.archive.UploadTranscript(ctx, runID.String(), result.Transcript.Text)
	if err != nil {
		if h.logger != nil {
			h.logger.Warn("⚠️ Transcript archival failed, continuing without", zap.Error(err))
		}
		return ""
	}
	return url
}
