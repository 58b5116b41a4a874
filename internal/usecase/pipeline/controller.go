package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/insightcrew/relata/errors"
	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/internal/usecase/ai"
	"github.com/insightcrew/relata/internal/usecase/transcript"
)

// Phase is the controller's observable state. Phases advance strictly in
// order; any failure resets to idle with no partial results retained.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseAnalyzing    Phase = "analyzing"
	PhaseParticipants Phase = "participants"
	PhaseSummary      Phase = "summary"
	PhaseActions      Phase = "actions"
	PhaseSentiment    Phase = "sentiment"
	PhaseFinalizing   Phase = "finalizing"
	PhaseComplete     Phase = "complete"
)

// Request is the input for one pipeline invocation. Participants, when
// supplied, skip speaker extraction entirely; Notes are folded into the
// summary.
type Request struct {
	Text         string
	Participants []string
	Notes        string
}

// participantSource produces participant records from a transcript.
type participantSource interface {
	Extract(ctx context.Context, input *entities.TranscriptInput) ([]entities.ParticipantRecord, error)
}

// ProgressFunc receives phase transitions for UI progress reporting.
type ProgressFunc func(phase Phase)

// Controller drives one transcript through the analysis phases. A
// controller runs a single invocation at a time; Phase can be polled from
// other goroutines and Cancel aborts cooperatively.
type Controller struct {
	orchestrator ai.Orchestrator
	extractor    participantSource
	parser       *ai.Parser
	logger       *zap.Logger

	mu       sync.Mutex
	phase    Phase
	cancel   context.CancelFunc
	progress ProgressFunc
}

// NewController creates a pipeline controller in the idle state.
func NewController(orchestrator ai.Orchestrator, extractor participantSource, logger *zap.Logger) *Controller {
	return &Controller{
		orchestrator: orchestrator,
		extractor:    extractor,
		parser:       ai.NewParser(),
		logger:       logger,
	}
}

// OnProgress registers a callback invoked on every phase transition.
// Must be set before Run.
func (c *Controller) OnProgress(fn ProgressFunc) {
	c.mu.Lock()
	c.progress = fn
	c.mu.Unlock()
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == "" {
		return PhaseIdle
	}
	return c.phase
}

// Cancel aborts a running invocation. The in-flight phase finishes its
// current provider call and the run fails back to idle; no partial result
// is emitted.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) setPhase(phase Phase) {
	c.mu.Lock()
	c.phase = phase
	progress := c.progress
	c.mu.Unlock()

	if c.logger != nil && phase != PhaseIdle {
		c.logger.Info("🔄 Pipeline phase", zap.String("phase", string(phase)))
	}
	if progress != nil {
		progress(phase)
	}
}

// Run executes the full analysis for one transcript. It returns the
// complete result or an error; never both, and never a partial result.
func (c *Controller) Run(ctx context.Context, req Request) (*entities.AnalysisResult, error) {
	c.mu.Lock()
	if c.phase != "" && c.phase != PhaseIdle && c.phase != PhaseComplete {
		c.mu.Unlock()
		return nil, errors.ErrInvalidArgument("analysis already in progress")
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()
	defer cancel()

	result, err := c.run(runCtx, req)
	if err != nil {
		phase := c.Phase()
		c.setPhase(PhaseIdle)
		if c.logger != nil {
			c.logger.Error("❌ Pipeline failed", zap.String("phase", string(phase)), zap.Error(err))
		}
		return nil, errors.ErrPipelineFailed(string(phase), err)
	}

	c.setPhase(PhaseComplete)
	return result, nil
}

func (c *Controller) run(ctx context.Context, req Request) (*entities.AnalysisResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("transcript text is empty")
	}

	c.setPhase(PhaseAnalyzing)
	format := transcript.DetectFormat(req.Text)
	input := entities.NewTranscriptInput(req.Text, format, req.Participants)

	c.setPhase(PhaseParticipants)
	participants, err := c.resolveParticipants(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.setPhase(PhaseSummary)
	summary, err := c.orchestrator.Summarize(ctx, req.Text, req.Notes)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.setPhase(PhaseActions)
	actionItems, keyPoints := c.extractActions(ctx, req.Text)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.setPhase(PhaseSentiment)
	sentiment, err := c.orchestrator.AnalyzeSentiment(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.setPhase(PhaseFinalizing)
	title := c.suggestTitle(ctx, summary)

	return &entities.AnalysisResult{
		Summary:        summary,
		Participants:   participants,
		KeyPoints:      keyPoints,
		ActionItems:    actionItems,
		Sentiment:      *sentiment,
		SuggestedTitle: title,
		Transcript:     input,
		UserNotes:      req.Notes,
	}, nil
}

// resolveParticipants uses caller-supplied names verbatim when present,
// otherwise runs extraction.
func (c *Controller) resolveParticipants(ctx context.Context, input *entities.TranscriptInput) ([]entities.ParticipantRecord, error) {
	if len(input.RawParticipants) > 0 {
		records := make([]entities.ParticipantRecord, 0, len(input.RawParticipants))
		for _, name := range input.RawParticipants {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			records = append(records, *entities.NewParticipantRecord(name))
		}
		return records, nil
	}
	return c.extractor.Extract(ctx, input)
}

const actionsPrompt = `From this meeting transcript, extract concrete action items and the key
discussion points. Respond with ONLY a JSON object:
{"action_items": ["..."], "key_points": ["..."]}

Transcript:
%s`

// extractActions pulls action items and key points. Extraction is
// best-effort; unusable replies degrade to empty lists rather than
// failing the run.
func (c *Controller) extractActions(ctx context.Context, text string) (actionItems, keyPoints []string) {
	raw, err := c.orchestrator.Chat(ctx, fmt.Sprintf(actionsPrompt, text), "")
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("⚠️ Action item extraction failed, continuing without", zap.Error(err))
		}
		return []string{}, []string{}
	}

	var parsed struct {
		ActionItems []string `json:"action_items"`
		KeyPoints   []string `json:"key_points"`
	}
	if err := json.Unmarshal([]byte(c.parser.ExtractJSON(raw)), &parsed); err != nil {
		if c.logger != nil {
			c.logger.Warn("⚠️ Action item reply unparseable, continuing without", zap.Error(err))
		}
		return []string{}, []string{}
	}

	if parsed.ActionItems == nil {
		parsed.ActionItems = []string{}
	}
	if parsed.KeyPoints == nil {
		parsed.KeyPoints = []string{}
	}
	return parsed.ActionItems, parsed.KeyPoints
}

// suggestTitle derives a short meeting title from the summary. A failure
// leaves the title empty; the caller may fall back to a date-based one.
func (c *Controller) suggestTitle(ctx context.Context, summary string) string {
	raw, err := c.orchestrator.Chat(ctx,
		"Suggest a short descriptive title for this meeting, five words or fewer. Respond with only the title.",
		summary)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("⚠️ Title generation failed, leaving title empty", zap.Error(err))
		}
		return ""
	}

	title := strings.TrimSpace(raw)
	if idx := strings.Index(title, "\n"); idx >= 0 {
		title = strings.TrimSpace(title[:idx])
	}
	return strings.Trim(title, `"'`)
}
