package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/insightcrew/relata/errors"
	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/pkg/config"
	"github.com/insightcrew/relata/pkg/runcontext"
)

// ProviderSelector picks the providers for one operation.
type ProviderSelector interface {
	Resolve(ctx context.Context) (primary, fallback Provider)
}

// FallbackNotice describes a primary-to-fallback switch so callers can
// surface it to the user instead of hiding the degradation.
type FallbackNotice struct {
	Reason        string
	Primary       string
	Fallback      string
	PolicyRefusal bool
}

// NoticeFunc receives fallback notices. May be nil.
type NoticeFunc func(notice FallbackNotice)

// Orchestrator runs text-generation operations against the selected
// providers with retry and one-level automatic fallback.
type Orchestrator interface {
	Summarize(ctx context.Context, text, userNotes string) (string, error)
	ExtractParticipants(ctx context.Context, text string) ([]string, error)
	AnalyzeSentiment(ctx context.Context, text string) (*entities.SentimentAnalysis, error)
	Chat(ctx context.Context, message, contextText string) (string, error)
}

type orchestrator struct {
	selector ProviderSelector
	parser   *Parser
	chunker  *Chunker
	cfg      *config.AIConfig
	logger   *zap.Logger
	notify   NoticeFunc
}

// NewOrchestrator creates the AI orchestrator.
func NewOrchestrator(selector ProviderSelector, cfg *config.AIConfig, logger *zap.Logger, notify NoticeFunc) Orchestrator {
	return &orchestrator{
		selector: selector,
		parser:   NewParser(),
		chunker:  NewChunker(cfg, logger),
		cfg:      cfg,
		logger:   logger,
		notify:   notify,
	}
}

// policyRefusalMarkers classify a provider failure as a content-policy
// refusal rather than a transport problem. Refusals still fall over to
// the secondary provider, but the notice says why.
var policyRefusalMarkers = []string{
	"refuse", "sensitive", "policy", "inappropriate", "cannot", "unable",
}

func isPolicyRefusal(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range policyRefusalMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// execute runs one prompt with retry on the primary and at most one
// fallback attempt on the secondary.
func (o *orchestrator) execute(ctx context.Context, prompt string) (string, error) {
	primary, fallback := o.selector.Resolve(ctx)
	if primary == nil {
		return "", errors.ErrNoProviderAvailable()
	}

	out, err := o.callWithRetry(ctx, primary, prompt)
	if err == nil {
		return out, nil
	}

	refusal := isPolicyRefusal(err)
	if o.logger != nil {
		o.logger.Warn("⚠️ Primary provider failed",
			zap.String("provider", primary.Name()),
			zap.Bool("policy_refusal", refusal),
			zap.Error(err))
	}

	if fallback == nil {
		return "", errors.ErrProviderCallFailed(primary.Name(), err)
	}

	reason := "api_error"
	if refusal {
		reason = "content_policy"
	}
	if o.notify != nil {
		o.notify(FallbackNotice{
			Reason:        reason,
			Primary:       primary.Name(),
			Fallback:      fallback.Name(),
			PolicyRefusal: refusal,
		})
	}
	if o.logger != nil {
		o.logger.Info("🔄 Falling back to secondary provider",
			zap.String("from", primary.Name()),
			zap.String("to", fallback.Name()),
			zap.String("reason", reason))
	}

	out, ferr := o.callWithRetry(ctx, fallback, prompt)
	if ferr != nil {
		return "", errors.ErrAllProvidersFailed(primary.Name(), fallback.Name(), ferr)
	}
	return out, nil
}

// callWithRetry retries transient failures against a single provider.
// Non-retryable errors (including policy refusals) stop immediately.
func (o *orchestrator) callWithRetry(ctx context.Context, provider Provider, prompt string) (string, error) {
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 2 * time.Second
	expBackoff.MaxInterval = 10 * time.Second
	expBackoff.MaxElapsedTime = 30 * time.Second

	var result string
	operation := func() error {
		out, err := provider.Complete(ctx, prompt)
		if err != nil {
			if !runcontext.IsRetryableError(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = out
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(expBackoff, ctx)); err != nil {
		return "", err
	}
	return result, nil
}

// Summarize produces a meeting summary. Very large transcripts are split
// into overlapping windows, summarized per window, and combined.
func (o *orchestrator) Summarize(ctx context.Context, text, userNotes string) (string, error) {
	if len(text) > o.cfg.ChunkThreshold {
		return o.chunker.SummarizeLarge(ctx, text,
			func(ctx context.Context, window string) (string, error) {
				return o.execute(ctx, o.buildSummaryPrompt(window, ""))
			},
			func(ctx context.Context, stitched string) (string, error) {
				return o.execute(ctx, o.buildCombinePrompt(stitched, userNotes))
			})
	}
	return o.execute(ctx, o.buildSummaryPrompt(text, userNotes))
}

const defaultSummaryPrompt = `Summarize the following meeting transcript in a few concise paragraphs.
Focus on what was discussed, decided, and agreed. Write in plain prose without headers.

Transcript:
%s`

func (o *orchestrator) buildSummaryPrompt(text, userNotes string) string {
	template := defaultSummaryPrompt
	if o.cfg.SummaryPrompt != "" {
		template = o.cfg.SummaryPrompt
	}
	prompt := fmt.Sprintf(template, text)
	if section := buildNotesSection(userNotes); section != "" {
		prompt += "\n\n" + section
	}
	return prompt
}

func (o *orchestrator) buildCombinePrompt(stitched, userNotes string) string {
	prompt := fmt.Sprintf(`The following are section summaries of one long meeting, in order.
Combine them into a single coherent summary of the whole meeting. Do not mention sections.

%s`, stitched)
	if section := buildNotesSection(userNotes); section != "" {
		prompt += "\n\n" + section
	}
	return prompt
}

// buildNotesSection lifts marker-prefixed user note lines into labelled
// groups so flagged items survive into the summary.
func buildNotesSection(userNotes string) string {
	if strings.TrimSpace(userNotes) == "" {
		return ""
	}

	groups := map[string][]string{}
	var plain []string
	for _, line := range strings.Split(userNotes, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "action:"):
			groups["Flagged action items"] = append(groups["Flagged action items"], strings.TrimSpace(line[len("action:"):]))
		case strings.HasPrefix(lower, "decision:"):
			groups["Flagged decisions"] = append(groups["Flagged decisions"], strings.TrimSpace(line[len("decision:"):]))
		case strings.HasPrefix(lower, "question:"):
			groups["Open questions"] = append(groups["Open questions"], strings.TrimSpace(line[len("question:"):]))
		case strings.HasPrefix(lower, "follow-up:"):
			groups["Follow-ups"] = append(groups["Follow-ups"], strings.TrimSpace(line[len("follow-up:"):]))
		case strings.HasPrefix(lower, "followup:"):
			groups["Follow-ups"] = append(groups["Follow-ups"], strings.TrimSpace(line[len("followup:"):]))
		default:
			plain = append(plain, line)
		}
	}

	var sb strings.Builder
	sb.WriteString("The attendee taking notes flagged the following; make sure the summary reflects them:\n")
	for _, label := range []string{"Flagged action items", "Flagged decisions", "Open questions", "Follow-ups"} {
		for _, item := range groups[label] {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", label, item))
		}
	}
	for _, line := range plain {
		sb.WriteString(fmt.Sprintf("- Note: %s\n", line))
	}
	return sb.String()
}

const participantsPrompt = `List the names of every person who speaks in this transcript.
Respond with ONLY a JSON array of name strings, for example ["Alice Chen","Bob"].
Do not include titles, roles, or anyone merely mentioned but not speaking.

Transcript:
%s`

// ExtractParticipants asks the model for speaker names and parses the
// JSON array reply. Callers treat errors and empty results as a signal
// to fall back to heuristic extraction.
func (o *orchestrator) ExtractParticipants(ctx context.Context, text string) ([]string, error) {
	raw, err := o.execute(ctx, fmt.Sprintf(participantsPrompt, text))
	if err != nil {
		return nil, err
	}

	names, err := o.parser.ParseStringList(raw)
	if err != nil {
		return nil, errors.ErrMalformedAIResponse("extract_participants", err)
	}
	return names, nil
}

const sentimentPrompt = `Analyze the emotional tone of this meeting transcript.
Respond with ONLY a JSON object using exactly these keys:
{
  "overall": "positive|neutral|negative",
  "score": 0.0,
  "confidence": 0.0,
  "engagement_level": "low|medium|high",
  "relationship_health": "improving|stable|declining",
  "communication_style": "open|guarded|mixed",
  "energy_level": "low|medium|high",
  "participant_dynamics": {"dominant_speaker": "", "collaboration_level": "low|medium|high", "conflict_detected": false},
  "observations": [],
  "support_needs": [],
  "follow_up_recommendations": [],
  "risk_factors": [],
  "strengths": []
}

Transcript:
%s`

// AnalyzeSentiment returns the meeting's emotional read. A reply that
// cannot be parsed degrades to the neutral default instead of failing;
// provider errors still propagate.
func (o *orchestrator) AnalyzeSentiment(ctx context.Context, text string) (*entities.SentimentAnalysis, error) {
	raw, err := o.execute(ctx, fmt.Sprintf(sentimentPrompt, text))
	if err != nil {
		return nil, err
	}

	sentiment, parseErr := o.parser.ParseSentiment(raw)
	if parseErr != nil && o.logger != nil {
		o.logger.Warn("⚠️ Sentiment reply unparseable, using neutral default", zap.Error(parseErr))
	}
	return sentiment, nil
}

// Chat runs a free-form prompt, optionally grounded in context text.
func (o *orchestrator) Chat(ctx context.Context, message, contextText string) (string, error) {
	prompt := message
	if strings.TrimSpace(contextText) != "" {
		prompt = fmt.Sprintf("Context:\n%s\n\n%s", contextText, message)
	}
	return o.execute(ctx, prompt)
}
