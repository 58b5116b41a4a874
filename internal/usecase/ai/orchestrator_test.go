package ai

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/insightcrew/relata/errors"
	"github.com/insightcrew/relata/internal/domain/entities"
	"github.com/insightcrew/relata/pkg/config"
)

type fakeProvider struct {
	name    string
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSelector struct {
	primary  Provider
	fallback Provider
}

func (f *fakeSelector) Resolve(context.Context) (Provider, Provider) {
	return f.primary, f.fallback
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		ChunkThreshold: 150000,
		ChunkOverlap:   10000,
		ChunkDelay:     0,
	}
}

func TestChatUsesPrimary(t *testing.T) {
	primary := &fakeProvider{name: "on-device", reply: "fine"}
	fallback := &fakeProvider{name: "cloud", reply: "also fine"}
	orch := NewOrchestrator(&fakeSelector{primary: primary, fallback: fallback}, testAIConfig(), nil, nil)

	out, err := orch.Chat(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if out != "fine" {
		t.Errorf("Chat() = %q, want primary reply", out)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls)
	}
}

func TestChatNoProviderAvailable(t *testing.T) {
	orch := NewOrchestrator(&fakeSelector{}, testAIConfig(), nil, nil)

	_, err := orch.Chat(context.Background(), "hello", "")
	var appErr errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_AI_NO_PROVIDER {
		t.Fatalf("Chat() error = %v, want AI_NO_PROVIDER", err)
	}
}

func TestChatFallsBackOnFailure(t *testing.T) {
	primary := &fakeProvider{name: "on-device", err: fmt.Errorf("bad request")}
	fallback := &fakeProvider{name: "cloud", reply: "recovered"}

	var notice FallbackNotice
	orch := NewOrchestrator(&fakeSelector{primary: primary, fallback: fallback}, testAIConfig(), nil,
		func(n FallbackNotice) { notice = n })

	out, err := orch.Chat(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if out != "recovered" {
		t.Errorf("Chat() = %q, want fallback reply", out)
	}
	if notice.Primary != "on-device" || notice.Fallback != "cloud" {
		t.Errorf("notice = %+v, want on-device to cloud", notice)
	}
	if notice.Reason != "api_error" || notice.PolicyRefusal {
		t.Errorf("notice = %+v, want api_error without policy refusal", notice)
	}
}

func TestChatClassifiesPolicyRefusal(t *testing.T) {
	primary := &fakeProvider{name: "on-device", err: fmt.Errorf("model is unable to process this request")}
	fallback := &fakeProvider{name: "cloud", reply: "handled"}

	var notice FallbackNotice
	orch := NewOrchestrator(&fakeSelector{primary: primary, fallback: fallback}, testAIConfig(), nil,
		func(n FallbackNotice) { notice = n })

	if _, err := orch.Chat(context.Background(), "hello", ""); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if notice.Reason != "content_policy" || !notice.PolicyRefusal {
		t.Errorf("notice = %+v, want content_policy refusal", notice)
	}
}

func TestChatAllProvidersFailed(t *testing.T) {
	primary := &fakeProvider{name: "on-device", err: fmt.Errorf("bad request")}
	fallback := &fakeProvider{name: "cloud", err: fmt.Errorf("invalid api key")}
	orch := NewOrchestrator(&fakeSelector{primary: primary, fallback: fallback}, testAIConfig(), nil, nil)

	_, err := orch.Chat(context.Background(), "hello", "")
	var appErr errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_AI_ALL_PROVIDERS_FAILED {
		t.Fatalf("Chat() error = %v, want AI_ALL_PROVIDERS_FAILED", err)
	}
	if fallback.calls != 1 {
		t.Errorf("fallback called %d times, want exactly one attempt", fallback.calls)
	}
}

func TestChatNoFallbackConfigured(t *testing.T) {
	primary := &fakeProvider{name: "on-device", err: fmt.Errorf("bad request")}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, testAIConfig(), nil, nil)

	_, err := orch.Chat(context.Background(), "hello", "")
	var appErr errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_AI_PROVIDER_CALL_FAILED {
		t.Fatalf("Chat() error = %v, want AI_PROVIDER_CALL_FAILED", err)
	}
}

func TestExtractParticipantsParsesNames(t *testing.T) {
	primary := &fakeProvider{name: "on-device", reply: `["Alice Chen", "Bob"]`}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, testAIConfig(), nil, nil)

	names, err := orch.ExtractParticipants(context.Background(), "Alice Chen: hi\nBob: hello")
	if err != nil {
		t.Fatalf("ExtractParticipants() error = %v", err)
	}
	if len(names) != 2 || names[0] != "Alice Chen" || names[1] != "Bob" {
		t.Errorf("ExtractParticipants() = %v", names)
	}
}

func TestExtractParticipantsMalformedReply(t *testing.T) {
	primary := &fakeProvider{name: "on-device", reply: "there were several attendees"}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, testAIConfig(), nil, nil)

	_, err := orch.ExtractParticipants(context.Background(), "text")
	var appErr errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_AI_MALFORMED_RESPONSE {
		t.Fatalf("ExtractParticipants() error = %v, want AI_MALFORMED_RESPONSE", err)
	}
}

func TestAnalyzeSentimentNeutralOnGarbage(t *testing.T) {
	primary := &fakeProvider{name: "on-device", reply: "the mood was pretty good overall"}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, testAIConfig(), nil, nil)

	sentiment, err := orch.AnalyzeSentiment(context.Background(), "text")
	if err != nil {
		t.Fatalf("AnalyzeSentiment() error = %v", err)
	}
	if sentiment.Overall != "neutral" || sentiment.Score != 0.5 {
		t.Errorf("AnalyzeSentiment() = %+v, want neutral default", sentiment)
	}
}

// A reply that follows the prompt's schema verbatim must decode into the
// analysis without dropping fields to the neutral backfill.
func TestAnalyzeSentimentKeepsPromptSchemaFields(t *testing.T) {
	reply := `{
  "overall": "negative",
  "score": 0.3,
  "confidence": 0.9,
  "engagement_level": "high",
  "relationship_health": "declining",
  "communication_style": "guarded",
  "energy_level": "low",
  "participant_dynamics": {"dominant_speaker": "Alice", "collaboration_level": "low", "conflict_detected": true},
  "observations": ["tense exchange over scope"],
  "support_needs": [],
  "follow_up_recommendations": ["schedule a one-on-one"],
  "risk_factors": ["unresolved disagreement"],
  "strengths": []
}`
	primary := &fakeProvider{name: "on-device", reply: reply}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, testAIConfig(), nil, nil)

	sentiment, err := orch.AnalyzeSentiment(context.Background(), "text")
	if err != nil {
		t.Fatalf("AnalyzeSentiment() error = %v", err)
	}
	if sentiment.EngagementLevel != "high" {
		t.Errorf("EngagementLevel = %q, want high", sentiment.EngagementLevel)
	}
	if sentiment.RelationshipHealth != "declining" || sentiment.CommunicationStyle != "guarded" {
		t.Errorf("health = %q, style = %q, want declining/guarded",
			sentiment.RelationshipHealth, sentiment.CommunicationStyle)
	}
	if sentiment.Dynamics.DominantSpeaker != "Alice" || !sentiment.Dynamics.ConflictDetected {
		t.Errorf("Dynamics = %+v, want Alice with conflict detected", sentiment.Dynamics)
	}
	if len(sentiment.FollowUps) != 1 || sentiment.FollowUps[0] != "schedule a one-on-one" {
		t.Errorf("FollowUps = %v", sentiment.FollowUps)
	}
}

// Every key the prompt instructs the model to emit must have a matching
// json tag on the analysis types, or well-formed replies silently lose
// fields.
func TestSentimentPromptKeysMatchEntityTags(t *testing.T) {
	tagged := map[string]bool{}
	collect := func(v any) {
		rt := reflect.TypeOf(v)
		for i := 0; i < rt.NumField(); i++ {
			tag := strings.Split(rt.Field(i).Tag.Get("json"), ",")[0]
			if tag != "" && tag != "-" {
				tagged[tag] = true
			}
		}
	}
	collect(entities.SentimentAnalysis{})
	collect(entities.ParticipantDynamics{})

	for _, m := range regexp.MustCompile(`"([a-z_]+)":`).FindAllStringSubmatch(sentimentPrompt, -1) {
		if !tagged[m[1]] {
			t.Errorf("prompt key %q has no matching json tag", m[1])
		}
	}
}

func TestSummarizeSmallTranscriptSingleCall(t *testing.T) {
	primary := &fakeProvider{name: "on-device", reply: "a summary"}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, testAIConfig(), nil, nil)

	out, err := orch.Summarize(context.Background(), "Alice: hi\nBob: hello", "")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if out != "a summary" {
		t.Errorf("Summarize() = %q", out)
	}
	if primary.calls != 1 {
		t.Errorf("provider calls = %d, want 1", primary.calls)
	}
}

func TestSummarizeChunksLargeTranscript(t *testing.T) {
	cfg := &config.AIConfig{ChunkThreshold: 100, ChunkOverlap: 10, ChunkDelay: 0}
	primary := &fakeProvider{name: "on-device", reply: "section summary"}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, cfg, nil, nil)

	text := strings.Repeat("a", 250)
	if _, err := orch.Summarize(context.Background(), text, ""); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	// Three windows plus one combine call.
	if primary.calls != 4 {
		t.Fatalf("provider calls = %d, want 4", primary.calls)
	}
	combinePrompt := primary.prompts[len(primary.prompts)-1]
	if !strings.Contains(combinePrompt, "Section 1 of 3") || !strings.Contains(combinePrompt, "Section 3 of 3") {
		t.Errorf("combine prompt missing ordered section labels:\n%s", combinePrompt)
	}
}

func TestSummarizeLiftsNoteMarkers(t *testing.T) {
	primary := &fakeProvider{name: "on-device", reply: "summary"}
	orch := NewOrchestrator(&fakeSelector{primary: primary}, testAIConfig(), nil, nil)

	notes := "action: send the deck\ndecision: ship friday\nsomething informal"
	if _, err := orch.Summarize(context.Background(), "Alice: hi", notes); err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	prompt := primary.prompts[0]
	if !strings.Contains(prompt, "Flagged action items: send the deck") {
		t.Errorf("prompt missing flagged action item:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Flagged decisions: ship friday") {
		t.Errorf("prompt missing flagged decision:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Note: something informal") {
		t.Errorf("prompt missing plain note:\n%s", prompt)
	}
}
