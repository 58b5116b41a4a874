package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/insightcrew/relata/errors"
	"github.com/insightcrew/relata/internal/domain/entities"
)

type fakeOrchestrator struct {
	summary      string
	summaryErr   error
	actionsReply string
	titleReply   string
	sentimentErr error

	// When set, Summarize blocks until the context is cancelled.
	blockSummary   bool
	summaryEntered chan struct{}
}

func (f *fakeOrchestrator) Summarize(ctx context.Context, _, _ string) (string, error) {
	if f.summaryEntered != nil {
		close(f.summaryEntered)
		f.summaryEntered = nil
	}
	if f.blockSummary {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.summary, f.summaryErr
}

func (f *fakeOrchestrator) ExtractParticipants(context.Context, string) ([]string, error) {
	return nil, fmt.Errorf("not used")
}

func (f *fakeOrchestrator) AnalyzeSentiment(context.Context, string) (*entities.SentimentAnalysis, error) {
	if f.sentimentErr != nil {
		return nil, f.sentimentErr
	}
	neutral := entities.NeutralSentiment()
	neutral.Overall = "positive"
	return &neutral, nil
}

func (f *fakeOrchestrator) Chat(_ context.Context, message, _ string) (string, error) {
	if strings.Contains(message, "title") {
		return f.titleReply, nil
	}
	return f.actionsReply, nil
}

type fakeExtractor struct {
	records []entities.ParticipantRecord
	calls   int
}

func (f *fakeExtractor) Extract(_ context.Context, _ *entities.TranscriptInput) ([]entities.ParticipantRecord, error) {
	f.calls++
	return f.records, nil
}

func happyOrchestrator() *fakeOrchestrator {
	return &fakeOrchestrator{
		summary:      "they agreed on the launch plan",
		actionsReply: `{"action_items": ["send the deck"], "key_points": ["launch is on track"]}`,
		titleReply:   "Launch Planning Sync",
	}
}

func TestRunProducesCompleteResult(t *testing.T) {
	extractor := &fakeExtractor{records: []entities.ParticipantRecord{
		*entities.NewParticipantRecord("Alice"),
	}}
	controller := NewController(happyOrchestrator(), extractor, nil)

	result, err := controller.Run(context.Background(), Request{
		Text:  "Alice: hello\nBob: hi there",
		Notes: "action: send the deck",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if controller.Phase() != PhaseComplete {
		t.Errorf("Phase() = %q, want complete", controller.Phase())
	}
	if result.Summary != "they agreed on the launch plan" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(result.Participants) != 1 || result.Participants[0].DisplayName != "Alice" {
		t.Errorf("Participants = %v", result.Participants)
	}
	if len(result.ActionItems) != 1 || result.ActionItems[0] != "send the deck" {
		t.Errorf("ActionItems = %v", result.ActionItems)
	}
	if len(result.KeyPoints) != 1 || result.KeyPoints[0] != "launch is on track" {
		t.Errorf("KeyPoints = %v", result.KeyPoints)
	}
	if result.Sentiment.Overall != "positive" {
		t.Errorf("Sentiment.Overall = %q", result.Sentiment.Overall)
	}
	if result.SuggestedTitle != "Launch Planning Sync" {
		t.Errorf("SuggestedTitle = %q", result.SuggestedTitle)
	}
	if result.Transcript == nil || result.Transcript.Format != entities.TranscriptFormatGeneric {
		t.Errorf("Transcript format not derived: %+v", result.Transcript)
	}
	if result.UserNotes != "action: send the deck" {
		t.Errorf("UserNotes = %q", result.UserNotes)
	}
}

func TestRunReportsPhasesInOrder(t *testing.T) {
	controller := NewController(happyOrchestrator(), &fakeExtractor{}, nil)

	var phases []Phase
	controller.OnProgress(func(phase Phase) { phases = append(phases, phase) })

	if _, err := controller.Run(context.Background(), Request{Text: "Alice: hello"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []Phase{
		PhaseAnalyzing, PhaseParticipants, PhaseSummary,
		PhaseActions, PhaseSentiment, PhaseFinalizing, PhaseComplete,
	}
	if len(phases) != len(want) {
		t.Fatalf("phases = %v, want %v", phases, want)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Fatalf("phases = %v, want %v", phases, want)
		}
	}
}

func TestRunSuppliedParticipantsSkipExtraction(t *testing.T) {
	extractor := &fakeExtractor{}
	controller := NewController(happyOrchestrator(), extractor, nil)

	result, err := controller.Run(context.Background(), Request{
		Text:         "Alice: hello",
		Participants: []string{"Alice", " Bob ", ""},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if extractor.calls != 0 {
		t.Errorf("extractor called %d times, want 0 with supplied participants", extractor.calls)
	}
	if len(result.Participants) != 2 {
		t.Fatalf("Participants = %v, want 2 trimmed records", result.Participants)
	}
	if result.Participants[1].DisplayName != "Bob" {
		t.Errorf("second participant = %q, want trimmed Bob", result.Participants[1].DisplayName)
	}
}

func TestRunEmptyTranscriptFails(t *testing.T) {
	controller := NewController(happyOrchestrator(), &fakeExtractor{}, nil)

	_, err := controller.Run(context.Background(), Request{Text: "   "})
	if err == nil {
		t.Fatal("Run() expected error for empty transcript")
	}
	if controller.Phase() != PhaseIdle {
		t.Errorf("Phase() = %q, want idle after failure", controller.Phase())
	}
}

func TestRunFailureResetsToIdleWithoutResult(t *testing.T) {
	orch := happyOrchestrator()
	orch.summaryErr = fmt.Errorf("provider down")
	controller := NewController(orch, &fakeExtractor{}, nil)

	result, err := controller.Run(context.Background(), Request{Text: "Alice: hello"})
	if err == nil {
		t.Fatal("Run() expected error")
	}
	if result != nil {
		t.Errorf("Run() returned partial result %v alongside error", result)
	}

	var appErr errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrorCode_PIPELINE_FAILED {
		t.Errorf("Run() error = %v, want PIPELINE_FAILED", err)
	}
	if appErr.Details["phase"] != string(PhaseSummary) {
		t.Errorf("failed phase = %q, want summary", appErr.Details["phase"])
	}
	if controller.Phase() != PhaseIdle {
		t.Errorf("Phase() = %q, want idle after failure", controller.Phase())
	}
}

func TestRunActionExtractionDegradesGracefully(t *testing.T) {
	orch := happyOrchestrator()
	orch.actionsReply = "no structured data here"
	controller := NewController(orch, &fakeExtractor{}, nil)

	result, err := controller.Run(context.Background(), Request{Text: "Alice: hello"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.ActionItems == nil || len(result.ActionItems) != 0 {
		t.Errorf("ActionItems = %v, want empty slice", result.ActionItems)
	}
	if result.KeyPoints == nil || len(result.KeyPoints) != 0 {
		t.Errorf("KeyPoints = %v, want empty slice", result.KeyPoints)
	}
}

func TestCancelAbortsRun(t *testing.T) {
	orch := happyOrchestrator()
	orch.blockSummary = true
	entered := make(chan struct{})
	orch.summaryEntered = entered
	controller := NewController(orch, &fakeExtractor{}, nil)

	type outcome struct {
		result *entities.AnalysisResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := controller.Run(context.Background(), Request{Text: "Alice: hello"})
		done <- outcome{result, err}
	}()

	<-entered
	controller.Cancel()

	select {
	case out := <-done:
		if out.err == nil {
			t.Fatal("Run() expected error after cancel")
		}
		if out.result != nil {
			t.Errorf("Run() returned partial result after cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if controller.Phase() != PhaseIdle {
		t.Errorf("Phase() = %q, want idle after cancel", controller.Phase())
	}
}

func TestRunRejectsConcurrentInvocation(t *testing.T) {
	orch := happyOrchestrator()
	orch.blockSummary = true
	entered := make(chan struct{})
	orch.summaryEntered = entered
	controller := NewController(orch, &fakeExtractor{}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		controller.Run(context.Background(), Request{Text: "Alice: hello"}) //nolint:errcheck
	}()

	<-entered
	if _, err := controller.Run(context.Background(), Request{Text: "Bob: hi"}); err == nil {
		t.Error("second Run() should be rejected while one is in progress")
	}

	controller.Cancel()
	<-done
}
