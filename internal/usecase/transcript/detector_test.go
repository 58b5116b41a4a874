package transcript

import (
	"testing"

	"github.com/insightcrew/relata/internal/domain/entities"
)

func TestDetectFormatZoom(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"product name", "Zoom Meeting Recording\nAlice: hello everyone"},
		{"timestamps", "00:01:15 Alice: hello\n00:02:30 Bob: hi"},
		{"meridiem times", "10:05 AM Alice spoke about the roadmap"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.text); got != entities.TranscriptFormatZoom {
				t.Errorf("DetectFormat() = %q, want zoom", got)
			}
		})
	}
}

func TestDetectFormatGeneric(t *testing.T) {
	cases := []struct {
		name string
		text string
	}{
		{"colon speaker lines", "Alice: let's get started\nBob: sounds good"},
		{"bracketed speakers", "some text [Alice] more text"},
		{"dash speaker lines", "Alice - we should ship this week\nBob - agreed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectFormat(tc.text); got != entities.TranscriptFormatGeneric {
				t.Errorf("DetectFormat() = %q, want generic", got)
			}
		})
	}
}

func TestDetectFormatTeams(t *testing.T) {
	text := "Microsoft Teams meeting transcript\nsome unstructured content without speaker markers"
	if got := DetectFormat(text); got != entities.TranscriptFormatTeams {
		t.Errorf("DetectFormat() = %q, want teams", got)
	}
}

func TestDetectFormatManual(t *testing.T) {
	text := "met with the design folks today, went over the new onboarding flow, everybody liked it"
	if got := DetectFormat(text); got != entities.TranscriptFormatManual {
		t.Errorf("DetectFormat() = %q, want manual", got)
	}
}

// Precedence: Zoom markers win over speaker-line patterns, and
// speaker-line patterns win over Teams markers.
func TestDetectFormatPrecedence(t *testing.T) {
	zoomAndGeneric := "Zoom Meeting\nAlice: hello\nBob: hi"
	if got := DetectFormat(zoomAndGeneric); got != entities.TranscriptFormatZoom {
		t.Errorf("DetectFormat() = %q, want zoom when zoom markers present", got)
	}

	genericAndTeams := "Microsoft Teams meeting transcript\nAlice: hello there"
	if got := DetectFormat(genericAndTeams); got != entities.TranscriptFormatGeneric {
		t.Errorf("DetectFormat() = %q, want generic to win over teams markers", got)
	}
}

func TestDetectFormatDeterministic(t *testing.T) {
	text := "Alice: hi\nBob: hello"
	first := DetectFormat(text)
	for i := 0; i < 10; i++ {
		if got := DetectFormat(text); got != first {
			t.Fatalf("DetectFormat() not deterministic: %q then %q", first, got)
		}
	}
}
