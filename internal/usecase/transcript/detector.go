package transcript

import (
	"regexp"
	"strings"

	"github.com/insightcrew/relata/internal/domain/entities"
)

// Speaker-line patterns for the generic layout. Tested in order against
// the whole text.
var (
	speakerColonPattern   = regexp.MustCompile(`(?m)^[A-Za-z][A-Za-z .'-]{0,48}:`)
	speakerBracketPattern = regexp.MustCompile(`\[[A-Za-z][A-Za-z .'-]{0,48}\]`)
	speakerDashPattern    = regexp.MustCompile(`(?m)^[A-Za-z][A-Za-z .'-]{0,48} - `)

	meridiemPattern = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*[AP]M\b`)
)

// DetectFormat classifies raw transcript text into one of the known export
// shapes. Pure and deterministic; the precedence order below is load-bearing
// and must not be rearranged (generic speaker-line patterns are checked
// before Teams markers on purpose).
func DetectFormat(text string) entities.TranscriptFormat {
	lower := strings.ToLower(text)

	// 1. Zoom export markers: product name, 00: timestamps, or AM/PM times.
	if strings.Contains(lower, "zoom") ||
		strings.Contains(text, "00:") ||
		meridiemPattern.MatchString(text) {
		return entities.TranscriptFormatZoom
	}

	// 2. Generic speaker-line patterns.
	if speakerColonPattern.MatchString(text) ||
		speakerBracketPattern.MatchString(text) ||
		speakerDashPattern.MatchString(text) {
		return entities.TranscriptFormatGeneric
	}

	// 3. Teams export markers.
	if strings.Contains(lower, "microsoft teams") ||
		strings.Contains(lower, "teams meeting") ||
		strings.Contains(lower, "<v ") {
		return entities.TranscriptFormatTeams
	}

	// 4. Nothing recognizable; treat as manually typed notes.
	return entities.TranscriptFormatManual
}
