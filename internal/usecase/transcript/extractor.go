package transcript

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/insightcrew/relata/internal/domain/entities"
)

// NameSource extracts speaker names from raw transcript text. The AI
// orchestrator satisfies this; the extractor falls back to line-scanning
// heuristics when the source errors or returns nothing.
type NameSource interface {
	ExtractParticipants(ctx context.Context, text string) ([]string, error)
}

// IdentityResolver links an extracted display name to a known person.
type IdentityResolver interface {
	Resolve(ctx context.Context, name string) (*entities.Person, float64, error)
}

// Extractor turns raw transcript text into participant records with
// per-speaker activity estimates and identity links.
type Extractor struct {
	names       NameSource
	resolver    IdentityResolver
	currentUser string
	logger      *zap.Logger
}

// NewExtractor creates a participant extractor. names and resolver may be
// nil; the extractor then runs on heuristics alone and leaves records
// unlinked.
func NewExtractor(names NameSource, resolver IdentityResolver, currentUser string, logger *zap.Logger) *Extractor {
	return &Extractor{
		names:       names,
		resolver:    resolver,
		currentUser: currentUser,
		logger:      logger,
	}
}

var (
	voiceAnnotationPattern = regexp.MustCompile(`(?i)\[voice analysis[^\]]*\b(\d+)\s*speakers?\b`)

	manualColonPattern   = regexp.MustCompile(`(?m)^([A-Z][a-zA-Z .'-]{1,30}?)\s*:`)
	manualDashPattern    = regexp.MustCompile(`(?m)^([A-Z][a-zA-Z .'-]{1,30}?)\s+-\s`)
	manualParenPattern   = regexp.MustCompile(`\(([A-Z][a-zA-Z .'-]{1,30}?)\)`)
	teamsSpeakerPattern  = regexp.MustCompile(`\[([A-Za-z][A-Za-z .'-]{0,48})\]`)
	leadingStampPattern  = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?\s*`)
)

// Non-name tokens that line scanning keeps producing from meeting exports.
var nameBlacklist = map[string]struct{}{
	"meeting":    {},
	"host":       {},
	"recording":  {},
	"transcript": {},
	"speaker":    {},
	"user":       {},
	"unknown":    {},
	"everyone":   {},
	"guest":      {},
	"admin":      {},
	"moderator":  {},
	"audio":      {},
	"video":      {},
	"zoom":       {},
	"teams":      {},
	"all":        {},
	"note":       {},
	"notes":      {},
}

// Extract produces participant records for a transcript. The AI name
// source is tried first; heuristics take over on error or an empty
// result, so extraction itself never fails outright.
func (e *Extractor) Extract(ctx context.Context, input *entities.TranscriptInput) ([]entities.ParticipantRecord, error) {
	if name, ok := e.singleAnnotatedSpeaker(input.Text); ok {
		if e.logger != nil {
			e.logger.Info("🎤 Voice annotation declares a single speaker, skipping extraction",
				zap.String("speaker", name))
		}
		record := entities.NewParticipantRecord(name)
		record.MessageCount = countMessages(input.Text, name, input.Format)
		record.SpeakingTime = input.EstimatedDuration
		e.resolve(ctx, record)
		return []entities.ParticipantRecord{*record}, nil
	}

	names := e.extractNames(ctx, input.Text, input.Format)
	names = e.filterNames(names)

	records := make([]entities.ParticipantRecord, 0, len(names))
	for _, name := range names {
		record := entities.NewParticipantRecord(name)
		record.MessageCount = countMessages(input.Text, name, input.Format)
		records = append(records, *record)
	}

	distributeSpeakingTime(records, input.EstimatedDuration)

	for i := range records {
		e.resolve(ctx, &records[i])
	}

	if e.logger != nil {
		e.logger.Info("✅ Participant extraction complete",
			zap.String("format", string(input.Format)),
			zap.Int("participants", len(records)))
	}
	return records, nil
}

// singleAnnotatedSpeaker reports whether an embedded voice-analysis
// annotation declares exactly one detected speaker, and returns that
// speaker's name from the first plain speaker line.
func (e *Extractor) singleAnnotatedSpeaker(text string) (string, bool) {
	match := voiceAnnotationPattern.FindStringSubmatch(text)
	if match == nil || match[1] != "1" {
		return "", false
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		if idx := strings.Index(line, ":"); idx > 0 {
			name := strings.TrimSpace(leadingStampPattern.ReplaceAllString(line[:idx], ""))
			if isValidName(name) {
				return name, true
			}
		}
	}
	return "", false
}

func (e *Extractor) extractNames(ctx context.Context, text string, format entities.TranscriptFormat) []string {
	if e.names != nil {
		names, err := e.names.ExtractParticipants(ctx, text)
		if err == nil && len(names) > 0 {
			return names
		}
		if e.logger != nil {
			e.logger.Warn("⚠️ AI name extraction unusable, falling back to heuristics",
				zap.Error(err), zap.Int("names", len(names)))
		}
	}
	return heuristicNames(text, format)
}

// heuristicNames scans the text with format-specific patterns.
func heuristicNames(text string, format entities.TranscriptFormat) []string {
	var names []string
	switch format {
	case entities.TranscriptFormatTeams:
		for _, m := range teamsSpeakerPattern.FindAllStringSubmatch(text, -1) {
			names = append(names, m[1])
		}
	case entities.TranscriptFormatManual:
		for _, p := range []*regexp.Regexp{manualColonPattern, manualDashPattern, manualParenPattern} {
			for _, m := range p.FindAllStringSubmatch(text, -1) {
				names = append(names, m[1])
			}
		}
	default:
		// Zoom and generic exports both put "Name: utterance" on each
		// line, sometimes behind a timestamp.
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(leadingStampPattern.ReplaceAllString(strings.TrimSpace(line), ""))
			idx := strings.Index(line, ":")
			if idx <= 0 {
				continue
			}
			names = append(names, line[:idx])
		}
	}
	return names
}

// filterNames trims, validates, deduplicates (order preserving) and drops
// the configured current user.
func (e *Extractor) filterNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	current := strings.ToLower(strings.TrimSpace(e.currentUser))

	for _, name := range names {
		name = strings.TrimSpace(name)
		if !isValidName(name) {
			continue
		}
		key := strings.ToLower(name)
		if current != "" && key == current {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// isValidName rejects tokens that are clearly not human names.
func isValidName(name string) bool {
	name = strings.TrimSpace(name)
	if len(name) <= 1 || len(name) > 30 {
		return false
	}
	if _, banned := nameBlacklist[strings.ToLower(name)]; banned {
		return false
	}
	if strings.ContainsAny(name, "@\"'?!.") {
		return false
	}
	if strings.Contains(strings.ToLower(name), "http") {
		return false
	}

	hasLetter := false
	for _, r := range name {
		if r >= '0' && r <= '9' {
			return false
		}
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasLetter = true
		}
	}
	return hasLetter
}

// countMessages counts utterance lines attributed to the named speaker.
func countMessages(text, name string, format entities.TranscriptFormat) int {
	lowerName := strings.ToLower(name)
	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		line = leadingStampPattern.ReplaceAllString(line, "")
		switch format {
		case entities.TranscriptFormatTeams:
			if strings.HasPrefix(line, "["+lowerName+"]") {
				count++
			}
		default:
			if strings.HasPrefix(line, lowerName+":") || strings.HasPrefix(line, lowerName+" - ") {
				count++
			}
		}
	}
	return count
}

// distributeSpeakingTime splits the estimated duration across speakers
// proportionally to their message counts, so speakers with no counted
// messages get none. Only when nobody has a counted message does
// everyone take an even share.
func distributeSpeakingTime(records []entities.ParticipantRecord, total time.Duration) {
	if len(records) == 0 || total <= 0 {
		return
	}

	totalMessages := 0
	for _, r := range records {
		totalMessages += r.MessageCount
	}
	if totalMessages == 0 {
		share := total / time.Duration(len(records))
		for i := range records {
			records[i].SpeakingTime = share
		}
		return
	}

	for i := range records {
		records[i].SpeakingTime = total * time.Duration(records[i].MessageCount) / time.Duration(totalMessages)
	}
}

func (e *Extractor) resolve(ctx context.Context, record *entities.ParticipantRecord) {
	if e.resolver == nil {
		return
	}
	person, score, err := e.resolver.Resolve(ctx, record.DisplayName)
	if err != nil {
		if e.logger != nil {
			e.logger.Warn("⚠️ Identity resolution failed, leaving participant unlinked",
				zap.String("name", record.DisplayName), zap.Error(err))
		}
		return
	}
	if person != nil {
		record.LinkPerson(person.ID, score)
	}
}
