package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/insightcrew/relata/internal/domain/entities"
)

// Parser extracts structured data from model replies. Models wrap JSON in
// markdown fences and prose more often than not, so every parse strips
// decoration first and keeps a lenient fallback.
type Parser struct{}

// NewParser creates a reply parser.
func NewParser() *Parser {
	return &Parser{}
}

var quotedStringPattern = regexp.MustCompile(`"([^"]+)"`)

// ExtractJSON strips markdown code fences and surrounding prose, returning
// the first JSON value in the content.
func (p *Parser) ExtractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.Contains(content, "```json") {
		start := strings.Index(content, "```json") + len("```json")
		rest := content[start:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if strings.Contains(content, "```") {
		start := strings.Index(content, "```") + len("```")
		rest := content[start:]
		if end := strings.Index(rest, "```"); end >= 0 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	// No fences; cut from the first bracket to the matching last one.
	objStart := strings.IndexAny(content, "{[")
	if objStart < 0 {
		return content
	}
	var objEnd int
	if content[objStart] == '{' {
		objEnd = strings.LastIndex(content, "}")
	} else {
		objEnd = strings.LastIndex(content, "]")
	}
	if objEnd > objStart {
		return content[objStart : objEnd+1]
	}
	return content
}

// ParseStringList parses a JSON array of strings, falling back to
// scanning for quoted strings when strict parsing fails. Errors only when
// nothing list-like can be recovered.
func (p *Parser) ParseStringList(content string) ([]string, error) {
	cleaned := p.ExtractJSON(content)

	var items []string
	if err := json.Unmarshal([]byte(cleaned), &items); err == nil {
		return trimNonEmpty(items), nil
	}

	var recovered []string
	for _, m := range quotedStringPattern.FindAllStringSubmatch(cleaned, -1) {
		recovered = append(recovered, m[1])
	}
	recovered = trimNonEmpty(recovered)
	if len(recovered) == 0 {
		return nil, fmt.Errorf("no string list found in reply")
	}
	return recovered, nil
}

func trimNonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ParseSentiment parses a sentiment reply. It always returns a usable
// analysis: on failure the neutral default, on partial replies the parsed
// fields with the rest backfilled. The error reports what went wrong for
// logging only.
func (p *Parser) ParseSentiment(content string) (*entities.SentimentAnalysis, error) {
	cleaned := p.ExtractJSON(content)

	var sentiment entities.SentimentAnalysis
	if err := json.Unmarshal([]byte(cleaned), &sentiment); err != nil {
		neutral := entities.NeutralSentiment()
		return &neutral, fmt.Errorf("failed to parse sentiment reply: %w", err)
	}

	sentiment.Backfill()
	sentiment.Score = clamp01(sentiment.Score)
	sentiment.Confidence = clamp01(sentiment.Confidence)
	return &sentiment, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
