package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/insightcrew/relata/pkg/config"
)

// Chunker splits oversized transcripts into overlapping windows and
// stitches the per-window summaries back together.
type Chunker struct {
	threshold int
	overlap   int
	delay     time.Duration
	logger    *zap.Logger
}

// NewChunker creates a chunker from the AI configuration.
func NewChunker(cfg *config.AIConfig, logger *zap.Logger) *Chunker {
	return &Chunker{
		threshold: cfg.ChunkThreshold,
		overlap:   cfg.ChunkOverlap,
		delay:     cfg.ChunkDelay,
		logger:    logger,
	}
}

// Split cuts text into windows of at most threshold characters where each
// window repeats the last overlap characters of the previous one, so no
// utterance is lost at a boundary. Dropping the first overlap characters
// of every window after the first reproduces the source exactly.
func (c *Chunker) Split(text string) []string {
	if len(text) <= c.threshold {
		return []string{text}
	}

	step := c.threshold - c.overlap
	var windows []string
	for start := 0; start < len(text); start += step {
		end := start + c.threshold
		if end >= len(text) {
			windows = append(windows, text[start:])
			break
		}
		windows = append(windows, text[start:end])
	}
	return windows
}

// SummarizeLarge summarizes each window in order, pausing between calls
// to avoid hammering the provider, then runs one combine call over the
// labelled section summaries.
func (c *Chunker) SummarizeLarge(
	ctx context.Context,
	text string,
	summarizeWindow func(ctx context.Context, window string) (string, error),
	combine func(ctx context.Context, stitched string) (string, error),
) (string, error) {
	windows := c.Split(text)
	if c.logger != nil {
		c.logger.Info("🔄 Summarizing large transcript in windows",
			zap.Int("windows", len(windows)),
			zap.Int("chars", len(text)))
	}

	var sb strings.Builder
	for i, window := range windows {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if i > 0 && c.delay > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(c.delay):
			}
		}

		summary, err := summarizeWindow(ctx, window)
		if err != nil {
			return "", fmt.Errorf("failed to summarize window %d of %d: %w", i+1, len(windows), err)
		}
		sb.WriteString(fmt.Sprintf("Section %d of %d:\n%s\n\n", i+1, len(windows), summary))
	}

	stitched := sb.String()
	if len(stitched) > c.threshold && c.logger != nil {
		// The combine prompt itself exceeds one window. Attempt it
		// anyway; providers usually tolerate modest overruns.
		c.logger.Warn("⚠️ Combined section summaries exceed the window threshold",
			zap.Int("chars", len(stitched)),
			zap.Int("threshold", c.threshold))
	}

	return combine(ctx, stitched)
}
