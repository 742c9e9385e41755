package summarize

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/thywilljoshua/booksum/internal/ai"
	"go.uber.org/zap"
)

// Summarizer sends bounded requests to a Generator. A failed request yields
// no summary; it is logged and never retried.
type Summarizer struct {
	gen ai.Generator
	log *zap.Logger
}

func New(gen ai.Generator, log *zap.Logger) *Summarizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Summarizer{gen: gen, log: log}
}

// Summarize makes a single request with at most maxInputChars characters of
// body. ok is false when generation failed or returned nothing.
func (s *Summarizer) Summarize(ctx context.Context, body, directive string, maxInputChars int) (summary string, ok bool) {
	req := Truncate(body, maxInputChars)
	if len(req) < len(body) {
		s.log.Debug("input truncated to request limit",
			zap.Int("chars", utf8.RuneCountInString(body)),
			zap.Int("limit", maxInputChars))
	}
	out, err := s.gen.Generate(ctx, directive, req)
	if err != nil {
		s.log.Warn("summary generation failed", zap.Error(err))
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		s.log.Warn("summary generation returned no text")
		return "", false
	}
	return out, true
}

// SummarizeChunked summarizes each chunkSize slice of body independently and
// in order. Failed chunks are left out of the result; chunks after ctx is
// done are not sent.
func (s *Summarizer) SummarizeChunked(ctx context.Context, body, directive string, chunkSize int) []string {
	chunks := Chunk(body, chunkSize)
	var out []string
	for i, c := range chunks {
		if ctx.Err() != nil {
			break
		}
		sum, ok := s.Summarize(ctx, c, directive, chunkSize)
		if !ok {
			s.log.Warn("chunk skipped", zap.Int("chunk", i+1), zap.Int("chunks", len(chunks)))
			continue
		}
		out = append(out, sum)
	}
	return out
}
