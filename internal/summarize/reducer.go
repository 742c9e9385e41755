package summarize

import (
	"context"
	"strings"

	"github.com/thywilljoshua/booksum/internal/sections"
	"go.uber.org/zap"
)

// Separator joins summaries in the combined and overall texts.
const Separator = "\n\n"

type Config struct {
	SectionPrompt   string // Directive for each section.
	OverallPrompt   string // Directive for the reduce stage.
	SectionMaxChars int    // Request limit for one section.
	ChunkSize       int    // Request limit for each reduce chunk.
}

func DefaultConfig() Config {
	return Config{
		SectionPrompt:   SectionPrompt,
		OverallPrompt:   OverallPrompt,
		SectionMaxChars: 8192,
		ChunkSize:       8192,
	}
}

type SectionSummary struct {
	Kind  sections.Kind `json:"kind"`
	Title string        `json:"title"`
	Text  string        `json:"text"`
}

// Outcome reports how one section fared in the map stage.
type Outcome struct {
	Index   int // 1-based
	Total   int
	Section sections.Section
	Summary SectionSummary
	OK      bool
}

// Observer is notified around every section of the map stage.
type Observer interface {
	SectionStarted(index, total int, s sections.Section)
	SectionDone(o Outcome)
}

// Reducer runs the map stage over sections and the reduce stage over the
// combined section summaries.
type Reducer struct {
	s   *Summarizer
	cfg Config
	log *zap.Logger
}

func NewReducer(s *Summarizer, cfg Config, log *zap.Logger) *Reducer {
	def := DefaultConfig()
	if strings.TrimSpace(cfg.SectionPrompt) == "" {
		cfg.SectionPrompt = def.SectionPrompt
	}
	if strings.TrimSpace(cfg.OverallPrompt) == "" {
		cfg.OverallPrompt = def.OverallPrompt
	}
	if cfg.SectionMaxChars <= 0 {
		cfg.SectionMaxChars = def.SectionMaxChars
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reducer{s: s, cfg: cfg, log: log}
}

func (r *Reducer) Config() Config { return r.cfg }

// SummarizeSections summarizes every section in order and returns the
// successful summaries with their blank-line-joined text. It stops before the
// next section once ctx is done. obs may be nil.
func (r *Reducer) SummarizeSections(ctx context.Context, secs []sections.Section, obs Observer) ([]SectionSummary, string) {
	var out []SectionSummary
	var texts []string
	for i, sec := range secs {
		if ctx.Err() != nil {
			r.log.Debug("map stage stopped", zap.Int("remaining", len(secs)-i), zap.Error(ctx.Err()))
			break
		}
		if obs != nil {
			obs.SectionStarted(i+1, len(secs), sec)
		}
		o := Outcome{Index: i + 1, Total: len(secs), Section: sec}
		text, ok := r.s.Summarize(ctx, sec.Body, r.cfg.SectionPrompt, r.cfg.SectionMaxChars)
		if ok {
			o.OK = true
			o.Summary = SectionSummary{Kind: sec.Kind, Title: sec.Title, Text: text}
			out = append(out, o.Summary)
			texts = append(texts, text)
		} else {
			r.log.Debug("section has no summary", zap.String("title", sec.Title))
		}
		if obs != nil {
			obs.SectionDone(o)
		}
	}
	return out, strings.Join(texts, Separator)
}

// SummarizeOverall condenses the combined text chunk by chunk. The chunk
// summaries are joined as they are; there is no second pass over them.
func (r *Reducer) SummarizeOverall(ctx context.Context, combined string) string {
	parts := r.s.SummarizeChunked(ctx, combined, r.cfg.OverallPrompt, r.cfg.ChunkSize)
	return strings.Join(parts, Separator)
}
