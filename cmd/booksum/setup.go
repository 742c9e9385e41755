package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/thywilljoshua/booksum/internal/ai"
	"github.com/thywilljoshua/booksum/internal/config"
	"github.com/thywilljoshua/booksum/internal/logging"
	"github.com/thywilljoshua/booksum/internal/pdftext"
	"github.com/thywilljoshua/booksum/internal/sections"
	"go.uber.org/zap"
)

// structureFlags are shared by every command that segments a document.
type structureFlags struct {
	structure string
	detector  string
}

func (f *structureFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.structure, "structure", "parts", "heading structure: parts (PART + CHAPTER) | chapters (CHAPTER only)")
	cmd.Flags().StringVar(&f.detector, "detector", config.DetectorHeadings, "boundary detection: headings|outline")
}

func (f *structureFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("structure") {
		cfg.Structure = f.structure
	}
	if cmd.Flags().Changed("detector") {
		cfg.Detector = f.detector
	}
}

func newLogger() (*zap.Logger, error) {
	log, err := logging.New(verbose)
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("run_id", uuid.NewString())), nil
}

// documentPath picks the input: positional argument, then the configured
// document, then the interactive picker.
func documentPath(ctx context.Context, args []string, cfg config.Config) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Document != "" {
		return cfg.Document, nil
	}
	return pickDocument(ctx)
}

func newDetector(cfg config.Config, docPath string, log *zap.Logger) (sections.Detector, error) {
	structure, err := sections.ParseStructure(cfg.Structure)
	if err != nil {
		return nil, err
	}
	if cfg.Detector != config.DetectorOutline {
		return sections.NewHeadingDetector(structure), nil
	}
	entries, err := pdftext.Outline(docPath)
	if err != nil || len(entries) == 0 {
		log.Warn("document outline unavailable, falling back to heading detection", zap.Error(err))
		return sections.NewHeadingDetector(structure), nil
	}
	return sections.NewOutlineDetector(entries), nil
}

func newGenerator(ctx context.Context, cfg config.Config) (ai.Generator, error) {
	var g ai.Generator
	switch strings.ToLower(cfg.LLM.Provider) {
	case config.ProviderOpenAI:
		o, err := ai.NewOpenAI(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return nil, err
		}
		g = o
	case config.ProviderGemini, "":
		gm, err := ai.NewGemini(ctx, cfg.LLM.APIKey, cfg.LLM.Model)
		if err != nil {
			return nil, err
		}
		g = gm
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
	}
	return ai.Throttle(g, cfg.LLM.RequestsPerMinute), nil
}
