package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/thywilljoshua/booksum/internal/config"
	"github.com/thywilljoshua/booksum/internal/pdftext"
	"github.com/thywilljoshua/booksum/internal/pipeline"
	"github.com/thywilljoshua/booksum/internal/progress"
	"github.com/thywilljoshua/booksum/internal/summarize"
	"go.uber.org/zap"
)

func summarizeCmd() *cobra.Command {
	var out string
	var promptFile string
	var provider string
	var model string
	var chunkSize int
	var sectionMax int
	var rpm int
	var sf structureFlags

	cmd := &cobra.Command{
		Use:   "summarize [pdf]",
		Short: "Summarize every part and chapter of a PDF, then the whole book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("out") {
				cfg.OutDir = out
			}
			if flags.Changed("prompt") {
				cfg.PromptFile = promptFile
			}
			if flags.Changed("provider") {
				if cfg.LLM.Provider != provider {
					cfg.LLM.APIKey = ""
				}
				cfg.LLM.Provider = provider
			}
			if flags.Changed("model") {
				cfg.LLM.Model = model
			}
			if flags.Changed("chunk-size") {
				cfg.ChunkSize = chunkSize
			}
			if flags.Changed("section-max-chars") {
				cfg.SectionMaxChars = sectionMax
			}
			if flags.Changed("rpm") {
				cfg.LLM.RequestsPerMinute = rpm
			}
			sf.apply(cmd, &cfg)
			cfg.ApplyEnv()
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			docPath, err := documentPath(ctx, args, cfg)
			if err != nil {
				return err
			}
			directive, err := config.LoadPrompt(cfg.PromptFile)
			if err != nil {
				return err
			}
			gen, err := newGenerator(ctx, cfg)
			if err != nil {
				return err
			}
			detector, err := newDetector(cfg, docPath, log)
			if err != nil {
				return err
			}

			log.Info("starting run",
				zap.String("document", docPath),
				zap.String("provider", cfg.LLM.Provider),
				zap.String("detector", cfg.Detector),
				zap.Int("chunk_size", cfg.ChunkSize))

			printer := progress.New(cmd.OutOrStdout())
			reducer := summarize.NewReducer(summarize.New(gen, log), summarize.Config{
				SectionPrompt:   directive,
				SectionMaxChars: cfg.SectionMaxChars,
				ChunkSize:       cfg.ChunkSize,
			}, log)
			driver := pipeline.New(pipeline.Deps{
				Source:   pdftext.NewExtractor(log),
				Detector: detector,
				Reducer:  reducer,
				Sink:     pipeline.DirSink{Dir: cfg.OutDir},
				Log:      log,
				Progress: printer,
			})

			res, err := driver.Run(ctx, docPath)
			if err != nil {
				printer.Error("%v", err)
				return fmt.Errorf("summarize %s: %w", docPath, err)
			}
			printer.Report("Done", [][2]string{
				{"Sections", strconv.Itoa(len(res.Sections))},
				{"Summarized", strconv.Itoa(len(res.Summaries))},
				{"Skipped", strconv.Itoa(len(res.Skipped) + len(res.Dropped))},
				{"Files written", strconv.Itoa(len(res.Files))},
				{"Output", cfg.OutDir},
			})
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory for summary files")
	cmd.Flags().StringVarP(&promptFile, "prompt", "p", "", "directive prompt file for section summaries (default: built-in prompt)")
	cmd.Flags().StringVar(&provider, "provider", config.ProviderGemini, "LLM provider: gemini|openai")
	cmd.Flags().StringVar(&model, "model", "", "model name (default depends on provider)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 8192, "maximum characters per request when condensing section summaries")
	cmd.Flags().IntVar(&sectionMax, "section-max-chars", 8192, "maximum characters of a section sent in its summary request")
	cmd.Flags().IntVar(&rpm, "rpm", 0, "limit LLM requests per minute (0: unlimited)")
	sf.register(cmd)
	return cmd
}
