package main

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"github.com/thywilljoshua/booksum/internal/config"
	"github.com/thywilljoshua/booksum/internal/pdftext"
	"github.com/thywilljoshua/booksum/internal/pipeline"
	"github.com/thywilljoshua/booksum/internal/progress"
)

type sectionInfo struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Chars int    `json:"chars"`
	File  string `json:"file"`
}

// sectionsCmd shows how a document would be split without calling any LLM.
func sectionsCmd() *cobra.Command {
	var asJSON bool
	var sf structureFlags

	cmd := &cobra.Command{
		Use:   "sections [pdf]",
		Short: "List the parts and chapters detected in a PDF (no summaries)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			sf.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			docPath, err := documentPath(cmd.Context(), args, cfg)
			if err != nil {
				return err
			}
			detector, err := newDetector(cfg, docPath, log)
			if err != nil {
				return err
			}
			printer := progress.New(cmd.ErrOrStderr())
			driver := pipeline.New(pipeline.Deps{
				Source:   pdftext.NewExtractor(log),
				Detector: detector,
				Log:      log,
				Progress: printer,
			})
			seg, err := driver.Load(cmd.Context(), docPath)
			if err != nil {
				return fmt.Errorf("sections %s: %w", docPath, err)
			}

			names := pipeline.NewNamer()
			infos := make([]sectionInfo, 0, len(seg.Sections))
			for _, s := range seg.Sections {
				infos = append(infos, sectionInfo{
					Kind:  string(s.Kind),
					Title: s.Title,
					Chars: utf8.RuneCountInString(s.Body),
					File:  names.Name(s.Title),
				})
			}
			if asJSON {
				b, _ := json.MarshalIndent(infos, "", "  ")
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}
			for i, s := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%3d  %-7s  %7d chars  %s\n", i+1, s.Kind, s.Chars, s.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print sections as JSON")
	sf.register(cmd)
	return cmd
}
