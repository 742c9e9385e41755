package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "booksum",
		Short: "Split a PDF book into parts and chapters and summarize them",
		Long: `booksum extracts the text of a PDF, finds its PART and CHAPTER headings,
summarizes every section with an LLM and condenses those summaries into an
overall summary. One text file is written per section plus Overall_Summary.txt.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(summarizeCmd())
	root.AddCommand(sectionsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
