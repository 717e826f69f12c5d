package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memberberries/berry/internal/extract"
)

func init() {
	auto := &cobra.Command{
		Use:   "concentrate-auto",
		Short: "Extract memories from conversation text",
		Long:  "Mine a transcript or raw text for solutions, repeated complaints, errors, and antipatterns, and store what qualifies.",
		Run:   runConcentrateAuto,
	}
	auto.Flags().StringP("transcript", "T", "", "Path to a JSONL transcript")
	auto.Flags().String("text", "", "Raw text to analyze")
	auto.Flags().Int("tail", extract.DefaultTranscriptTail, "Transcript messages to analyze, from the end")
	auto.Flags().Bool("dry-run", false, "Extract but do not store")
	RootCmd.AddCommand(auto)
}

func runConcentrateAuto(cmd *cobra.Command, args []string) {
	transcript, _ := cmd.Flags().GetString("transcript")
	text, _ := cmd.Flags().GetString("text")
	tail, _ := cmd.Flags().GetInt("tail")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if transcript == "" && text == "" {
		exitErr("concentrate-auto", fmt.Errorf("either --transcript or --text is required"))
	}

	if dryRun {
		if text == "" {
			exitErr("concentrate-auto", fmt.Errorf("--dry-run requires --text"))
		}
		printJSON(extract.New(nil).ExtractAll(text))
		return
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	c := extract.NewConcentrator(s)

	var stored []extract.Candidate
	if transcript != "" {
		stored, err = c.ProcessTranscript(transcript, tail)
	} else {
		stored, err = c.ProcessText(text)
	}
	if err != nil {
		exitErr("concentrate-auto", err)
	}
	if len(stored) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(stored)
}
