package cli

import (
	"os"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show record counts per kind",
		Run:   runStats,
	})

	export := &cobra.Command{
		Use:   "export",
		Short: "Dump the whole index as JSON",
		Long:  "Dump everything, embeddings and pinned content included, to stdout or a file. No redaction: the export is for the owner.",
		Run:   runExport,
	}
	export.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	RootCmd.AddCommand(export)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	printJSON(s.Stats())
}

func runExport(cmd *cobra.Command, args []string) {
	output, _ := cmd.Flags().GetString("output")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}

	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			exitErr("export", err)
		}
		defer f.Close()
		w = f
	}
	if err := s.Export(w); err != nil {
		exitErr("export", err)
	}
}
