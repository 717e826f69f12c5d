package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "archive [id]",
		Short: "Archive a memory by id or id prefix",
		Args:  cobra.ExactArgs(1),
		Run:   runArchive,
	})
	RootCmd.AddCommand(&cobra.Command{
		Use:   "unarchive [id]",
		Short: "Restore an archived memory",
		Args:  cobra.ExactArgs(1),
		Run:   runUnarchive,
	})
	RootCmd.AddCommand(&cobra.Command{
		Use:   "refine [id] [content]",
		Short: "Rewrite a memory's content in place",
		Args:  cobra.ExactArgs(2),
		Run:   runRefine,
	})
	RootCmd.AddCommand(&cobra.Command{
		Use:   "needs-refinement",
		Short: "List memories that look like low-quality captures",
		Run:   runNeedsRefinement,
	})
}

func runArchive(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	ok, err := s.Archive(args[0])
	if err != nil {
		exitErr("archive", err)
	}
	if !ok {
		exitErr("archive", fmt.Errorf("no memory matches %q", args[0]))
	}
	fmt.Printf("archived %s\n", args[0])
}

func runUnarchive(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	ok, err := s.Unarchive(args[0])
	if err != nil {
		exitErr("unarchive", err)
	}
	if !ok {
		exitErr("unarchive", fmt.Errorf("no memory matches %q", args[0]))
	}
	fmt.Printf("unarchived %s\n", args[0])
}

func runRefine(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	ok, err := s.Refine(args[0], args[1])
	if err != nil {
		exitErr("refine", err)
	}
	if !ok {
		exitErr("refine", fmt.Errorf("no memory matches %q", args[0]))
	}
	fmt.Printf("refined %s\n", args[0])
}

func runNeedsRefinement(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	reports := s.NeedingRefinement()
	if len(reports) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(reports)
}
