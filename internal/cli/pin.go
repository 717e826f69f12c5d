package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	pin := &cobra.Command{
		Use:   "pin [content]",
		Short: "Pin a memory so it never decays or archives",
		Args:  cobra.MinimumNArgs(1),
		Run:   runPin,
	}
	pin.Flags().StringP("name", "n", "", "Name for the pin (required)")
	pin.Flags().StringP("category", "c", "general", "Category: credentials, infrastructure, api_endpoints, ...")
	pin.Flags().StringP("tags", "t", "", "Comma-separated tags")
	pin.Flags().Bool("sensitive", false, "Mark content as sensitive")
	pin.MarkFlagRequired("name")
	RootCmd.AddCommand(pin)

	RootCmd.AddCommand(&cobra.Command{
		Use:   "unpin [id]",
		Short: "Remove a pinned memory permanently",
		Args:  cobra.ExactArgs(1),
		Run:   runUnpin,
	})

	RootCmd.AddCommand(&cobra.Command{
		Use:   "pins",
		Short: "List pinned memories",
		Run:   runPins,
	})
}

func runPin(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	category, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetString("tags")
	sensitive, _ := cmd.Flags().GetBool("sensitive")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddPinned(name, strings.Join(args, " "), category, splitTags(tags), sensitive)
	if err != nil {
		exitErr("pin", err)
	}
	printJSON(rec)
}

func runUnpin(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	ok, err := s.Unpin(args[0])
	if err != nil {
		exitErr("unpin", err)
	}
	if !ok {
		exitErr("unpin", fmt.Errorf("no pinned memory with id %q", args[0]))
	}
	fmt.Printf("unpinned %s\n", args[0])
}

func runPins(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	pins := s.Pins()
	if len(pins) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(pins)
}
