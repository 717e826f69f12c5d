package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memberberries/berry/internal/claudemd"
)

func init() {
	sync := &cobra.Command{
		Use:   "sync [query...]",
		Short: "Refresh the managed context section of CLAUDE.md",
		Long:  "Regenerate the auto-managed section of the project's CLAUDE.md from stored memories, focused by an optional query. User content above the delimiter is never touched.",
		Run:   runSync,
	}
	sync.Flags().Bool("clean", false, "Remove the managed section instead")
	RootCmd.AddCommand(sync)
}

func runSync(cmd *cobra.Command, args []string) {
	clean, _ := cmd.Flags().GetBool("clean")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	m := claudemd.NewManager(projectPath(), s)

	if clean {
		if err := m.Clean(); err != nil {
			exitErr("sync --clean", err)
		}
		fmt.Printf("cleaned %s\n", m.Path())
		return
	}
	if err := m.Sync(strings.Join(args, " ")); err != nil {
		exitErr("sync", err)
	}
	fmt.Printf("synced %s\n", m.Path())
}
