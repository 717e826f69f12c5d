package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memberberries/berry/internal/claudemd"
	"github.com/memberberries/berry/internal/model"
)

func init() {
	add := &cobra.Command{
		Use:   "concentrate-project",
		Short: "Store context about the current project",
		Run:   runConcentrateProject,
	}
	add.Flags().String("name", "", "Project name")
	add.Flags().String("description", "", "What the project is")
	add.Flags().String("architecture", "", "Architecture label")
	add.Flags().String("stack", "", "Comma-separated tech stack")
	add.Flags().Bool("detect", false, "Fill missing fields by inspecting the project directory")
	RootCmd.AddCommand(add)

	RootCmd.AddCommand(&cobra.Command{
		Use:   "juice-project",
		Short: "Show stored context for the current project",
		Run:   runJuiceProject,
	})

	session := &cobra.Command{
		Use:   "concentrate-session [summary]",
		Short: "Record a session summary",
		Args:  cobra.MinimumNArgs(1),
		Run:   runConcentrateSession,
	}
	session.Flags().String("learnings", "", "Comma-separated key learnings")
	RootCmd.AddCommand(session)
}

func runConcentrateProject(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	architecture, _ := cmd.Flags().GetString("architecture")
	stack, _ := cmd.Flags().GetString("stack")
	detect, _ := cmd.Flags().GetBool("detect")

	path := projectPath()
	ctx := &model.ProjectContext{
		Name:         name,
		Description:  description,
		Architecture: architecture,
		TechStack:    splitTags(stack),
	}
	if detect {
		d := claudemd.NewDetector(path)
		if ctx.Description == "" {
			ctx.Description = d.Description()
		}
		if ctx.Architecture == "" {
			ctx.Architecture = d.Architecture()
		}
		if len(ctx.TechStack) == 0 {
			ctx.TechStack = d.TechStack()
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	if _, err := s.AddProjectContext(path, ctx); err != nil {
		exitErr("concentrate-project", err)
	}
	printJSON(ctx)
}

func runJuiceProject(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	ctx := s.GetProjectContext(projectPath())
	if ctx == nil {
		exitErr("juice-project", fmt.Errorf("no context stored for %s", projectPath()))
	}
	printJSON(ctx)
}

func runConcentrateSession(cmd *cobra.Command, args []string) {
	learnings, _ := cmd.Flags().GetString("learnings")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddSession(strings.Join(args, " "), splitTags(learnings), projectPath())
	if err != nil {
		exitErr("concentrate-session", err)
	}
	printJSON(rec)
}
