package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/memberberries/berry/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "juice-context [query]",
		Short: "Gather relevant context across all kinds",
		Long:  "One call for session startup: preferences, solutions, errors, antipatterns, and project context relevant to the query, as a single JSON document.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runJuiceContext,
	}
	cmd.Flags().IntP("limit", "l", 3, "Max results per kind")
	RootCmd.AddCommand(cmd)
}

type relevantContext struct {
	Query        string                `json:"query"`
	Preferences  []*model.Preference   `json:"preferences,omitempty"`
	Solutions    []*model.Solution     `json:"solutions,omitempty"`
	Errors       []*model.ErrorPattern `json:"errors,omitempty"`
	Antipatterns []*model.Antipattern  `json:"antipatterns,omitempty"`
	Project      *model.ProjectContext `json:"project,omitempty"`
}

func runJuiceContext(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	printJSON(relevantContext{
		Query:        query,
		Preferences:  s.SearchPreferences(query, limit),
		Solutions:    s.SearchSolutions(query, limit),
		Errors:       s.SearchErrors(query, limit),
		Antipatterns: s.SearchAntipatterns(query, limit),
		Project:      s.GetProjectContext(projectPath()),
	})
}
