package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memberberries/berry/internal/store"
)

// The juice family retrieves memories. Search verbs rank by similarity;
// juice-dependency and juice-environment are exact lookups.

func init() {
	all := &cobra.Command{
		Use:   "juice [query]",
		Short: "Search every kind of memory",
		Args:  cobra.MinimumNArgs(1),
		Run:   runJuiceAll,
	}
	all.Flags().IntP("limit", "l", store.DefaultTopK, "Max results")
	RootCmd.AddCommand(all)

	type kindSearch struct {
		use    string
		short  string
		search func(s *store.Store, query string, limit int) any
	}
	searches := []kindSearch{
		{"juice-solutions", "Search stored solutions", func(s *store.Store, q string, l int) any { return s.SearchSolutions(q, l) }},
		{"juice-errors", "Search error patterns", func(s *store.Store, q string, l int) any { return s.SearchErrors(q, l) }},
		{"juice-antipatterns", "Search antipatterns", func(s *store.Store, q string, l int) any { return s.SearchAntipatterns(q, l) }},
		{"juice-preferences", "Search preferences", func(s *store.Store, q string, l int) any { return s.SearchPreferences(q, l) }},
		{"juice-git-conventions", "Search git conventions", func(s *store.Store, q string, l int) any { return s.SearchGitConventions(q, l) }},
		{"juice-testing", "Search testing patterns", func(s *store.Store, q string, l int) any { return s.SearchTesting(q, l) }},
		{"juice-api-notes", "Search API notes", func(s *store.Store, q string, l int) any { return s.SearchAPINotes(q, l) }},
	}
	for _, ks := range searches {
		ks := ks
		cmd := &cobra.Command{
			Use:   ks.use + " [query]",
			Short: ks.short,
			Args:  cobra.MinimumNArgs(1),
			Run: func(cmd *cobra.Command, args []string) {
				limit, _ := cmd.Flags().GetInt("limit")
				s, err := openStore()
				if err != nil {
					exitErr("open store", err)
				}
				printJSON(ks.search(s, strings.Join(args, " "), limit))
			},
		}
		cmd.Flags().IntP("limit", "l", store.DefaultTopK, "Max results")
		RootCmd.AddCommand(cmd)
	}

	dep := &cobra.Command{
		Use:   "juice-dependency [name]",
		Short: "Look up a dependency by name",
		Args:  cobra.ExactArgs(1),
		Run:   runJuiceDependency,
	}
	RootCmd.AddCommand(dep)

	env := &cobra.Command{
		Use:   "juice-environment [env-type]",
		Short: "Look up environment notes by type",
		Args:  cobra.ExactArgs(1),
		Run:   runJuiceEnvironment,
	}
	RootCmd.AddCommand(env)
}

func runJuiceAll(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	results := s.SearchAll(strings.Join(args, " "), limit)
	if len(results) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(results)
}

func runJuiceDependency(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec := s.GetDependency(args[0])
	if rec == nil {
		exitErr("juice-dependency", fmt.Errorf("no dependency named %q", args[0]))
	}
	printJSON(rec)
}

func runJuiceEnvironment(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec := s.GetEnvironment(args[0])
	if rec == nil {
		exitErr("juice-environment", fmt.Errorf("no environment notes for %q", args[0]))
	}
	printJSON(rec)
}
