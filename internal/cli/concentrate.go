package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// The concentrate family stores one memory per invocation, one subcommand
// per record kind. Output is the stored record as JSON.

func init() {
	pref := &cobra.Command{
		Use:   "concentrate [content]",
		Short: "Store a preference",
		Args:  cobra.MinimumNArgs(1),
		Run:   runConcentratePreference,
	}
	pref.Flags().StringP("category", "c", "general", "Preference category")
	pref.Flags().StringP("tags", "t", "", "Comma-separated tags")
	RootCmd.AddCommand(pref)

	sol := &cobra.Command{
		Use:   "concentrate-solution",
		Short: "Store a solved problem",
		Run:   runConcentrateSolution,
	}
	sol.Flags().String("problem", "", "What the problem was (required)")
	sol.Flags().String("solution", "", "How it was solved (required)")
	sol.Flags().String("code", "", "Optional code snippet")
	sol.Flags().StringP("tags", "t", "", "Comma-separated tags")
	sol.MarkFlagRequired("problem")
	sol.MarkFlagRequired("solution")
	RootCmd.AddCommand(sol)

	errCmd := &cobra.Command{
		Use:   "concentrate-error",
		Short: "Store an error and its resolution",
		Run:   runConcentrateError,
	}
	errCmd.Flags().String("error", "", "The error message (required)")
	errCmd.Flags().String("resolution", "", "How it was resolved (required)")
	errCmd.Flags().String("context", "", "Where it happened")
	errCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	errCmd.MarkFlagRequired("error")
	errCmd.MarkFlagRequired("resolution")
	RootCmd.AddCommand(errCmd)

	anti := &cobra.Command{
		Use:   "concentrate-antipattern",
		Short: "Store something to avoid",
		Run:   runConcentrateAntipattern,
	}
	anti.Flags().String("pattern", "", "The pattern to avoid (required)")
	anti.Flags().String("reason", "", "Why it is bad (required)")
	anti.Flags().String("alternative", "", "What to do instead (required)")
	anti.Flags().StringP("tags", "t", "", "Comma-separated tags")
	anti.MarkFlagRequired("pattern")
	anti.MarkFlagRequired("reason")
	anti.MarkFlagRequired("alternative")
	RootCmd.AddCommand(anti)

	git := &cobra.Command{
		Use:   "concentrate-git-convention",
		Short: "Store a git convention",
		Run:   runConcentrateGit,
	}
	git.Flags().String("type", "commit", "Convention type: commit, branch, pr")
	git.Flags().String("pattern", "", "The convention pattern (required)")
	git.Flags().String("example", "", "An example")
	git.Flags().StringP("tags", "t", "", "Comma-separated tags")
	git.MarkFlagRequired("pattern")
	RootCmd.AddCommand(git)

	dep := &cobra.Command{
		Use:   "concentrate-dependency [name]",
		Short: "Store notes about a dependency",
		Args:  cobra.ExactArgs(1),
		Run:   runConcentrateDependency,
	}
	dep.Flags().String("version", "", "Version constraint")
	dep.Flags().String("notes", "", "Notes about the dependency")
	dep.Flags().StringP("tags", "t", "", "Comma-separated tags")
	RootCmd.AddCommand(dep)

	testCmd := &cobra.Command{
		Use:   "concentrate-testing",
		Short: "Store a testing pattern",
		Run:   runConcentrateTesting,
	}
	testCmd.Flags().String("strategy", "", "Testing strategy (required)")
	testCmd.Flags().String("framework", "", "Framework used (required)")
	testCmd.Flags().String("pattern", "", "The pattern itself (required)")
	testCmd.Flags().String("example", "", "An example")
	testCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	testCmd.MarkFlagRequired("strategy")
	testCmd.MarkFlagRequired("framework")
	testCmd.MarkFlagRequired("pattern")
	RootCmd.AddCommand(testCmd)

	env := &cobra.Command{
		Use:   "concentrate-environment [env-type]",
		Short: "Store environment configuration",
		Args:  cobra.ExactArgs(1),
		Run:   runConcentrateEnvironment,
	}
	env.Flags().String("config", "", "Configuration details (required)")
	env.Flags().String("notes", "", "Notes")
	env.Flags().StringP("tags", "t", "", "Comma-separated tags")
	env.MarkFlagRequired("config")
	RootCmd.AddCommand(env)

	api := &cobra.Command{
		Use:   "concentrate-api-note [service]",
		Short: "Store quirks of an external service",
		Args:  cobra.ExactArgs(1),
		Run:   runConcentrateAPINote,
	}
	api.Flags().String("endpoint", "", "Endpoint this applies to")
	api.Flags().String("notes", "", "The quirk or note (required)")
	api.Flags().StringP("tags", "t", "", "Comma-separated tags")
	api.MarkFlagRequired("notes")
	RootCmd.AddCommand(api)
}

func runConcentratePreference(cmd *cobra.Command, args []string) {
	category, _ := cmd.Flags().GetString("category")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddPreference(category, strings.Join(args, " "), splitTags(tags))
	if err != nil {
		exitErr("concentrate", err)
	}
	printJSON(rec)
}

func runConcentrateSolution(cmd *cobra.Command, args []string) {
	problem, _ := cmd.Flags().GetString("problem")
	solution, _ := cmd.Flags().GetString("solution")
	code, _ := cmd.Flags().GetString("code")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddSolution(problem, solution, code, splitTags(tags))
	if err != nil {
		exitErr("concentrate-solution", err)
	}
	printJSON(rec)
}

func runConcentrateError(cmd *cobra.Command, args []string) {
	errMsg, _ := cmd.Flags().GetString("error")
	resolution, _ := cmd.Flags().GetString("resolution")
	context, _ := cmd.Flags().GetString("context")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddError(errMsg, resolution, context, splitTags(tags))
	if err != nil {
		exitErr("concentrate-error", err)
	}
	printJSON(rec)
}

func runConcentrateAntipattern(cmd *cobra.Command, args []string) {
	pattern, _ := cmd.Flags().GetString("pattern")
	reason, _ := cmd.Flags().GetString("reason")
	alternative, _ := cmd.Flags().GetString("alternative")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddAntipattern(pattern, reason, alternative, splitTags(tags))
	if err != nil {
		exitErr("concentrate-antipattern", err)
	}
	printJSON(rec)
}

func runConcentrateGit(cmd *cobra.Command, args []string) {
	convType, _ := cmd.Flags().GetString("type")
	pattern, _ := cmd.Flags().GetString("pattern")
	example, _ := cmd.Flags().GetString("example")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddGitConvention(convType, pattern, example, splitTags(tags))
	if err != nil {
		exitErr("concentrate-git-convention", err)
	}
	printJSON(rec)
}

func runConcentrateDependency(cmd *cobra.Command, args []string) {
	version, _ := cmd.Flags().GetString("version")
	notes, _ := cmd.Flags().GetString("notes")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddDependency(args[0], version, notes, splitTags(tags))
	if err != nil {
		exitErr("concentrate-dependency", err)
	}
	printJSON(rec)
}

func runConcentrateTesting(cmd *cobra.Command, args []string) {
	strategy, _ := cmd.Flags().GetString("strategy")
	framework, _ := cmd.Flags().GetString("framework")
	pattern, _ := cmd.Flags().GetString("pattern")
	example, _ := cmd.Flags().GetString("example")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddTestingPattern(strategy, framework, pattern, example, splitTags(tags))
	if err != nil {
		exitErr("concentrate-testing", err)
	}
	printJSON(rec)
}

func runConcentrateEnvironment(cmd *cobra.Command, args []string) {
	configStr, _ := cmd.Flags().GetString("config")
	notes, _ := cmd.Flags().GetString("notes")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddEnvironmentNote(args[0], configStr, notes, splitTags(tags))
	if err != nil {
		exitErr("concentrate-environment", err)
	}
	printJSON(rec)
}

func runConcentrateAPINote(cmd *cobra.Command, args []string) {
	endpoint, _ := cmd.Flags().GetString("endpoint")
	notes, _ := cmd.Flags().GetString("notes")
	tags, _ := cmd.Flags().GetString("tags")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	rec, err := s.AddAPINote(args[0], endpoint, notes, splitTags(tags))
	if err != nil {
		exitErr("concentrate-api-note", err)
	}
	printJSON(rec)
}
