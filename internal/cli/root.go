// Package cli implements the berry CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/memberberries/berry/internal/config"
	"github.com/memberberries/berry/internal/store"
)

var (
	rootFlag    string
	modeFlag    string
	projectFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "berry",
	Short: "Long-term memory for coding sessions",
	Long:  "Local, file-backed memory for coding assistants: typed records, semantic search, pinning, and task clustering. Single binary, JSON out.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&rootFlag, "root", "", "Storage root (default: $BERRY_HOME or resolved from --mode)")
	RootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "auto", "Storage mode: auto, global, local")
	RootCmd.PersistentFlags().StringVarP(&projectFlag, "project", "p", "", "Project path (default: working directory)")
}

func resolveRoot() (string, error) {
	root := rootFlag
	if root == "" {
		root = os.Getenv("BERRY_HOME")
	}
	return config.Config{
		Root:        root,
		Mode:        config.Mode(modeFlag),
		ProjectPath: projectFlag,
	}.Resolve()
}

func openStore() (*store.Store, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	return store.Open(root)
}

func projectPath() string {
	if projectFlag != "" {
		return projectFlag
	}
	wd, _ := os.Getwd()
	return wd
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
