package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/memberberries/berry/internal/gravity"
	"github.com/memberberries/berry/internal/store"
)

func init() {
	task := &cobra.Command{
		Use:   "task",
		Short: "Group memories into task clusters",
	}

	create := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a task cluster",
		Args:  cobra.ExactArgs(1),
		Run:   runTaskCreate,
	}
	create.Flags().StringP("description", "d", "", "What the task is about")
	create.Flags().String("parent", "", "Parent task id")
	task.AddCommand(create)

	task.AddCommand(&cobra.Command{
		Use:   "attach [memory-id] [task-id]",
		Short: "Attach a memory to a task",
		Args:  cobra.ExactArgs(2),
		Run:   runTaskAttach,
	})

	auto := &cobra.Command{
		Use:   "auto-attach [memory-id]",
		Short: "Attach a memory to the best-matching task",
		Args:  cobra.ExactArgs(1),
		Run:   runTaskAutoAttach,
	}
	auto.Flags().StringP("tags", "t", "", "Comma-separated tags to match against")
	auto.Flags().String("content", "", "Content to match against")
	task.AddCommand(auto)

	task.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List task clusters in creation order",
		Run:   runTaskList,
	})

	members := &cobra.Command{
		Use:   "memories [task-id]",
		Short: "List a task's memories by gravity",
		Args:  cobra.ExactArgs(1),
		Run:   runTaskMemories,
	}
	members.Flags().Bool("subtasks", false, "Include direct subtasks' memories")
	task.AddCommand(members)

	RootCmd.AddCommand(task)
}

func openEngine() (*gravity.Engine, *store.Store) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	return gravity.New(s), s
}

func runTaskCreate(cmd *cobra.Command, args []string) {
	description, _ := cmd.Flags().GetString("description")
	parent, _ := cmd.Flags().GetString("parent")

	e, _ := openEngine()
	t, err := e.CreateTask(args[0], description, parent)
	if err != nil {
		exitErr("task create", err)
	}
	printJSON(t)
}

func runTaskAttach(cmd *cobra.Command, args []string) {
	e, _ := openEngine()
	added, err := e.Attach(args[0], args[1])
	if err != nil {
		exitErr("task attach", err)
	}
	if added {
		fmt.Printf("attached %s to %s\n", args[0], args[1])
	} else {
		fmt.Printf("%s already attached to %s\n", args[0], args[1])
	}
}

func runTaskAutoAttach(cmd *cobra.Command, args []string) {
	tags, _ := cmd.Flags().GetString("tags")
	content, _ := cmd.Flags().GetString("content")

	e, _ := openEngine()
	t, err := e.AutoAttach(args[0], splitTags(tags), content)
	if err != nil {
		exitErr("task auto-attach", err)
	}
	if t == nil {
		fmt.Println("no task scored high enough")
		return
	}
	fmt.Printf("attached %s to %s (%s)\n", args[0], t.ID, t.Name)
}

func runTaskList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	tasks := s.Index().TasksInOrder()
	if len(tasks) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(tasks)
}

func runTaskMemories(cmd *cobra.Command, args []string) {
	subtasks, _ := cmd.Flags().GetBool("subtasks")

	e, _ := openEngine()
	members, err := e.TaskMemories(args[0], subtasks)
	if err != nil {
		exitErr("task memories", err)
	}
	if len(members) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(members)
}

func init() {
	remember := &cobra.Command{
		Use:   "remember [id]",
		Short: "Record that a memory was used",
		Long:  "Record an explicit reference: bumps the memory's gravity so it surfaces earlier.",
		Args:  cobra.ExactArgs(1),
		Run:   runRemember,
	}
	RootCmd.AddCommand(remember)

	top := &cobra.Command{
		Use:   "top",
		Short: "List memories by gravity, heaviest first",
		Run:   runTop,
	}
	top.Flags().IntP("limit", "l", 10, "Max results")
	RootCmd.AddCommand(top)
}

func runRemember(cmd *cobra.Command, args []string) {
	e, _ := openEngine()
	g, err := e.Reference(args[0])
	if err != nil {
		exitErr("remember", err)
	}
	printJSON(g)
}

func runTop(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	e, _ := openEngine()
	ranked, err := e.TopByGravity(limit)
	if err != nil {
		exitErr("top", err)
	}
	if len(ranked) == 0 {
		fmt.Println("[]")
		return
	}
	printJSON(ranked)
}
