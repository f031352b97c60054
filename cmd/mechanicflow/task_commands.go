package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mechanicflow/internal/ipc"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/registry"
	"mechanicflow/internal/tasks"
)

func newTaskCommand(ctx *commandContext) *cobra.Command {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage a client's repair task list",
	}

	taskCmd.AddCommand(newTaskAddCommand(ctx))
	taskCmd.AddCommand(newTaskListCommand(ctx))
	taskCmd.AddCommand(newTaskUpdateCommand(ctx))
	taskCmd.AddCommand(newTaskDeleteCommand(ctx))

	return taskCmd
}

func newTaskAddCommand(ctx *commandContext) *cobra.Command {
	var description, priority, status string
	cmd := &cobra.Command{
		Use:   "add <client-id> <title>",
		Short: "Add a task to a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields := tasks.Fields{
				Title:       args[1],
				Description: description,
				Priority:    priority,
				Status:      status,
			}
			return ctx.withClient(func(client *ipc.Client) error {
				var task metadata.Task
				env, err := client.TaskAdd(args[0], fields)
				if err := decode(env, err, &task); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, task)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added task %s: %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Longer task description")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: Alta, Media, or Baja")
	cmd.Flags().StringVar(&status, "status", "", "Initial status (defaults to pending)")
	return cmd
}

func newTaskListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <client-id>",
		Short: "List a client's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var summaries []registry.Summary
				env, err := client.ClientList()
				if err := decode(env, err, &summaries); err != nil {
					return err
				}
				for _, summary := range summaries {
					if summary.ID != args[0] {
						continue
					}
					if ctx.useJSON(cmd) {
						return writeJSON(cmd, summary.Tasks)
					}
					if len(summary.Tasks) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No tasks")
						return nil
					}
					rows := make([][]string, 0, len(summary.Tasks))
					for _, task := range summary.Tasks {
						rows = append(rows, []string{task.ID, task.Title, task.Priority, task.Status})
					}
					table := renderTable(
						[]column{col("ID"), col("Title"), col("Priority"), col("Status")},
						rows,
					)
					fmt.Fprintln(cmd.OutOrStdout(), table)
					return nil
				}
				return fmt.Errorf("client %s not found", args[0])
			})
		},
	}
}

func newTaskUpdateCommand(ctx *commandContext) *cobra.Command {
	var title, description, priority, status string
	cmd := &cobra.Command{
		Use:   "update <client-id> <task-id>",
		Short: "Update fields of one task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := tasks.Patch{}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("priority") {
				patch.Priority = &priority
			}
			if cmd.Flags().Changed("status") {
				patch.Status = &status
			}
			return ctx.withClient(func(client *ipc.Client) error {
				env, err := client.TaskUpdate(args[0], args[1], patch)
				if err != nil {
					return err
				}
				if !env.Success {
					return env.Err()
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, env)
				}
				if len(env.Data) == 0 {
					// No task list on this client; mirrors the sidecar contract.
					fmt.Fprintln(cmd.OutOrStdout(), "No tasks to update")
					return nil
				}
				var task metadata.Task
				if err := env.Decode(&task); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s (%s)\n", task.ID, task.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&status, "status", "", "New status: pending, in_progress, or completed")
	return cmd
}

func newTaskDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <client-id> <task-id>",
		Short: "Remove one task from a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				env, err := client.TaskDelete(args[0], args[1])
				if err := decode(env, err, nil); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, env)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Task removed")
				return nil
			})
		},
	}
}
