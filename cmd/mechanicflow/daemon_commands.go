package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mechanicflow/internal/daemon"
	"mechanicflow/internal/deps"
	"mechanicflow/internal/ipc"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Inspect and control the background daemon",
	}

	daemonCmd.AddCommand(newDaemonStatusCommand(ctx))
	daemonCmd.AddCommand(newDaemonStopCommand(ctx))

	return daemonCmd
}

func newDaemonStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon and job queue state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var status daemon.Status
				env, err := client.DaemonStatus()
				if err := decode(env, err, &status); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, status)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Running:  %s\n", yesNo(status.Running))
				fmt.Fprintf(out, "Session:  %s\n", status.SessionID)
				if !status.StartedAt.IsZero() {
					fmt.Fprintf(out, "Started:  %s\n", status.StartedAt.Local().Format(time.DateTime))
				}
				fmt.Fprintf(out, "Queue DB: %s\n", status.QueueDBPath)
				fmt.Fprintf(out, "Jobs:     %d pending, %d running, %d completed, %d failed\n",
					status.Jobs.Pending, status.Jobs.Running, status.Jobs.Completed, status.Jobs.Failed)
				return nil
			})
		},
	}
}

func newDaemonStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask the daemon process to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				env, err := client.DaemonStop()
				if err := decode(env, err, nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Stop request sent")
				return nil
			})
		},
	}
}

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check availability of external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var statuses []deps.Status
				env, err := client.DepsCheck()
				if err := decode(env, err, &statuses); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, statuses)
				}
				rows := make([][]string, 0, len(statuses))
				for _, status := range statuses {
					detail := status.Detail
					if detail == "" {
						detail = "-"
					}
					rows = append(rows, []string{
						status.Name,
						status.Command,
						yesNo(status.Available),
						yesNo(status.Optional),
						detail,
					})
				}
				table := renderTable(
					[]column{col("Name"), col("Command"), col("Available"), col("Optional"), col("Detail")},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
