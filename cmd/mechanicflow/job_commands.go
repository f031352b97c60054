package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mechanicflow/internal/ipc"
	"mechanicflow/internal/queue"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var profile string
	cmd := &cobra.Command{
		Use:   "compress <client-id> <video-path>",
		Short: "Queue a video for compression into the client's procesados folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var job queue.Job
				env, err := client.Compress(args[0], args[1], profile)
				if err := decode(env, err, &job); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, job)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d (%s)\n", job.ID, job.Profile)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "GENERAL", "Compression profile: DETALLE, GENERAL, or RAPIDO")
	return cmd
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect and manage compression jobs",
	}

	jobsCmd.AddCommand(newJobsListCommand(ctx))
	jobsCmd.AddCommand(newJobsShowCommand(ctx))
	jobsCmd.AddCommand(newJobsClearCommand(ctx))

	return jobsCmd
}

func newJobsListCommand(ctx *commandContext) *cobra.Command {
	var statuses []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List compression jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var jobs []queue.Job
				env, err := client.JobList(statuses)
				if err := decode(env, err, &jobs); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, jobs)
				}
				if len(jobs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No jobs")
					return nil
				}
				rows := make([][]string, 0, len(jobs))
				for _, job := range jobs {
					rows = append(rows, []string{
						strconv.FormatInt(job.ID, 10),
						job.ClientID,
						job.Profile,
						string(job.Status),
						fmt.Sprintf("%.0f%%", job.ProgressPercent),
						job.CreatedAt.Local().Format(time.DateTime),
					})
				}
				table := renderTable(
					[]column{numCol("ID"), col("Client"), col("Profile"), col("Status"), numCol("Progress"), col("Created")},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (pending, running, completed, failed)")
	return cmd
}

func newJobsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one compression job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				var job queue.Job
				env, err := client.JobDescribe(id)
				if err := decode(env, err, &job); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, job)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Job:      %d\n", job.ID)
				fmt.Fprintf(out, "Client:   %s\n", job.ClientID)
				fmt.Fprintf(out, "Input:    %s\n", job.InputPath)
				fmt.Fprintf(out, "Profile:  %s\n", job.Profile)
				fmt.Fprintf(out, "Status:   %s\n", job.Status)
				fmt.Fprintf(out, "Progress: %.0f%%\n", job.ProgressPercent)
				if job.OutputPath != "" {
					fmt.Fprintf(out, "Output:   %s (saved %.0f%%)\n", job.OutputPath, job.SavedPercent)
				}
				if job.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:    %s\n", job.ErrorMessage)
				}
				return nil
			})
		},
	}
}

func newJobsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove finished jobs from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var result struct {
					Removed int64 `json:"removed"`
				}
				env, err := client.JobsClear()
				if err := decode(env, err, &result); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d finished jobs\n", result.Removed)
				return nil
			})
		},
	}
}
