package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mechanicflow/internal/fileutil"
	"mechanicflow/internal/ipc"
	"mechanicflow/internal/services/report"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report <client-id>",
		Short: "Generate the delivery ZIP for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var result report.Result
				env, err := client.Report(args[0])
				if err := decode(env, err, &result); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s, %d entries)\n",
					result.Path, fileutil.FormatBytes(result.Size), result.Entries)
				return nil
			})
		},
	}
}
