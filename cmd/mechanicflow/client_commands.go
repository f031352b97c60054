package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mechanicflow/internal/ipc"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/registry"
)

func newClientCommand(ctx *commandContext) *cobra.Command {
	clientCmd := &cobra.Command{
		Use:   "client",
		Short: "Manage client evidence folders",
	}

	clientCmd.AddCommand(newClientCreateCommand(ctx))
	clientCmd.AddCommand(newClientListCommand(ctx))
	clientCmd.AddCommand(newClientShowCommand(ctx))
	clientCmd.AddCommand(newClientPathCommand(ctx))
	clientCmd.AddCommand(newClientAddFileCommand(ctx))
	clientCmd.AddCommand(newClientRenameCommand(ctx))
	clientCmd.AddCommand(newClientDuplicateCommand(ctx))
	clientCmd.AddCommand(newClientDeleteCommand(ctx))
	clientCmd.AddCommand(newClientStatusCommand(ctx))

	return clientCmd
}

func newClientCreateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a client folder with its evidence subfolders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var record metadata.Record
				env, err := client.ClientCreate(args[0])
				if err := decode(env, err, &record); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, record)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created client %s (%s)\n", record.Name, record.ID)
				return nil
			})
		},
	}
}

func newClientListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active clients, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var summaries []registry.Summary
				env, err := client.ClientList()
				if err := decode(env, err, &summaries); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, summaries)
				}
				if len(summaries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No clients yet")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						s.ID,
						s.Name,
						s.Date,
						statusSummary(s.Status),
						fmt.Sprintf("%d", s.ProcessedCount),
						fmt.Sprintf("%d", len(s.Tasks)),
					})
				}
				table := renderTable(
					[]column{col("ID"), col("Name"), col("Date"), col("Status"), numCol("Processed"), numCol("Tasks")},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}

func newClientShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show storage details for one client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var detail registry.Detail
				env, err := client.ClientDetails(args[0])
				if err := decode(env, err, &detail); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, detail)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Client:    %s\n", detail.Name)
				fmt.Fprintf(out, "ID:        %s\n", detail.ID)
				fmt.Fprintf(out, "Path:      %s\n", detail.Path)
				fmt.Fprintf(out, "Total:     %s (%d files)\n", detail.TotalSizeFormatted, detail.FileCount)
				fmt.Fprintf(out, "Originals: %d  Processed: %d  Photos: %d\n", detail.Originals, detail.Processed, detail.Photos)
				fmt.Fprintf(out, "Status:    %s\n", statusSummary(detail.Status))
				return nil
			})
		},
	}
}

func newClientPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path <id>",
		Short: "Print the folder a client id resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var result map[string]string
				env, err := client.ClientPath(args[0])
				if err := decode(env, err, &result); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), result["path"])
				return nil
			})
		},
	}
}

func newClientAddFileCommand(ctx *commandContext) *cobra.Command {
	var fileType string
	cmd := &cobra.Command{
		Use:   "add-file <id> <path>",
		Short: "Record an existing file in a client's metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[1])
			if err != nil {
				return fmt.Errorf("stat file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", args[1])
			}
			file := metadata.FileRecord{
				Name: filepath.Base(args[1]),
				Path: args[1],
				Type: fileType,
				Size: info.Size(),
			}
			return ctx.withClient(func(client *ipc.Client) error {
				var stored metadata.FileRecord
				env, err := client.ClientAddFile(args[0], file)
				if err := decode(env, err, &stored); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, stored)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s (%s)\n", stored.Name, stored.Type)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fileType, "type", "video", "File kind: video or foto")
	return cmd
}

func newClientRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <new-name>",
		Short: "Rename a client, reissuing its identifier",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var result registry.RenameResult
				env, err := client.ClientRename(args[0], args[1])
				if err := decode(env, err, &result); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s (%s)\n", result.NewName, result.NewID)
				return nil
			})
		},
	}
}

func newClientDuplicateCommand(ctx *commandContext) *cobra.Command {
	var newName string
	cmd := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Copy a client folder under a new identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var record metadata.Record
				env, err := client.ClientDuplicate(args[0], newName)
				if err := decode(env, err, &record); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, record)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Duplicated as %s (%s)\n", record.Name, record.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&newName, "name", "", "Name for the copy (defaults to \"<original> (copia)\")")
	return cmd
}

func newClientDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Move a client folder to the trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				var result registry.DeleteResult
				env, err := client.ClientDelete(args[0])
				if err := decode(env, err, &result); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, result)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s\n", result.MovedTo)
				return nil
			})
		},
	}
}

func newClientStatusCommand(ctx *commandContext) *cobra.Command {
	var recepcion, desarme, reparacion, listo bool
	cmd := &cobra.Command{
		Use:   "status <id>",
		Short: "Update workflow flags for a client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := metadata.StatusPatch{}
			if cmd.Flags().Changed("recepcion") {
				patch.Recepcion = &recepcion
			}
			if cmd.Flags().Changed("desarme") {
				patch.Desarme = &desarme
			}
			if cmd.Flags().Changed("reparacion") {
				patch.Reparacion = &reparacion
			}
			if cmd.Flags().Changed("listo") {
				patch.Listo = &listo
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update; pass at least one of --recepcion, --desarme, --reparacion, --listo")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				var flags metadata.StatusFlags
				env, err := client.StatusUpdate(args[0], patch)
				if err := decode(env, err, &flags); err != nil {
					return err
				}
				if ctx.useJSON(cmd) {
					return writeJSON(cmd, flags)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Status: %s\n", statusSummary(flags))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&recepcion, "recepcion", false, "Vehicle received")
	cmd.Flags().BoolVar(&desarme, "desarme", false, "Disassembly done")
	cmd.Flags().BoolVar(&reparacion, "reparacion", false, "Repair done")
	cmd.Flags().BoolVar(&listo, "listo", false, "Ready for delivery")
	return cmd
}

func statusSummary(flags metadata.StatusFlags) string {
	parts := []string{
		"recepcion=" + yesNo(flags.Recepcion),
		"desarme=" + yesNo(flags.Desarme),
		"reparacion=" + yesNo(flags.Reparacion),
		"listo=" + yesNo(flags.Listo),
	}
	return strings.Join(parts, " ")
}
