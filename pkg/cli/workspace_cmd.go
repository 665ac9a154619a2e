package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"paasd/internal/db/repository"
)

func newWorkspaceCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces and groups",
	}
	cmd.AddCommand(
		newWorkspaceCreateCmd(flags),
		newGroupCreateCmd(flags),
	)
	return cmd
}

func newWorkspaceCreateCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <super-admin-id>",
		Short: "Create a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			writeDB, _, cleanup, err := openStore(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			ws, err := repository.NewWorkspaceRepo(writeDB).CreateWorkspace(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "workspace %s created (id %s)\n", ws.Name, ws.ID)
			return nil
		},
	}
}

func newGroupCreateCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create-group <workspace-id> <name>",
		Short: "Create a group in a workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			writeDB, _, cleanup, err := openStore(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := repository.NewWorkspaceRepo(writeDB).CreateGroup(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "group %s created (id %s)\n", g.Name, g.ID)
			return nil
		},
	}
}
