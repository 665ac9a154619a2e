package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"paasd/internal/db/repository"
	"paasd/internal/domain"
)

func newGrantsCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grants",
		Short: "Manage permission grants",
	}
	cmd.AddCommand(
		newGrantsListCmd(flags),
		newGrantsAddCmd(flags),
		newGrantsRevokeCmd(flags),
	)
	return cmd
}

func newGrantsListCmd(flags *storeFlags) *cobra.Command {
	var page, pageSize uint

	cmd := &cobra.Command{
		Use:   "list <group-id>",
		Short: "List the grants held by a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			writeDB, _, cleanup, err := openStore(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			grants, total, err := repository.NewGrantRepo(writeDB).ListForGroup(
				cmd.Context(), args[0], domain.PageRequest{Page: page, PageSize: pageSize})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PREFIX\tPERMISSION\tGRANTED AT")
			for _, g := range grants {
				fmt.Fprintf(w, "%s\t%s\t%s\n", g.PathPrefix, g.Permission, g.GrantedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", total)
			return nil
		},
	}
	cmd.Flags().UintVar(&page, "page", 0, "page number (0-based)")
	cmd.Flags().UintVar(&pageSize, "page-size", 0, "page size")
	return cmd
}

func newGrantsAddCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <group-id> <path-prefix> <permission>",
		Short: "Record a grant",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			writeDB, _, cleanup, err := openStore(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			created, err := repository.NewGrantRepo(writeDB).Grant(cmd.Context(), &domain.Grant{
				GroupID:    args[0],
				PathPrefix: args[1],
				Permission: args[2],
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s on %s to group %s (id %s)\n",
				created.Permission, created.PathPrefix, created.GroupID, created.ID)
			return nil
		},
	}
}

func newGrantsRevokeCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <group-id> <path-prefix> <permission>",
		Short: "Remove a grant",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			writeDB, _, cleanup, err := openStore(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := repository.NewGrantRepo(writeDB).Revoke(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "revoked")
			return nil
		},
	}
}
