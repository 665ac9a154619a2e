package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"paasd/internal/db/repository"
	"paasd/internal/domain"
)

func newResourcesCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Inspect the resource registry",
	}
	cmd.AddCommand(newResourcesListCmd(flags))
	return cmd
}

// newResourcesListCmd runs the same permission-scoped visibility query
// the API serves, from the point of view of a given group set (or
// super-admin with no groups).
func newResourcesListCmd(flags *storeFlags) *cobra.Command {
	var (
		groups     []string
		permission string
		page       uint
		pageSize   uint
	)

	cmd := &cobra.Command{
		Use:   "list <workspace-id> <kind>",
		Short: "List resources visible to a group set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspaceID := args[0]
			kind := domain.ResourceKind(args[1])
			if !kind.Valid() {
				return domain.ErrValidation("unknown resource kind %q", kind)
			}

			writeDB, readDB, cleanup, err := openStore(flags)
			if err != nil {
				return err
			}
			defer cleanup()

			normalized, superAdmin := domain.NormalizeGroups(groups)
			if len(groups) == 0 {
				superAdmin = true // no groups given: inspect as super-admin
			}
			if permission == "" {
				permission = domain.ViewPermission(kind)
			}

			result, err := repository.NewResourceRepo(writeDB, readDB).ListVisible(
				cmd.Context(), workspaceID, kind, normalized, superAdmin, permission,
				domain.PageRequest{Page: page, PageSize: pageSize})
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPATH\tCREATED")
			for _, res := range result.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					res.ID, res.Name, res.Path.String(), res.CreatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", result.Total)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&groups, "group", nil, "group id to list as (repeatable; empty = super-admin)")
	cmd.Flags().StringVar(&permission, "permission", "", "permission to scope by (default: the kind's view permission)")
	cmd.Flags().UintVar(&page, "page", 0, "page number (0-based)")
	cmd.Flags().UintVar(&pageSize, "page-size", 0, "page size")
	return cmd
}
