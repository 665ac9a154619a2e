package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"paasd/internal/domain"
)

// newPermissionsCmd prints the permission catalog.
func newPermissionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "permissions",
		Short: "List the permission catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			perms := domain.Permissions()
			sort.Strings(perms)
			for _, p := range perms {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
