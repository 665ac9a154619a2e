package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"paasd/internal/token"
)

// newTokenCmd inspects access tokens without touching the store.
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Access token utilities",
	}
	cmd.AddCommand(newTokenInspectCmd())
	return cmd
}

func newTokenInspectCmd() *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Verify a token and print its identity and group set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				secret = envOr("PAASD_JWT_SECRET", "")
			}
			verifier, err := token.NewHS256Verifier(secret)
			if err != nil {
				return err
			}

			tok, err := verifier.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "identity:    %s\n", tok.Identity)
			if tok.LoginID != "" {
				fmt.Fprintf(out, "login:       %s\n", tok.LoginID)
			}
			fmt.Fprintf(out, "super-admin: %t\n", tok.SuperAdmin)
			fmt.Fprintf(out, "groups:      %s\n", strings.Join(tok.Groups, ", "))
			fmt.Fprintf(out, "issued:      %s\n", tok.IssuedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "expires:     %s\n", tok.ExpiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "HS256 signing secret (or PAASD_JWT_SECRET)")
	return cmd
}
