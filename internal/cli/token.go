package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/client"
)

// newTokenCmd creates the token command group.
func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}
	cmd.AddCommand(newTokenListCmd(), newTokenCreateCmd(), newTokenRevokeCmd())
	return cmd
}

func newTokenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API tokens",
		Long:  "List API tokens. Only the token prefix is shown; secrets are printed once, at creation.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			tokens, err := c.ListTokens(cmd.Context())
			if err != nil {
				return wrapAPIError("listing tokens", err)
			}

			return renderList(cmd, tokens,
				[]string{"ID", "NAME", "PREFIX", "SCOPES", "LAST USED"},
				func(t client.Token) []string {
					lastUsed := "never"
					if t.LastUsedAt != nil {
						lastUsed = t.LastUsedAt.Format("2006-01-02 15:04")
					}
					return []string{
						t.ID, t.Name, t.Prefix,
						strings.Join(t.Scopes, ","),
						lastUsed,
					}
				}, "")
		},
	}
}

func newTokenCreateCmd() *cobra.Command {
	var scopes []string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an API token",
		Long: `Create an API token. The secret is printed exactly once; the
service stores only a hash and cannot show it again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			token, err := c.CreateToken(cmd.Context(), args[0], scopes)
			if err != nil {
				return wrapAPIError("creating token", err)
			}

			if outputFormat() != formatTable {
				return renderJSON(cmd.OutOrStdout(), token)
			}

			cmd.Printf("Token %q created.\n\n", token.Name)
			cmd.Printf("  %s\n\n", token.Secret)
			cmd.PrintErrln("Store this secret now; it will not be shown again.")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scopes, "scope", []string{"read"}, "token scopes (repeatable)")
	return cmd
}

func newTokenRevokeCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "revoke <token-id>",
		Short: "Revoke an API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirmPrompt(cmd, fmt.Sprintf("Revoke token %s? [y/N]: ", args[0])) {
				cmd.PrintErrln("Revocation cancelled.")
				return nil
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.RevokeToken(cmd.Context(), args[0]); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("token %s not found", args[0])
				}
				return wrapAPIError("revoking token", err)
			}

			newNotifier(cmd).Success("token %s revoked", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}
