package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/cli/pagination"
	"github.com/hindsight-ai/memctl/internal/client"
)

// newKeywordCmd creates the keyword command group.
func newKeywordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyword",
		Short: "Manage the keyword vocabulary",
	}
	cmd.AddCommand(
		newKeywordListCmd(), newKeywordCreateCmd(), newKeywordRenameCmd(),
		newKeywordDeleteCmd(), newKeywordAttachCmd(), newKeywordDetachCmd(),
	)
	return cmd
}

func newKeywordListCmd() *cobra.Command {
	var search string
	var pager pagination.Params

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List keywords",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := pager.Validate(); err != nil {
				return err
			}
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			offset, limit := pager.OffsetLimit()
			page, err := c.ListKeywords(cmd.Context(), search, client.ListOptions{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return wrapAPIError("listing keywords", err)
			}

			meta := pagination.NewMeta(pager, page.TotalItems)
			footer := fmt.Sprintf("\n%s keywords (page %d of %d)",
				formatCount(meta.TotalItems), meta.CurrentPage, meta.TotalPages)
			return renderList(cmd, page.Items,
				[]string{"ID", "TEXT", "CREATED"},
				func(k client.Keyword) []string {
					return []string{k.ID, k.Text, k.CreatedAt.Format("2006-01-02")}
				}, footer)
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter keywords by text substring")
	pager.AddFlags(cmd)

	return cmd
}

func newKeywordCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <text>",
		Short: "Create a keyword",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			keyword, err := c.CreateKeyword(cmd.Context(), args[0])
			if err != nil {
				return wrapAPIError("creating keyword", err)
			}

			newNotifier(cmd).Success("keyword %q created with ID %s", keyword.Text, keyword.ID)
			if outputFormat() != formatTable {
				return renderJSON(cmd.OutOrStdout(), keyword)
			}
			return nil
		},
	}
}

func newKeywordRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rename <keyword-id> <new-text>",
		Aliases: []string{"update"},
		Short:   "Rename a keyword",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			keyword, err := c.UpdateKeyword(cmd.Context(), args[0], args[1])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("keyword %s not found", args[0])
				}
				return wrapAPIError("renaming keyword", err)
			}

			newNotifier(cmd).Success("keyword %s renamed to %q", keyword.ID, keyword.Text)
			return nil
		},
	}
}

func newKeywordDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <keyword-id>",
		Short: "Delete a keyword",
		Long: `Delete a keyword from the vocabulary. The keyword is detached
from every memory block that carries it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keywordID := args[0]

			if !force && !confirmPrompt(cmd, fmt.Sprintf("Delete keyword %s? [y/N]: ", keywordID)) {
				cmd.PrintErrln("Deletion cancelled.")
				return nil
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.DeleteKeyword(cmd.Context(), keywordID); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("keyword %s not found", keywordID)
				}
				return wrapAPIError("deleting keyword", err)
			}

			newNotifier(cmd).Success("keyword %s deleted", keywordID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func newKeywordAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <block-id> <keyword-id>",
		Short: "Attach a keyword to a memory block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.AttachKeyword(cmd.Context(), args[0], args[1]); err != nil {
				return wrapAPIError("attaching keyword", err)
			}

			newNotifier(cmd).Success("keyword %s attached to block %s", args[1], args[0])
			return nil
		},
	}
}

func newKeywordDetachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detach <block-id> <keyword-id>",
		Short: "Detach a keyword from a memory block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.DetachKeyword(cmd.Context(), args[0], args[1]); err != nil {
				return wrapAPIError("detaching keyword", err)
			}

			newNotifier(cmd).Success("keyword %s detached from block %s", args[1], args[0])
			return nil
		},
	}
}
