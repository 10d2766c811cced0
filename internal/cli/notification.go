package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/cli/pagination"
	"github.com/hindsight-ai/memctl/internal/client"
)

// newNotificationCmd creates the notification command group.
func newNotificationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notification",
		Aliases: []string{"notifications"},
		Short:   "Read service notifications",
	}
	cmd.AddCommand(newNotificationListCmd(), newNotificationReadCmd(), newNotificationReadAllCmd())
	return cmd
}

func newNotificationListCmd() *cobra.Command {
	var unreadOnly bool
	var pager pagination.Params

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := pager.Validate(); err != nil {
				return err
			}
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			offset, limit := pager.OffsetLimit()
			page, err := c.ListNotifications(cmd.Context(), unreadOnly, client.ListOptions{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return wrapAPIError("listing notifications", err)
			}

			return renderList(cmd, page.Items,
				[]string{"ID", "TYPE", "TITLE", "READ", "CREATED"},
				func(n client.Notification) []string {
					read := ""
					if n.Read {
						read = "yes"
					}
					return []string{
						n.ID, n.EventType,
						truncateCell(n.Title, 50),
						read,
						n.CreatedAt.Format("2006-01-02 15:04"),
					}
				}, "")
		},
	}

	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "show only unread notifications")
	pager.AddFlags(cmd)

	return cmd
}

func newNotificationReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.MarkNotificationRead(cmd.Context(), args[0]); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("notification %s not found", args[0])
				}
				return wrapAPIError("marking notification read", err)
			}

			newNotifier(cmd).Success("notification %s marked read", args[0])
			return nil
		},
	}
}

func newNotificationReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.MarkAllNotificationsRead(cmd.Context()); err != nil {
				return wrapAPIError("marking notifications read", err)
			}

			newNotifier(cmd).Success("all notifications marked read")
			return nil
		},
	}
}
