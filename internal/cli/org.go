package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/cli/pagination"
	"github.com/hindsight-ai/memctl/internal/client"
)

// newOrgCmd creates the org command group.
func newOrgCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organizations and membership",
	}
	cmd.AddCommand(newOrgListCmd(), newOrgCreateCmd(), newOrgMemberCmd())
	return cmd
}

func newOrgListCmd() *cobra.Command {
	var pager pagination.Params

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := pager.Validate(); err != nil {
				return err
			}
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			offset, limit := pager.OffsetLimit()
			page, err := c.ListOrganizations(cmd.Context(), client.ListOptions{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return wrapAPIError("listing organizations", err)
			}

			return renderList(cmd, page.Items,
				[]string{"ID", "NAME", "SLUG", "ACTIVE"},
				func(o client.Organization) []string {
					active := ""
					if o.Active {
						active = "yes"
					}
					return []string{o.ID, o.Name, o.Slug, active}
				}, "")
		},
	}

	pager.AddFlags(cmd)
	return cmd
}

func newOrgCreateCmd() *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			org, err := c.CreateOrganization(cmd.Context(), args[0], slug)
			if err != nil {
				return wrapAPIError("creating organization", err)
			}

			newNotifier(cmd).Success("organization %q created with ID %s", org.Name, org.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&slug, "slug", "", "URL slug (derived from the name when empty)")
	return cmd
}

// newOrgMemberCmd creates the org member subgroup.
func newOrgMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage organization members",
	}
	cmd.AddCommand(
		newOrgMemberListCmd(), newOrgMemberAddCmd(),
		newOrgMemberRoleCmd(), newOrgMemberRemoveCmd(),
	)
	return cmd
}

func newOrgMemberListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <org-id>",
		Short: "List members of an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			members, err := c.ListMembers(cmd.Context(), args[0])
			if err != nil {
				return wrapAPIError("listing members", err)
			}

			return renderList(cmd, members,
				[]string{"USER", "EMAIL", "NAME", "ROLE", "JOINED"},
				func(m client.Member) []string {
					return []string{
						m.UserID, m.Email, m.DisplayName, string(m.Role),
						m.JoinedAt.Format("2006-01-02"),
					}
				}, "")
		},
	}
}

func newOrgMemberAddCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add <org-id> <email>",
		Short: "Invite a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberRole, err := parseMemberRole(role)
			if err != nil {
				return err
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.AddMember(cmd.Context(), args[0], args[1], memberRole); err != nil {
				return wrapAPIError("adding member", err)
			}

			newNotifier(cmd).Success("%s invited to %s as %s", args[1], args[0], memberRole)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(client.RoleViewer), roleFlagUsage())
	return cmd
}

func newOrgMemberRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <org-id> <user-id> <role>",
		Short: "Change a member's role",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberRole, err := parseMemberRole(args[2])
			if err != nil {
				return err
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.UpdateMemberRole(cmd.Context(), args[0], args[1], memberRole); err != nil {
				return wrapAPIError("updating member role", err)
			}

			newNotifier(cmd).Success("%s is now %s in %s", args[1], memberRole, args[0])
			return nil
		},
	}
}

func newOrgMemberRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <org-id> <user-id>",
		Short: "Remove a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirmPrompt(cmd, fmt.Sprintf("Remove %s from %s? [y/N]: ", args[1], args[0])) {
				cmd.PrintErrln("Removal cancelled.")
				return nil
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.RemoveMember(cmd.Context(), args[0], args[1]); err != nil {
				return wrapAPIError("removing member", err)
			}

			newNotifier(cmd).Success("%s removed from %s", args[1], args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

// parseMemberRole validates a role name.
func parseMemberRole(s string) (client.MemberRole, error) {
	role := client.MemberRole(strings.ToLower(s))
	if !client.ValidRole(role) {
		return "", fmt.Errorf("invalid role %q (%s)", s, roleFlagUsage())
	}
	return role, nil
}

func roleFlagUsage() string {
	return "role: owner, admin, editor, or viewer"
}
